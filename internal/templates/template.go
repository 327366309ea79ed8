package templates

import (
	"fmt"

	"github.com/iancoleman/strcase"
)

// Template is one catalog entry: a parsed descriptor paired with the
// directory it was found in. Immutable once constructed.
type Template struct {
	id          string
	name        string
	description string
	path        string
	extra       map[string]string
}

// NewTemplate builds a catalog entry from a parsed descriptor and its
// containing directory. The id is the snake_case form of the declared name
// and serves as the stable lookup key for --template matching.
func NewTemplate(d *Descriptor, dir string) Template {
	extra := make(map[string]string, len(d.Extra))
	for k, v := range d.Extra {
		extra[k] = v
	}

	return Template{
		id:          strcase.ToSnake(d.Name),
		name:        d.Name,
		description: d.Description,
		path:        dir,
		extra:       extra,
	}
}

func (t Template) ID() string {
	return t.id
}

func (t Template) Name() string {
	return t.name
}

func (t Template) Description() string {
	return t.description
}

// Path is the directory containing the descriptor file.
func (t Template) Path() string {
	return t.path
}

// Extra returns a copy of the descriptor's free-form extension map.
func (t Template) Extra() map[string]string {
	extra := make(map[string]string, len(t.extra))
	for k, v := range t.extra {
		extra[k] = v
	}
	return extra
}

// ExtraValue looks up a single extension key.
func (t Template) ExtraValue(key string) (string, bool) {
	v, ok := t.extra[key]
	return v, ok
}

// String renders the template for interactive selection lists.
func (t Template) String() string {
	return fmt.Sprintf("%s - %s", t.name, t.description)
}
