package templates

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Descriptor is the raw contents of a template.toml file.
type Descriptor struct {
	Name        string            `toml:"name"`
	Description string            `toml:"description"`
	Extra       map[string]string `toml:"extra"`
}

// ParseError means a descriptor file was syntactically invalid or missing a
// required field. During a catalog scan these are skipped, not fatal.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid template descriptor: %v", e.Err)
	}
	return fmt.Sprintf("invalid template descriptor %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseDescriptor parses one descriptor file. Unknown keys outside [extra]
// are ignored; keys inside [extra] are preserved verbatim, their meaning is
// the generation engine's business.
func ParseDescriptor(content []byte) (*Descriptor, error) {
	var d Descriptor
	if err := toml.Unmarshal(content, &d); err != nil {
		return nil, &ParseError{Err: err}
	}

	if d.Name == "" {
		return nil, &ParseError{Err: errors.New("missing required field 'name'")}
	}
	if d.Description == "" {
		return nil, &ParseError{Err: errors.New("missing required field 'description'")}
	}

	if d.Extra == nil {
		d.Extra = map[string]string{}
	}

	return &d, nil
}
