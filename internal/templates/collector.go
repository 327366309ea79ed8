package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/calderanet/caldera-cli/internal/constants"
)

// CollectError means the directory walk itself failed (permissions, I/O).
// Unlike a bad descriptor, this aborts the whole collection: if the tree
// cannot be read reliably, a partial catalog would be misleading.
type CollectError struct {
	Path string
	Err  error
}

func (e *CollectError) Error() string {
	return fmt.Sprintf("failed to scan %s: %v", e.Path, e.Err)
}

func (e *CollectError) Unwrap() error {
	return e.Err
}

// Collector discovers templates beneath a root directory. Every call to
// Collect re-scans from scratch; there is no incremental state.
type Collector struct {
	log     *zerolog.Logger
	root    string
	skipped int
}

// NewCollector returns a Collector rooted at root, typically a synchronized
// mirror path joined with the configured template folder.
func NewCollector(log *zerolog.Logger, root string) *Collector {
	return &Collector{
		log:  log,
		root: root,
	}
}

// Collect walks the tree and returns every template found, in a stable
// order: a directory's own descriptor first, then its subdirectories
// depth-first in lexicographic order.
//
// The walk uses an explicit work list rather than call-stack recursion, and
// does not follow symbolic links, so cyclic link structures cannot loop it.
// A descriptor that fails to parse is logged, counted and skipped; one bad
// template must not hide the good ones. Directory read failures abort with a
// CollectError.
func (c *Collector) Collect() ([]Template, error) {
	c.skipped = 0

	info, err := os.Stat(c.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// A repository without the configured folder simply has no
			// templates to offer.
			return []Template{}, nil
		}
		return nil, &CollectError{Path: c.root, Err: err}
	}
	if !info.IsDir() {
		return []Template{}, nil
	}

	result := []Template{}
	pending := []string{c.root}

	for len(pending) > 0 {
		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, &CollectError{Path: dir, Err: err}
		}

		var subdirs []string
		for _, entry := range entries {
			// DirEntry types come from lstat, so symlinked directories never
			// report IsDir and are skipped along with other non-directories.
			if entry.IsDir() {
				subdirs = append(subdirs, filepath.Join(dir, entry.Name()))
				continue
			}

			if entry.Name() != constants.TemplateDescriptorFileName {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, &CollectError{Path: path, Err: err}
			}

			descriptor, err := ParseDescriptor(content)
			if err != nil {
				c.skipped++
				c.log.Warn().Err(err).Str("path", path).Msg("Skipping unparsable template descriptor")
				continue
			}

			result = append(result, NewTemplate(descriptor, dir))
		}

		// Pushed in reverse so the lexicographically first subdirectory is
		// walked next (os.ReadDir returns entries sorted by name).
		for i := len(subdirs) - 1; i >= 0; i-- {
			pending = append(pending, subdirs[i])
		}
	}

	return result, nil
}

// Skipped reports how many descriptors the last Collect pass rejected.
func (c *Collector) Skipped() int {
	return c.skipped
}

// FindByID returns the catalog entry matching id. When several templates
// normalize to the same id, the last discovered one wins; callers can
// disambiguate by Path if they need to.
func FindByID(catalog []Template, id string) (Template, bool) {
	var (
		found Template
		ok    bool
	)
	for _, t := range catalog {
		if t.ID() == id {
			found = t
			ok = true
		}
	}
	return found, ok
}

// IDs lists the ids present in the catalog, in discovery order.
func IDs(catalog []Template) []string {
	ids := make([]string, 0, len(catalog))
	for _, t := range catalog {
		ids = append(ids, t.ID())
	}
	return ids
}
