package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/calderanet/caldera-cli/internal/constants"
	"github.com/calderanet/caldera-cli/internal/templates"
)

// placeholderPattern matches {{variable_name}} markers in template files and
// file names.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// skippedEntries are never copied out of a template directory.
var skippedEntries = map[string]bool{
	constants.TemplateDescriptorFileName: true,
	".git":                               true,
}

// Generator expands a template directory into a target project directory,
// substituting {{placeholder}} variables in file contents and names.
type Generator struct {
	log  *zerolog.Logger
	vars map[string]string
}

// New creates a Generator with the given substitution variables.
// "project_name" is the variable every template can rely on.
func New(log *zerolog.Logger, vars map[string]string) *Generator {
	if vars == nil {
		vars = map[string]string{}
	}
	return &Generator{log: log, vars: vars}
}

// Generate copies the template at templatePath into targetDir/<projectName>,
// applying substitutions. The destination must not already exist.
func (g *Generator) Generate(tmpl templates.Template, targetDir, projectName string) (string, error) {
	dest := filepath.Join(targetDir, projectName)
	if _, err := os.Stat(dest); err == nil {
		return "", fmt.Errorf("target directory already exists: %s", dest)
	}

	if err := g.copyTree(tmpl.Path(), dest); err != nil {
		// A half-written project is worse than none, clear it out.
		_ = os.RemoveAll(dest)
		return "", err
	}

	g.log.Debug().Str("template", tmpl.ID()).Str("dest", dest).Msg("Generated project from template")
	return dest, nil
}

func (g *Generator) copyTree(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to read template directory %s: %w", src, err)
	}

	if err := os.MkdirAll(dest, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dest, err)
	}

	for _, entry := range entries {
		if skippedEntries[entry.Name()] {
			continue
		}

		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, g.substitute(entry.Name()))

		if entry.IsDir() {
			if err := g.copyTree(srcPath, destPath); err != nil {
				return err
			}
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}

		content, err := os.ReadFile(srcPath)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", srcPath, err)
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("failed to stat template file %s: %w", srcPath, err)
		}

		rendered := []byte(g.substitute(string(content)))
		if err := os.WriteFile(destPath, rendered, info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to write %s: %w", destPath, err)
		}
	}

	return nil
}

// substitute replaces {{key}} markers with their configured values. Unknown
// markers are left untouched so template authors notice them in the output.
func (g *Generator) substitute(s string) string {
	if !strings.Contains(s, "{{") {
		return s
	}

	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := g.vars[key]; ok {
			return value
		}
		return match
	})
}
