package report

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"text/template"
)

// Engine executes named report templates.
type Engine interface {
	Execute(w io.Writer, name string, data any) error
}

// TextTemplateEngine loads built-in templates first, then templates from an
// optional directory. A directory template replaces a built-in one with the
// same relative path.
type TextTemplateEngine struct {
	templates *template.Template
}

func NewEngine(embedded fs.FS, customDir string, funcs template.FuncMap) (*TextTemplateEngine, error) {
	e := &TextTemplateEngine{templates: template.New("").Funcs(funcs)}

	if err := e.parseFS(embedded); err != nil {
		return nil, fmt.Errorf("loading embedded templates: %w", err)
	}

	if customDir != "" {
		err := e.parseFS(os.DirFS(customDir))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading custom templates from %s: %w", customDir, err)
		}
	}

	return e, nil
}

func (e *TextTemplateEngine) parseFS(fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".tmpl") {
			return nil
		}
		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", path, err)
		}
		if _, err := e.templates.New(path).Parse(string(content)); err != nil {
			return fmt.Errorf("parsing template %s: %w", path, err)
		}
		return nil
	})
}

func (e *TextTemplateEngine) Execute(w io.Writer, name string, data any) error {
	tmpl := e.templates.Lookup(name)
	if tmpl == nil {
		return fmt.Errorf("template not found: %s", name)
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}
	return nil
}
