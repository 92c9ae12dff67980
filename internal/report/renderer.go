package report

import (
	"fmt"
	"io"
	"strings"
	texttemplate "text/template"

	"github.com/kolah/swagcheck/internal/template"
	embeddedtmpl "github.com/kolah/swagcheck/templates"
	"github.com/logrusorgru/aurora/v3"
	"go.yaml.in/yaml/v4"
)

const (
	FormatYAML = "yaml"
	FormatText = "text"
)

// Formats lists the supported output formats.
var Formats = []string{FormatYAML, FormatText}

const textTemplate = "report/text.tmpl"

type Renderer struct {
	engine Engine
	au     aurora.Aurora
}

// NewRenderer loads the built-in templates and any overrides found in
// customDir. Colour escapes are emitted only when color is set.
func NewRenderer(customDir string, color bool) (*Renderer, error) {
	au := aurora.NewAurora(color)
	engine, err := NewEngine(embeddedtmpl.FS, customDir, funcs(au))
	if err != nil {
		return nil, fmt.Errorf("creating template engine: %w", err)
	}
	return &Renderer{engine: engine, au: au}, nil
}

func (r *Renderer) Render(w io.Writer, format string, rep *Report) error {
	switch format {
	case FormatYAML:
		return writeYAML(w, rep)
	case FormatText:
		return r.engine.Execute(w, textTemplate, rep)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// OperationLine renders one operation of the operation sequence.
func (r *Renderer) OperationLine(op *template.OperationTemplate) string {
	line := fmt.Sprintf("%s %s params=%v responses=%v",
		r.au.Bold(r.au.Cyan(op.Verb().Upper())), op.Path(), op.ParameterNames(), op.ResponseCodes())
	if op.HasDefaultResponse() {
		line += " " + r.au.Faint("+default").String()
	}
	if n := len(op.Skips()); n > 0 {
		line += " " + r.au.Yellow(fmt.Sprintf("skipped=%d", n)).String()
	}
	return line
}

func writeYAML(w io.Writer, rep *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}

func funcs(au aurora.Aurora) texttemplate.FuncMap {
	return texttemplate.FuncMap{
		"bold":  func(s string) string { return au.Bold(s).String() },
		"faint": func(s string) string { return au.Faint(s).String() },
		"warn":  func(s string) string { return au.Yellow(s).String() },
		"path":  func(s string) string { return au.Bold(au.Green(s)).String() },
		"verb": func(s string) string {
			return au.Bold(au.Cyan(fmt.Sprintf("%-6s", strings.ToUpper(s)))).String()
		},
		"kind": func(k string) string {
			switch k {
			case template.KindUnsupported.String():
				return au.Red(k).String()
			case template.KindRecursive.String():
				return au.Magenta(k).String()
			default:
				return au.Faint(k).String()
			}
		},
		"indent": func(n int) string { return strings.Repeat("  ", n) },
		"codes": func(codes []int) string {
			parts := make([]string, len(codes))
			for i, c := range codes {
				parts[i] = fmt.Sprint(c)
			}
			return strings.Join(parts, ",")
		},
	}
}
