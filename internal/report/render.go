// Package report renders analysis results for people and programs.
package report

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"text/template"

	"readscore/internal/domain"
)

//go:embed templates/*.txt
var templateFS embed.FS

// Format selects how results are written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Renderer writes results and report listings using a label table.
type Renderer struct {
	format    Format
	templates *template.Template
}

func NewRenderer(format Format, labels Labels) (*Renderer, error) {
	funcs := template.FuncMap{
		"label": labels.Get,
	}
	tmpl, err := template.New("report").Funcs(funcs).ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{format: format, templates: tmpl}, nil
}

// Result writes one analysis result.
func (r *Renderer) Result(w io.Writer, result *domain.Result) error {
	if r.format == FormatJSON {
		return writeJSON(w, result)
	}
	return r.templates.ExecuteTemplate(w, "result.txt", result)
}

// Report writes a stored report. Text output is prefixed by its source.
func (r *Renderer) Report(w io.Writer, rep domain.Report) error {
	if r.format == FormatJSON {
		return writeJSON(w, rep)
	}
	if rep.Source != "" {
		if _, err := fmt.Fprintf(w, "== %s ==\n", rep.Source); err != nil {
			return err
		}
	}
	return r.templates.ExecuteTemplate(w, "result.txt", &rep.Result)
}

// History writes a one-line-per-report listing.
func (r *Renderer) History(w io.Writer, reports []domain.Report) error {
	if r.format == FormatJSON {
		if reports == nil {
			reports = []domain.Report{}
		}
		return writeJSON(w, reports)
	}
	return r.templates.ExecuteTemplate(w, "history.txt", reports)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
