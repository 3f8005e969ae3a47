package scaffold

import (
	"embed"
	"fmt"
	"io"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var messages = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// NextSteps is rendered after a successful scaffold.
type NextSteps struct {
	Name    string
	Install string
	Dev     string
	// Warnings are overlay or install problems the user should know about.
	Warnings []string
}

// ManualSteps is rendered when the template stage fails.
type ManualSteps struct {
	RepoURL string
	Dirs    []string
	// AddCommand installs the default dependency list.
	AddCommand string
}

// RenderNextSteps writes the next-steps summary.
func RenderNextSteps(w io.Writer, data NextSteps) error {
	return render(w, "next-steps.tmpl", data)
}

// RenderManualSteps writes instructions for adding the template by hand.
func RenderManualSteps(w io.Writer, data ManualSteps) error {
	return render(w, "manual-steps.tmpl", data)
}

func render(w io.Writer, name string, data any) error {
	if err := messages.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	return nil
}
