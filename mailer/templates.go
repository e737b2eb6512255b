package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/django/v3"
)

//go:embed templates
var templatesFS embed.FS

// Templates renders the embedded email bodies.
type Templates struct {
	engine *django.Engine
}

// LoadTemplates parses the embedded template tree once, at wiring time.
func LoadTemplates() (*Templates, error) {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("mailer: templates missing from binary: %w", err)
	}

	engine := django.NewFileSystem(http.FS(sub), ".html")
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("mailer: failed to parse templates: %w", err)
	}

	return &Templates{engine: engine}, nil
}

// Render produces the HTML body for the named template.
func (t *Templates) Render(name string, binding map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := t.engine.Render(&buf, name, binding); err != nil {
		return "", fmt.Errorf("mailer: failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
