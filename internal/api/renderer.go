package api

import (
	"embed"
	"html/template"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateRenderer renders the embedded pages by file name.
type TemplateRenderer struct {
	templates *template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"number": formatNumber,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{templates: t}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// formatNumber prints v without a trailing ".0" for whole numbers.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
