package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/grecsai/grecs/internal/export"
	"github.com/grecsai/grecs/internal/study"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format(export.DateLayout) },
	"modeLabel": func(m study.Mode) string {
		return m.Label()
	},
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")
}
