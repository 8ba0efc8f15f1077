package providers

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"promod/internal/structures"
	"promod/internal/templates"
)

type TemplateProviderInterface interface {
	Render(w io.Writer, name string, data any) error
}

type TemplateProvider struct {
	tpl *template.Template
}

// templateFuncs marks payload HTML as safe. Notices come from the plugin
// author's own endpoint and are emitted unescaped.
var templateFuncs = template.FuncMap{
	"trusted": func(s string) template.HTML {
		return template.HTML(s) //nolint:gosec
	},
}

func NewTemplateProvider(conf *structures.Config) (TemplateProviderInterface, error) {
	var source fs.FS = templates.FS
	if conf.Promo.TemplateDir != "" {
		source = os.DirFS(conf.Promo.TemplateDir)
	}
	return NewTemplateProviderFS(source)
}

func NewTemplateProviderFS(source fs.FS) (*TemplateProvider, error) {
	tpl, err := template.New("").Funcs(templateFuncs).ParseFS(source, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &TemplateProvider{tpl: tpl}, nil
}

func (t *TemplateProvider) Render(w io.Writer, name string, data any) error {
	if t.tpl.Lookup(name) == nil {
		return fmt.Errorf("template %s not found", name)
	}
	return t.tpl.ExecuteTemplate(w, name, data)
}
