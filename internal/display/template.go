package display

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs is the sprig library plus the gauges from this package.
var templateFuncs = func() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["bar"] = Bar
	fm["shortbar"] = ShortBar
	return fm
}()

// Template is a parsed output template.
type Template struct {
	tmpl *template.Template
}

// ParseTemplate parses tmplStr with the display function set.
func ParseTemplate(name, tmplStr string) (*Template, error) {
	tmpl, err := template.New(name).Funcs(templateFuncs).Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("parsing template %q: %w", name, err)
	}
	return &Template{tmpl: tmpl}, nil
}

// MustParseTemplate is ParseTemplate for package-level templates.
func MustParseTemplate(name, tmplStr string) *Template {
	t, err := ParseTemplate(name, tmplStr)
	if err != nil {
		panic(err)
	}
	return t
}

// Execute renders the template against data.
func (t *Template) Execute(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %q: %w", t.tmpl.Name(), err)
	}
	return buf.String(), nil
}

// Expand parses and renders tmplStr in one step.
func Expand(tmplStr string, data any) (string, error) {
	t, err := ParseTemplate("", tmplStr)
	if err != nil {
		return "", err
	}
	return t.Execute(data)
}
