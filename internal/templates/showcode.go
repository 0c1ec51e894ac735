package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// CodeSample is a named snippet template rendered next to its own source.
type CodeSample struct {
	Name string

	// Source is the snippet's template source, dedented.
	Source string

	// Rendered is the snippet's output, ready to embed in the page.
	Rendered template.HTML

	// HTML is Rendered re-indented for display.
	HTML string
}

// snippetSources records the source of every template in set. It must run
// before the first execution because escaping rewrites the parse trees.
func snippetSources(set *template.Template) map[string]string {
	out := make(map[string]string)
	for _, t := range set.Templates() {
		if t.Tree == nil || t.Tree.Root == nil {
			continue
		}
		out[t.Name()] = t.Tree.Root.String()
	}
	return out
}

// bindShowCode installs the showCode function for set.
//
//	{{ with showCode "alerts/basic" . }}{{ template "partials/code_sample.html" . }}{{ end }}
func bindShowCode(set *template.Template, sources map[string]string) {
	set.Funcs(template.FuncMap{
		"showCode": func(name string, data any) (CodeSample, error) {
			src, ok := sources[name]
			if !ok {
				return CodeSample{}, fmt.Errorf("showCode: no template %q", name)
			}
			var buf bytes.Buffer
			if err := set.ExecuteTemplate(&buf, name, data); err != nil {
				return CodeSample{}, fmt.Errorf("showCode %q: %w", name, err)
			}
			pretty, err := PrettyHTML(buf.String())
			if err != nil {
				return CodeSample{}, fmt.Errorf("showCode %q: %w", name, err)
			}
			return CodeSample{
				Name:   name,
				Source: beautifyHTML(src),
				// #nosec G203 -- output of an html/template execution.
				Rendered: template.HTML(buf.String()),
				HTML:     pretty,
			}, nil
		},
	})
}
