package templates

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"reflect"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var errShowCodeUnbound = errors.New("showCode is only available in templates parsed by a Renderer")

// breakpoints are the Bootstrap grid tiers, smallest first.
var breakpoints = []string{"xs", "sm", "md", "lg", "xl", "xxl"}

// Funcs returns the helper functions available to every template. showCode
// is bound per parsed set by the Renderer; the entry here only reserves the
// name so templates parse.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"prefix":       prefix,
		"postfix":      postfix,
		"split":        split,
		"slotIsEmpty":  slotIsEmpty,
		"beautifyHTML": beautifyHTML,
		"responsive":   responsive,
		"dict":         dict,
		"markdown":     markdown,
		"title":        title,
		"prettyHTML":   PrettyHTML,
		"showCode": func(string, any) (CodeSample, error) {
			return CodeSample{}, errShowCodeUnbound
		},
	}
}

// prefix joins arg and value with a dash; an empty value yields "".
//
//	{{ "primary" | prefix "btn" }} → btn-primary
func prefix(arg string, value any) string {
	s := toString(value)
	if s == "" {
		return ""
	}
	return arg + "-" + s
}

// postfix joins value and arg with a dash; an empty value yields "".
//
//	{{ "hello" | postfix "world" }} → hello-world
func postfix(arg string, value any) string {
	s := toString(value)
	if s == "" {
		return ""
	}
	return s + "-" + arg
}

// split splits value on sep, or on "," when sep is empty.
func split(sep, value string) []string {
	if sep == "" {
		sep = ","
	}
	return strings.Split(value, sep)
}

// slotIsEmpty reports whether a slot holds nothing but whitespace. Values
// that are neither strings nor HTML are never empty, except nil.
func slotIsEmpty(slot any) bool {
	switch v := slot.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case template.HTML:
		return strings.TrimSpace(string(v)) == ""
	}
	return false
}

// beautifyHTML removes the common leading indentation of s and strips
// leading and trailing blank lines.
func beautifyHTML(s string) string {
	return strings.Trim(dedent(s), "\n")
}

// responsive builds Bootstrap tier classes from attrs, in tier order:
// responsive "col" {"md": 6, "lg": 4} → "col-md-6 col-lg-4".
func responsive(root string, attrs map[string]any) string {
	parts := make([]string, 0, len(breakpoints))
	for _, bp := range breakpoints {
		v, ok := attrs[bp]
		if !ok || v == nil {
			continue
		}
		parts = append(parts, root+"-"+bp+"-"+toString(v))
	}
	return strings.Join(parts, " ")
}

// dict builds a map from alternating keys and values so partials can be
// called with named arguments.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments (%d)", len(pairs))
	}
	out := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is %T, not string", pairs[i], pairs[i])
		}
		out[key] = pairs[i+1]
	}
	return out, nil
}

// markdown converts CommonMark source to HTML. The input is dedented first so
// indented blocks inside templates do not turn into code blocks.
func markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert([]byte(beautifyHTML(src)), &buf); err != nil {
		return "", fmt.Errorf("markdown: %w", err)
	}
	// #nosec G203 -- template authors own the markdown source.
	return template.HTML(buf.String()), nil
}

func title(s string) string {
	return cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(s))
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case template.HTML:
		return string(s)
	case fmt.Stringer:
		return s.String()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return ""
	}
	return fmt.Sprint(v)
}

// dedent removes the longest run of leading spaces and tabs shared by every
// non-blank line. Blank lines are normalized to empty.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	margin := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			margin, first = indent, false
			continue
		}
		margin = commonPrefix(margin, indent)
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
