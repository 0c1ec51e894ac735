package templates

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrefixPostfix(t *testing.T) {
	require.Equal(t, "btn-primary", prefix("btn", "primary"))
	require.Equal(t, "", prefix("btn", ""))
	require.Equal(t, "", prefix("btn", nil))
	require.Equal(t, "col-6", prefix("col", 6))
	require.Equal(t, "hello-world", postfix("world", "hello"))
	require.Equal(t, "", postfix("world", ""))
}

func TestSplit(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, split("", "a,b,c"))
	require.Equal(t, []string{"a", "b"}, split("|", "a|b"))
}

func TestSlotIsEmpty(t *testing.T) {
	tests := []struct {
		slot any
		want bool
	}{
		{nil, true},
		{"", true},
		{"  \n\t ", true},
		{template.HTML("\n  "), true},
		{"<p>x</p>", false},
		{template.HTML("<b>x</b>"), false},
		{42, false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, slotIsEmpty(tt.slot), "slotIsEmpty(%#v)", tt.slot)
	}
}

func TestBeautifyHTML(t *testing.T) {
	in := "\n\n    <div>\n        <p>Hello</p>\n\n    </div>\n  "
	require.Equal(t, "<div>\n    <p>Hello</p>\n\n</div>", beautifyHTML(in))
	require.Equal(t, "<div>\n    <p>Hello</p>\n</div>", beautifyHTML("    <div>\n        <p>Hello</p>\n    </div>"))
	require.Equal(t, "a\n b", beautifyHTML("\ta\n\t b"))
}

func TestResponsive(t *testing.T) {
	attrs := map[string]any{"lg": "4", "md": 6, "xs": nil, "class": "ignored"}
	require.Equal(t, "col-md-6 col-lg-4", responsive("col", attrs))
	require.Equal(t, "", responsive("col", nil))
}

func TestDict(t *testing.T) {
	m, err := dict("variant", "primary", "dismissible", true)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"variant": "primary", "dismissible": true}, m)

	_, err = dict("odd")
	require.Error(t, err)
	_, err = dict(1, "x")
	require.Error(t, err)
}

func TestMarkdown(t *testing.T) {
	out, err := markdown("\n    # Alerts\n\n    Use *alerts* for feedback.\n")
	require.NoError(t, err)
	require.Equal(t, template.HTML("<h1>Alerts</h1>\n<p>Use <em>alerts</em> for feedback.</p>\n"), out)
}

func TestTitle(t *testing.T) {
	require.Equal(t, "Button Group", title("button-group"))
	require.Equal(t, "List Group Item", title("list_group item"))
}
