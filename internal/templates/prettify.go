package templates

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const indentUnit = "  "

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// PrettyHTML re-indents an HTML fragment with one element or text run per
// line. Whitespace-only text is dropped; pre, textarea, script and style keep
// their contents verbatim.
func PrettyHTML(fragment string) (string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, n := range nodes {
		if err := writeNode(&b, n, 0); err != nil {
			return "", err
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func writeNode(b *strings.Builder, n *html.Node, depth int) error {
	indent := strings.Repeat(indentUnit, depth)
	switch n.Type {
	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return nil
		}
		b.WriteString(indent)
		b.WriteString(html.EscapeString(collapseSpace(text)))
		b.WriteByte('\n')
	case html.CommentNode:
		b.WriteString(indent + "<!--" + n.Data + "-->\n")
	case html.DoctypeNode:
		b.WriteString(indent + "<!DOCTYPE " + n.Data + ">\n")
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := writeNode(b, c, depth); err != nil {
				return err
			}
		}
	case html.ElementNode:
		b.WriteString(indent)
		writeStartTag(b, n)
		if voidElements[n.Data] {
			b.WriteByte('\n')
			return nil
		}
		switch {
		case n.FirstChild == nil:
		case isVerbatim(n.Data):
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if err := html.Render(b, c); err != nil {
					return err
				}
			}
		default:
			b.WriteByte('\n')
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if err := writeNode(b, c, depth+1); err != nil {
					return err
				}
			}
			b.WriteString(indent)
		}
		b.WriteString("</" + n.Data + ">\n")
	}
	return nil
}

func writeStartTag(b *strings.Builder, n *html.Node) {
	b.WriteString("<" + n.Data)
	for _, a := range n.Attr {
		b.WriteByte(' ')
		if a.Namespace != "" {
			b.WriteString(a.Namespace + ":")
		}
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
	b.WriteByte('>')
}

func isVerbatim(tag string) bool {
	switch tag {
	case "pre", "textarea", "script", "style":
		return true
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
