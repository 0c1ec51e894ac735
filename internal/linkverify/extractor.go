// Package linkverify checks that every link in a generated site resolves to
// a file inside the site.
package linkverify

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/cottonsite/internal/foundation/errors"
)

// Kind classifies a link by how it is resolved.
type Kind string

const (
	// KindRelative links resolve against the page's own directory.
	KindRelative Kind = "relative"
	// KindRootAbsolute links start with "/" and break under a subdirectory mount.
	KindRootAbsolute Kind = "root-absolute"
	// KindExternal links carry a scheme or host.
	KindExternal Kind = "external"
	// KindFragment links point inside the same page.
	KindFragment Kind = "fragment"
	// KindSpecial covers mailto:, tel:, javascript: and data: links.
	KindSpecial Kind = "special"
)

// Link represents an extracted link from HTML content.
type Link struct {
	URL       string // The URL or path
	Text      string // Link text/title
	Tag       string // HTML tag (a, img, script, link, etc.)
	Attribute string // Attribute containing the link (href, src, etc.)
	Kind      Kind
	Line      int // Approximate element index in the document
}

// ExtractLinks extracts all links from an HTML file.
func ExtractLinks(htmlPath string) ([]*Link, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open HTML file").WithContext("html_path", htmlPath).Build()
	}
	defer func() {
		_ = file.Close() // Ignore close errors on read-only operation
	}()

	return ExtractLinksFromReader(file)
}

// ExtractLinksFromReader extracts all links from an HTML reader.
func ExtractLinksFromReader(r io.Reader) ([]*Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").Build()
	}

	var links []*Link
	var lineNum int

	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			lineNum++
			extractElementLinks(n, &links, lineNum)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}

	extract(doc)
	return links, nil
}

// linkAttrs maps elements to the attribute carrying their link.
var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"area":   "href",
	"img":    "src",
	"script": "src",
	"iframe": "src",
	"video":  "src",
	"audio":  "src",
	"source": "src",
}

// extractElementLinks extracts links from a single HTML element.
func extractElementLinks(n *html.Node, links *[]*Link, lineNum int) {
	attr, ok := linkAttrs[n.Data]
	if !ok {
		return
	}
	val := getAttr(n, attr)
	if val == "" {
		return
	}

	var text string
	switch n.Data {
	case "a":
		text = extractText(n)
	case "img":
		text = getAttr(n, "alt")
	case "link":
		text = getAttr(n, "rel")
	}

	*links = append(*links, &Link{
		URL:       val,
		Text:      text,
		Tag:       n.Data,
		Attribute: attr,
		Kind:      classify(val),
		Line:      lineNum,
	})
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// extractText extracts text content from an HTML node and its children.
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}

	return strings.TrimSpace(text.String())
}

func classify(linkURL string) Kind {
	switch {
	case strings.HasPrefix(linkURL, "#"):
		return KindFragment
	case strings.HasPrefix(linkURL, "mailto:"),
		strings.HasPrefix(linkURL, "tel:"),
		strings.HasPrefix(linkURL, "javascript:"),
		strings.HasPrefix(linkURL, "data:"):
		return KindSpecial
	case strings.HasPrefix(linkURL, "//"):
		return KindExternal
	case strings.HasPrefix(linkURL, "/"):
		return KindRootAbsolute
	}

	u, err := url.Parse(linkURL)
	if err != nil {
		return KindRelative
	}
	if u.Scheme != "" || u.Host != "" {
		return KindExternal
	}
	return KindRelative
}

// FilterLinks returns the links of the given kinds.
func FilterLinks(links []*Link, kinds ...Kind) []*Link {
	var filtered []*Link
	for _, link := range links {
		for _, k := range kinds {
			if link.Kind == k {
				filtered = append(filtered, link)
				break
			}
		}
	}
	return filtered
}
