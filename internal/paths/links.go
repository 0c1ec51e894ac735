package paths

import (
	"net/url"
	"strings"
)

// RelativeLink returns the link from a page at depth to the directory
// targetDir (slash separated, relative to the destination root; "" or "."
// for the root). The result always ends in "/" and never carries a base
// address, so the same bytes work from a filesystem, a domain root or any
// subdirectory mount. Each target segment is percent-escaped, so a
// directory named "c#" is linked as "c%23/".
//
//	RelativeLink(0, ".")         == "./"
//	RelativeLink(0, "accordion") == "./accordion/"
//	RelativeLink(1, ".")         == "../"
//	RelativeLink(1, "alerts")    == "../alerts/"
func RelativeLink(depth int, targetDir string) string {
	prefix := "./"
	if depth > 0 {
		prefix = strings.Repeat("../", depth)
	}
	targetDir = strings.Trim(targetDir, "/")
	if targetDir == "" || targetDir == "." {
		return prefix
	}
	return prefix + escapeSegments(targetDir) + "/"
}

// RelativeAsset returns the link from a page at depth to a file below the
// destination root, e.g. RelativeAsset(1, "static/css/site.css") ==
// "../static/css/site.css".
func RelativeAsset(depth int, file string) string {
	dir, name := splitLast(strings.TrimLeft(file, "/"))
	return RelativeLink(depth, dir) + url.PathEscape(name)
}

func escapeSegments(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

func splitLast(p string) (string, string) {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return "", p
	}
	return p[:i], p[i+1:]
}
