package linkverify

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/cottonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/cottonsite/internal/logfields"
)

// ErrBrokenLinks is returned by Verify when at least one link does not
// resolve inside the site.
var ErrBrokenLinks = stderrors.New("broken links in generated site")

// BrokenLink is one link that does not resolve inside the site.
type BrokenLink struct {
	Page   string // page file, slash separated, relative to the site root
	URL    string
	Tag    string
	Reason string
}

// Result summarizes a verification run.
type Result struct {
	Pages  int
	Links  int
	Broken []BrokenLink
}

// OK reports whether no broken link was found.
func (r *Result) OK() bool {
	return len(r.Broken) == 0
}

// WriteSummary writes one line per broken link.
func (r *Result) WriteSummary(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "pages=%d links=%d broken=%d\n", r.Pages, r.Links, len(r.Broken))
	for _, bl := range r.Broken {
		fmt.Fprintf(&b, "  BROKEN %s: <%s> %s (%s)\n", bl.Page, bl.Tag, bl.URL, bl.Reason)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Verify parses every .html file under root and checks that each relative
// link names an existing file inside root. Links ending in "/" resolve to
// the directory's index.html. Root-absolute links are reported as broken
// because they do not survive a subdirectory mount; external, fragment and
// special links are not checked.
func Verify(ctx context.Context, root string) (*Result, error) {
	var pages []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		pages = append(pages, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return VerifyPages(ctx, root, pages)
}

// VerifyPages checks the links of the listed pages only (slash separated,
// relative to root). Link targets may be any file under root. A build uses
// it with the pages it wrote, so stale pages left in the destination are not
// parsed.
func VerifyPages(ctx context.Context, root string, pages []string) (*Result, error) {
	res := &Result{}
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := res.checkPage(root, page); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(res.Broken, func(i, j int) bool { return res.Broken[i].Page < res.Broken[j].Page })
	slog.Debug("Link verification finished",
		logfields.Destination(root),
		slog.Int("pages", res.Pages),
		slog.Int("links", res.Links),
		slog.Int("broken", len(res.Broken)))

	if !res.OK() {
		return res, errors.LinkError("link verification failed").
			WithCause(fmt.Errorf("%w: %d", ErrBrokenLinks, len(res.Broken))).
			WithContext("broken", len(res.Broken)).
			WithContext("destination", root).
			Build()
	}
	return res, nil
}

func (r *Result) checkPage(root, page string) error {
	links, err := ExtractLinks(filepath.Join(root, filepath.FromSlash(page)))
	if err != nil {
		return err
	}
	r.Pages++
	for _, l := range links {
		switch l.Kind {
		case KindRelative:
			r.Links++
			if reason := resolve(root, path.Dir(page), l.URL); reason != "" {
				r.Broken = append(r.Broken, BrokenLink{Page: page, URL: l.URL, Tag: l.Tag, Reason: reason})
			}
		case KindRootAbsolute:
			r.Links++
			r.Broken = append(r.Broken, BrokenLink{Page: page, URL: l.URL, Tag: l.Tag, Reason: "root-absolute link"})
		}
	}
	return nil
}

// resolve returns "" when link, relative to pageDir, names an existing file
// under root, or the reason it does not.
func resolve(root, pageDir, link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return "unparseable link"
	}
	target := u.Path
	if target == "" {
		// "?q" or "#frag" only; the page itself.
		return ""
	}
	joined := path.Join(pageDir, target)
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return "escapes site root"
	}
	if strings.HasSuffix(target, "/") || target == "." || target == ".." {
		joined = path.Join(joined, "index.html")
	}
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(joined)))
	if err != nil {
		return "missing " + joined
	}
	if info.IsDir() {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(joined), "index.html")); err != nil {
			return "directory without index.html: " + joined
		}
	}
	return ""
}
