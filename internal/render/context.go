package render

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/cottonsite/internal/paths"
	"git.home.luguber.info/inful/cottonsite/internal/routes"
)

// Site carries build-wide values every page can read.
type Site struct {
	Title       string
	Description string
	Params      map[string]any
}

// NavEntry is one link of the site navigation as seen from a given page.
type NavEntry struct {
	Name   string
	Title  string
	URL    string
	Active bool
}

// idNamespace seeds GenID so ids are stable across builds.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("cottonsite:genid"))

// PageContext is the data a Renderer executes against for one page. Its
// methods are the only way templates build links, so every link on the page
// is relative to the page's own output location.
type PageContext struct {
	Page routes.PageRecord
	Site Site

	index   *paths.Index
	pages   []routes.PageRecord
	linkErr []error
	ids     map[string]int
}

// NewPageContext returns the context for page p. idx and pages must come from
// the same expansion.
func NewPageContext(p routes.PageRecord, site Site, idx *paths.Index, pages []routes.PageRecord) *PageContext {
	return &PageContext{
		Page:  p,
		Site:  site,
		index: idx,
		pages: pages,
		ids:   make(map[string]int),
	}
}

// URL returns the relative link from this page to the page named target.
// Unknown targets fail the page even if the caller ignores the error.
func (pc *PageContext) URL(target string) (string, error) {
	link, err := pc.index.Link(pc.Page, target)
	if err != nil {
		pc.linkErr = append(pc.linkErr, err)
		return "", err
	}
	return link, nil
}

// Static returns the relative link to a file under the shared asset directory.
func (pc *PageContext) Static(asset string) string {
	return paths.RelativeAsset(pc.Page.Depth, paths.StaticDir+"/"+strings.TrimLeft(asset, "/"))
}

// Root returns the relative link to the destination root.
func (pc *PageContext) Root() string {
	return paths.RelativeLink(pc.Page.Depth, ".")
}

// IsRoot reports whether this page is written at the destination root.
func (pc *PageContext) IsRoot() bool {
	return pc.Page.Depth == 0
}

// Param returns the page parameter called key, or nil.
func (pc *PageContext) Param(key string) any {
	return pc.Page.Params[key]
}

// SiteParam returns the site parameter called key, or nil.
func (pc *PageContext) SiteParam(key string) any {
	return pc.Site.Params[key]
}

// Title returns the display title of the page.
func (pc *PageContext) Title() string {
	return pageTitle(pc.Page)
}

// GenID returns an element id unique within the page. Ids are derived from
// the page name, prefix and call order, so an unchanged page renders the same
// ids on every build. length is clamped to [4, 32] hex characters.
func (pc *PageContext) GenID(prefix string, length int) string {
	length = min(max(length, 4), 32)
	n := pc.ids[prefix]
	pc.ids[prefix] = n + 1

	id := uuid.NewSHA1(idNamespace, []byte(pc.Page.Name+"\x00"+prefix+"\x00"+strconv.Itoa(n)))
	hex := strings.ReplaceAll(id.String(), "-", "")[:length]
	if prefix == "" {
		return hex
	}
	return prefix + "-" + hex
}

// Nav returns one entry per page in registry order, linked from this page.
func (pc *PageContext) Nav() []NavEntry {
	out := make([]NavEntry, 0, len(pc.pages))
	for _, p := range pc.pages {
		out = append(out, NavEntry{
			Name:   p.Name,
			Title:  pageTitle(p),
			URL:    paths.RelativeLink(pc.Page.Depth, p.Dir()),
			Active: p.Name == pc.Page.Name,
		})
	}
	return out
}

// LinkErrors returns the link failures recorded while rendering.
func (pc *PageContext) LinkErrors() []error {
	return pc.linkErr
}

func pageTitle(p routes.PageRecord) string {
	if t, ok := p.Params["title"].(string); ok && t != "" {
		return t
	}
	return cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(p.Name))
}
