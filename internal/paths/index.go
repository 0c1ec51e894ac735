package paths

import (
	"strings"

	"git.home.luguber.info/inful/cottonsite/internal/routes"
)

// StaticDir is the directory under the destination root that receives shared
// assets. No page may claim it.
const StaticDir = "static"

// Index answers link requests over an expanded, collision-free page set.
type Index struct {
	byName map[string]routes.PageRecord
	byPath map[string]string
}

// NewIndex indexes pages by name and output path. Two pages claiming the same
// output path (or a page claiming the static directory) is an
// ErrOutputPathCollision.
func NewIndex(pages []routes.PageRecord) (*Index, error) {
	idx := &Index{
		byName: make(map[string]routes.PageRecord, len(pages)),
		byPath: make(map[string]string, len(pages)),
	}
	for _, p := range pages {
		if p.OutputPath == StaticDir || strings.HasPrefix(p.OutputPath, StaticDir+"/") {
			return nil, CollisionError(p.OutputPath, p.Name, StaticDir+"/ assets")
		}
		if holder, taken := idx.byPath[p.OutputPath]; taken {
			return nil, CollisionError(p.OutputPath, pageLabel(p), holder)
		}
		idx.byPath[p.OutputPath] = pageLabel(p)
		idx.byName[p.Name] = p
	}
	return idx, nil
}

// Page returns the page registered under name.
func (i *Index) Page(name string) (routes.PageRecord, bool) {
	p, ok := i.byName[name]
	return p, ok
}

// Link returns the relative link a hyperlink on source must use to reach the
// page named target.
func (i *Index) Link(source routes.PageRecord, target string) (string, error) {
	dst, ok := i.byName[target]
	if !ok {
		return "", UnknownTargetError(source.Name, target)
	}
	return RelativeLink(source.Depth, dst.Dir()), nil
}

func pageLabel(p routes.PageRecord) string {
	if p.VariantKey == "" {
		return p.Name
	}
	return p.Route + "[" + p.VariantKey + "]"
}
