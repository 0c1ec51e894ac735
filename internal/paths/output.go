package paths

import (
	"strings"

	"git.home.luguber.info/inful/cottonsite/internal/routes"
)

// IndexFile is the file every page is written to inside its directory.
const IndexFile = "index.html"

// Resolver maps page names to output locations: the root page is written to
// index.html at the destination root, every other page to <name>/index.html.
// Nothing is ever nested deeper than one directory.
type Resolver struct {
	root string
}

var _ routes.PathResolver = Resolver{}

// NewResolver returns a Resolver treating root as the root page name.
func NewResolver(root string) Resolver {
	return Resolver{root: root}
}

// Resolve returns the location for name. It is a pure function of name.
func (r Resolver) Resolve(name string) (routes.Location, error) {
	if name == r.root {
		return routes.Location{OutputPath: IndexFile, Depth: 0}, nil
	}
	if !isSegment(name) {
		return routes.Location{}, unknownRootConventionError(name)
	}
	return routes.Location{OutputPath: name + "/" + IndexFile, Depth: 1}, nil
}

func isSegment(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.TrimSpace(name) != name {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
