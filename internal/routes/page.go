package routes

import "path"

// Location is where a page lands in the destination tree.
type Location struct {
	// OutputPath is slash separated and relative to the destination root.
	OutputPath string

	// Depth is the number of directories between the destination root and
	// the directory holding OutputPath.
	Depth int
}

// PageRecord is one concrete instantiation of a route. Records are created by
// Expand and never modified afterwards.
type PageRecord struct {
	Route      string
	VariantKey string

	// Name is the link identity of the page: the route name, or the name the
	// route's PageName hook folded from the variant.
	Name string

	Template string
	Params   map[string]any

	Location

	// Order is the position of the record in registry order.
	Order int
}

// Dir returns the slash separated directory holding the page's output file;
// "." for pages at the destination root.
func (p PageRecord) Dir() string {
	return path.Dir(p.OutputPath)
}
