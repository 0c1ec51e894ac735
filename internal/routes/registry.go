package routes

import (
	"strings"
)

// DefaultRoot is the name of the route rendered at the destination root when a
// registry is created without an explicit root name.
const DefaultRoot = "home"

// Definition binds a route name to a render spec and a variant generator.
type Definition struct {
	// Name is unique within a registry and is what links refer to.
	Name string

	// Template is the render spec passed to the render collaborator.
	Template string

	// Variants may be nil, meaning a single parameterless page.
	Variants VariantGenerator

	// PageName, when set, derives the page name of every non-zero variant.
	// Use it when each variant should get its own directory; without it all
	// variants share the route's name.
	PageName func(Variant) string
}

// Registry is an ordered set of route definitions with unique names.
// It is not safe for concurrent registration.
type Registry struct {
	root   string
	defs   []Definition
	byName map[string]int
}

// NewRegistry creates an empty registry whose root page is the route called root.
func NewRegistry(root string) *Registry {
	if root == "" {
		root = DefaultRoot
	}
	return &Registry{
		root:   root,
		byName: make(map[string]int),
	}
}

// FromDefinitions registers defs in order and stops at the first error.
func FromDefinitions(root string, defs ...Definition) (*Registry, error) {
	reg := NewRegistry(root)
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Root returns the name of the route rendered at the destination root.
func (r *Registry) Root() string {
	return r.root
}

// Register appends def. It fails when the name is already taken or cannot be
// used as a single directory name.
func (r *Registry) Register(def Definition) error {
	if reason := checkName(def.Name); reason != "" {
		return invalidRouteNameError(def.Name, reason)
	}
	if first, exists := r.byName[def.Name]; exists {
		return duplicateRouteError(def.Name, first)
	}
	r.byName[def.Name] = len(r.defs)
	r.defs = append(r.defs, def)
	return nil
}

// MustRegister is Register for static registration code; it panics on error.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Definitions returns the definitions in registration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// Len returns the number of definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

// validate re-checks name uniqueness over the stored definitions.
func (r *Registry) validate() error {
	seen := make(map[string]int, len(r.defs))
	for i, def := range r.defs {
		if first, ok := seen[def.Name]; ok {
			return duplicateRouteError(def.Name, first)
		}
		seen[def.Name] = i
	}
	return nil
}

func checkName(name string) string {
	switch {
	case name == "":
		return "name is empty"
	case strings.TrimSpace(name) != name:
		return "name has surrounding whitespace"
	case name == "." || name == "..":
		return "name is a relative path element"
	case strings.ContainsAny(name, `/\`):
		return "name contains a path separator"
	}
	return ""
}
