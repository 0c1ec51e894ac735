// Package routes holds the route registry and the expander that turns it into
// page records.
//
// A Registry is built once per build and passed explicitly to Expand; there is
// no process-wide route table. Each Definition binds a unique name to a render
// spec (a template path for the render collaborator) and an optional
// VariantGenerator. Expand draws every generator once, emits one PageRecord per
// variant (or a single parameterless record when a generator yields nothing)
// and asks a PathResolver for the record's output path and depth.
package routes
