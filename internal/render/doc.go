// Package render drives one static export: every expanded page is rendered
// through a Renderer and written to its output path, then shared assets are
// collected once.
//
// Rendering is best effort. A page that fails is recorded in the Report and
// the remaining pages still render; the build as a whole fails closed when
// any page or the asset collection failed.
package render
