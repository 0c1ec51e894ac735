// Package build provides the canonical build pipeline for cottonsite.
//
// All execution paths (the build command, the preview watcher and tests)
// route through BuildService: configuration is turned into a route registry,
// expanded into pages, rendered into the destination tree and optionally
// verified and exported as Prometheus metrics.
package build
