// Package preview serves a built site locally under the configured base path
// and rebuilds it when template or static files change.
package preview
