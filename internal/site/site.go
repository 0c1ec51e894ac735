// Package site holds the embedded component showcase and turns configuration
// into the route registry that renders it.
package site

import (
	"embed"
	"io/fs"
	"maps"
	"os"

	"git.home.luguber.info/inful/cottonsite/internal/assets"
	"git.home.luguber.info/inful/cottonsite/internal/config"
	"git.home.luguber.info/inful/cottonsite/internal/render"
)

//go:embed all:templates
var embeddedTemplates embed.FS

//go:embed all:static
var embeddedStatic embed.FS

// Templates returns the embedded showcase templates.
func Templates() fs.FS {
	return mustSub(embeddedTemplates, "templates")
}

// Static returns the embedded showcase assets.
func Static() fs.FS {
	return mustSub(embeddedStatic, "static")
}

// TemplatesFS returns the template tree for cfg: the configured directory
// when set, the embedded showcase otherwise.
func TemplatesFS(cfg *config.Config) fs.FS {
	if dir := cfg.Templates.Directory; dir != "" {
		return os.DirFS(dir)
	}
	return Templates()
}

// AssetSources returns the embedded assets followed by the configured static
// directory, if any.
func AssetSources(cfg *config.Config) []assets.Source {
	sources := []assets.Source{{Name: "embedded", FS: Static()}}
	if dir := cfg.Static.Directory; dir != "" {
		sources = append(sources, assets.Dir(dir))
	}
	return sources
}

// RenderSite converts the site section of cfg for page contexts.
func RenderSite(cfg *config.Config) render.Site {
	params := make(map[string]any, len(cfg.Site.Params))
	maps.Copy(params, cfg.Site.Params)
	return render.Site{
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		Params:      params,
	}
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
