package site

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"maps"

	"git.home.luguber.info/inful/cottonsite/internal/config"
	"git.home.luguber.info/inful/cottonsite/internal/routes"
)

// NewRegistry builds the route registry declared by cfg. Templates matched by
// "dir" variants are looked up in fsys.
func NewRegistry(cfg *config.Config, fsys fs.FS) (*routes.Registry, error) {
	reg := routes.NewRegistry(cfg.Routes.Root)
	for _, rc := range cfg.Routes.Definitions {
		def, err := definition(rc, fsys)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(def); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func definition(rc config.RouteConfig, fsys fs.FS) (routes.Definition, error) {
	def := routes.Definition{Name: rc.Name, Template: rc.Template}

	params := map[string]any{"route": rc.Name}
	if rc.Title != "" {
		params["section"] = rc.Title
		if !rc.PagePerVariant {
			params["title"] = rc.Title
		}
	}

	var gen routes.VariantGenerator
	switch {
	case rc.Variants == nil:
		gen = routes.Each(routes.Variant{})
	case rc.Variants.From == config.VariantsFromDir:
		gen = routes.TemplateFiles(fsys, rc.Variants.Pattern)
	case rc.Variants.From == config.VariantsFromList:
		gen = routes.Keys(rc.Variants.Keys...)
	default:
		return routes.Definition{}, fmt.Errorf("route %q: unknown variant source %q", rc.Name, rc.Variants.From)
	}
	def.Variants = withParams(gen, params)

	if rc.PagePerVariant {
		def.PageName = func(v routes.Variant) string {
			if v.Key == "" {
				return rc.Name
			}
			return v.Key
		}
	}
	return def, nil
}

// withParams adds params to every variant gen yields. Values already set by
// the variant win.
func withParams(gen routes.VariantGenerator, params map[string]any) routes.VariantGenerator {
	return routes.VariantFunc(func(ctx context.Context) iter.Seq2[routes.Variant, error] {
		return func(yield func(routes.Variant, error) bool) {
			for v, err := range gen.Variants(ctx) {
				if err != nil {
					yield(v, err)
					return
				}
				merged := make(map[string]any, len(params)+len(v.Params))
				maps.Copy(merged, params)
				maps.Copy(merged, v.Params)
				v.Params = merged
				if !yield(v, nil) {
					return
				}
			}
		}
	})
}
