package routes

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/cottonsite/internal/logfields"
)

// PathResolver maps a page name to its location in the destination tree.
type PathResolver interface {
	Resolve(name string) (Location, error)
}

// Expand turns every definition of reg into page records, in registry order.
//
// Name uniqueness is checked before any generator is drawn. A generator that
// yields nothing still produces one record with an empty VariantKey. Errors
// from generators or from resolver abort the expansion.
func Expand(ctx context.Context, reg *Registry, resolver PathResolver) ([]PageRecord, error) {
	if err := reg.validate(); err != nil {
		return nil, err
	}

	var pages []PageRecord
	for _, def := range reg.defs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		emitted := 0
		if def.Variants != nil {
			for v, err := range def.Variants.Variants(ctx) {
				if err != nil {
					return nil, variantGeneratorError(def.Name, err)
				}
				page, err := newPage(def, v, len(pages), resolver)
				if err != nil {
					return nil, err
				}
				pages = append(pages, page)
				emitted++
			}
		}
		if emitted == 0 {
			page, err := newPage(def, Variant{}, len(pages), resolver)
			if err != nil {
				return nil, err
			}
			pages = append(pages, page)
			emitted++
		}

		slog.Debug("Route expanded",
			slog.String(logfields.KeyRoute, def.Name),
			slog.Int("pages", emitted))
	}
	return pages, nil
}

func newPage(def Definition, v Variant, order int, resolver PathResolver) (PageRecord, error) {
	name := def.Name
	if def.PageName != nil && !v.IsZero() {
		name = def.PageName(v)
	}
	tmpl := def.Template
	if v.Template != "" {
		tmpl = v.Template
	}

	loc, err := resolver.Resolve(name)
	if err != nil {
		return PageRecord{}, err
	}
	return PageRecord{
		Route:      def.Name,
		VariantKey: v.Key,
		Name:       name,
		Template:   tmpl,
		Params:     v.Params,
		Location:   loc,
		Order:      order,
	}, nil
}
