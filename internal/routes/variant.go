package routes

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"path"
	"strings"
)

// Variant is one concrete parameter set for a route. The zero Variant means
// "one page, no extra identity".
type Variant struct {
	// Key distinguishes the variant from its siblings (a discovered file stem,
	// for example).
	Key string

	// Template overrides the route's template for this variant when set.
	Template string

	// Params is handed to the render collaborator as page data.
	Params map[string]any
}

// IsZero reports whether v carries no identity at all.
func (v Variant) IsZero() bool {
	return v.Key == "" && v.Template == "" && len(v.Params) == 0
}

// VariantGenerator produces the variants of a route. Expand draws the sequence
// exactly once per build, until it is exhausted or yields an error.
type VariantGenerator interface {
	Variants(ctx context.Context) iter.Seq2[Variant, error]
}

// VariantFunc adapts a function to VariantGenerator.
type VariantFunc func(ctx context.Context) iter.Seq2[Variant, error]

// Variants calls f.
func (f VariantFunc) Variants(ctx context.Context) iter.Seq2[Variant, error] {
	return f(ctx)
}

// Keys yields one Variant per key, in order.
func Keys(keys ...string) VariantGenerator {
	return VariantFunc(func(context.Context) iter.Seq2[Variant, error] {
		return func(yield func(Variant, error) bool) {
			for _, k := range keys {
				if !yield(Variant{Key: k}, nil) {
					return
				}
			}
		}
	})
}

// Each yields the given variants unchanged, in order.
func Each(variants ...Variant) VariantGenerator {
	return VariantFunc(func(context.Context) iter.Seq2[Variant, error] {
		return func(yield func(Variant, error) bool) {
			for _, v := range variants {
				if !yield(v, nil) {
					return
				}
			}
		}
	})
}

// TemplateFiles yields one Variant per file in fsys matching pattern. The
// variant key is the file name without extension and the variant template is
// the matched path. Matching happens when the sequence is drawn, not when the
// generator is built.
func TemplateFiles(fsys fs.FS, pattern string) VariantGenerator {
	return VariantFunc(func(ctx context.Context) iter.Seq2[Variant, error] {
		return func(yield func(Variant, error) bool) {
			matches, err := fs.Glob(fsys, pattern)
			if err != nil {
				yield(Variant{}, fmt.Errorf("glob %q: %w", pattern, err))
				return
			}
			for _, m := range matches {
				if err := ctx.Err(); err != nil {
					yield(Variant{}, err)
					return
				}
				info, err := fs.Stat(fsys, m)
				if err != nil {
					if !yield(Variant{}, fmt.Errorf("stat %q: %w", m, err)) {
						return
					}
					continue
				}
				if info.IsDir() {
					continue
				}
				base := path.Base(m)
				v := Variant{
					Key:      strings.TrimSuffix(base, path.Ext(base)),
					Template: m,
					Params:   map[string]any{"file": m},
				}
				if !yield(v, nil) {
					return
				}
			}
		}
	})
}
