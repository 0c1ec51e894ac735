package templates

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"maps"
	"sync"

	"git.home.luguber.info/inful/cottonsite/internal/logfields"
	"git.home.luguber.info/inful/cottonsite/internal/render"
)

// DefaultEntry is the template executed for every page when the set defines it.
const DefaultEntry = "base"

// DefaultShared lists the patterns parsed alongside every page.
var DefaultShared = []string{"layouts/*.html", "partials/*.html"}

// ErrTemplateNotFound is returned when a page spec names no file.
var ErrTemplateNotFound = errors.New("template not found")

var _ render.Renderer = (*Renderer)(nil)

// Renderer is a render.Renderer backed by html/template. It is safe for
// concurrent use.
type Renderer struct {
	fsys   fs.FS
	shared []string
	entry  string
	funcs  template.FuncMap

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithShared replaces the patterns parsed alongside every page.
func WithShared(patterns ...string) Option {
	return func(r *Renderer) { r.shared = patterns }
}

// WithEntry sets the template executed for every page. Pages whose set does
// not define it are executed directly.
func WithEntry(name string) Option {
	return func(r *Renderer) { r.entry = name }
}

// WithFuncs adds functions to the template function map, replacing built-ins
// of the same name.
func WithFuncs(funcs template.FuncMap) Option {
	return func(r *Renderer) { r.funcs = mergeFuncMaps(r.funcs, funcs) }
}

// New returns a Renderer reading templates from fsys.
func New(fsys fs.FS, opts ...Option) *Renderer {
	r := &Renderer{
		fsys:   fsys,
		shared: DefaultShared,
		entry:  DefaultEntry,
		funcs:  Funcs(),
		cache:  map[string]*template.Template{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render executes the page template spec with pc as data.
func (r *Renderer) Render(ctx context.Context, spec string, pc *render.PageContext) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	set, err := r.templateSet(spec)
	if err != nil {
		return nil, err
	}

	name := r.entry
	if set.Lookup(name) == nil {
		name = spec
	}
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, pc); err != nil {
		return nil, fmt.Errorf("execute %q: %w", spec, err)
	}
	return buf.Bytes(), nil
}

// Reset drops every cached template set.
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.cache)
}

func (r *Renderer) templateSet(spec string) (*template.Template, error) {
	r.mu.RLock()
	set, ok := r.cache[spec]
	r.mu.RUnlock()
	if ok {
		return set, nil
	}

	set, err := r.parse(spec)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.cache[spec]; ok {
		return cached, nil
	}
	r.cache[spec] = set
	return set, nil
}

func (r *Renderer) parse(spec string) (*template.Template, error) {
	if _, err := fs.Stat(r.fsys, spec); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrTemplateNotFound, spec, err)
	}

	var files []string
	for _, pattern := range r.shared {
		list, err := fs.Glob(r.fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("error listing files for %q: %w", pattern, err)
		}
		for _, f := range list {
			if f != spec {
				files = append(files, f)
			}
		}
	}
	files = append(files, spec)

	set := template.New("").Funcs(r.funcs)
	for _, file := range files {
		contents, err := fs.ReadFile(r.fsys, file)
		if err != nil {
			return nil, fmt.Errorf("error reading %q: %w", file, err)
		}
		if _, err := set.New(file).Parse(string(contents)); err != nil {
			return nil, fmt.Errorf("error parsing %q: %w", file, err)
		}
	}
	bindShowCode(set, snippetSources(set))

	slog.Debug("Parsed template set", logfields.Template(spec), slog.Int("files", len(files)))
	return set, nil
}

func mergeFuncMaps(in template.FuncMap, extra template.FuncMap) template.FuncMap {
	res := template.FuncMap{}
	maps.Copy(res, in)
	maps.Copy(res, extra)
	return res
}
