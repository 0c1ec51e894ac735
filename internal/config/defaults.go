package config

import (
	"strings"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

// SiteDefaultApplier handles site defaults.
type SiteDefaultApplier struct{}

func (SiteDefaultApplier) Domain() string { return "site" }

func (SiteDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.Site.Title == "" {
		cfg.Site.Title = "Cotton BS5"
	}
	cfg.Site.BasePath = NormalizeBasePath(cfg.Site.BasePath)
}

// RoutesDefaultApplier fills in the showcase routes when none are declared.
type RoutesDefaultApplier struct{}

func (RoutesDefaultApplier) Domain() string { return "routes" }

func (RoutesDefaultApplier) ApplyDefaults(cfg *Config) {
	if len(cfg.Routes.Definitions) == 0 {
		defs := DefaultRoutes()
		if cfg.Routes.Root == "" {
			cfg.Routes.Root = defs.Root
		}
		cfg.Routes.Definitions = defs.Definitions
	}
	if cfg.Routes.Root == "" {
		cfg.Routes.Root = "home"
	}
	for i := range cfg.Routes.Definitions {
		v := cfg.Routes.Definitions[i].Variants
		if v == nil {
			continue
		}
		if src := NormalizeVariantSource(string(v.From)); src != "" {
			v.From = src
		}
	}
}

// OutputDefaultApplier handles output defaults.
type OutputDefaultApplier struct{}

func (OutputDefaultApplier) Domain() string { return "output" }

func (OutputDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "./dist"
	}
}

// LoggingDefaultApplier normalizes logging settings.
type LoggingDefaultApplier struct{}

func (LoggingDefaultApplier) Domain() string { return "logging" }

func (LoggingDefaultApplier) ApplyDefaults(cfg *Config) {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}

// PreviewDefaultApplier handles preview server defaults.
type PreviewDefaultApplier struct{}

func (PreviewDefaultApplier) Domain() string { return "preview" }

func (PreviewDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.Preview.Addr == "" {
		cfg.Preview.Addr = "127.0.0.1:8000"
	}
}

// defaultAppliers run in order on every loaded configuration.
var defaultAppliers = []DefaultApplier{
	SiteDefaultApplier{},
	RoutesDefaultApplier{},
	OutputDefaultApplier{},
	LoggingDefaultApplier{},
	PreviewDefaultApplier{},
}

func applyDefaults(cfg *Config) {
	for _, a := range defaultAppliers {
		a.ApplyDefaults(cfg)
	}
}

// DefaultRoutes returns the showcase routes: the home page at the root and
// one page per component template.
func DefaultRoutes() RoutesConfig {
	return RoutesConfig{
		Root: "home",
		Definitions: []RouteConfig{
			{Name: "home", Template: "pages/home.html", Title: "Home"},
			{
				Name:           "components",
				Title:          "Components",
				Variants:       &VariantsConfig{From: VariantsFromDir, Pattern: "components/*.html"},
				PagePerVariant: true,
			},
		},
	}
}

// NormalizeBasePath returns p with exactly one leading and one trailing
// slash; "" becomes "/".
func NormalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}
