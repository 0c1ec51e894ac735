// Package config loads and validates cottonsite.yaml.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/cottonsite/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "cottonsite.yaml"

// Config represents the application configuration.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Routes    RoutesConfig    `yaml:"routes"`
	Output    OutputConfig    `yaml:"output"`
	Templates TemplatesConfig `yaml:"templates,omitempty"`
	Static    StaticConfig    `yaml:"static,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
	Metrics   MetricsConfig   `yaml:"metrics,omitempty"`
	Preview   PreviewConfig   `yaml:"preview,omitempty"`
}

// SiteConfig holds values every page can read.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`

	// BasePath is the mount point used by the preview server. Generated
	// pages never contain it.
	BasePath string         `yaml:"base_path,omitempty"`
	Params   map[string]any `yaml:"params,omitempty"`
}

// RoutesConfig lists the routes of the site in registry order.
type RoutesConfig struct {
	// Root names the route written to the destination root.
	Root        string        `yaml:"root"`
	Definitions []RouteConfig `yaml:"definitions"`
}

// RouteConfig declares one route.
type RouteConfig struct {
	Name     string          `yaml:"name"`
	Template string          `yaml:"template,omitempty"`
	Title    string          `yaml:"title,omitempty"`
	Variants *VariantsConfig `yaml:"variants,omitempty"`

	// PagePerVariant gives every variant its own directory named after the
	// variant key.
	PagePerVariant bool `yaml:"page_per_variant,omitempty"`
}

// VariantsConfig selects the variant generator of a route.
type VariantsConfig struct {
	From VariantSource `yaml:"from"`

	// Pattern is the fs.Glob pattern matched against the template directory
	// when From is "dir".
	Pattern string `yaml:"pattern,omitempty"`

	// Keys are the variant keys when From is "list".
	Keys []string `yaml:"keys,omitempty"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`

	// Force allows building into a non-empty directory.
	Force bool `yaml:"force,omitempty"`

	// CollectStatic runs asset collection after rendering; defaults to true.
	CollectStatic *bool `yaml:"collect_static,omitempty"`

	// Verify checks every generated link after the build.
	Verify bool `yaml:"verify,omitempty"`
}

// ShouldCollectStatic reports whether asset collection is enabled.
func (o OutputConfig) ShouldCollectStatic() bool {
	return o.CollectStatic == nil || *o.CollectStatic
}

// TemplatesConfig points at an on-disk template tree. Empty means the
// embedded showcase templates.
type TemplatesConfig struct {
	Directory string `yaml:"directory,omitempty"`
}

// StaticConfig points at an on-disk asset tree layered over the embedded
// assets.
type StaticConfig struct {
	Directory string `yaml:"directory,omitempty"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	// Textfile is written in the Prometheus text format after every build.
	Textfile string `yaml:"textfile,omitempty"`
}

// PreviewConfig configures `cottonsite preview`.
type PreviewConfig struct {
	Addr  string `yaml:"addr,omitempty"`
	Watch *bool  `yaml:"watch,omitempty"`
}

// ShouldWatch reports whether preview rebuilds on changes; on by default.
func (p PreviewConfig) ShouldWatch() bool {
	return p.Watch == nil || *p.Watch
}

// Load loads configuration from the specified file, applies defaults and
// validates the result.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithCause(err).
				WithContext("path", configPath).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	return Parse(data)
}

// Parse decodes YAML after expanding ${VAR} references, applies defaults and
// validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Build()
	}
	applyDefaults(&cfg)
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file exists: the embedded
// showcase written to ./dist.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	collect := true
	example := Config{
		Site: SiteConfig{
			Title:       "Cotton BS5",
			Description: "Bootstrap 5 components for Django Cotton, exported as a static site",
			BasePath:    "/",
			Params: map[string]any{
				"repository": "https://github.com/example/cotton-bs5",
			},
		},
		Routes: DefaultRoutes(),
		Output: OutputConfig{
			Directory:     "./dist",
			CollectStatic: &collect,
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Preview: PreviewConfig{Addr: "127.0.0.1:8000", Watch: &collect},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// #nosec G306 -- configuration is not secret.
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
