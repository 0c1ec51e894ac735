package config

import (
	"path"
	"slices"
	"strings"

	ferrors "git.home.luguber.info/inful/cottonsite/internal/foundation/errors"
)

// ValidateConfig validates a configuration after defaults were applied.
// Route name uniqueness is left to the route registry.
func ValidateConfig(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateSite(); err != nil {
		return err
	}
	if err := cv.validateRoutes(); err != nil {
		return err
	}
	if err := cv.validateOutput(); err != nil {
		return err
	}
	return cv.validateMetrics()
}

func (cv *configurationValidator) validateSite() error {
	for _, seg := range strings.Split(cv.config.Site.BasePath, "/") {
		if seg == "." || seg == ".." {
			return invalid("site.base_path", "base path must not contain relative segments", cv.config.Site.BasePath)
		}
	}
	return nil
}

func (cv *configurationValidator) validateRoutes() error {
	rc := cv.config.Routes
	if len(rc.Definitions) == 0 {
		return invalid("routes.definitions", "at least one route is required", nil)
	}

	pageNames := map[string]bool{}
	for i, def := range rc.Definitions {
		field := "routes.definitions[" + def.Name + "]"
		if def.Name == "" {
			return invalid("routes.definitions", "route name cannot be empty", i)
		}
		pageNames[def.Name] = true

		if def.Variants == nil {
			if def.Template == "" {
				return invalid(field+".template", "template is required", def.Name)
			}
			continue
		}

		switch def.Variants.From {
		case VariantsFromDir:
			if def.Variants.Pattern == "" {
				return invalid(field+".variants.pattern", "pattern is required when variants come from a directory", def.Name)
			}
			if _, err := path.Match(def.Variants.Pattern, ""); err != nil {
				return invalid(field+".variants.pattern", "pattern is malformed", def.Variants.Pattern)
			}
		case VariantsFromList:
			if len(def.Variants.Keys) == 0 {
				return invalid(field+".variants.keys", "keys are required when variants come from a list", def.Name)
			}
			if def.Template == "" {
				return invalid(field+".template", "template is required for list variants", def.Name)
			}
			if len(def.Variants.Keys) > 1 && !def.PagePerVariant {
				return invalid(field+".page_per_variant", "several variants would share one output path; set page_per_variant", def.Name)
			}
			if def.PagePerVariant {
				for _, k := range def.Variants.Keys {
					pageNames[k] = true
				}
			}
		default:
			return invalid(field+".variants.from", "variant source must be dir or list", string(def.Variants.From))
		}
	}

	if !pageNames[rc.Root] {
		names := make([]string, 0, len(pageNames))
		for n := range pageNames {
			names = append(names, n)
		}
		slices.Sort(names)
		return ferrors.ValidationError("root route is not declared").
			WithContext("field", "routes.root").
			WithContext("value", rc.Root).
			WithContext("known", strings.Join(names, ",")).
			Build()
	}
	return nil
}

func (cv *configurationValidator) validateOutput() error {
	if strings.TrimSpace(cv.config.Output.Directory) == "" {
		return invalid("output.directory", "output directory is required", nil)
	}
	return nil
}

func (cv *configurationValidator) validateMetrics() error {
	tf := cv.config.Metrics.Textfile
	if tf != "" && path.Ext(tf) != ".prom" {
		return invalid("metrics.textfile", "textfile must end in .prom", tf)
	}
	return nil
}

func invalid(field, msg string, value any) error {
	b := ferrors.ValidationError(msg).WithContext("field", field)
	if value != nil {
		b = b.WithContext("value", value)
	}
	return b.Build()
}
