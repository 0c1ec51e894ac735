package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyRoute      = "route"
	KeyPage       = "page"
	KeyVariant    = "variant"
	KeyOutputPath = "output_path"
	KeyTemplate   = "template"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyDest       = "destination"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Route(name string) slog.Attr      { return slog.String(KeyRoute, name) }
func Page(name string) slog.Attr       { return slog.String(KeyPage, name) }
func Variant(key string) slog.Attr     { return slog.String(KeyVariant, key) }
func OutputPath(p string) slog.Attr    { return slog.String(KeyOutputPath, p) }
func Template(spec string) slog.Attr   { return slog.String(KeyTemplate, spec) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Destination(dir string) slog.Attr { return slog.String(KeyDest, dir) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
