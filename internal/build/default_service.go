package build

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"git.home.luguber.info/inful/cottonsite/internal/assets"
	"git.home.luguber.info/inful/cottonsite/internal/config"
	ferrors "git.home.luguber.info/inful/cottonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/cottonsite/internal/linkverify"
	"git.home.luguber.info/inful/cottonsite/internal/logfields"
	"git.home.luguber.info/inful/cottonsite/internal/metrics"
	"git.home.luguber.info/inful/cottonsite/internal/observability"
	"git.home.luguber.info/inful/cottonsite/internal/paths"
	"git.home.luguber.info/inful/cottonsite/internal/render"
	"git.home.luguber.info/inful/cottonsite/internal/routes"
	"git.home.luguber.info/inful/cottonsite/internal/site"
	"git.home.luguber.info/inful/cottonsite/internal/templates"
)

const tracerName = "git.home.luguber.info/inful/cottonsite/internal/build"

// DefaultBuildService is the standard implementation of BuildService.
type DefaultBuildService struct {
	recorder       metrics.Recorder
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
}

// NewBuildService creates a new DefaultBuildService.
func NewBuildService() *DefaultBuildService {
	return &DefaultBuildService{
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
}

// WithRecorder sets the metrics recorder used when no metrics textfile is
// requested.
func (s *DefaultBuildService) WithRecorder(r metrics.Recorder) *DefaultBuildService {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithLogger sets the logger.
func (s *DefaultBuildService) WithLogger(l *slog.Logger) *DefaultBuildService {
	if l != nil {
		s.logger = l
	}
	return s
}

// WithTracerProvider sets the provider render spans are started from when no
// trace file is requested. Without one the global provider is used.
func (s *DefaultBuildService) WithTracerProvider(tp trace.TracerProvider) *DefaultBuildService {
	s.tracerProvider = tp
	return s
}

// Run executes the complete build pipeline.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	result := &BuildResult{StartTime: time.Now()}

	if req.Config == nil {
		return result.finish(BuildStatusFailed), ferrors.ConfigError("config required").Build()
	}
	cfg := req.Config
	ctx = observability.WithBuildID(ctx, result.StartTime.Format("20060102-150405"))
	result.OutputPath = cfg.Output.Directory
	if req.OutputDir != "" {
		result.OutputPath = req.OutputDir
	}

	rec := s.recorder
	var promReg *prom.Registry
	textfile := cfg.Metrics.Textfile
	if req.Options.MetricsFile != "" {
		textfile = req.Options.MetricsFile
	}
	if textfile != "" {
		promReg = prom.NewRegistry()
		rec = metrics.NewPrometheusRecorder(promReg)
	}
	defer func() {
		if promReg == nil {
			return
		}
		if err := metrics.WriteTextfile(promReg, textfile); err != nil {
			s.logger.Warn("Failed to write metrics textfile", logfields.Destination(textfile), logfields.Error(err))
		}
	}()

	tp := s.tracerProvider
	if req.Options.TraceFile != "" {
		tf, err := observability.NewTraceFile(req.Options.TraceFile)
		if err != nil {
			rec.IncBuildOutcome(metrics.OutcomeFailed)
			return result.finish(BuildStatusFailed), ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot create trace file").
				WithContext("path", req.Options.TraceFile).
				Build()
		}
		defer func() {
			if err := tf.Close(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("Failed to write trace file", logfields.Destination(req.Options.TraceFile), logfields.Error(err))
			}
		}()
		tp = tf.Provider
	}

	if err := checkDestination(result.OutputPath, req.Options.Force || cfg.Output.Force); err != nil {
		rec.IncBuildOutcome(metrics.OutcomeFailed)
		return result.finish(BuildStatusFailed), err
	}

	tmpl := req.Options.Templates
	if tmpl == nil {
		tmpl = site.TemplatesFS(cfg)
	}

	observability.InfoContext(ctx, "Starting site build", logfields.Destination(result.OutputPath))
	pages, err := s.expand(observability.WithStage(ctx, metrics.StageExpand), cfg, tmpl, rec)
	if err != nil {
		if ctx.Err() != nil {
			rec.IncBuildOutcome(metrics.OutcomeCanceled)
			return result.finish(BuildStatusCancelled), err
		}
		rec.IncBuildOutcome(metrics.OutcomeFailed)
		return result.finish(BuildStatusFailed), err
	}
	result.Pages = len(pages)

	driver := &render.Driver{
		Renderer: templates.New(tmpl),
		Recorder: rec,
		Site:     site.RenderSite(cfg),
		Logger:   s.logger,
	}
	if tp != nil {
		driver.Tracer = tp.Tracer(tracerName)
	}
	if cfg.Output.ShouldCollectStatic() && !req.Options.SkipAssets {
		driver.Assets = assets.New(site.AssetSources(cfg)...)
	}

	report, renderErr := driver.RenderAll(ctx, pages, result.OutputPath)
	result.Report = report
	if report == nil {
		rec.IncBuildOutcome(metrics.OutcomeFailed)
		return result.finish(BuildStatusFailed), renderErr
	}
	if errors.Is(renderErr, context.Canceled) || errors.Is(renderErr, context.DeadlineExceeded) {
		return result.finish(BuildStatusCancelled), renderErr
	}

	var verifyErr error
	if req.Options.Verify || cfg.Output.Verify {
		result.Verify, verifyErr = s.verify(observability.WithStage(ctx, metrics.StageVerify), result.OutputPath, report.Written, rec)
	}

	if err := errors.Join(renderErr, verifyErr); err != nil {
		return result.finish(BuildStatusFailed), err
	}
	return result.finish(BuildStatusSuccess), nil
}

// Expand turns cfg into the ordered page list without rendering anything.
func Expand(ctx context.Context, cfg *config.Config, tmpl fs.FS) ([]routes.PageRecord, error) {
	reg, err := site.NewRegistry(cfg, tmpl)
	if err != nil {
		return nil, err
	}
	return routes.Expand(ctx, reg, paths.NewResolver(reg.Root()))
}

func (s *DefaultBuildService) expand(ctx context.Context, cfg *config.Config, tmpl fs.FS, rec metrics.Recorder) ([]routes.PageRecord, error) {
	start := time.Now()
	pages, err := Expand(ctx, cfg, tmpl)
	rec.ObserveStageDuration(metrics.StageExpand, time.Since(start))
	if err != nil {
		rec.IncStageResult(metrics.StageExpand, metrics.ResultFatal)
		return nil, err
	}
	rec.IncStageResult(metrics.StageExpand, metrics.ResultSuccess)
	observability.DebugContext(ctx, "Expanded routes", slog.Int("pages", len(pages)))
	return pages, nil
}

func (s *DefaultBuildService) verify(ctx context.Context, dest string, written []string, rec metrics.Recorder) (*linkverify.Result, error) {
	start := time.Now()
	res, err := linkverify.VerifyPages(ctx, dest, written)
	rec.ObserveStageDuration(metrics.StageVerify, time.Since(start))
	if err != nil {
		rec.IncStageResult(metrics.StageVerify, metrics.ResultWarning)
		observability.WarnContext(ctx, "Broken links found", logfields.Error(err))
		return res, err
	}
	rec.IncStageResult(metrics.StageVerify, metrics.ResultSuccess)
	observability.InfoContext(ctx, "Links verified", slog.Int("pages", res.Pages), slog.Int("links", res.Links))
	return res, nil
}

// checkDestination refuses a destination that holds anything unless force is
// set. A missing destination is fine; a file in its place is not.
func checkDestination(dir string, force bool) error {
	if dir == "" {
		return ferrors.ValidationError("output directory is required").
			WithContext("field", "output.directory").
			Build()
	}
	entries, err := os.ReadDir(filepath.Clean(dir))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot read output directory").
			WithContext("path", dir).
			Build()
	case len(entries) > 0 && !force:
		return ferrors.ValidationError("output directory is not empty (use --force to overwrite)").
			WithCause(ErrDestinationNotEmpty).
			WithContext("path", dir).
			WithContext("entries", len(entries)).
			Build()
	}
	return nil
}
