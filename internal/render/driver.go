package render

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"git.home.luguber.info/inful/cottonsite/internal/logfields"
	"git.home.luguber.info/inful/cottonsite/internal/metrics"
	"git.home.luguber.info/inful/cottonsite/internal/paths"
	"git.home.luguber.info/inful/cottonsite/internal/routes"
)

const tracerName = "git.home.luguber.info/inful/cottonsite/internal/render"

// Renderer turns a render spec and a page context into page bytes.
type Renderer interface {
	Render(ctx context.Context, spec string, pc *PageContext) ([]byte, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, spec string, pc *PageContext) ([]byte, error)

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, spec string, pc *PageContext) ([]byte, error) {
	return f(ctx, spec, pc)
}

// AssetCollector copies shared assets into staticRoot.
type AssetCollector interface {
	Collect(ctx context.Context, staticRoot string) error
}

// Driver renders expanded pages into a destination tree.
type Driver struct {
	Renderer Renderer

	// Assets runs once after all pages. Nil skips asset collection.
	Assets AssetCollector

	Recorder metrics.Recorder
	Site     Site
	Logger   *slog.Logger
	Tracer   trace.Tracer
}

// RenderAll writes every page to dest/<OutputPath> in order and then collects
// assets into dest/static.
//
// A nil Report together with an error means nothing was written: the page set
// itself is invalid (two pages claiming one output path, for example). Once
// rendering starts the Report is always returned; the error is non-nil when
// any page or the asset collection failed, or ctx was canceled.
func (d *Driver) RenderAll(ctx context.Context, pages []routes.PageRecord, dest string) (*Report, error) {
	log := d.logger()
	rec := d.recorder()

	ctx, span := d.tracer().Start(ctx, "cottonsite.build",
		trace.WithAttributes(
			attribute.Int("cottonsite.pages", len(pages)),
			attribute.String("cottonsite.destination", dest),
		))
	defer span.End()

	idxStart := time.Now()
	idx, err := paths.NewIndex(pages)
	rec.ObserveStageDuration(metrics.StageIndex, time.Since(idxStart))
	if err != nil {
		rec.IncStageResult(metrics.StageIndex, metrics.ResultFatal)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	rec.IncStageResult(metrics.StageIndex, metrics.ResultSuccess)
	rec.SetPagesPlanned(len(pages))

	report := newReport(len(pages))
	log.Info("Rendering pages", slog.Int("pages", len(pages)), logfields.Destination(dest))

	renderStart := time.Now()
	canceled := false
	for _, p := range pages {
		if ctx.Err() != nil {
			canceled = true
			break
		}
		d.renderPage(ctx, p, idx, pages, dest, report)
	}
	rec.ObserveStageDuration(metrics.StageRender, time.Since(renderStart))
	rec.IncStageResult(metrics.StageRender, stageResult(canceled, len(report.Failures) > 0))

	if !canceled {
		d.collectAssets(ctx, dest, report)
	}

	report.finish(canceled)
	rec.ObserveBuildDuration(report.End.Sub(report.Start))
	rec.IncBuildOutcome(report.metricsOutcome())
	span.SetAttributes(
		attribute.Int("cottonsite.pages.written", len(report.Written)),
		attribute.Int("cottonsite.pages.failed", len(report.Failures)),
		attribute.String("cottonsite.outcome", string(report.Outcome)),
	)

	log.Info("Render finished",
		slog.Int("written", len(report.Written)),
		slog.Int("failed", len(report.Failures)),
		slog.String("outcome", string(report.Outcome)),
		logfields.DurationMS(millis(report.End.Sub(report.Start))))

	if canceled {
		span.SetStatus(codes.Error, "canceled")
		return report, ctx.Err()
	}
	if err := report.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")
		return report, err
	}
	span.SetStatus(codes.Ok, "")
	return report, nil
}

func (d *Driver) renderPage(ctx context.Context, p routes.PageRecord, idx *paths.Index, pages []routes.PageRecord, dest string, report *Report) {
	log := d.logger().With(logfields.Page(p.Name), logfields.OutputPath(p.OutputPath))
	ctx, span := d.tracer().Start(ctx, "cottonsite.page",
		trace.WithAttributes(
			attribute.String("cottonsite.route", p.Route),
			attribute.String("cottonsite.page", p.Name),
			attribute.String("cottonsite.output_path", p.OutputPath),
		))
	defer span.End()

	start := time.Now()
	err := d.producePage(ctx, p, idx, pages, dest)
	d.recorder().ObservePageDuration(p.Route, time.Since(start), err == nil)
	d.recorder().IncPageResult(err == nil)

	if err != nil {
		report.addFailure(PageFailure{
			Page:       p.Name,
			Route:      p.Route,
			VariantKey: p.VariantKey,
			OutputPath: p.OutputPath,
			Err:        err,
		})
		span.RecordError(err)
		span.SetStatus(codes.Error, "page failed")
		log.Warn("Page failed", logfields.Error(err))
		return
	}
	report.Written = append(report.Written, p.OutputPath)
	log.Debug("Page written", logfields.DurationMS(millis(time.Since(start))))
}

// producePage renders and writes one page. Pages with a render or link error
// are not written.
func (d *Driver) producePage(ctx context.Context, p routes.PageRecord, idx *paths.Index, pages []routes.PageRecord, dest string) error {
	pc := NewPageContext(p, d.Site, idx, pages)
	out, renderErr := d.Renderer.Render(ctx, p.Template, pc)

	errs := append([]error(nil), pc.LinkErrors()...)
	if renderErr != nil && (len(errs) == 0 || !errors.Is(renderErr, paths.ErrUnknownTargetRoute)) {
		errs = append(errs, renderFailure(p, renderErr))
	}
	switch len(errs) {
	case 0:
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}

	if _, err := writePage(dest, p, out); err != nil {
		if errors.Is(err, paths.ErrOutputPathCollision) {
			return err
		}
		return writeFailure(p, err)
	}
	return nil
}

func (d *Driver) collectAssets(ctx context.Context, dest string, report *Report) {
	log := d.logger()
	if d.Assets == nil {
		log.Info("Asset collection disabled")
		return
	}

	staticRoot := filepath.Join(dest, paths.StaticDir)
	ctx, span := d.tracer().Start(ctx, "cottonsite.assets",
		trace.WithAttributes(attribute.String("cottonsite.destination", staticRoot)))
	defer span.End()

	start := time.Now()
	err := d.Assets.Collect(ctx, staticRoot)
	d.recorder().ObserveStageDuration(metrics.StageAssets, time.Since(start))
	if err != nil {
		report.AssetErr = assetFailure(staticRoot, err)
		d.recorder().IncStageResult(metrics.StageAssets, metrics.ResultFatal)
		span.RecordError(err)
		span.SetStatus(codes.Error, "asset collection failed")
		log.Error("Asset collection failed", logfields.Destination(staticRoot), logfields.Error(err))
		return
	}
	report.AssetsCollected = true
	d.recorder().IncStageResult(metrics.StageAssets, metrics.ResultSuccess)
	log.Info("Assets collected", logfields.Destination(staticRoot), logfields.DurationMS(millis(time.Since(start))))
}

func stageResult(canceled, failed bool) metrics.ResultLabel {
	switch {
	case canceled:
		return metrics.ResultCanceled
	case failed:
		return metrics.ResultWarning
	default:
		return metrics.ResultSuccess
	}
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func (d *Driver) recorder() metrics.Recorder {
	if d.Recorder != nil {
		return d.Recorder
	}
	return metrics.NoopRecorder{}
}

func (d *Driver) tracer() trace.Tracer {
	if d.Tracer != nil {
		return d.Tracer
	}
	return otel.Tracer(tracerName)
}
