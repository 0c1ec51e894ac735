package render

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/cottonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/cottonsite/internal/metrics"
)

// Outcome is the final status of a build.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// PageFailure records why one page produced no output.
type PageFailure struct {
	Page       string
	Route      string
	VariantKey string
	OutputPath string
	Err        error
}

// Report captures the result of one RenderAll call.
type Report struct {
	Start time.Time
	End   time.Time

	// Planned is the number of expanded pages handed to the driver.
	Planned int

	// Written lists the output paths written, in registry order.
	Written []string

	Failures []PageFailure

	// AssetsCollected is false when collection was disabled, skipped or failed.
	AssetsCollected bool
	AssetErr        error

	Outcome Outcome
}

func newReport(planned int) *Report {
	return &Report{Start: time.Now(), Planned: planned}
}

func (r *Report) addFailure(f PageFailure) {
	r.Failures = append(r.Failures, f)
}

func (r *Report) finish(canceled bool) {
	r.End = time.Now()
	switch {
	case canceled:
		r.Outcome = OutcomeCanceled
	case r.Failed():
		r.Outcome = OutcomeFailed
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Failed reports whether any page or the asset collection failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0 || r.AssetErr != nil
}

// Err returns nil for a clean build. Otherwise it returns a classified error
// whose chain carries every page failure and the asset error, so errors.Is
// matches any of their sentinels.
func (r *Report) Err() error {
	if !r.Failed() {
		return nil
	}
	if len(r.Failures) == 0 {
		return r.AssetErr
	}
	errs := make([]error, 0, len(r.Failures)+1)
	for _, f := range r.Failures {
		errs = append(errs, f.Err)
	}
	if r.AssetErr != nil {
		errs = append(errs, r.AssetErr)
	}
	return ferrors.RenderError("build failed").
		WithCause(errors.Join(errs...)).
		WithContext("failed_pages", len(r.Failures)).
		WithContext("planned_pages", r.Planned).
		Build()
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("pages=%d written=%d failed=%d assets=%t duration=%s outcome=%s",
		r.Planned, len(r.Written), len(r.Failures), r.AssetsCollected, dur.Truncate(time.Millisecond), r.Outcome)
}

// WriteSummary writes the summary line followed by one line per failed page
// and the asset error, if any.
func (r *Report) WriteSummary(w io.Writer) error {
	var b strings.Builder
	b.WriteString(r.Summary())
	b.WriteByte('\n')
	for _, f := range r.Failures {
		label := f.Page
		if f.VariantKey != "" && f.Route != f.Page {
			label = fmt.Sprintf("%s (%s[%s])", f.Page, f.Route, f.VariantKey)
		}
		fmt.Fprintf(&b, "  FAILED %s -> %s: %v\n", label, f.OutputPath, f.Err)
	}
	if r.AssetErr != nil {
		fmt.Fprintf(&b, "  FAILED static assets: %v\n", r.AssetErr)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Report) metricsOutcome() metrics.BuildOutcomeLabel {
	switch r.Outcome {
	case OutcomeCanceled:
		return metrics.OutcomeCanceled
	case OutcomeFailed:
		return metrics.OutcomeFailed
	default:
		return metrics.OutcomeSuccess
	}
}
