package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// BuildOutcomeLabel is the final status of a build.
type BuildOutcomeLabel string

const (
	OutcomeSuccess  BuildOutcomeLabel = "success"
	OutcomeFailed   BuildOutcomeLabel = "failed"
	OutcomeCanceled BuildOutcomeLabel = "canceled"
)

// Stage names used by the render driver.
const (
	StageExpand = "expand"
	StageIndex  = "index"
	StageRender = "render"
	StageAssets = "assets"
	StageVerify = "verify"
)

// Recorder defines observability hooks for build, stage and page metrics.
// Implementations must be safe to call from the build goroutine only; the
// NoopRecorder lets callers skip nil checks.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	ObservePageDuration(route string, d time.Duration, success bool)
	IncPageResult(success bool)
	SetPagesPlanned(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)          {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)                  {}
func (NoopRecorder) IncStageResult(string, ResultLabel)                  {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)                   {}
func (NoopRecorder) ObservePageDuration(string, time.Duration, bool)     {}
func (NoopRecorder) IncPageResult(bool)                                  {}
func (NoopRecorder) SetPagesPlanned(int)                                 {}
