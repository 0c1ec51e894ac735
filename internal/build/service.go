package build

import (
	"context"
	"io/fs"
	"time"

	"git.home.luguber.info/inful/cottonsite/internal/config"
	"git.home.luguber.info/inful/cottonsite/internal/linkverify"
	"git.home.luguber.info/inful/cottonsite/internal/render"
)

// BuildService is the canonical interface for executing site builds.
type BuildService interface {
	// Run executes a complete build: expand → render → collect assets → verify.
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest contains all inputs required to execute a build.
type BuildRequest struct {
	// Config is the loaded configuration for this build.
	Config *config.Config

	// OutputDir overrides Config.Output.Directory when set.
	OutputDir string

	// Options provides optional build behavior modifiers.
	Options BuildOptions
}

// BuildOptions provides optional configuration for build behavior.
type BuildOptions struct {
	// Force allows writing into a destination that already holds files.
	Force bool

	// SkipAssets disables asset collection regardless of configuration.
	SkipAssets bool

	// Verify checks every relative link of the written tree afterwards.
	Verify bool

	// MetricsFile overrides Config.Metrics.Textfile when set.
	MetricsFile string

	// TraceFile receives the build's spans as JSON lines when set.
	TraceFile string

	// Templates replaces the configured template tree. Tests use it to build
	// from an in-memory file system.
	Templates fs.FS
}

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	// Status indicates overall build outcome.
	Status BuildStatus

	// Report is the render report; nil when the build stopped before
	// rendering began.
	Report *render.Report

	// Verify is the link verification result when requested.
	Verify *linkverify.Result

	// OutputPath is the destination directory that was written.
	OutputPath string

	// Pages is the number of pages planned by the expansion.
	Pages int

	Duration  time.Duration
	StartTime time.Time
	EndTime   time.Time
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	// BuildStatusSuccess indicates every page and the assets were written.
	BuildStatusSuccess BuildStatus = "success"

	// BuildStatusFailed indicates at least one failure.
	BuildStatusFailed BuildStatus = "failed"

	// BuildStatusCancelled indicates the build was cancelled.
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsSuccess returns true if the build completed successfully.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess
}

// finish stamps the end time and status on r.
func (r *BuildResult) finish(status BuildStatus) *BuildResult {
	r.Status = status
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	return r
}
