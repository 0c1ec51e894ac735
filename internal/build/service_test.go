package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/cottonsite/internal/config"
	ferrors "git.home.luguber.info/inful/cottonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/cottonsite/internal/paths"
	"git.home.luguber.info/inful/cottonsite/internal/routes"
)

func brokenSite() fstest.MapFS {
	return fstest.MapFS{
		"pages/home.html":        {Data: []byte(`<a href="{{ .URL "alerts" }}">alerts</a>`)},
		"components/alerts.html": {Data: []byte(`<a href="{{ .URL "home" }}">home</a>`)},
		"components/broken.html": {Data: []byte(`<a href="{{ .URL "carousel" }}">carousel</a>`)},
	}
}

func TestRun_EmbeddedShowcase(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	metricsFile := filepath.Join(t.TempDir(), "build.prom")

	res, err := NewBuildService().Run(context.Background(), BuildRequest{
		Config:    config.Default(),
		OutputDir: out,
		Options:   BuildOptions{Verify: true, MetricsFile: metricsFile},
	})
	require.NoError(t, err)
	require.Equal(t, BuildStatusSuccess, res.Status)
	require.True(t, res.Status.IsSuccess())
	require.Equal(t, out, res.OutputPath)
	require.Equal(t, res.Pages, len(res.Report.Written))
	require.NotNil(t, res.Verify)
	require.True(t, res.Verify.OK())
	require.FileExists(t, filepath.Join(out, "index.html"))
	require.FileExists(t, filepath.Join(out, "static", "css", "site.css"))

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(data), `cottonsite_build_outcomes_total{outcome="success"} 1`)
	require.Contains(t, string(data), `cottonsite_stage_results_total{result="success",stage="verify"} 1`)
}

func TestRun_DestinationNotEmpty(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "keep.txt"), []byte("x"), 0o600))

	svc := NewBuildService()
	res, err := svc.Run(context.Background(), BuildRequest{Config: config.Default(), OutputDir: out})
	require.ErrorIs(t, err, ErrDestinationNotEmpty)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	require.Equal(t, BuildStatusFailed, res.Status)
	require.Nil(t, res.Report)

	res, err = svc.Run(context.Background(), BuildRequest{
		Config:    config.Default(),
		OutputDir: out,
		Options:   BuildOptions{Force: true},
	})
	require.NoError(t, err)
	require.Equal(t, BuildStatusSuccess, res.Status)
	require.FileExists(t, filepath.Join(out, "keep.txt"))
}

func TestRun_DestinationIsFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	require.NoError(t, os.WriteFile(out, []byte("x"), 0o600))

	_, err := NewBuildService().Run(context.Background(), BuildRequest{Config: config.Default(), OutputDir: out})
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}

func TestRun_PageFailureIsReported(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	res, err := NewBuildService().Run(context.Background(), BuildRequest{
		Config:    config.Default(),
		OutputDir: out,
		Options:   BuildOptions{Templates: brokenSite(), SkipAssets: true},
	})
	require.ErrorIs(t, err, paths.ErrUnknownTargetRoute)
	require.Equal(t, BuildStatusFailed, res.Status)
	require.Equal(t, 3, res.Pages)
	require.Len(t, res.Report.Failures, 1)
	require.Equal(t, "broken", res.Report.Failures[0].Page)
	require.ElementsMatch(t, []string{"index.html", "alerts/index.html"}, res.Report.Written)
	require.NoFileExists(t, filepath.Join(out, "broken", "index.html"))
	require.NoDirExists(t, filepath.Join(out, "static"))
}

func TestRun_VerifyFailureFailsBuild(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	fsys := fstest.MapFS{
		"pages/home.html":        {Data: []byte(`<img src="{{ .Static "missing.png" }}">`)},
		"components/alerts.html": {Data: []byte(`alerts`)},
	}
	res, err := NewBuildService().Run(context.Background(), BuildRequest{
		Config:    config.Default(),
		OutputDir: out,
		Options:   BuildOptions{Templates: fsys, SkipAssets: true, Verify: true},
	})
	require.Error(t, err)
	require.Equal(t, BuildStatusFailed, res.Status)
	require.False(t, res.Report.Failed())
	require.Len(t, res.Verify.Broken, 1)
}

func TestRun_VerifyIgnoresStalePages(t *testing.T) {
	out := t.TempDir()
	stale := filepath.Join(out, "carousel", "index.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o750))
	require.NoError(t, os.WriteFile(stale, []byte(`<a href="../gone/">gone</a>`), 0o600))

	res, err := NewBuildService().Run(context.Background(), BuildRequest{
		Config:    config.Default(),
		OutputDir: out,
		Options:   BuildOptions{Force: true, Verify: true},
	})
	require.NoError(t, err)
	require.True(t, res.Verify.OK())
	require.Equal(t, len(res.Report.Written), res.Verify.Pages)
	require.FileExists(t, stale)
}

func TestRun_TraceFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	traceFile := filepath.Join(t.TempDir(), "trace.jsonl")

	res, err := NewBuildService().Run(context.Background(), BuildRequest{
		Config:    config.Default(),
		OutputDir: out,
		Options:   BuildOptions{TraceFile: traceFile},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	require.Equal(t, res.Pages, strings.Count(string(data), `"Name":"cottonsite.page"`))
	require.Equal(t, 1, strings.Count(string(data), `"Name":"cottonsite.assets"`))
	require.Equal(t, 1, strings.Count(string(data), `"Name":"cottonsite.build"`))
}

func TestRun_ConfigurationErrors(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewBuildService().Run(context.Background(), BuildRequest{})
		require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	})

	t.Run("duplicate route", func(t *testing.T) {
		cfg := config.Default()
		cfg.Routes.Definitions = append(cfg.Routes.Definitions, config.RouteConfig{Name: "home", Template: "pages/home.html"})
		res, err := NewBuildService().Run(context.Background(), BuildRequest{Config: cfg, OutputDir: filepath.Join(t.TempDir(), "dist")})
		require.ErrorIs(t, err, routes.ErrDuplicateRoute)
		require.Nil(t, res.Report)
	})

	t.Run("page collides with static", func(t *testing.T) {
		cfg := config.Default()
		cfg.Routes.Definitions = append(cfg.Routes.Definitions, config.RouteConfig{Name: "static", Template: "pages/home.html"})
		res, err := NewBuildService().Run(context.Background(), BuildRequest{Config: cfg, OutputDir: filepath.Join(t.TempDir(), "dist")})
		require.ErrorIs(t, err, paths.ErrOutputPathCollision)
		require.Nil(t, res.Report)
	})
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := NewBuildService().Run(ctx, BuildRequest{Config: config.Default(), OutputDir: filepath.Join(t.TempDir(), "dist")})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, BuildStatusCancelled, res.Status)
}

func TestExpand_DefaultConfig(t *testing.T) {
	pages, err := Expand(context.Background(), config.Default(), brokenSite())
	require.NoError(t, err)
	require.Len(t, pages, 3)
	require.Equal(t, "index.html", pages[0].OutputPath)
	require.Equal(t, "alerts/index.html", pages[1].OutputPath)
	require.Equal(t, "broken/index.html", pages[2].OutputPath)
}
