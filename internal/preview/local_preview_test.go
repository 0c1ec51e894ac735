package preview

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/cottonsite/internal/config"
	"git.home.luguber.info/inful/cottonsite/internal/metrics"
)

func TestShouldIgnoreEvent(t *testing.T) {
	require.True(t, shouldIgnoreEvent("/tmp/.hidden.html"))
	require.True(t, shouldIgnoreEvent("/tmp/#foo#"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.swp"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.html~"))
	require.True(t, shouldIgnoreEvent("/tmp/.DS_Store"))
	require.True(t, shouldIgnoreEvent("/tmp/Thumbs.db"))
	require.False(t, shouldIgnoreEvent("/tmp/components/alerts.html"))
}

func TestWatchDirs_OnlyExistingDirectories(t *testing.T) {
	cfg := config.Default()
	require.Empty(t, watchDirs(cfg))

	cfg.Templates.Directory = t.TempDir()
	cfg.Static.Directory = filepath.Join(t.TempDir(), "missing")
	require.Equal(t, []string{cfg.Templates.Directory}, watchDirs(cfg))
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
}

func get(t *testing.T, client *http.Client, url string) (int, string, http.Header) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header
}

func TestNewHandler_ServesUnderBasePath(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"index.html":        "home",
		"alerts/index.html": "alerts",
		"static/css/a.css":  "css",
	})
	reg := prom.NewRegistry()
	metrics.NewPrometheusRecorder(reg).SetPagesPlanned(2)

	srv := httptest.NewServer(NewHandler(dir, "cotton", reg, &buildStatus{}))
	defer srv.Close()
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}

	code, body, _ := get(t, client, srv.URL+"/cotton/")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "home", body)

	code, body, _ = get(t, client, srv.URL+"/cotton/alerts/")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "alerts", body)

	code, body, _ = get(t, client, srv.URL+"/cotton/static/css/a.css")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "css", body)

	code, _, header := get(t, client, srv.URL+"/alerts/")
	require.Equal(t, http.StatusFound, code)
	require.Equal(t, "/cotton/", header.Get("Location"))

	code, body, _ = get(t, client, srv.URL+MetricsPath)
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "cottonsite_pages_planned 2")
}

func TestNewHandler_RootBasePath(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"index.html": "home"})

	srv := httptest.NewServer(NewHandler(dir, "", nil, nil))
	defer srv.Close()

	code, body, _ := get(t, srv.Client(), srv.URL+"/")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "home", body)
}

func TestNewHandler_ShowsBuildErrorUntilFirstSuccess(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"index.html": "home"})
	status := &buildStatus{}
	status.setError(errors.New(`template <broken>`))

	srv := httptest.NewServer(NewHandler(dir, "/", nil, status))
	defer srv.Close()

	code, body, _ := get(t, srv.Client(), srv.URL+"/")
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Contains(t, body, "template &lt;broken&gt;")

	status.setSuccess()
	status.setError(errors.New("later failure"))
	code, body, _ = get(t, srv.Client(), srv.URL+"/")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "home", body)
}

func TestRebuildDebouncer_CoalescesBursts(t *testing.T) {
	rebuildReq, trigger := setupRebuildDebouncer(20 * time.Millisecond)
	for range 10 {
		trigger()
	}
	select {
	case <-rebuildReq:
	case <-time.After(2 * time.Second):
		t.Fatal("no rebuild requested")
	}
	select {
	case <-rebuildReq:
		t.Fatal("burst produced more than one rebuild")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRebuildWorker_Serialises(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var running, maxRunning, runs atomic.Int32
	var wg sync.WaitGroup
	wg.Add(1)
	rebuild := func(context.Context) {
		n := running.Add(1)
		if n > maxRunning.Load() {
			maxRunning.Store(n)
		}
		time.Sleep(30 * time.Millisecond)
		running.Add(-1)
		if runs.Add(1) == 2 {
			wg.Done()
		}
	}

	rebuildReq := make(chan struct{}, 1)
	startRebuildWorker(ctx, rebuild, rebuildReq)
	rebuildReq <- struct{}{}
	require.Eventually(t, func() bool { return running.Load() == 1 }, time.Second, 5*time.Millisecond)
	rebuildReq <- struct{}{}
	select {
	case rebuildReq <- struct{}{}:
	default:
	}
	wg.Wait()
	require.Equal(t, int32(1), maxRunning.Load())
}

func TestStartLocalPreview_RebuildsOnTemplateChange(t *testing.T) {
	templatesDir := t.TempDir()
	writeTree(t, templatesDir, map[string]string{
		"pages/home.html":        `<p id="v">one</p><a href="{{ .URL "alerts" }}">alerts</a>`,
		"components/alerts.html": `<a href="{{ .Root }}">home</a>`,
	})

	cfg := config.Default()
	cfg.Site.BasePath = "/cotton/"
	cfg.Templates.Directory = templatesDir
	collect := false
	cfg.Output.CollectStatic = &collect

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- StartLocalPreview(ctx, cfg, Options{
			Addr:      "127.0.0.1:0",
			OutputDir: filepath.Join(t.TempDir(), "dist"),
			Watch:     true,
			Ready:     ready,
		})
	}()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("preview exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("preview did not start")
	}
	base := "http://" + addr + "/cotton/"

	_, body, _ := get(t, http.DefaultClient, base)
	require.Contains(t, body, "one")
	require.Contains(t, body, `href="./alerts/"`)

	writeTree(t, templatesDir, map[string]string{
		"pages/home.html": `<p id="v">two</p><a href="{{ .URL "alerts" }}">alerts</a>`,
	})
	require.Eventually(t, func() bool {
		resp, err := http.Get(base)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		return err == nil && strings.Contains(string(body), "two")
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("preview did not shut down")
	}
}
