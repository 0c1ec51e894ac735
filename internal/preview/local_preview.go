package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/cottonsite/internal/build"
	"git.home.luguber.info/inful/cottonsite/internal/config"
	"git.home.luguber.info/inful/cottonsite/internal/logfields"
	"git.home.luguber.info/inful/cottonsite/internal/metrics"
)

// debounceWindow is how long the watcher waits for a burst of events to end.
const debounceWindow = 300 * time.Millisecond

// Options configures a preview session.
type Options struct {
	// Addr overrides cfg.Preview.Addr.
	Addr string

	// OutputDir overrides cfg.Output.Directory.
	OutputDir string

	// Watch enables rebuilding on template and static changes.
	Watch bool

	// Ready, when set, receives the listener address once serving.
	Ready chan<- string
}

// StartLocalPreview builds the site, serves it and, with Watch, rebuilds on
// every change until ctx is done.
func StartLocalPreview(ctx context.Context, cfg *config.Config, opts Options) error {
	outDir := cfg.Output.Directory
	if opts.OutputDir != "" {
		outDir = opts.OutputDir
	}
	addr := cfg.Preview.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}

	reg := prom.NewRegistry()
	svc := build.NewBuildService().WithRecorder(metrics.NewPrometheusRecorder(reg))
	buildStat := &buildStatus{}
	rebuild := func(ctx context.Context) {
		runBuild(ctx, svc, cfg, outDir, buildStat)
	}

	// Initial build
	rebuild(ctx)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           NewHandler(outDir, cfg.Site.BasePath, reg, buildStat),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Preview server failed", logfields.Error(err))
		}
	}()
	slog.Info("Preview server listening",
		slog.String("url", "http://"+ln.Addr().String()+config.NormalizeBasePath(cfg.Site.BasePath)),
		logfields.Destination(outDir))
	if opts.Ready != nil {
		opts.Ready <- ln.Addr().String()
	}

	var watcher *fsnotify.Watcher
	if opts.Watch {
		watcher, err = setupFileWatcher(watchDirs(cfg))
		if err != nil {
			_ = srv.Close()
			return err
		}
		defer func() { _ = watcher.Close() }()
	}

	rebuildReq, trigger := setupRebuildDebouncer(debounceWindow)
	startRebuildWorker(ctx, rebuild, rebuildReq)

	return runPreviewLoop(ctx, watcher, trigger, rebuildReq, srv)
}

// runBuild performs one full build into outDir and records the outcome.
func runBuild(ctx context.Context, svc build.BuildService, cfg *config.Config, outDir string, buildStat *buildStatus) {
	res, err := svc.Run(ctx, build.BuildRequest{
		Config:    cfg,
		OutputDir: outDir,
		Options:   build.BuildOptions{Force: true},
	})
	if err != nil {
		slog.Warn("Build failed", logfields.Error(err))
		buildStat.setError(err)
		return
	}
	slog.Info("Build finished", slog.Int("pages", res.Pages), logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
	buildStat.setSuccess()
}

// watchDirs lists the on-disk directories a build reads from. The embedded
// showcase has none.
func watchDirs(cfg *config.Config) []string {
	var dirs []string
	for _, d := range []string{cfg.Templates.Directory, cfg.Static.Directory} {
		if d == "" {
			continue
		}
		if st, err := os.Stat(d); err == nil && st.IsDir() {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// setupFileWatcher creates and configures the filesystem watcher.
func setupFileWatcher(dirs []string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if len(dirs) == 0 {
		slog.Info("Nothing to watch; templates and assets are embedded")
	}
	for _, d := range dirs {
		if err := addDirsRecursive(watcher, d); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}
	return watcher, nil
}

// setupRebuildDebouncer creates rebuild channel and trigger function with debouncing.
func setupRebuildDebouncer(window time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(window, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}

	return rebuildReq, trigger
}

// startRebuildWorker runs rebuilds one at a time. Requests arriving while a
// build runs collapse into a single follow-up build.
func startRebuildWorker(ctx context.Context, rebuild func(context.Context), rebuildReq chan struct{}) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-rebuildReq:
				if !ok {
					return
				}
				slog.Info("Change detected; rebuilding site")
				rebuild(ctx)
			}
		}
	}()
}

// runPreviewLoop handles filesystem events and graceful shutdown.
func runPreviewLoop(ctx context.Context, watcher *fsnotify.Watcher, trigger func(), rebuildReq chan struct{}, srv *http.Server) error {
	var events <-chan fsnotify.Event
	var errs <-chan error
	if watcher != nil {
		events, errs = watcher.Events, watcher.Errors
	}
	for {
		select {
		case <-ctx.Done():
			return handleShutdown(srv)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			handleFileEvent(watcher, ev, trigger)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// handleShutdown stops the HTTP server.
func handleShutdown(srv *http.Server) error {
	slog.Info("Shutting down preview server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return nil
}

// handleFileEvent processes a filesystem event and triggers rebuild if needed.
func handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				slog.Warn("Watch add failed", slog.String("dir", path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files, including .DS_Store and emacs lock files.
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}
