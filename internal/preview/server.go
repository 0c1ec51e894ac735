package preview

import (
	"fmt"
	"html"
	"net/http"
	"strings"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/cottonsite/internal/config"
	"git.home.luguber.info/inful/cottonsite/internal/metrics"
)

// MetricsPath serves the build metrics of the preview session.
const MetricsPath = "/-/metrics"

// buildStatus tracks the current build state for error display.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool // true if at least one successful build exists
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.hasGoodBuild = true
}

func (bs *buildStatus) getStatus() (hasError bool, err error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError != nil, bs.lastError, bs.hasGoodBuild
}

// NewHandler serves dir under basePath. Requests outside basePath are
// redirected to it, so the site is always exercised from its mount point.
// Until one build has succeeded the last build error is shown instead.
func NewHandler(dir, basePath string, reg *prom.Registry, status *buildStatus) http.Handler {
	basePath = config.NormalizeBasePath(basePath)

	site := http.FileServer(http.Dir(dir))
	if basePath != "/" {
		site = http.StripPrefix(strings.TrimSuffix(basePath, "/"), site)
	}

	mux := http.NewServeMux()
	mux.Handle(MetricsPath, metrics.HTTPHandler(reg))
	mux.Handle(basePath, withBuildStatus(site, status))
	if basePath != "/" {
		mux.Handle("/", http.RedirectHandler(basePath, http.StatusFound))
	}
	return mux
}

func withBuildStatus(next http.Handler, status *buildStatus) http.Handler {
	if status == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasError, err, hasGoodBuild := status.getStatus()
		if hasError && !hasGoodBuild {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = fmt.Fprintf(w, "<!DOCTYPE html><title>Build failed</title><h1>Build failed</h1><pre>%s</pre>",
				html.EscapeString(err.Error()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
