/*
metrics.go - Prometheus instrumentation

PURPOSE:
  Counts API traffic and problem-scan findings. Exposed on /metrics by the
  router; scraped by the ops Prometheus.

METRICS:
  timecore_http_requests_total{method,path,status}   Request counter
  timecore_problem_scans_total                       Completed scans
  timecore_problem_days_total{tag}                   Findings per tag

SEE ALSO:
  - server.go: Mounts the middleware and the /metrics endpoint
*/
package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/stechuhr/timecore/engine"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timecore_http_requests_total",
		Help: "HTTP requests served, by method, route pattern and status code.",
	}, []string{"method", "path", "status"})

	problemScans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timecore_problem_scans_total",
		Help: "Problem scans executed.",
	})

	problemDays = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timecore_problem_days_total",
		Help: "Problem days found by scans, by tag.",
	}, []string{"tag"})
)

// observeScan records the outcome of one problem scan.
func observeScan(report engine.ProblemReport) {
	problemScans.Inc()
	for tag, n := range report.Counts {
		problemDays.WithLabelValues(string(tag)).Add(float64(n))
	}
}

// countRequests is a chi middleware incrementing the request counter with the
// matched route pattern, so /api/employees/{id} stays one series.
func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		httpRequests.WithLabelValues(r.Method, path, strconv.Itoa(ww.Status())).Inc()
	})
}
