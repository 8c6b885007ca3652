package providers

import (
	"net/http"
	"time"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// unmatchedEndpoint labels every path outside the registered routes so a
// scan of random URLs cannot grow the label set.
const unmatchedEndpoint = "other"

func MetricsMiddleware(metrics MetricsProviderInterface, logger Logger, endpoints []string, next http.Handler) http.Handler {
	known := make(map[string]struct{}, len(endpoints))
	for _, e := range endpoints {
		known[e] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		endpoint := r.URL.Path
		if _, ok := known[endpoint]; !ok {
			endpoint = unmatchedEndpoint
		}
		metrics.IncRequestsTotal(endpoint, sw.status)
		metrics.ObserveRequestDuration(endpoint, duration)
		if sw.status >= http.StatusInternalServerError {
			logger.Warnf(TypeHTTP, "%s %s %d %s", r.Method, r.URL.RequestURI(), sw.status, duration)
			return
		}
		logger.Debugf(TypeHTTP, "%s %s %d %s", r.Method, r.URL.RequestURI(), sw.status, duration)
	})
}
