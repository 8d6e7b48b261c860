package middleware

import (
	"net/http"
	"strconv"
	"time"

	"go-clinic-booking/pkg/metrics"

	"github.com/gorilla/mux"
)

type MetricsMiddleware struct {
	metrics *metrics.Collector
}

func NewMetricsMiddleware(m *metrics.Collector) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// statusRecorder keeps the status code written by the handler
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// Handle records request count and latency labelled by the mux route
// template, so /bookings/scheduled/12 and /bookings/scheduled/13 share a series.
func (m *MetricsMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.metrics.InFlightGauge.Inc()
		defer m.metrics.InFlightGauge.Dec()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		status := strconv.Itoa(rec.statusCode)

		m.metrics.RequestsTotal.WithLabelValues(r.Method, route, status).Inc()
		m.metrics.RequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
	})
}
