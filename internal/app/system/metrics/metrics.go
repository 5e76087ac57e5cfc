// Package metrics exposes Prometheus collectors for HTTP traffic and the
// ledger's domain events.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "walletree_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "walletree_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	inviteTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "walletree_invite_transitions_total",
		Help: "Invite lifecycle transitions by resulting status",
	}, []string{"status"})

	transactionWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "walletree_transaction_writes_total",
		Help: "Transaction writes by operation and scope",
	}, []string{"op", "scope"})
)

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, route, status string, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// ObserveInviteTransition counts an invite entering status.
func ObserveInviteTransition(status string) {
	inviteTransitions.WithLabelValues(status).Inc()
}

// ObserveTransactionWrite counts a create/update/delete. scope is
// "personal" or "organization".
func ObserveTransactionWrite(op, scope string) {
	transactionWrites.WithLabelValues(op, scope).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware instruments requests. Routes are labelled by their chi pattern
// so IDs in paths do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		ObserveHTTPRequest(r.Method, route, strconv.Itoa(ww.status), time.Since(start))
	})
}
