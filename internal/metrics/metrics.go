package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/moodsapp/moods-server/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Domain metrics

	EntriesLoggedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "moods",
		Name:      "entries_logged_total",
		Help:      "Total mood entries created.",
	})

	EntriesArchivedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "moods",
		Name:      "entries_archived_total",
		Help:      "Total mood entries archived.",
	})

	LoginCodesIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "moods",
		Name:      "login_codes_issued_total",
		Help:      "Total login codes generated and stored.",
	})

	LoginVerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moods",
		Name:      "login_verifications_total",
		Help:      "Login code verification attempts, by outcome.",
	}, []string{"outcome"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "moods",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moods",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		EntriesLoggedTotal,
		EntriesArchivedTotal,
		LoginCodesIssuedTotal,
		LoginVerificationsTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus the liveness/readiness probes on the
// internal port.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz/live", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, http.StatusOK, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/healthz/ready", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeHealth(w, status, result)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, status int, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}
