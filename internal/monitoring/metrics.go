package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Simulation metrics
	passesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pairsim_passes_total",
			Help: "Total number of completed simulation passes",
		},
	)

	tradesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pairsim_trades_total",
			Help: "Total number of trades executed across all passes",
		},
	)

	passNetWorth = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pairsim_pass_net_worth",
			Help:    "Distribution of final net worth per pass, in bottom units",
			Buckets: prometheus.LinearBuckets(500, 100, 20),
		},
	)

	workerDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pairsim_worker_duration_seconds",
			Help:    "Wall time of one sampling worker",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 12),
		},
	)

	// Grid metrics
	gridPointsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pairsim_grid_points_total",
			Help: "Total number of parameter grid points processed",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(passesTotal)
	prometheus.MustRegister(tradesTotal)
	prometheus.MustRegister(passNetWorth)
	prometheus.MustRegister(workerDuration)
	prometheus.MustRegister(gridPointsTotal)
}

// MetricsHandler serves the Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordPass records the outcome of one simulation pass
func RecordPass(netWorth float64, trades int) {
	passesTotal.Inc()
	tradesTotal.Add(float64(trades))
	passNetWorth.Observe(netWorth)
}

// RecordWorker records how long one sampling worker ran
func RecordWorker(d time.Duration) {
	workerDuration.Observe(d.Seconds())
}

// RecordGridPoint records a finished grid point, status is "ok" or "error"
func RecordGridPoint(status string) {
	gridPointsTotal.WithLabelValues(status).Inc()
}
