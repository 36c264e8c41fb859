package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spayd_sync_deliveries_total",
		Help: "Webhook delivery attempts and manual acknowledgments by outcome",
	}, []string{"outcome"})
	deliveryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "spayd_sync_delivery_duration_seconds",
		Help:    "Duration of webhook delivery attempts",
		Buckets: prometheus.DefBuckets,
	})
	queueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "spayd_sync_queue_items",
		Help: "Sync queue items seen by the last processing run, by status",
	}, []string{"status"})
	symbolWarnings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spayd_symbol_warnings_total",
		Help: "Symbol truncation warnings by field and kind",
	}, []string{"field", "kind"})
	httpDuration = promauto.NewSummaryVec(prometheus.SummaryOpts{
		Name: "spayd_http_duration_seconds",
		Help: "Duration of HTTP requests.",
	}, []string{"path", "method", "status"})
)

// PrometheusObserver records observations in the default Prometheus registry.
type PrometheusObserver struct{}

func NewPrometheusObserver() *PrometheusObserver {
	return &PrometheusObserver{}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (p *PrometheusObserver) RecordDelivery(outcome string) {
	deliveries.WithLabelValues(outcome).Inc()
}

func (p *PrometheusObserver) ObserveDeliveryLatency(seconds float64) {
	deliveryLatency.Observe(seconds)
}

func (p *PrometheusObserver) SetQueueDepth(status string, n int) {
	queueDepth.WithLabelValues(status).Set(float64(n))
}

func (p *PrometheusObserver) RecordSymbolWarning(field, kind string) {
	symbolWarnings.WithLabelValues(field, kind).Inc()
}

// ObserveHTTPRequest records one served request. path is the route pattern,
// not the raw URL, to keep label cardinality bounded.
func ObserveHTTPRequest(path, method string, status int, d time.Duration) {
	httpDuration.WithLabelValues(path, method, strconv.Itoa(status)).Observe(d.Seconds())
}
