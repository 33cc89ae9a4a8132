package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/store"
)

// Metrics owns the gateway's Prometheus collectors. Each server carries
// its own registry so multiple instances in one process never collide.
type Metrics struct {
	registry *prometheus.Registry

	Ingested     *prometheus.CounterVec // by risk decision
	Rejected     *prometheus.CounterVec // by rejection reason
	Callbacks    *prometheus.CounterVec // by delivery outcome
	ReplyLatency prometheus.Histogram
}

// NewMetrics builds the collector set. Active sessions and connected feed
// clients are sampled live through gauge functions.
func NewMetrics(st store.Store, clients *ClientRegistry) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		registry: registry,
		Ingested: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "honeypot_ingest_total",
			Help: "Messages ingested, by risk decision.",
		}, []string{"decision"}),
		Rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "honeypot_requests_rejected_total",
			Help: "Requests rejected before reaching the engine, by reason.",
		}, []string{"reason"}),
		Callbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "honeypot_callback_reports_total",
			Help: "Final callback reports, by delivery outcome.",
		}, []string{"outcome"}),
		ReplyLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "honeypot_reply_latency_seconds",
			Help:    "Persona reply generation latency.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		}),
	}

	registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "honeypot_active_sessions",
			Help: "Sessions currently held in the store.",
		},
		func() float64 {
			sums, err := st.List()
			if err != nil {
				return 0
			}
			return float64(len(sums))
		},
	))
	registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "honeypot_feed_clients",
			Help: "Connected operator feed clients.",
		},
		func() float64 { return float64(clients.Count()) },
	))

	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
