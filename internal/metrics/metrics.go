package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rocketscienceinc/pictactoe-backend/internal/entity"
)

const Namespace = "pictactoe"

type Metrics struct {
	registry *prometheus.Registry

	matchesFinished *prometheus.CounterVec
	moves           *prometheus.CounterVec
	storeErrors     *prometheus.CounterVec
	wsClients       prometheus.Gauge
}

// New builds the collectors on a private registry so several instances can live in one process.
func New(namespace string) *Metrics {
	that := &Metrics{
		registry: prometheus.NewRegistry(),
		matchesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_finished_total",
			Help:      "Finished matches by winner",
		}, []string{"winner"}),
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Photo placements by result",
		}, []string{"result"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Match store failures by operation",
		}, []string{"op"}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_clients",
			Help:      "Connected websocket clients",
		}),
	}

	that.registry.MustRegister(
		that.matchesFinished,
		that.moves,
		that.storeErrors,
		that.wsClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return that
}

func (that *Metrics) MatchFinished(winner entity.Winner) {
	that.matchesFinished.WithLabelValues(string(winner)).Inc()
}

func (that *Metrics) MovePlaced(accepted bool) {
	result := "accepted"
	if !accepted {
		result = "rejected"
	}
	that.moves.WithLabelValues(result).Inc()
}

func (that *Metrics) StoreError(op string) {
	that.storeErrors.WithLabelValues(op).Inc()
}

func (that *Metrics) ClientConnected() {
	that.wsClients.Inc()
}

func (that *Metrics) ClientDisconnected() {
	that.wsClients.Dec()
}

func (that *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(that.registry, promhttp.HandlerOpts{})
}
