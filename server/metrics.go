package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rustyeddy/tradejournal/analytics"
)

// Metrics holds the API collectors on a private registry so several servers
// can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	tradeOps   *prometheus.CounterVec
	imported   *prometheus.CounterVec
	balance    prometheus.Gauge
	openTrades prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradejournal_http_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradejournal_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		tradeOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradejournal_trade_operations_total",
				Help: "Trade mutations by operation",
			},
			[]string{"op"},
		),
		imported: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradejournal_import_rows_total",
				Help: "CSV rows processed by result",
			},
			[]string{"result"},
		),
		balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tradejournal_account_balance",
			Help: "Starting balance plus closed PnL",
		}),
		openTrades: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tradejournal_open_trades",
			Help: "Trades currently OPEN",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.latency,
		m.tradeOps,
		m.imported,
		m.balance,
		m.openTrades,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) tradeOp(op string) {
	m.tradeOps.WithLabelValues(op).Inc()
}

func (m *Metrics) importRows(imported, failed int) {
	m.imported.WithLabelValues("imported").Add(float64(imported))
	m.imported.WithLabelValues("failed").Add(float64(failed))
}

// refreshGauges recomputes the account gauges from the store.
func (s *Server) refreshGauges(ctx context.Context) {
	trades, err := s.store.List(ctx)
	if err != nil {
		s.log.WithError(err).Warn("refresh gauges")
		return
	}
	st := analytics.ComputeAccountStats(trades, s.opts.StartingBalance)
	s.metrics.balance.Set(st.CurrentBalance)
	s.metrics.openTrades.Set(float64(st.OpenTrades))
}
