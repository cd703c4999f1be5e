// Package server exposes the trade journal and its analytics over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Options tune the API. The zero value is usable: UTC day boundaries, no
// rate limiting and gin's release mode.
type Options struct {
	StartingBalance float64
	Location        *time.Location
	// RateLimit is requests per second across all clients; 0 disables it.
	RateLimit float64
	Burst     int
	Mode      string
}

// Server wires a journal.Store into a gin engine.
type Server struct {
	store   journal.Store
	opts    Options
	log     logrus.FieldLogger
	metrics *Metrics
	engine  *gin.Engine
}

func New(store journal.Store, opts Options, log logrus.FieldLogger) *Server {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Mode == "" {
		opts.Mode = gin.ReleaseMode
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	gin.SetMode(opts.Mode)

	s := &Server{
		store:   store,
		opts:    opts,
		log:     log,
		metrics: NewMetrics(),
	}
	s.engine = s.newRouter()
	return s
}

func (s *Server) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(recovery(s.log), requestID(), accessLog(s.log), s.metrics.instrument())
	if s.opts.RateLimit > 0 {
		burst := s.opts.Burst
		if burst <= 0 {
			burst = int(s.opts.RateLimit) + 1
		}
		router.Use(rateLimit(rate.NewLimiter(rate.Limit(s.opts.RateLimit), burst)))
	}

	router.GET("/healthz", s.health)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	registerTradeRoutes(router.Group("/trades"), s)
	return router
}

func registerTradeRoutes(trades *gin.RouterGroup, s *Server) {
	trades.GET("", s.listTrades)
	trades.POST("", s.createTrade)
	trades.GET("/:id", s.getTrade)
	trades.PUT("/:id", s.updateTrade)
	trades.DELETE("/:id", s.deleteTrade)

	trades.POST("/import", s.importCSV)
	trades.GET("/export", s.exportCSV)

	stats := trades.Group("/stats")
	{
		stats.GET("/metrics", s.statsMetrics)
		stats.GET("/account", s.statsAccount)
		stats.GET("/daily", s.statsDaily)
		stats.GET("/monthly", s.statsMonthly)
		stats.GET("/equity", s.statsEquity)
		stats.GET("/confluence", s.statsConfluence)
		stats.GET("/summary", s.statsSummary)
	}
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Metrics exposes the collectors so other components can record into them.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.refreshGauges(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
