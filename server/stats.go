package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/tradejournal/analytics"
)

func (s *Server) statsMetrics(c *gin.Context) {
	trades, ok := s.trades(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.ComputeMetrics(trades))
}

func (s *Server) statsAccount(c *gin.Context) {
	trades, ok := s.trades(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.ComputeAccountStats(trades, s.opts.StartingBalance))
}

func (s *Server) statsDaily(c *gin.Context) {
	trades, ok := s.trades(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.BucketDailyPnL(trades, s.opts.Location))
}

// statsMonthly serves the calendar for ?year=&month=, defaulting to the
// current month.
func (s *Server) statsMonthly(c *gin.Context) {
	now := time.Now().In(s.opts.Location)
	year, month := now.Year(), int(now.Month())

	var err error
	if v := c.Query("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil || year < 1 {
			s.fail(c, fmt.Errorf("%w: invalid year %q", errBadRequest, v))
			return
		}
	}
	if v := c.Query("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil || month < 1 || month > 12 {
			s.fail(c, fmt.Errorf("%w: invalid month %q", errBadRequest, v))
			return
		}
	}

	trades, ok := s.trades(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.BucketMonthly(trades, year, time.Month(month), s.opts.Location))
}

type equityResponse struct {
	Curve []analytics.EquityPoint `json:"curve"`
	Risk  analytics.RiskMetrics   `json:"risk"`
}

func (s *Server) statsEquity(c *gin.Context) {
	trades, ok := s.trades(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, equityResponse{
		Curve: analytics.ComputeEquityCurve(trades, s.opts.StartingBalance),
		Risk:  analytics.ComputeRisk(trades, s.opts.StartingBalance, s.opts.Location),
	})
}

func (s *Server) statsConfluence(c *gin.Context) {
	trades, ok := s.trades(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.AverageConfluence(trades, analytics.OpenOnly))
}

func (s *Server) statsSummary(c *gin.Context) {
	trades, ok := s.trades(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analytics.Summarize(trades, s.opts.StartingBalance, s.opts.Location))
}
