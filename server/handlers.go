package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/tradejournal/journal"
)

func tradeID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid trade id %q", errBadRequest, c.Param("id"))
	}
	return id, nil
}

func (s *Server) trades(c *gin.Context) ([]journal.TradeRecord, bool) {
	trades, err := s.store.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	if trades == nil {
		trades = []journal.TradeRecord{}
	}
	return trades, true
}

func (s *Server) listTrades(c *gin.Context) {
	trades, ok := s.trades(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, trades)
}

func (s *Server) getTrade(c *gin.Context) {
	id, err := tradeID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	rec, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) bindInput(c *gin.Context) (journal.TradeInput, bool) {
	var in journal.TradeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return in, false
	}
	return in, true
}

func (s *Server) createTrade(c *gin.Context) {
	in, ok := s.bindInput(c)
	if !ok {
		return
	}
	rec, err := s.store.Create(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.tradeOp("create")
	s.refreshGauges(c.Request.Context())
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) updateTrade(c *gin.Context) {
	id, err := tradeID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	in, ok := s.bindInput(c)
	if !ok {
		return
	}
	rec, err := s.store.Update(c.Request.Context(), id, in)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.tradeOp("update")
	s.refreshGauges(c.Request.Context())
	c.JSON(http.StatusOK, rec)
}

func (s *Server) deleteTrade(c *gin.Context) {
	id, err := tradeID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.tradeOp("delete")
	s.refreshGauges(c.Request.Context())
	c.Status(http.StatusNoContent)
}
