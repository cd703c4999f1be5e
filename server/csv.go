package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/tradejournal/journal"
)

// ParseColumnMap turns "field:Header" pairs into a ColumnMap.
func ParseColumnMap(pairs []string) (journal.ColumnMap, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	m := journal.ColumnMap{}
	for _, p := range pairs {
		name, header, ok := strings.Cut(p, ":")
		if !ok {
			name, header, ok = strings.Cut(p, "=")
		}
		if !ok || strings.TrimSpace(header) == "" {
			return nil, fmt.Errorf("%w: mapping %q is not field:Header", errBadRequest, p)
		}
		f, err := journal.ParseField(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		m[f] = strings.TrimSpace(header)
	}
	return m, nil
}

// importCSV accepts a raw CSV body or a multipart upload in "file".
func (s *Server) importCSV(c *gin.Context) {
	cols, err := ParseColumnMap(c.QueryArray("map"))
	if err != nil {
		s.fail(c, err)
		return
	}

	var body io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		f, err := fh.Open()
		if err != nil {
			s.fail(c, err)
			return
		}
		defer f.Close()
		body = f
	}

	im := &journal.Importer{
		Store:    s.store,
		Columns:  cols,
		Location: s.opts.Location,
		Log:      s.log.WithField("request_id", c.GetString(requestIDKey)),
	}
	res, err := im.Import(c.Request.Context(), body)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			err = fmt.Errorf("%w: %v", errBadRequest, err)
		}
		s.fail(c, err)
		return
	}
	s.metrics.importRows(res.Imported, len(res.Failed))
	s.refreshGauges(c.Request.Context())
	if res.Trades == nil {
		res.Trades = []journal.TradeRecord{}
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) exportCSV(c *gin.Context) {
	trades, ok := s.trades(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="trades.csv"`)
	c.Status(http.StatusOK)
	if err := journal.WriteCSV(c.Writer, trades); err != nil {
		s.log.WithError(err).Error("csv export")
	}
}
