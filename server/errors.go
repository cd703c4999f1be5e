package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/tradejournal/journal"
)

type errorResponse struct {
	Error string `json:"error"`
}

var errBadRequest = errors.New("bad request")

// statusFor maps the journal error taxonomy onto HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, journal.ErrInvalidRecord), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, journal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, journal.ErrTradeClosed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		s.log.WithError(err).WithField("request_id", c.GetString(requestIDKey)).Error("request failed")
		msg = http.StatusText(code)
	}
	c.AbortWithStatusJSON(code, errorResponse{Error: msg})
}
