// internal/handler/handler.go
package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/middleware"
	val "finance-tracker/internal/validator"

	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 1 << 20

// resource names a record kind in client-facing messages.
type resource struct {
	singular string // "expense", "Indian expense"
	plural   string
}

func (r resource) title() string {
	runes := []rune(r.singular)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// parseID accepts only a plain decimal integer path segment.
func parseID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || strings.HasPrefix(raw, "+") {
		return 0, fmt.Errorf("%w: %q", domain.ErrMalformedID, raw)
	}
	return id, nil
}

func readPayload(c *gin.Context) (val.Payload, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, &val.ValidationError{Fields: []val.FieldError{{Field: "body", Message: "request body could not be read"}}}
	}
	return val.ParsePayload(body)
}

// respondError maps an error onto a status code. failure is the generic
// message shown for unexpected errors, e.g. "Failed to create expense".
func respondError(c *gin.Context, r resource, failure string, err error) {
	if vErr, ok := val.IsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": vErr.Error()})
		return
	}

	switch {
	case errors.Is(err, domain.ErrMalformedID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + r.singular + " ID"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": r.title() + " not found"})
	default:
		slog.Error(failure,
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", middleware.GetRequestID(c),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"message": failure})
	}
}
