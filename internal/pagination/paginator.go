package pagination

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/username/alarm-api/internal/apperr"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination holds pagination parameters and metadata
type Pagination struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Page   int   `json:"page"`
	Total  int64 `json:"total,omitempty"`
}

// New checks page and limit and computes the offset. Zero values take the
// defaults (page 1, limit 10); anything else out of range is a validation error.
func New(page, limit int) (Pagination, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultLimit
	}

	fe := apperr.FieldErrors{}
	if page < 1 {
		fe.Add("page", "must be at least 1")
	}
	if limit < 1 || limit > MaxLimit {
		fe.Add("limit", fmt.Sprintf("must be between 1 and %d", MaxLimit))
	}
	if err := fe.Err(); err != nil {
		return Pagination{}, err
	}
	// offset must not overflow
	if page-1 > math.MaxInt/limit {
		return Pagination{}, apperr.Invalid("page", "is too large")
	}

	return Pagination{Limit: limit, Offset: (page - 1) * limit, Page: page}, nil
}

// ParsePagination reads query params `page` and `limit`. On bad input it writes
// a 400 response, aborts the context and returns false.
func ParsePagination(c *gin.Context) (Pagination, bool) {
	fe := apperr.FieldErrors{}
	page := atoiParam(fe, "page", c.Query("page"))
	limit := atoiParam(fe, "limit", c.Query("limit"))
	if err := fe.Err(); err != nil {
		apperr.Respond(c, nil, err)
		return Pagination{}, false
	}

	// explicit zero is out of range, not a request for the default
	if c.Query("page") != "" && page == 0 {
		page = -1
	}
	if c.Query("limit") != "" && limit == 0 {
		limit = -1
	}

	p, err := New(page, limit)
	if err != nil {
		apperr.Respond(c, nil, err)
		return Pagination{}, false
	}
	return p, true
}

func atoiParam(fe apperr.FieldErrors, name, raw string) int {
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fe.Add(name, "must be an integer")
		return 0
	}
	return v
}
