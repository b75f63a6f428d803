package handlers

import (
	"net/http"

	"github.com/John-6670/SimpleSocialApp/internal/middleware"
	"github.com/John-6670/SimpleSocialApp/pkg/errs"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// statusCodes maps application error codes to HTTP status classes.
var statusCodes = map[string]int{
	errs.ECONFLICT:        http.StatusConflict,
	errs.EFORBIDDEN:       http.StatusForbidden,
	errs.EINTERNAL:        http.StatusInternalServerError,
	errs.EINVALID:         http.StatusBadRequest,
	errs.ENOTFOUND:        http.StatusNotFound,
	errs.EUNAUTHENTICATED: http.StatusUnauthorized,
}

// respondError writes err as a JSON error response with the status its
// code maps to. Non-application errors become opaque 500s.
func respondError(c *gin.Context, err error) {
	code := errs.ErrorCode(err)
	status, ok := statusCodes[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": errs.ErrorMessage(err)})
}

// actorID returns the authenticated user's id from the request context,
// or nil for anonymous requests.
func actorID(c *gin.Context) *uuid.UUID {
	raw := middleware.GetUserID(c)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// pagination reads offset/limit query parameters with the usual clamping.
func pagination(c *gin.Context) (int, int) {
	query := struct {
		Offset int `form:"offset"`
		Limit  int `form:"limit"`
	}{Limit: 20}

	if err := c.ShouldBindQuery(&query); err != nil {
		return 0, 20
	}
	if query.Offset < 0 {
		query.Offset = 0
	}
	if query.Limit < 1 {
		query.Limit = 20
	}
	if query.Limit > 100 {
		query.Limit = 100
	}
	return query.Offset, query.Limit
}
