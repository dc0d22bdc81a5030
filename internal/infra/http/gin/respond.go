package ginserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"fractioncar/internal/app/actor"
	"fractioncar/internal/domain/shared/faults"
)

// respondError maps the fault taxonomy to status codes. Unexpected errors
// surface as a generic failure without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, faults.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, faults.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, faults.ErrExhausted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, faults.ErrPolicy):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, faults.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, faults.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// actorFrom reads the identity resolved by the upstream auth gateway.
func actorFrom(c *gin.Context) (actor.Actor, bool) {
	id := strings.TrimSpace(c.GetHeader("X-User-ID"))
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return actor.Actor{}, false
	}
	role := actor.Role(strings.ToLower(strings.TrimSpace(c.GetHeader("X-User-Role"))))
	if role == "" {
		role = actor.RoleUser
	}
	return actor.Actor{ID: id, Role: role}, true
}

func requireAdmin(c *gin.Context) (actor.Actor, bool) {
	a, ok := actorFrom(c)
	if !ok {
		return actor.Actor{}, false
	}
	if !a.Privileged() {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return actor.Actor{}, false
	}
	return a, true
}

// parseDate accepts both date-only and RFC3339 query values.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
