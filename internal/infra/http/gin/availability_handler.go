package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"fractioncar/internal/app/services/availability"
	"fractioncar/internal/domain/shared/daterange"
)

type AvailabilityHandler struct {
	Service *availability.Service
}

func (h AvailabilityHandler) Check(c *gin.Context) {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}
	r, err := daterange.New(from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := h.Service.Check(c.Request.Context(), c.Param("id"), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"available":            res.Available,
		"conflicting_bookings": res.ConflictingBookings,
		"conflicting_blocks":   res.ConflictingBlocks,
	})
}

var _ AvailabilityHTTP = AvailabilityHandler{}
