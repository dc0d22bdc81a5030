package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	blockdateapp "fractioncar/internal/app/services/blockdate"
)

type BlockedDateHandler struct {
	Service *blockdateapp.Service
}

type blockedDateRequest struct {
	CarID  string    `json:"car_id"`
	From   time.Time `json:"from" binding:"required"`
	To     time.Time `json:"to" binding:"required"`
	Reason string    `json:"reason"`
}

func (h BlockedDateHandler) Create(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}
	var req blockedDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CarID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "car_id is required"})
		return
	}
	b, err := h.Service.Create(c.Request.Context(), req.CarID, req.From, req.To, req.Reason, a)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h BlockedDateHandler) Update(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}
	var req blockedDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.Service.Update(c.Request.Context(), c.Param("id"), req.From, req.To, req.Reason, a)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h BlockedDateHandler) Delete(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), c.Param("id"), a); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h BlockedDateHandler) ListByCar(c *gin.Context) {
	blocks, err := h.Service.ListByCar(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocked_dates": blocks})
}

var _ BlockedDateHTTP = BlockedDateHandler{}
