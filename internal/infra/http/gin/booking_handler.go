package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	bookingapp "fractioncar/internal/app/services/booking"
	domainbooking "fractioncar/internal/domain/booking"
)

type BookingHandler struct {
	Service *bookingapp.Service
}

type createBookingRequest struct {
	CarID  string    `json:"car_id" binding:"required"`
	UserID string    `json:"user_id"`
	From   time.Time `json:"from" binding:"required"`
	To     time.Time `json:"to" binding:"required"`
}

func (h BookingHandler) Create(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = a.ID
	}
	b, err := h.Service.Create(c.Request.Context(), bookingapp.CreateParams{
		CarID:  req.CarID,
		UserID: userID,
		From:   req.From,
		To:     req.To,
	}, a)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

type updateBookingRequest struct {
	CarID *string    `json:"car_id"`
	From  *time.Time `json:"from"`
	To    *time.Time `json:"to"`
}

func (h BookingHandler) Update(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.Service.Update(c.Request.Context(), c.Param("id"), bookingapp.UpdateParams{
		CarID: req.CarID,
		From:  req.From,
		To:    req.To,
	}, a)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h BookingHandler) UpdateStatus(c *gin.Context) {
	a, ok := actorFrom(c)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), domainbooking.Status(req.Status), a)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h BookingHandler) Delete(c *gin.Context) {
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

func (h BookingHandler) ListByCar(c *gin.Context) {
	bookings, err := h.Service.ListByCar(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

var _ BookingHTTP = BookingHandler{}
