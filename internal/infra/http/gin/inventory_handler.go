package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	inventoryapp "fractioncar/internal/app/services/inventory"
	domaincar "fractioncar/internal/domain/car"
)

type InventoryHandler struct {
	Service *inventoryapp.Service
	Cars    domaincar.Repository
}

func (h InventoryHandler) Get(c *gin.Context) {
	car, err := h.Cars.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

type resourceRequest struct {
	Resource string `json:"resource" binding:"required"`
}

func (h InventoryHandler) Decrement(c *gin.Context) {
	if _, ok := actorFrom(c); !ok {
		return
	}
	res, ok := h.bindResource(c)
	if !ok {
		return
	}
	car, err := h.Service.Decrement(c.Request.Context(), c.Param("id"), res)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h InventoryHandler) Increment(c *gin.Context) {
	if _, ok := actorFrom(c); !ok {
		return
	}
	res, ok := h.bindResource(c)
	if !ok {
		return
	}
	car, err := h.Service.Increment(c.Request.Context(), c.Param("id"), res)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

type stopBookingsRequest struct {
	Stop *bool `json:"stop" binding:"required"`
}

func (h InventoryHandler) SetStopBookings(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var req stopBookingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.SetStopBookings(c.Request.Context(), c.Param("id"), *req.Stop); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h InventoryHandler) bindResource(c *gin.Context) (domaincar.Resource, bool) {
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	switch domaincar.Resource(req.Resource) {
	case domaincar.ResourceWaitlist, domaincar.ResourceBookNow:
		return domaincar.Resource(req.Resource), true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown resource"})
		return "", false
	}
}

var _ InventoryHTTP = InventoryHandler{}
