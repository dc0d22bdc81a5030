package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	amcapp "fractioncar/internal/app/services/amc"
)

type AMCHandler struct {
	Service *amcapp.Service
}

func (h AMCHandler) Get(c *gin.Context) {
	rec, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h AMCHandler) PenaltySweep(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	res, err := h.Service.Sweep(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h AMCHandler) PenaltyApplyOne(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	res, err := h.Service.ApplyForOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type payRequest struct {
	Year int `json:"year" binding:"required"`
}

func (h AMCHandler) Pay(c *gin.Context) {
	if _, ok := actorFrom(c); !ok {
		return
	}
	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.Service.PayInstallment(c.Request.Context(), c.Param("id"), req.Year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h AMCHandler) RemindersPreview(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	previews, err := h.Service.PreviewReminders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": previews})
}

func (h AMCHandler) RemindersSend(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	res, err := h.Service.SendReminders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

var _ AMCHTTP = AMCHandler{}
