package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	kycapp "fractioncar/internal/app/services/kyc"
)

type KYCHandler struct {
	Service *kycapp.Service
}

func (h KYCHandler) RemindersPreview(c *gin.Context) {
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

func (h KYCHandler) RemindersSend(c *gin.Context) {
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

var _ KYCHTTP = KYCHandler{}
