package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"fractioncar/internal/infra/config"
	"fractioncar/internal/infra/obs"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	UpdateStatus(c *gin.Context)
	Delete(c *gin.Context)
	ListByCar(c *gin.Context)
}

type AvailabilityHTTP interface {
	Check(c *gin.Context)
}

type BlockedDateHTTP interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	ListByCar(c *gin.Context)
}

type InventoryHTTP interface {
	Get(c *gin.Context)
	Decrement(c *gin.Context)
	Increment(c *gin.Context)
	SetStopBookings(c *gin.Context)
}

type AMCHTTP interface {
	Get(c *gin.Context)
	PenaltySweep(c *gin.Context)
	PenaltyApplyOne(c *gin.Context)
	Pay(c *gin.Context)
	RemindersPreview(c *gin.Context)
	RemindersSend(c *gin.Context)
}

type KYCHTTP interface {
	RemindersPreview(c *gin.Context)
	RemindersSend(c *gin.Context)
}

type Handlers struct {
	Booking      BookingHTTP
	Availability AvailabilityHTTP
	BlockedDate  BlockedDateHTTP
	Inventory    InventoryHTTP
	AMC          AMCHTTP
	KYC          KYCHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", "X-User-Role"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.PUT("/bookings/:id", h.Booking.Update)
		api.PUT("/bookings/:id/status", h.Booking.UpdateStatus)
		api.DELETE("/bookings/:id", h.Booking.Delete)
		api.GET("/cars/:id/bookings", h.Booking.ListByCar)
	}
	if h.Availability != nil {
		api.GET("/cars/:id/availability", h.Availability.Check)
	}
	if h.BlockedDate != nil {
		api.POST("/blocked-dates", h.BlockedDate.Create)
		api.PUT("/blocked-dates/:id", h.BlockedDate.Update)
		api.DELETE("/blocked-dates/:id", h.BlockedDate.Delete)
		api.GET("/cars/:id/blocked-dates", h.BlockedDate.ListByCar)
	}
	if h.Inventory != nil {
		api.GET("/cars/:id", h.Inventory.Get)
		api.POST("/cars/:id/resources/decrement", h.Inventory.Decrement)
		api.POST("/cars/:id/resources/increment", h.Inventory.Increment)
		api.PUT("/cars/:id/stop-bookings", h.Inventory.SetStopBookings)
	}
	if h.AMC != nil {
		api.GET("/amc/:id", h.AMC.Get)
		api.POST("/amc/penalties/sweep", h.AMC.PenaltySweep)
		api.POST("/amc/:id/penalties/apply", h.AMC.PenaltyApplyOne)
		api.POST("/amc/:id/pay", h.AMC.Pay)
		api.GET("/amc/reminders/preview", h.AMC.RemindersPreview)
		api.POST("/amc/reminders/send", h.AMC.RemindersSend)
	}
	if h.KYC != nil {
		api.GET("/kyc/reminders/preview", h.KYC.RemindersPreview)
		api.POST("/kyc/reminders/send", h.KYC.RemindersSend)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
