package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fractioncar/internal/app/policies"
	amcapp "fractioncar/internal/app/services/amc"
	availabilityapp "fractioncar/internal/app/services/availability"
	blockdateapp "fractioncar/internal/app/services/blockdate"
	bookingapp "fractioncar/internal/app/services/booking"
	inventoryapp "fractioncar/internal/app/services/inventory"
	kycapp "fractioncar/internal/app/services/kyc"
	"fractioncar/internal/infra/config"
	mongodb "fractioncar/internal/infra/db/mongo"
	"fractioncar/internal/infra/email"
	ginserver "fractioncar/internal/infra/http/gin"
	kafkanotify "fractioncar/internal/infra/notify/kafka"
	"fractioncar/internal/infra/obs"
	"fractioncar/internal/infra/sched"
	"fractioncar/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger := obs.NewLogger("dev")
		logger.Error("configuration load failed", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connect failed", "error", err)
		os.Exit(1)
	}

	carRepo := mongodb.NewCarRepository(client.DB)
	bookingRepo := mongodb.NewBookingRepository(client.DB)
	blockRepo := mongodb.NewBlockedDateRepository(client.DB)
	amcRepo := mongodb.NewAMCRepository(client.DB)
	userRepo := mongodb.NewUserRepository(client.DB)

	var notifier policies.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		kn, err := kafkanotify.NewNotifier(cfg.KafkaBrokers, cfg.NotifyTopic, nil)
		if err != nil {
			logger.Error("kafka notifier init failed", "error", err)
			os.Exit(1)
		}
		defer kn.Close()
		notifier = kn
	} else {
		logger.Warn("no kafka brokers configured, notifications stay in memory")
		notifier = memory.NewNotifierSink()
	}
	mailer := email.NewSender(email.Config{
		Host:    cfg.SMTPHost,
		Port:    cfg.SMTPPort,
		User:    cfg.SMTPUser,
		Pass:    cfg.SMTPPass,
		From:    cfg.EmailFrom,
		Enabled: cfg.EmailEnabled,
	}, logger)

	availabilitySvc := availabilityapp.New(bookingRepo, blockRepo)
	bookingSvc := &bookingapp.Service{
		Bookings:     bookingRepo,
		Cars:         carRepo,
		Availability: availabilitySvc,
		Notifier:     notifier,
		Email:        mailer,
		Logger:       logger,
	}
	blockSvc := &blockdateapp.Service{Blocks: blockRepo, Availability: availabilitySvc}
	inventorySvc := inventoryapp.New(carRepo, logger)
	amcSvc := &amcapp.Service{AMCs: amcRepo, Notifier: notifier, Email: mailer, Logger: logger}
	kycSvc := &kycapp.Service{Users: userRepo, Notifier: notifier, Email: mailer, Logger: logger}

	driver := sched.New(logger)
	jobs := []sched.Job{
		{Name: "amc-reminders", Spec: cfg.CronAMCReminder, Run: func(ctx context.Context) error {
			_, err := amcSvc.SendReminders(ctx)
			return err
		}},
		{Name: "amc-penalty-sweep", Spec: cfg.CronPenaltySweep, Run: func(ctx context.Context) error {
			_, err := amcSvc.Sweep(ctx)
			return err
		}},
		{Name: "stop-bookings-reconcile", Spec: cfg.CronStopBookings, Run: func(ctx context.Context) error {
			_, err := inventorySvc.ReconcileAll(ctx)
			return err
		}},
		{Name: "kyc-reminders", Spec: cfg.CronKYCReminder, Run: func(ctx context.Context) error {
			_, err := kycSvc.SendReminders(ctx)
			return err
		}},
	}
	for _, job := range jobs {
		if err := driver.Register(job); err != nil {
			logger.Error("job registration failed", "job", job.Name, "error", err)
			os.Exit(1)
		}
	}
	driver.Start()
	defer driver.Stop()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		},
	}, ginserver.Handlers{
		Booking:      ginserver.BookingHandler{Service: bookingSvc},
		Availability: ginserver.AvailabilityHandler{Service: availabilitySvc},
		BlockedDate:  ginserver.BlockedDateHandler{Service: blockSvc},
		Inventory:    ginserver.InventoryHandler{Service: inventorySvc, Cars: carRepo},
		AMC:          ginserver.AMCHandler{Service: amcSvc},
		KYC:          ginserver.KYCHandler{Service: kycSvc},
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}
