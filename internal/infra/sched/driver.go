package sched

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one periodic task. The driver holds no business logic: it only
// invokes jobs on their cron schedule and logs success/failure counts.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

type Driver struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration
}

func New(logger *slog.Logger) *Driver {
	return &Driver{
		cron:    cron.New(),
		logger:  logger,
		timeout: 10 * time.Minute,
	}
}

func (d *Driver) Register(job Job) error {
	var runs, failures atomic.Int64
	_, err := d.cron.AddFunc(job.Spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		start := time.Now()
		err := job.Run(ctx)
		runs.Add(1)
		if err != nil {
			failures.Add(1)
			d.logger.Error("scheduled job failed", "job", job.Name, "duration", time.Since(start),
				"runs", runs.Load(), "failures", failures.Load(), "error", err)
			return
		}
		d.logger.Info("scheduled job done", "job", job.Name, "duration", time.Since(start),
			"runs", runs.Load(), "failures", failures.Load())
	})
	return err
}

func (d *Driver) Start() {
	d.cron.Start()
}

// Stop halts scheduling and returns once running jobs finish.
func (d *Driver) Stop() {
	<-d.cron.Stop().Done()
}
