package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// StaleLocationMaxAge is how long a busy courier may go without a
// location ping before watchers are warned.
const StaleLocationMaxAge = 30 * time.Second

// StaleLocationJob sweeps busy couriers for silent location feeds and
// publishes a staleness signal for each. Runs every ten seconds.
type StaleLocationJob struct {
	handler commands.SweepStaleLocationsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewStaleLocationJob creates the job around the sweep handler.
func NewStaleLocationJob(handler commands.SweepStaleLocationsCommandHandler, logger *slog.Logger) *StaleLocationJob {
	return &StaleLocationJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "stale_location_job"),
	}
}

// Start schedules the sweep every ten seconds.
func (j *StaleLocationJob) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * * *", func() {
		ctx := context.Background()
		cmd, cmdErr := commands.NewSweepStaleLocationsCommand(StaleLocationMaxAge)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Stale location sweep misconfigured", "error", cmdErr)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Stale location sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale location job started (running every 10 seconds)")
	return nil
}

// Stop stops the stale location job.
func (j *StaleLocationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale location job stopped")
}
