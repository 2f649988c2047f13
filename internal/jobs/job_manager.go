package jobs

import (
	"fmt"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"
)

// JobManager coordinates the scheduled jobs: start together, stop
// together.
type JobManager struct {
	courierAssignmentJob *CourierAssignmentJob
	staleLocationJob     *StaleLocationJob
}

// NewJobManager wires the jobs around their command handlers.
func NewJobManager(
	dispatchHandler commands.DispatchOrderCommandHandler,
	sweepHandler commands.SweepStaleLocationsCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		courierAssignmentJob: NewCourierAssignmentJob(dispatchHandler, logger),
		staleLocationJob:     NewStaleLocationJob(sweepHandler, logger),
	}
}

// StartAll starts all scheduled jobs, unwinding on partial failure.
func (jm *JobManager) StartAll() error {
	if err := jm.courierAssignmentJob.Start(); err != nil {
		return fmt.Errorf("failed to start courier assignment job: %w", err)
	}

	if err := jm.staleLocationJob.Start(); err != nil {
		jm.courierAssignmentJob.Stop()
		return fmt.Errorf("failed to start stale location job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs.
func (jm *JobManager) StopAll() {
	jm.staleLocationJob.Stop()
	jm.courierAssignmentJob.Stop()
}
