package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/commerceops/flowline/pkg/models"
	"github.com/commerceops/flowline/pkg/persistence"
)

// ErrResultNotRecorded indicates a run finished but persisting its outcome
// failed. The execution result exists; only the bookkeeping is incomplete.
var ErrResultNotRecorded = errors.New("execution result not recorded")

func IsResultNotRecorded(err error) bool {
	return errors.Is(err, ErrResultNotRecorded)
}

// Accountant persists run outcomes: the terminal execution record and the
// per-workflow aggregate counters.
type Accountant struct {
	workflows  persistence.WorkflowRepository
	executions persistence.ExecutionRepository
	logger     *slog.Logger
}

func NewAccountant(workflows persistence.WorkflowRepository, executions persistence.ExecutionRepository, logger *slog.Logger) *Accountant {
	return &Accountant{
		workflows:  workflows,
		executions: executions,
		logger:     logger,
	}
}

// Record finalizes the execution record and bumps the workflow's counters.
// Counter increments happen in the database so concurrent runs of the same
// workflow never lose updates to read-modify-write races.
func (a *Accountant) Record(ctx context.Context, record *models.ExecutionRecord, result models.ExecutionResult) error {
	record.Finish(result)

	if err := a.executions.FinishExecution(ctx, record); err != nil {
		return fmt.Errorf("%w: finish execution %s: %w", ErrResultNotRecorded, record.ID, err)
	}

	executedAt := record.StartedAt
	if record.CompletedAt != nil {
		executedAt = *record.CompletedAt
	}

	if err := a.workflows.IncrementCounters(ctx, record.WorkflowID, result.Success, executedAt); err != nil {
		return fmt.Errorf("%w: increment counters for workflow %s: %w", ErrResultNotRecorded, record.WorkflowID, err)
	}

	a.logger.Info("Execution recorded",
		"execution_id", record.ID,
		"workflow_id", record.WorkflowID,
		"status", record.Status,
		"duration_ms", record.ExecutionTimeMs,
		"recorded_at", time.Now().UTC())

	return nil
}
