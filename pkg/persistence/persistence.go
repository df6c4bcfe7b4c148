// Package persistence provides the data storage abstraction for workflow
// definitions, execution records and the generic row store used by the
// database_* steps.
package persistence

import (
	"context"
	"time"

	"github.com/commerceops/flowline/pkg/models"
)

type Persistence interface {
	WorkflowRepository() WorkflowRepository
	ExecutionRepository() ExecutionRepository
	RowStore() RowStore
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

type WorkflowRepository interface {
	GetByID(ctx context.Context, id string) (*models.WorkflowDefinition, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.WorkflowDefinition, error)

	// ListScheduled returns active workflows with a schedule trigger.
	ListScheduled(ctx context.Context) ([]*models.WorkflowDefinition, error)

	Save(ctx context.Context, workflow *models.WorkflowDefinition) error

	// IncrementCounters applies the accounting update for one terminal run:
	// execution_count+1, exactly one of success_count/failure_count+1, and
	// last_executed_at set. Implementations must make the update atomic so
	// concurrent terminations of the same workflow never under-count.
	IncrementCounters(ctx context.Context, id string, success bool, executedAt time.Time) error
}

type ExecutionRepository interface {
	// Create persists a record in the running state before the first step runs.
	Create(ctx context.Context, record *models.ExecutionRecord) error

	// FinishExecution persists the single terminal update of a record.
	FinishExecution(ctx context.Context, record *models.ExecutionRecord) error

	GetByID(ctx context.Context, id string) (*models.ExecutionRecord, error)
	ListByWorkflow(ctx context.Context, workflowID string, limit int) ([]*models.ExecutionRecord, error)
}

// RowStore is the persistent-store boundary for database_insert and
// database_update steps: row insert/update by table name with equality-only
// filters. Implementations restrict writes to an allow-listed table set.
type RowStore interface {
	InsertRow(ctx context.Context, table string, data map[string]any) (map[string]any, error)
	UpdateRows(ctx context.Context, table string, data map[string]any, where map[string]any) ([]map[string]any, error)
}
