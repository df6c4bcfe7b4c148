package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/commerceops/flowline/pkg/models"
	"github.com/commerceops/flowline/pkg/persistence"
)

const defaultExecutionListLimit = 50

// ExecutionRepository handles execution record database operations.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(db *sql.DB, logger *slog.Logger) *ExecutionRepository {
	return &ExecutionRepository{db: db, logger: logger}
}

func (r *ExecutionRepository) Create(ctx context.Context, record *models.ExecutionRecord) error {
	inputJSON, err := json.Marshal(record.InputData)
	if err != nil {
		return fmt.Errorf("failed to marshal input data: %w", err)
	}

	query := `
		INSERT INTO executions (id, workflow_id, triggered_by, status, input_data, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.ExecContext(ctx, query,
		record.ID,
		record.WorkflowID,
		record.TriggeredBy,
		record.Status,
		inputJSON,
		record.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create execution record: %w", err)
	}

	return nil
}

func (r *ExecutionRepository) FinishExecution(ctx context.Context, record *models.ExecutionRecord) error {
	outputJSON, err := json.Marshal(record.OutputData)
	if err != nil {
		return fmt.Errorf("failed to marshal output data: %w", err)
	}

	stepResultsJSON, err := json.Marshal(record.StepResults)
	if err != nil {
		return fmt.Errorf("failed to marshal step results: %w", err)
	}

	query := `
		UPDATE executions SET
			status = $2,
			output_data = $3,
			step_results = $4,
			completed_at = $5,
			execution_time_ms = $6,
			error_message = $7
		WHERE id = $1 AND status = 'running'
	`

	result, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Status,
		outputJSON,
		stepResultsJSON,
		record.CompletedAt,
		record.ExecutionTimeMs,
		record.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to finish execution record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if affected == 0 {
		return persistence.ErrExecutionNotFound
	}

	return nil
}

func (r *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.ExecutionRecord, error) {
	query := `SELECT ` + executionColumns + ` FROM executions WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	record, err := r.scanExecution(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrExecutionNotFound
		}

		return nil, fmt.Errorf("failed to scan execution: %w", err)
	}

	return record, nil
}

func (r *ExecutionRepository) ListByWorkflow(ctx context.Context, workflowID string, limit int) ([]*models.ExecutionRecord, error) {
	if limit <= 0 {
		limit = defaultExecutionListLimit
	}

	query := `SELECT ` + executionColumns + ` FROM executions
		WHERE workflow_id = $1
		ORDER BY started_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, workflowID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	records := make([]*models.ExecutionRecord, 0)

	for rows.Next() {
		record, err := r.scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		records = append(records, record)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}

	return records, nil
}

const executionColumns = `
		id
	  , workflow_id
	  , triggered_by
	  , status
	  , input_data
	  , output_data
	  , step_results
	  , started_at
	  , completed_at
	  , execution_time_ms
	  , error_message
`

func (r *ExecutionRepository) scanExecution(scanner interface {
	Scan(dest ...any) error
}) (*models.ExecutionRecord, error) {
	var (
		record                           models.ExecutionRecord
		inputJSON, outputJSON, stepsJSON []byte
		completedAt                      sql.NullTime
	)

	err := scanner.Scan(
		&record.ID,
		&record.WorkflowID,
		&record.TriggeredBy,
		&record.Status,
		&inputJSON,
		&outputJSON,
		&stepsJSON,
		&record.StartedAt,
		&completedAt,
		&record.ExecutionTimeMs,
		&record.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}

	if inputJSON != nil {
		err := json.Unmarshal(inputJSON, &record.InputData)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal input data: %w", err)
		}
	}

	if outputJSON != nil {
		err := json.Unmarshal(outputJSON, &record.OutputData)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal output data: %w", err)
		}
	}

	if stepsJSON != nil {
		err := json.Unmarshal(stepsJSON, &record.StepResults)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal step results: %w", err)
		}
	}

	if completedAt.Valid {
		record.CompletedAt = &completedAt.Time
	}

	return &record, nil
}
