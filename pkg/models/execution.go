package models

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ExecutionStatus represents the lifecycle state of an execution record.
// Running is the only non-terminal state; completed and failed are terminal
// and immutable once set.
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// StepStatus is the outcome of one attempted step.
type StepStatus string

const (
	StepStatusSuccess StepStatus = "success"
	StepStatusError   StepStatus = "error"
)

// StepResult records one attempted step. Input is the context snapshot taken
// before the step ran; it is never mutated afterwards.
type StepResult struct {
	Step       string         `json:"step"`
	Position   int            `json:"position"`
	Status     StepStatus     `json:"status"`
	DurationMs int64          `json:"duration"`
	Input      map[string]any `json:"input,omitempty"`
	Output     map[string]any `json:"output,omitempty"`
	Error      string         `json:"error,omitempty"`
	Config     map[string]any `json:"config,omitempty"`
}

// ExecutionRecord is the durable log of one run of a workflow definition.
type ExecutionRecord struct {
	ID              string          `json:"id"`
	WorkflowID      string          `json:"workflow_id"`
	TriggeredBy     string          `json:"triggered_by"`
	Status          ExecutionStatus `json:"status"`
	InputData       map[string]any  `json:"input_data,omitempty"`
	OutputData      map[string]any  `json:"output_data,omitempty"`
	StepResults     []StepResult    `json:"step_results"`
	StartedAt       time.Time       `json:"started_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	ExecutionTimeMs int64           `json:"execution_time_ms"`
	ErrorMessage    string          `json:"error_message,omitempty"`
}

// NewExecutionRecord creates an execution record in the running state,
// seeded with the trigger data (or an empty document).
func NewExecutionRecord(workflowID, triggeredBy string, inputData map[string]any) (*ExecutionRecord, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate execution ID: %w", err)
	}

	if inputData == nil {
		inputData = make(map[string]any)
	}

	return &ExecutionRecord{
		ID:          id.String(),
		WorkflowID:  workflowID,
		TriggeredBy: triggeredBy,
		Status:      ExecutionStatusRunning,
		InputData:   inputData,
		StartedAt:   time.Now().UTC(),
	}, nil
}

// Finish applies the single legal terminal transition to the record.
func (e *ExecutionRecord) Finish(result ExecutionResult) {
	now := time.Now().UTC()

	if result.Success {
		e.Status = ExecutionStatusCompleted
	} else {
		e.Status = ExecutionStatusFailed
		e.ErrorMessage = result.ErrorMessage
	}

	e.OutputData = result.FinalContext
	e.StepResults = result.StepResults
	e.CompletedAt = &now
	e.ExecutionTimeMs = result.DurationMs
}

// ExecutionResult is the aggregate outcome of one runner invocation.
type ExecutionResult struct {
	Success      bool           `json:"success"`
	DurationMs   int64          `json:"duration_ms"`
	StepResults  []StepResult   `json:"step_results"`
	FinalContext map[string]any `json:"final_context"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// ExecutionContext is the handler-facing view of one run. Data is the mutable
// key-value document threaded through the run; it is owned exclusively by the
// runner invocation that created it.
type ExecutionContext struct {
	ExecutionID string
	WorkflowID  string
	Data        map[string]any
	Logger      *slog.Logger
}

// CloneData deep-copies a data context document. Step input snapshots use it
// so a handler mutating a nested value cannot corrupt already-recorded results.
func CloneData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}

	cloned := make(map[string]any, len(data))
	for k, v := range data {
		cloned[k] = cloneValue(v)
	}

	return cloned
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneData(val)
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = cloneValue(item)
		}

		return items
	default:
		return v
	}
}
