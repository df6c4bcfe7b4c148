// Package models defines the core domain models for workflow automation.
package models

import "time"

// WorkflowStatus represents the lifecycle state of a workflow definition.
type WorkflowStatus string

const (
	WorkflowStatusDraft  WorkflowStatus = "draft"  // Editable, only runnable manually
	WorkflowStatusActive WorkflowStatus = "active" // Runnable by any trigger
	WorkflowStatusPaused WorkflowStatus = "paused" // Suspended, only runnable manually
)

// TriggerType identifies how a workflow run is initiated.
type TriggerType string

const (
	TriggerTypeManual   TriggerType = "manual"
	TriggerTypeSchedule TriggerType = "schedule"
	TriggerTypeWebhook  TriggerType = "webhook"
)

// Step is one typed unit of work within a workflow definition. Its position
// in WorkflowDefinition.Steps is its execution order.
type Step struct {
	Type   string         `json:"step_type"   validate:"required"`
	Config map[string]any `json:"step_config"`
}

// ContinueOnError reports whether the run should proceed past this step's
// failure instead of aborting. Defaults to false.
func (s Step) ContinueOnError() bool {
	v, _ := s.Config["continueOnError"].(bool)

	return v
}

// WorkflowDefinition is the authored, persisted description of an automation.
// The aggregate counters are mutated only by the execution accountant, only
// after a run reaches a terminal state, and only via atomic increments.
type WorkflowDefinition struct {
	ID             string         `json:"id"`
	OwnerID        string         `json:"owner_id"       validate:"required"`
	Name           string         `json:"name"           validate:"required,min=3"`
	Description    string         `json:"description"`
	Status         WorkflowStatus `json:"status"         validate:"required,oneof=draft active paused"`
	TriggerType    TriggerType    `json:"trigger_type"`
	TriggerConfig  map[string]any `json:"trigger_config,omitempty"`
	Steps          []Step         `json:"steps"`
	ExecutionCount int64          `json:"execution_count"`
	SuccessCount   int64          `json:"success_count"`
	FailureCount   int64          `json:"failure_count"`
	LastExecutedAt *time.Time     `json:"last_executed_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Runnable reports whether the workflow may be executed. Manual invocation
// bypasses the active-only gate so users can test draft and paused workflows.
func (w *WorkflowDefinition) Runnable(manual bool) bool {
	return manual || w.Status == WorkflowStatusActive
}
