package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep_ContinueOnError(t *testing.T) {
	assert.False(t, Step{Type: "delay"}.ContinueOnError())
	assert.False(t, Step{Type: "delay", Config: map[string]any{"continueOnError": "yes"}}.ContinueOnError())
	assert.True(t, Step{Type: "delay", Config: map[string]any{"continueOnError": true}}.ContinueOnError())
}

func TestWorkflowDefinition_Runnable(t *testing.T) {
	tests := []struct {
		name     string
		status   WorkflowStatus
		manual   bool
		expected bool
	}{
		{name: "active scheduled", status: WorkflowStatusActive, manual: false, expected: true},
		{name: "active manual", status: WorkflowStatusActive, manual: true, expected: true},
		{name: "draft scheduled", status: WorkflowStatusDraft, manual: false, expected: false},
		{name: "draft manual", status: WorkflowStatusDraft, manual: true, expected: true},
		{name: "paused scheduled", status: WorkflowStatusPaused, manual: false, expected: false},
		{name: "paused manual", status: WorkflowStatusPaused, manual: true, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf := &WorkflowDefinition{Status: tt.status}
			assert.Equal(t, tt.expected, wf.Runnable(tt.manual))
		})
	}
}

func TestNewExecutionRecord(t *testing.T) {
	record, err := NewExecutionRecord("wf-1", "alice", map[string]any{"k": "v"})
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "wf-1", record.WorkflowID)
	assert.Equal(t, "alice", record.TriggeredBy)
	assert.Equal(t, ExecutionStatusRunning, record.Status)
	assert.Equal(t, map[string]any{"k": "v"}, record.InputData)
	assert.Nil(t, record.CompletedAt)

	record, err = NewExecutionRecord("wf-1", "alice", nil)
	require.NoError(t, err)
	assert.NotNil(t, record.InputData)
}

func TestExecutionRecord_Finish(t *testing.T) {
	record, err := NewExecutionRecord("wf-1", "alice", nil)
	require.NoError(t, err)

	record.Finish(ExecutionResult{
		Success:      true,
		DurationMs:   12,
		FinalContext: map[string]any{"done": true},
		StepResults:  []StepResult{{Step: "delay", Status: StepStatusSuccess}},
	})

	assert.Equal(t, ExecutionStatusCompleted, record.Status)
	assert.NotNil(t, record.CompletedAt)
	assert.Equal(t, int64(12), record.ExecutionTimeMs)
	assert.Empty(t, record.ErrorMessage)

	failed, err := NewExecutionRecord("wf-1", "alice", nil)
	require.NoError(t, err)

	failed.Finish(ExecutionResult{Success: false, ErrorMessage: "Step 1 (delay) failed: boom"})

	assert.Equal(t, ExecutionStatusFailed, failed.Status)
	assert.Equal(t, "Step 1 (delay) failed: boom", failed.ErrorMessage)
}

func TestCloneData(t *testing.T) {
	original := map[string]any{
		"order": map[string]any{"id": "ord-1", "items": []any{"a", "b"}},
		"count": 2,
	}

	cloned := CloneData(original)
	require.Equal(t, original, cloned)

	// Mutating the clone must not leak into the original.
	cloned["order"].(map[string]any)["id"] = "changed"
	cloned["order"].(map[string]any)["items"].([]any)[0] = "z"

	assert.Equal(t, "ord-1", original["order"].(map[string]any)["id"])
	assert.Equal(t, "a", original["order"].(map[string]any)["items"].([]any)[0])

	assert.Nil(t, CloneData(nil))
}
