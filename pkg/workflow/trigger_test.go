package workflow

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/commerceops/flowline/pkg/mocks"
	"github.com/commerceops/flowline/pkg/models"
	"github.com/commerceops/flowline/pkg/persistence"
	"github.com/commerceops/flowline/pkg/quota"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type rejectingLimiter struct{}

func (rejectingLimiter) Allow(_ context.Context, _ string) error {
	return quota.ErrQuotaExceeded
}

func activeWorkflow() *models.WorkflowDefinition {
	return &models.WorkflowDefinition{
		ID:      "wf-1",
		OwnerID: "alice",
		Name:    "tag big orders",
		Status:  models.WorkflowStatusActive,
		Steps: []models.Step{
			{Type: "emit"},
		},
	}
}

func newTriggerService(
	workflows *mocks.MockWorkflowRepository,
	executions *mocks.MockExecutionRepository,
	limiter quota.Limiter,
) *TriggerService {
	logger := slog.New(slog.DiscardHandler)
	runner := testRunner(emit(map[string]any{"tagged": true}))
	accountant := NewAccountant(workflows, executions, logger)

	return NewTriggerService(workflows, executions, runner, accountant, limiter, nil, logger)
}

func TestTriggerService_Trigger_Success(t *testing.T) {
	workflows := new(mocks.MockWorkflowRepository)
	executions := new(mocks.MockExecutionRepository)

	workflows.On("GetByID", mock.Anything, "wf-1").Return(activeWorkflow(), nil)
	workflows.On("IncrementCounters", mock.Anything, "wf-1", true, mock.Anything).Return(nil)
	executions.On("Create", mock.Anything, mock.Anything).Return(nil)
	executions.On("FinishExecution", mock.Anything, mock.Anything).Return(nil)

	service := newTriggerService(workflows, executions, quota.Unlimited{})

	response, err := service.Trigger(context.Background(), TriggerRequest{
		WorkflowID:  "wf-1",
		CallerID:    "alice",
		TriggerData: map[string]any{"order": map[string]any{"total": 500.0}},
	})
	require.NoError(t, err)

	assert.True(t, response.Success)
	assert.NotEmpty(t, response.ExecutionID)
	require.Len(t, response.StepResults, 1)
	assert.Equal(t, true, response.OutputData["tagged"])

	workflows.AssertExpectations(t)
	executions.AssertExpectations(t)
}

func TestTriggerService_Trigger_WorkflowNotFound(t *testing.T) {
	workflows := new(mocks.MockWorkflowRepository)
	executions := new(mocks.MockExecutionRepository)

	workflows.On("GetByID", mock.Anything, "missing").Return(nil, persistence.ErrWorkflowNotFound)

	service := newTriggerService(workflows, executions, quota.Unlimited{})

	_, err := service.Trigger(context.Background(), TriggerRequest{WorkflowID: "missing", CallerID: "alice"})
	require.ErrorIs(t, err, persistence.ErrWorkflowNotFound)
}

// A caller who does not own the workflow gets the same answer as for a
// workflow that does not exist.
func TestTriggerService_Trigger_OwnerMismatchHiddenAsNotFound(t *testing.T) {
	workflows := new(mocks.MockWorkflowRepository)
	executions := new(mocks.MockExecutionRepository)

	workflows.On("GetByID", mock.Anything, "wf-1").Return(activeWorkflow(), nil)

	service := newTriggerService(workflows, executions, quota.Unlimited{})

	_, err := service.Trigger(context.Background(), TriggerRequest{WorkflowID: "wf-1", CallerID: "mallory"})
	require.ErrorIs(t, err, persistence.ErrWorkflowNotFound)
	executions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTriggerService_Trigger_NotRunnable(t *testing.T) {
	workflows := new(mocks.MockWorkflowRepository)
	executions := new(mocks.MockExecutionRepository)

	draft := activeWorkflow()
	draft.Status = models.WorkflowStatusDraft
	workflows.On("GetByID", mock.Anything, "wf-1").Return(draft, nil)

	service := newTriggerService(workflows, executions, quota.Unlimited{})

	_, err := service.Trigger(context.Background(), TriggerRequest{WorkflowID: "wf-1", CallerID: "alice"})
	require.ErrorIs(t, err, ErrWorkflowNotRunnable)
}

func TestTriggerService_Trigger_ManualBypassesStatusGate(t *testing.T) {
	workflows := new(mocks.MockWorkflowRepository)
	executions := new(mocks.MockExecutionRepository)

	paused := activeWorkflow()
	paused.Status = models.WorkflowStatusPaused
	workflows.On("GetByID", mock.Anything, "wf-1").Return(paused, nil)
	workflows.On("IncrementCounters", mock.Anything, "wf-1", true, mock.Anything).Return(nil)
	executions.On("Create", mock.Anything, mock.Anything).Return(nil)
	executions.On("FinishExecution", mock.Anything, mock.Anything).Return(nil)

	service := newTriggerService(workflows, executions, quota.Unlimited{})

	response, err := service.Trigger(context.Background(), TriggerRequest{
		WorkflowID:      "wf-1",
		CallerID:        "alice",
		ManualExecution: true,
	})
	require.NoError(t, err)
	assert.True(t, response.Success)
}

func TestTriggerService_Trigger_QuotaExceeded(t *testing.T) {
	workflows := new(mocks.MockWorkflowRepository)
	executions := new(mocks.MockExecutionRepository)

	workflows.On("GetByID", mock.Anything, "wf-1").Return(activeWorkflow(), nil)

	service := newTriggerService(workflows, executions, rejectingLimiter{})

	_, err := service.Trigger(context.Background(), TriggerRequest{WorkflowID: "wf-1", CallerID: "alice"})
	require.ErrorIs(t, err, quota.ErrQuotaExceeded)
	executions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTriggerService_Trigger_FailedRunIncrementsFailureCounter(t *testing.T) {
	workflows := new(mocks.MockWorkflowRepository)
	executions := new(mocks.MockExecutionRepository)

	wf := activeWorkflow()
	wf.Steps = []models.Step{{Type: "no_such_step"}}
	workflows.On("GetByID", mock.Anything, "wf-1").Return(wf, nil)
	workflows.On("IncrementCounters", mock.Anything, "wf-1", false, mock.Anything).Return(nil)
	executions.On("Create", mock.Anything, mock.Anything).Return(nil)
	executions.On("FinishExecution", mock.Anything, mock.Anything).Return(nil)

	service := newTriggerService(workflows, executions, quota.Unlimited{})

	response, err := service.Trigger(context.Background(), TriggerRequest{WorkflowID: "wf-1", CallerID: "alice"})
	require.NoError(t, err)

	assert.False(t, response.Success)
	assert.Contains(t, response.Error, "Step 1 (no_such_step) failed")
	workflows.AssertExpectations(t)
}

// When persistence fails after the run, the caller still gets the result
// alongside a distinct bookkeeping error.
func TestTriggerService_Trigger_AccountingFailure(t *testing.T) {
	workflows := new(mocks.MockWorkflowRepository)
	executions := new(mocks.MockExecutionRepository)

	workflows.On("GetByID", mock.Anything, "wf-1").Return(activeWorkflow(), nil)
	executions.On("Create", mock.Anything, mock.Anything).Return(nil)
	executions.On("FinishExecution", mock.Anything, mock.Anything).Return(errors.New("connection lost"))

	service := newTriggerService(workflows, executions, quota.Unlimited{})

	response, err := service.Trigger(context.Background(), TriggerRequest{WorkflowID: "wf-1", CallerID: "alice"})
	require.ErrorIs(t, err, ErrResultNotRecorded)
	require.NotNil(t, response)
	assert.True(t, response.Success)
}
