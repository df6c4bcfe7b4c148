package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/commerceops/flowline/pkg/eventbus"
	"github.com/commerceops/flowline/pkg/events"
	"github.com/commerceops/flowline/pkg/models"
	"github.com/commerceops/flowline/pkg/persistence"
	"github.com/commerceops/flowline/pkg/quota"
	"github.com/google/uuid"
)

// ErrWorkflowNotRunnable indicates the workflow exists but its status does
// not permit the requested trigger.
var ErrWorkflowNotRunnable = errors.New("workflow is not runnable")

func IsWorkflowNotRunnable(err error) bool {
	return errors.Is(err, ErrWorkflowNotRunnable)
}

// TriggerRequest asks for one run of a workflow. ManualExecution bypasses the
// active-status gate so owners can test paused or draft workflows.
type TriggerRequest struct {
	WorkflowID      string
	TriggerData     map[string]any
	ManualExecution bool
	CallerID        string
}

// TriggerResponse is the caller-facing summary of one run.
type TriggerResponse struct {
	Success     bool                `json:"success"`
	ExecutionID string              `json:"executionId"`
	Duration    int64               `json:"executionTime"`
	StepResults []models.StepResult `json:"stepResults"`
	OutputData  map[string]any      `json:"outputData,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// TriggerService is the single entry point for starting workflow runs. Every
// trigger source (API, scheduler, webhook) funnels through Trigger so the
// ownership, status and quota gates apply uniformly.
type TriggerService struct {
	workflows  persistence.WorkflowRepository
	executions persistence.ExecutionRepository
	runner     *Runner
	accountant *Accountant
	limiter    quota.Limiter
	bus        eventbus.EventBus
	logger     *slog.Logger
}

func NewTriggerService(
	workflows persistence.WorkflowRepository,
	executions persistence.ExecutionRepository,
	runner *Runner,
	accountant *Accountant,
	limiter quota.Limiter,
	bus eventbus.EventBus,
	logger *slog.Logger,
) *TriggerService {
	return &TriggerService{
		workflows:  workflows,
		executions: executions,
		runner:     runner,
		accountant: accountant,
		limiter:    limiter,
		bus:        bus,
		logger:     logger.With("module", "trigger"),
	}
}

// Trigger loads the workflow, applies the gates, runs the steps and records
// the outcome. A run that completes but fails to persist returns the response
// alongside ErrResultNotRecorded; callers decide how loudly to complain.
func (s *TriggerService) Trigger(ctx context.Context, req TriggerRequest) (*TriggerResponse, error) {
	wf, err := s.workflows.GetByID(ctx, req.WorkflowID)
	if err != nil {
		return nil, err
	}

	// A caller probing someone else's workflow learns nothing: the response
	// is indistinguishable from the workflow not existing.
	if req.CallerID != "" && wf.OwnerID != req.CallerID {
		return nil, persistence.ErrWorkflowNotFound
	}

	if !wf.Runnable(req.ManualExecution) {
		return nil, fmt.Errorf("%w: workflow %s has status %s", ErrWorkflowNotRunnable, wf.ID, wf.Status)
	}

	if err := s.limiter.Allow(ctx, wf.OwnerID); err != nil {
		return nil, err
	}

	record, err := models.NewExecutionRecord(wf.ID, req.CallerID, req.TriggerData)
	if err != nil {
		return nil, err
	}

	if err := s.executions.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create execution record: %w", err)
	}

	s.publish(ctx, events.ExecutionStarted{
		BaseEvent:   s.baseEvent(events.ExecutionStartedEvent, record),
		TriggeredBy: req.CallerID,
		InputData:   req.TriggerData,
	})

	s.logger.Info("Workflow triggered",
		"workflow_id", wf.ID,
		"execution_id", record.ID,
		"manual", req.ManualExecution,
		"steps", len(wf.Steps))

	result := s.runner.Run(ctx, wf.ID, record.ID, wf.Steps, req.TriggerData)

	response := &TriggerResponse{
		Success:     result.Success,
		ExecutionID: record.ID,
		Duration:    result.DurationMs,
		StepResults: result.StepResults,
		OutputData:  result.FinalContext,
		Error:       result.ErrorMessage,
	}

	if err := s.accountant.Record(ctx, record, result); err != nil {
		s.logger.Error("Failed to record execution result",
			"execution_id", record.ID, "error", err)

		return response, err
	}

	if result.Success {
		s.publish(ctx, events.ExecutionCompleted{
			BaseEvent:  s.baseEvent(events.ExecutionCompletedEvent, record),
			DurationMs: result.DurationMs,
			StepCount:  len(result.StepResults),
		})
	} else {
		s.publish(ctx, events.ExecutionFailed{
			BaseEvent:  s.baseEvent(events.ExecutionFailedEvent, record),
			DurationMs: result.DurationMs,
			StepCount:  len(result.StepResults),
			Error:      result.ErrorMessage,
		})
	}

	return response, nil
}

func (s *TriggerService) baseEvent(eventType events.EventType, record *models.ExecutionRecord) events.BaseEvent {
	return events.BaseEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		WorkflowID:  record.WorkflowID,
		ExecutionID: record.ID,
	}
}

// Event delivery is best effort: a lost notification never fails a run.
func (s *TriggerService) publish(ctx context.Context, event eventbus.Event) {
	if s.bus == nil {
		return
	}

	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}
