// Package scheduler triggers schedule-type workflows on their cron expressions.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/commerceops/flowline/pkg/models"
	"github.com/commerceops/flowline/pkg/persistence"
	"github.com/commerceops/flowline/pkg/workflow"
	"github.com/robfig/cron/v3"
)

// Scheduler polls nothing: it loads the active schedule-trigger workflows
// once at startup and registers one cron entry per workflow. Restart the
// process to pick up definition changes.
type Scheduler struct {
	workflows persistence.WorkflowRepository
	trigger   *workflow.TriggerService
	logger    *slog.Logger
	cron      *cron.Cron
}

func NewScheduler(workflows persistence.WorkflowRepository, trigger *workflow.TriggerService, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		workflows: workflows,
		trigger:   trigger,
		logger:    logger.With("module", "scheduler"),
		cron:      cron.New(),
	}
}

// Start registers cron entries for every active scheduled workflow and runs
// them until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	scheduled, err := s.workflows.ListScheduled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list scheduled workflows: %w", err)
	}

	registered := 0

	for _, wf := range scheduled {
		expression, ok := wf.TriggerConfig["cron"].(string)
		if !ok || expression == "" {
			s.logger.Warn("Scheduled workflow has no cron expression", "workflow_id", wf.ID)

			continue
		}

		if err := s.register(ctx, wf, expression); err != nil {
			return err
		}

		registered++
	}

	s.logger.Info("Scheduler started", "workflows", registered)
	s.cron.Start()

	<-ctx.Done()

	// Stop returns once in-flight jobs finish.
	<-s.cron.Stop().Done()

	s.logger.Info("Scheduler stopped")

	return nil
}

func (s *Scheduler) register(ctx context.Context, wf *models.WorkflowDefinition, expression string) error {
	workflowID := wf.ID
	ownerID := wf.OwnerID

	_, err := s.cron.AddFunc(expression, func() {
		s.logger.Info("Triggering scheduled workflow", "workflow_id", workflowID)

		response, err := s.trigger.Trigger(ctx, workflow.TriggerRequest{
			WorkflowID: workflowID,
			CallerID:   ownerID,
			TriggerData: map[string]any{
				"trigger": "schedule",
			},
		})
		if err != nil {
			s.logger.Error("Scheduled trigger failed", "workflow_id", workflowID, "error", err)

			return
		}

		s.logger.Info("Scheduled run finished",
			"workflow_id", workflowID,
			"execution_id", response.ExecutionID,
			"success", response.Success)
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q for workflow %s: %w", expression, workflowID, err)
	}

	return nil
}
