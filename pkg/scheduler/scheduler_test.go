package scheduler

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/commerceops/flowline/pkg/mocks"
	"github.com/commerceops/flowline/pkg/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestScheduler_Start_RegistersAndStops(t *testing.T) {
	workflows := &mocks.MockWorkflowRepository{}
	workflows.On("ListScheduled", mock.Anything).Return([]*models.WorkflowDefinition{
		{
			ID:            "wf-1",
			OwnerID:       "alice",
			Status:        models.WorkflowStatusActive,
			TriggerType:   models.TriggerTypeSchedule,
			TriggerConfig: map[string]any{"cron": "0 9 * * *"},
		},
		// No cron expression: skipped, not fatal.
		{
			ID:            "wf-2",
			OwnerID:       "alice",
			Status:        models.WorkflowStatusActive,
			TriggerType:   models.TriggerTypeSchedule,
			TriggerConfig: map[string]any{},
		},
	}, nil)

	s := NewScheduler(workflows, nil, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, s.Start(ctx))
	workflows.AssertExpectations(t)
}

func TestScheduler_Start_RejectsInvalidCronExpression(t *testing.T) {
	workflows := &mocks.MockWorkflowRepository{}
	workflows.On("ListScheduled", mock.Anything).Return([]*models.WorkflowDefinition{
		{
			ID:            "wf-1",
			OwnerID:       "alice",
			Status:        models.WorkflowStatusActive,
			TriggerType:   models.TriggerTypeSchedule,
			TriggerConfig: map[string]any{"cron": "not a cron"},
		},
	}, nil)

	s := NewScheduler(workflows, nil, slog.New(slog.DiscardHandler))

	err := s.Start(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid cron expression")
}
