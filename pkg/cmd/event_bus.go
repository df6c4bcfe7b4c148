package cmd

import (
	"context"
	"log/slog"

	"github.com/commerceops/flowline/pkg/eventbus"
	"github.com/commerceops/flowline/pkg/events"
)

// NewEventBus creates the in-process event bus.
func NewEventBus(logger *slog.Logger) eventbus.EventBus {
	return eventbus.NewGoChannelEventBus(logger)
}

// SubscribeLifecycleLogging registers a subscriber that logs execution
// lifecycle events and starts consuming.
func SubscribeLifecycleLogging(ctx context.Context, bus eventbus.EventBus, logger *slog.Logger) error {
	logger = logger.With("module", "lifecycle")

	bus.Handle(events.ExecutionStartedEvent, func(_ context.Context, event any) error {
		if started, ok := event.(*events.ExecutionStarted); ok {
			logger.Info("Execution started",
				"workflow_id", started.WorkflowID,
				"execution_id", started.ExecutionID,
				"triggered_by", started.TriggeredBy)
		}

		return nil
	})

	bus.Handle(events.ExecutionCompletedEvent, func(_ context.Context, event any) error {
		if completed, ok := event.(*events.ExecutionCompleted); ok {
			logger.Info("Execution completed",
				"workflow_id", completed.WorkflowID,
				"execution_id", completed.ExecutionID,
				"duration_ms", completed.DurationMs,
				"steps", completed.StepCount)
		}

		return nil
	})

	bus.Handle(events.ExecutionFailedEvent, func(_ context.Context, event any) error {
		if failed, ok := event.(*events.ExecutionFailed); ok {
			logger.Warn("Execution failed",
				"workflow_id", failed.WorkflowID,
				"execution_id", failed.ExecutionID,
				"duration_ms", failed.DurationMs,
				"error", failed.Error)
		}

		return nil
	})

	return bus.Subscribe(ctx)
}
