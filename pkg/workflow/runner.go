// Package workflow drives workflow runs: the per-step execution loop, the
// trigger entry point and the execution accountant.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/commerceops/flowline/pkg/models"
	"github.com/commerceops/flowline/pkg/otelhelper"
	"github.com/commerceops/flowline/pkg/registry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Runner executes one workflow's steps sequentially against a shared data
// context. Step i+1 never begins before step i's handler has returned: later
// steps may depend on data produced by earlier ones.
type Runner struct {
	registry *registry.Registry
	logger   *slog.Logger
	tracer   trace.Tracer
}

func NewRunner(reg *registry.Registry, logger *slog.Logger) *Runner {
	return &Runner{
		registry: reg,
		logger:   logger,
		tracer:   otel.Tracer("flowline/workflow"),
	}
}

// Run executes the ordered steps against the initial context and returns the
// aggregate result. Step failures are recovered here: they are recorded and
// either tolerated (continueOnError) or used to abort; they never propagate
// as errors past the runner.
func (r *Runner) Run(ctx context.Context, workflowID, executionID string, steps []models.Step, initial map[string]any) models.ExecutionResult {
	logger := r.logger.With("workflow_id", workflowID, "execution_id", executionID)

	runCtx, span := otelhelper.StartSpan(ctx, r.tracer, "workflow.run",
		attribute.String(otelhelper.WorkflowIDKey, workflowID),
		attribute.String(otelhelper.ExecutionIDKey, executionID),
	)
	defer span.End()

	data := models.CloneData(initial)
	if data == nil {
		data = make(map[string]any)
	}

	result := models.ExecutionResult{
		Success:     true,
		StepResults: make([]models.StepResult, 0, len(steps)),
	}

	started := time.Now()

	for position, step := range steps {
		// Cancellation is checked between steps; a running handler finishes.
		if err := runCtx.Err(); err != nil {
			result.Success = false
			result.ErrorMessage = fmt.Sprintf("run cancelled before step %d: %v", position+1, err)

			break
		}

		stepLogger := logger.With("step_type", step.Type, "position", position)
		stepLogger.Info("Executing step")

		input := models.CloneData(data)
		stepStarted := time.Now()

		output, err := r.executeStep(runCtx, step, &models.ExecutionContext{
			ExecutionID: executionID,
			WorkflowID:  workflowID,
			Data:        data,
			Logger:      stepLogger,
		})

		duration := time.Since(stepStarted).Milliseconds()

		if err != nil {
			stepLogger.Warn("Step failed", "error", err, "duration_ms", duration)

			result.StepResults = append(result.StepResults, models.StepResult{
				Step:       step.Type,
				Position:   position,
				Status:     models.StepStatusError,
				DurationMs: duration,
				Input:      input,
				Error:      err.Error(),
				Config:     step.Config,
			})

			if step.ContinueOnError() {
				// Tolerated failure: the run continues but is no longer a success.
				result.Success = false

				continue
			}

			result.Success = false
			result.ErrorMessage = fmt.Sprintf("Step %d (%s) failed: %s", position+1, step.Type, err.Error())

			break
		}

		stepLogger.Info("Step completed", "duration_ms", duration)

		result.StepResults = append(result.StepResults, models.StepResult{
			Step:       step.Type,
			Position:   position,
			Status:     models.StepStatusSuccess,
			DurationMs: duration,
			Input:      input,
			Output:     output,
			Config:     step.Config,
		})

		// Shallow merge: later keys win on conflict, nested documents are
		// replaced whole, never deep-merged.
		for k, v := range output {
			data[k] = v
		}
	}

	result.DurationMs = time.Since(started).Milliseconds()
	result.FinalContext = data

	if !result.Success && result.ErrorMessage != "" {
		otelhelper.SetError(span, fmt.Errorf("%s", result.ErrorMessage))
	}

	return result
}

func (r *Runner) executeStep(ctx context.Context, step models.Step, execCtx *models.ExecutionContext) (map[string]any, error) {
	stepCtx, span := otelhelper.StartSpan(ctx, r.tracer, "workflow.step",
		attribute.String(otelhelper.StepTypeKey, step.Type),
	)
	defer span.End()

	handler, err := r.registry.Create(step.Type, step.Config)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	output, err := handler.Execute(stepCtx, execCtx)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	return output, nil
}
