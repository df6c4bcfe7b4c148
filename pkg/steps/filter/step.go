// Package filter implements the filter step: the run proceeds only when the
// predicate holds. A false condition is a step failure, never a silent
// pass-through, so abort-by-default stops the workflow at the filter.
package filter

import (
	"context"
	"errors"
	"fmt"

	"github.com/commerceops/flowline/pkg/models"
)

type Handler struct {
	condition models.Condition
}

func NewHandler(config map[string]any) (*Handler, error) {
	conditionDoc, ok := config["condition"].(map[string]any)
	if !ok {
		return nil, errors.New("missing required field 'condition'")
	}

	condition, err := models.ParseCondition(conditionDoc)
	if err != nil {
		return nil, err
	}

	return &Handler{condition: condition}, nil
}

func (h *Handler) Execute(_ context.Context, execCtx *models.ExecutionContext) (map[string]any, error) {
	result, err := h.condition.Evaluate(execCtx.Data)
	if err != nil {
		return nil, fmt.Errorf("condition evaluation failed: %w", err)
	}

	if !result {
		return nil, fmt.Errorf("data does not pass filter (%s %s %v)",
			h.condition.Field, h.condition.Operator, h.condition.Value)
	}

	return map[string]any{}, nil
}
