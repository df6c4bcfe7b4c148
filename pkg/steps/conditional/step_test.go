package conditional

import (
	"context"
	"log/slog"
	"testing"

	"github.com/commerceops/flowline/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execContext(data map[string]any) *models.ExecutionContext {
	return &models.ExecutionContext{Data: data, Logger: slog.New(slog.DiscardHandler)}
}

func TestNewHandler_RequiresCondition(t *testing.T) {
	_, err := NewHandler(map[string]any{})
	require.Error(t, err)

	_, err = NewHandler(map[string]any{
		"condition": map[string]any{"operator": "equals"},
	})
	require.Error(t, err)
}

func TestHandler_Execute_TrueBranch(t *testing.T) {
	handler, err := NewHandler(map[string]any{
		"condition": map[string]any{
			"field":    "order.total",
			"operator": "greater_than",
			"value":    100,
		},
		"trueValue":  "expedite",
		"falseValue": "standard",
	})
	require.NoError(t, err)

	output, err := handler.Execute(context.Background(), execContext(map[string]any{
		"order": map[string]any{"total": 250.0},
	}))
	require.NoError(t, err)
	assert.Equal(t, true, output["conditionResult"])
	assert.Equal(t, "expedite", output["value"])
}

// A false condition is a successful step; only the branch value differs.
func TestHandler_Execute_FalseBranchIsNotAFailure(t *testing.T) {
	handler, err := NewHandler(map[string]any{
		"condition": map[string]any{
			"field":    "order.total",
			"operator": "greater_than",
			"value":    100,
		},
		"trueValue":  "expedite",
		"falseValue": "standard",
	})
	require.NoError(t, err)

	output, err := handler.Execute(context.Background(), execContext(map[string]any{
		"order": map[string]any{"total": 10.0},
	}))
	require.NoError(t, err)
	assert.Equal(t, false, output["conditionResult"])
	assert.Equal(t, "standard", output["value"])
}

func TestHandler_Execute_EvaluationError(t *testing.T) {
	handler, err := NewHandler(map[string]any{
		"condition": map[string]any{
			"field":    "name",
			"operator": "greater_than",
			"value":    5,
		},
	})
	require.NoError(t, err)

	_, err = handler.Execute(context.Background(), execContext(map[string]any{"name": "alice"}))
	require.Error(t, err)
}
