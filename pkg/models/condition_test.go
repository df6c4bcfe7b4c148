package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCondition(t *testing.T) {
	condition, err := ParseCondition(map[string]any{
		"field":    "order.total",
		"operator": "greater_than",
		"value":    100,
	})
	require.NoError(t, err)
	assert.Equal(t, "order.total", condition.Field)
	assert.Equal(t, OperatorGreaterThan, condition.Operator)
	assert.Equal(t, 100, condition.Value)

	_, err = ParseCondition(map[string]any{"operator": "equals"})
	require.Error(t, err)

	_, err = ParseCondition(map[string]any{"field": "order.total"})
	require.Error(t, err)
}

func TestCondition_Evaluate(t *testing.T) {
	data := map[string]any{
		"order": map[string]any{
			"total":  150.0,
			"status": "paid",
			"note":   "priority customer",
		},
	}

	tests := []struct {
		name      string
		condition Condition
		expected  bool
	}{
		{
			name:      "equals true",
			condition: Condition{Field: "order.status", Operator: OperatorEquals, Value: "paid"},
			expected:  true,
		},
		{
			name:      "equals false",
			condition: Condition{Field: "order.status", Operator: OperatorEquals, Value: "refunded"},
			expected:  false,
		},
		{
			name:      "equals across types via stringification",
			condition: Condition{Field: "order.total", Operator: OperatorEquals, Value: "150"},
			expected:  true,
		},
		{
			name:      "not_equals",
			condition: Condition{Field: "order.status", Operator: OperatorNotEquals, Value: "refunded"},
			expected:  true,
		},
		{
			name:      "greater_than true",
			condition: Condition{Field: "order.total", Operator: OperatorGreaterThan, Value: 100},
			expected:  true,
		},
		{
			name:      "greater_than false",
			condition: Condition{Field: "order.total", Operator: OperatorGreaterThan, Value: 200},
			expected:  false,
		},
		{
			name:      "less_than with string value coercion",
			condition: Condition{Field: "order.total", Operator: OperatorLessThan, Value: "200"},
			expected:  true,
		},
		{
			name:      "contains",
			condition: Condition{Field: "order.note", Operator: OperatorContains, Value: "priority"},
			expected:  true,
		},
		{
			name:      "not_contains",
			condition: Condition{Field: "order.note", Operator: OperatorNotContains, Value: "refund"},
			expected:  true,
		},
		{
			name:      "exists true",
			condition: Condition{Field: "order.status", Operator: OperatorExists},
			expected:  true,
		},
		{
			name:      "exists false",
			condition: Condition{Field: "order.missing", Operator: OperatorExists},
			expected:  false,
		},
		{
			name:      "not_exists",
			condition: Condition{Field: "order.missing", Operator: OperatorNotExists},
			expected:  true,
		},
		{
			name:      "missing field fails comparison",
			condition: Condition{Field: "order.missing", Operator: OperatorGreaterThan, Value: 1},
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.condition.Evaluate(data)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCondition_Evaluate_Errors(t *testing.T) {
	data := map[string]any{"status": "paid"}

	_, err := Condition{Field: "status", Operator: OperatorGreaterThan, Value: 1}.Evaluate(data)
	require.Error(t, err)

	_, err = Condition{Field: "status", Operator: "like", Value: "p"}.Evaluate(data)
	require.Error(t, err)
}
