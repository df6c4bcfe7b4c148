package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateExpression(t *testing.T) {
	data := map[string]any{
		"order": map[string]any{
			"subtotal": 100.0,
			"tax_rate": 0.2,
			"items":    float64(4),
		},
		"discount": "15",
	}

	tests := []struct {
		name       string
		expression string
		expected   float64
	}{
		{name: "literal", expression: "42", expected: 42},
		{name: "addition", expression: "1 + 2 + 3", expected: 6},
		{name: "precedence", expression: "2 + 3 * 4", expected: 14},
		{name: "parentheses", expression: "(2 + 3) * 4", expected: 20},
		{name: "field reference", expression: "order.subtotal * order.tax_rate", expected: 20},
		{name: "numeric string field", expression: "order.subtotal - discount", expected: 85},
		{name: "unary minus", expression: "-order.items + 10", expected: 6},
		{name: "nested parens", expression: "((order.subtotal + 20) / order.items)", expected: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := evaluateExpression(tt.expression, data)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, result, 0.0001)
		})
	}
}

func TestEvaluateExpression_Errors(t *testing.T) {
	data := map[string]any{
		"name":  "alice",
		"count": 2.0,
	}

	tests := []struct {
		name       string
		expression string
	}{
		{name: "empty", expression: ""},
		{name: "division by zero", expression: "1 / 0"},
		{name: "unknown field", expression: "missing.field + 1"},
		{name: "non-numeric field", expression: "name * 2"},
		{name: "dangling operator", expression: "count +"},
		{name: "unexpected character", expression: "count & 2"},
		{name: "missing closing paren", expression: "(count + 1"},
		{name: "trailing tokens", expression: "count 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evaluateExpression(tt.expression, data)
			require.Error(t, err)
		})
	}
}
