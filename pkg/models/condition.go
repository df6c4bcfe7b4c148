// Package models provides condition evaluation for conditional and filter steps.
package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/commerceops/flowline/pkg/template"
)

// ConditionOperator is one of the fixed comparison operators.
type ConditionOperator string

const (
	OperatorEquals      ConditionOperator = "equals"
	OperatorNotEquals   ConditionOperator = "not_equals"
	OperatorGreaterThan ConditionOperator = "greater_than"
	OperatorLessThan    ConditionOperator = "less_than"
	OperatorContains    ConditionOperator = "contains"
	OperatorNotContains ConditionOperator = "not_contains"
	OperatorExists      ConditionOperator = "exists"
	OperatorNotExists   ConditionOperator = "not_exists"
)

// Condition is a single (field, operator, value) predicate evaluated against
// the data context. Field is a dot-separated path.
type Condition struct {
	Field    string            `json:"field"`
	Operator ConditionOperator `json:"operator"`
	Value    any               `json:"value,omitempty"`
}

// ParseCondition extracts a condition from a step config document.
func ParseCondition(doc map[string]any) (Condition, error) {
	field, _ := doc["field"].(string)
	if field == "" {
		return Condition{}, fmt.Errorf("condition is missing required field 'field'")
	}

	operator, _ := doc["operator"].(string)
	if operator == "" {
		return Condition{}, fmt.Errorf("condition is missing required field 'operator'")
	}

	return Condition{
		Field:    field,
		Operator: ConditionOperator(operator),
		Value:    doc["value"],
	}, nil
}

// Evaluate applies the predicate to the data context. greater_than and
// less_than coerce both sides to numbers; equals and contains compare
// stringified values; exists checks path presence.
func (c Condition) Evaluate(data map[string]any) (bool, error) {
	actual, found := template.Lookup(data, c.Field)

	switch c.Operator {
	case OperatorExists:
		return found, nil
	case OperatorNotExists:
		return !found, nil
	case OperatorEquals:
		return found && template.Stringify(actual) == template.Stringify(c.Value), nil
	case OperatorNotEquals:
		return !found || template.Stringify(actual) != template.Stringify(c.Value), nil
	case OperatorContains:
		return found && strings.Contains(template.Stringify(actual), template.Stringify(c.Value)), nil
	case OperatorNotContains:
		return !found || !strings.Contains(template.Stringify(actual), template.Stringify(c.Value)), nil
	case OperatorGreaterThan, OperatorLessThan:
		if !found {
			return false, nil
		}

		left, err := toNumber(actual)
		if err != nil {
			return false, fmt.Errorf("field %q: %w", c.Field, err)
		}

		right, err := toNumber(c.Value)
		if err != nil {
			return false, fmt.Errorf("condition value: %w", err)
		}

		if c.Operator == OperatorGreaterThan {
			return left > right, nil
		}

		return left < right, nil
	default:
		return false, fmt.Errorf("unsupported condition operator %q", c.Operator)
	}
}

func toNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot coerce %q to number", n)
		}

		return parsed, nil
	default:
		return 0, fmt.Errorf("cannot coerce %T to number", v)
	}
}
