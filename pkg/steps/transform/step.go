// Package transform implements the transform_data step: an ordered list of
// map/set/calculate/format transformations applied to a working copy of the
// data context.
package transform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/commerceops/flowline/pkg/models"
	"github.com/commerceops/flowline/pkg/template"
)

type transformation struct {
	Type      string
	Source    string
	Target    string
	Value     string
	Operation string
}

type Handler struct {
	transformations []transformation
}

func NewHandler(config map[string]any) (*Handler, error) {
	rawList, ok := config["transformations"].([]any)
	if !ok {
		return nil, errors.New("missing required field 'transformations'")
	}

	transformations := make([]transformation, 0, len(rawList))

	for i, raw := range rawList {
		doc, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("transformation %d is not a document", i)
		}

		t := transformation{}
		t.Type, _ = doc["type"].(string)
		t.Source, _ = doc["source"].(string)
		t.Target, _ = doc["target"].(string)
		t.Value, _ = doc["value"].(string)
		t.Operation, _ = doc["operation"].(string)

		switch t.Type {
		case "map", "set", "calculate", "format":
		default:
			return nil, fmt.Errorf("transformation %d has unknown type %q", i, t.Type)
		}

		if t.Target == "" {
			return nil, fmt.Errorf("transformation %d is missing 'target'", i)
		}

		transformations = append(transformations, t)
	}

	return &Handler{transformations: transformations}, nil
}

// Execute applies each transformation in order against a working copy of the
// context and returns the full working copy, so later transformations see
// earlier targets.
func (h *Handler) Execute(_ context.Context, execCtx *models.ExecutionContext) (map[string]any, error) {
	working := models.CloneData(execCtx.Data)
	if working == nil {
		working = make(map[string]any)
	}

	for i, t := range h.transformations {
		if err := applyTransformation(working, t); err != nil {
			return nil, fmt.Errorf("transformation %d (%s): %w", i, t.Type, err)
		}
	}

	return working, nil
}

func applyTransformation(working map[string]any, t transformation) error {
	switch t.Type {
	case "map":
		value, ok := template.Lookup(working, t.Source)
		if !ok {
			return fmt.Errorf("source field %q not found", t.Source)
		}

		template.SetPath(working, t.Target, value)
	case "set":
		template.SetPath(working, t.Target, template.Resolve(t.Value, working))
	case "calculate":
		result, err := evaluateExpression(t.Operation, working)
		if err != nil {
			return err
		}

		template.SetPath(working, t.Target, result)
	case "format":
		value, ok := template.Lookup(working, t.Source)
		if !ok {
			return fmt.Errorf("source field %q not found", t.Source)
		}

		// The formatter name rides in 'value' for format transformations.
		formatted, err := applyFormat(t.Value, value)
		if err != nil {
			return err
		}

		template.SetPath(working, t.Target, formatted)
	}

	return nil
}

func applyFormat(format string, value any) (any, error) {
	switch format {
	case "uppercase":
		return strings.ToUpper(template.Stringify(value)), nil
	case "lowercase":
		return strings.ToLower(template.Stringify(value)), nil
	case "date":
		return formatDate(value)
	case "number":
		number, err := fieldToNumber("value", value)
		if err != nil {
			return nil, err
		}

		return fmt.Sprintf("%.2f", number), nil
	default:
		return nil, fmt.Errorf("unknown formatter %q", format)
	}
}

func formatDate(value any) (string, error) {
	switch v := value.(type) {
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return "", fmt.Errorf("cannot parse %q as RFC3339 timestamp", v)
		}

		return parsed.Format("2006-01-02"), nil
	case float64:
		// Numeric values are unix epoch seconds.
		return time.Unix(int64(v), 0).UTC().Format("2006-01-02"), nil
	default:
		return "", fmt.Errorf("cannot format %T as date", value)
	}
}
