// Package delay implements the delay step: a fixed suspension of the run.
package delay

import (
	"context"
	"time"

	"github.com/commerceops/flowline/pkg/models"
)

const defaultDurationMs = 1000

type Handler struct {
	duration time.Duration
}

func NewHandler(config map[string]any) (*Handler, error) {
	duration := defaultDurationMs * time.Millisecond
	if d, ok := config["duration_ms"].(float64); ok && d > 0 {
		duration = time.Duration(d) * time.Millisecond
	}

	return &Handler{duration: duration}, nil
}

func (h *Handler) Execute(ctx context.Context, _ *models.ExecutionContext) (map[string]any, error) {
	timer := time.NewTimer(h.duration)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return map[string]any{"delayed": h.duration.Milliseconds()}, nil
}
