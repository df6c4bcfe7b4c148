package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/commerceops/flowline/pkg/models"
	"github.com/commerceops/flowline/pkg/persistence"
	"github.com/google/uuid"
)

const dirPermissions = 0o755

// WorkflowRepository handles workflow-related file operations.
type WorkflowRepository struct {
	root string
	mu   sync.Mutex
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(root string) *WorkflowRepository {
	return &WorkflowRepository{root: root}
}

func (wr *WorkflowRepository) GetByID(_ context.Context, id string) (*models.WorkflowDefinition, error) {
	data, err := os.ReadFile(wr.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrWorkflowNotFound
		}

		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}

	var workflow models.WorkflowDefinition

	err = json.Unmarshal(data, &workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow %s: %w", id, err)
	}

	return &workflow, nil
}

func (wr *WorkflowRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.WorkflowDefinition, error) {
	all, err := wr.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	workflows := make([]*models.WorkflowDefinition, 0)

	for _, workflow := range all {
		if workflow.OwnerID == ownerID {
			workflows = append(workflows, workflow)
		}
	}

	return workflows, nil
}

func (wr *WorkflowRepository) ListScheduled(ctx context.Context) ([]*models.WorkflowDefinition, error) {
	all, err := wr.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	workflows := make([]*models.WorkflowDefinition, 0)

	for _, workflow := range all {
		if workflow.TriggerType == models.TriggerTypeSchedule && workflow.Status == models.WorkflowStatusActive {
			workflows = append(workflows, workflow)
		}
	}

	return workflows, nil
}

func (wr *WorkflowRepository) Save(_ context.Context, workflow *models.WorkflowDefinition) error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	now := time.Now().UTC()

	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	if workflow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate workflow ID: %w", err)
		}

		workflow.ID = id.String()
	}

	return wr.write(workflow)
}

func (wr *WorkflowRepository) IncrementCounters(ctx context.Context, id string, success bool, executedAt time.Time) error {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	workflow, err := wr.GetByID(ctx, id)
	if err != nil {
		return err
	}

	workflow.ExecutionCount++

	if success {
		workflow.SuccessCount++
	} else {
		workflow.FailureCount++
	}

	workflow.LastExecutedAt = &executedAt

	return wr.write(workflow)
}

func (wr *WorkflowRepository) loadAll(ctx context.Context) ([]*models.WorkflowDefinition, error) {
	dir := filepath.Join(wr.root, "workflows")

	jsonFiles, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow files: %w", err)
	}

	workflows := make([]*models.WorkflowDefinition, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		workflowID := file[:len(file)-5] // Remove .json extension

		workflow, err := wr.GetByID(ctx, workflowID)
		if err != nil {
			return nil, fmt.Errorf("failed to load workflow %s: %w", workflowID, err)
		}

		workflows = append(workflows, workflow)
	}

	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].CreatedAt.After(workflows[j].CreatedAt)
	})

	return workflows, nil
}

func (wr *WorkflowRepository) write(workflow *models.WorkflowDefinition) error {
	err := os.MkdirAll(filepath.Join(wr.root, "workflows"), dirPermissions)
	if err != nil {
		return fmt.Errorf("failed to create workflows directory: %w", err)
	}

	data, err := json.MarshalIndent(workflow, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workflow: %w", err)
	}

	err = os.WriteFile(wr.path(workflow.ID), data, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write workflow file: %w", err)
	}

	return nil
}

func (wr *WorkflowRepository) path(id string) string {
	return filepath.Join(wr.root, "workflows", id+".json")
}
