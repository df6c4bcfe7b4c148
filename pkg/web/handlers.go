// Package web provides the HTTP handlers for the workflow API.
package web

import (
	"log/slog"

	"github.com/commerceops/flowline/pkg/models"
	"github.com/commerceops/flowline/pkg/persistence"
	"github.com/commerceops/flowline/pkg/registry"
	"github.com/commerceops/flowline/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// OwnerIDLocal is the fiber locals key the auth middleware stores the
// authenticated owner under.
const OwnerIDLocal = "owner_id"

type APIHandlers struct {
	logger   *slog.Logger
	store    persistence.Persistence
	registry *registry.Registry
	trigger  *workflow.TriggerService
	validate *validator.Validate
}

func NewAPIHandlers(
	logger *slog.Logger,
	store persistence.Persistence,
	reg *registry.Registry,
	trigger *workflow.TriggerService,
	validate *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		logger:   logger,
		store:    store,
		registry: reg,
		trigger:  trigger,
		validate: validate,
	}
}

func (h *APIHandlers) internal(c fiber.Ctx, err error) error {
	h.logger.Error("Request failed", "path", c.Path(), "error", err)

	return internalError(c, err)
}

func ownerID(c fiber.Ctx) string {
	owner, _ := c.Locals(OwnerIDLocal).(string)

	return owner
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.store.WorkflowRepository().ListByOwner(c.Context(), ownerID(c))
	if err != nil {
		return h.internal(c, err)
	}

	return c.JSON(workflows)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	wf, err := h.loadOwned(c)
	if err != nil {
		return notFound(c, "workflow not found")
	}

	return c.JSON(wf)
}

type createWorkflowRequest struct {
	Name          string                `json:"name"           validate:"required,min=3"`
	Description   string                `json:"description"`
	Status        models.WorkflowStatus `json:"status"         validate:"omitempty,oneof=draft active paused"`
	TriggerType   models.TriggerType    `json:"trigger_type"   validate:"omitempty,oneof=manual schedule webhook"`
	TriggerConfig map[string]any        `json:"trigger_config"`
	Steps         []models.Step         `json:"steps"`
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req createWorkflowRequest

	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	// Step configs are checked against their handler schemas up front so a
	// bad definition fails at save time, not mid-run.
	for _, step := range req.Steps {
		if err := h.registry.ValidateConfig(step.Type, step.Config); err != nil {
			return badRequest(c, err.Error())
		}
	}

	wf := &models.WorkflowDefinition{
		OwnerID:       ownerID(c),
		Name:          req.Name,
		Description:   req.Description,
		Status:        req.Status,
		TriggerType:   req.TriggerType,
		TriggerConfig: req.TriggerConfig,
		Steps:         req.Steps,
	}

	if wf.Status == "" {
		wf.Status = models.WorkflowStatusDraft
	}

	if wf.TriggerType == "" {
		wf.TriggerType = models.TriggerTypeManual
	}

	if err := h.store.WorkflowRepository().Save(c.Context(), wf); err != nil {
		return h.internal(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(wf)
}

type updateWorkflowRequest struct {
	Name          *string                `json:"name"           validate:"omitempty,min=3"`
	Description   *string                `json:"description"`
	Status        *models.WorkflowStatus `json:"status"         validate:"omitempty,oneof=draft active paused"`
	TriggerType   *models.TriggerType    `json:"trigger_type"   validate:"omitempty,oneof=manual schedule webhook"`
	TriggerConfig map[string]any         `json:"trigger_config"`
	Steps         []models.Step          `json:"steps"`
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	wf, err := h.loadOwned(c)
	if err != nil {
		return notFound(c, "workflow not found")
	}

	var req updateWorkflowRequest

	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if req.Name != nil {
		wf.Name = *req.Name
	}

	if req.Description != nil {
		wf.Description = *req.Description
	}

	if req.Status != nil {
		wf.Status = *req.Status
	}

	if req.TriggerType != nil {
		wf.TriggerType = *req.TriggerType
	}

	if req.TriggerConfig != nil {
		wf.TriggerConfig = req.TriggerConfig
	}

	if req.Steps != nil {
		for _, step := range req.Steps {
			if err := h.registry.ValidateConfig(step.Type, step.Config); err != nil {
				return badRequest(c, err.Error())
			}
		}

		wf.Steps = req.Steps
	}

	if err := h.store.WorkflowRepository().Save(c.Context(), wf); err != nil {
		return h.internal(c, err)
	}

	return c.JSON(wf)
}

type triggerRequestBody struct {
	Data map[string]any `json:"data"`
}

// TriggerWorkflow starts one run on behalf of the authenticated owner.
// API-initiated runs count as manual execution, so draft and paused
// workflows can be tested here.
func (h *APIHandlers) TriggerWorkflow(c fiber.Ctx) error {
	var body triggerRequestBody

	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&body); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	response, err := h.trigger.Trigger(c.Context(), workflow.TriggerRequest{
		WorkflowID:      c.Params("id"),
		TriggerData:     body.Data,
		ManualExecution: true,
		CallerID:        ownerID(c),
	})
	if err != nil {
		return handleTriggerError(c, err)
	}

	return c.JSON(response)
}

// WebhookTrigger starts a run for webhook-type workflows. The workflow must
// be active: webhook calls are not manual execution.
func (h *APIHandlers) WebhookTrigger(c fiber.Ctx) error {
	var data map[string]any

	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&data); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	response, err := h.trigger.Trigger(c.Context(), workflow.TriggerRequest{
		WorkflowID:  c.Params("id"),
		TriggerData: data,
		CallerID:    ownerID(c),
	})
	if err != nil {
		return handleTriggerError(c, err)
	}

	return c.JSON(response)
}

func (h *APIHandlers) GetWorkflowExecutions(c fiber.Ctx) error {
	if _, err := h.loadOwned(c); err != nil {
		return notFound(c, "workflow not found")
	}

	limit := fiber.Query(c, "limit", 0)

	records, err := h.store.ExecutionRepository().ListByWorkflow(c.Context(), c.Params("id"), limit)
	if err != nil {
		return h.internal(c, err)
	}

	return c.JSON(records)
}

func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	record, err := h.store.ExecutionRepository().GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if persistence.IsExecutionNotFound(err) {
			return notFound(c, "execution not found")
		}

		return h.internal(c, err)
	}

	// Executions are only visible through their owning workflow.
	wf, err := h.store.WorkflowRepository().GetByID(c.Context(), record.WorkflowID)
	if err != nil || wf.OwnerID != ownerID(c) {
		return notFound(c, "execution not found")
	}

	return c.JSON(record)
}

func (h *APIHandlers) GetStepTypes(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"step_types": h.registry.StepTypes()})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	if err := h.store.HealthCheck(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy"})
	}

	return c.JSON(fiber.Map{"status": "healthy"})
}

func (h *APIHandlers) loadOwned(c fiber.Ctx) (*models.WorkflowDefinition, error) {
	wf, err := h.store.WorkflowRepository().GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return nil, err
	}

	if wf.OwnerID != ownerID(c) {
		return nil, persistence.ErrWorkflowNotFound
	}

	return wf, nil
}
