// Package main provides the Flowline API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/commerceops/flowline/pkg/auth"
	"github.com/commerceops/flowline/pkg/persistence"
	"github.com/commerceops/flowline/pkg/registry"
	"github.com/commerceops/flowline/pkg/web"
	"github.com/commerceops/flowline/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/keyauth"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger        *slog.Logger
	store         persistence.Persistence
	registry      *registry.Registry
	trigger       *workflow.TriggerService
	authenticator auth.Authenticator
	validate      *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	store persistence.Persistence,
	reg *registry.Registry,
	trigger *workflow.TriggerService,
	authenticator auth.Authenticator,
) *API {
	return &API{
		logger:        logger,
		store:         store,
		registry:      reg,
		trigger:       trigger,
		authenticator: authenticator,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.logger, a.store, a.registry, a.trigger, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())
	app.Get("/health", handlers.HealthCheck)

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Flowline API")
	})

	app.Use(keyauth.New(keyauth.Config{
		Validator: func(c fiber.Ctx, key string) (bool, error) {
			owner, err := a.authenticator.Authenticate(key)
			if err != nil {
				return false, err
			}

			c.Locals(web.OwnerIDLocal, owner)

			return true, nil
		},
	}))

	app.Get("/step-types", handlers.GetStepTypes)

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Patch("/:id", handlers.UpdateWorkflow)
	w.Post("/:id/trigger", handlers.TriggerWorkflow)
	w.Get("/:id/executions", handlers.GetWorkflowExecutions)

	app.Post("/webhooks/:id", handlers.WebhookTrigger)
	app.Get("/executions/:id", handlers.GetExecution)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
