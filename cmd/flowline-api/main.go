package main

import (
	"context"
	"os"

	"github.com/commerceops/flowline/pkg/auth"
	"github.com/commerceops/flowline/pkg/cmd"
	"github.com/commerceops/flowline/pkg/log"
	"github.com/commerceops/flowline/pkg/workflow"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9080

func main() {
	command := &cli.Command{
		Name:                  "flowline-api",
		Usage:                 "Create, manage and trigger automation workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "api-tokens",
				Usage:    "Comma-separated token:owner pairs for API authentication",
				Required: true,
				Sources:  cli.EnvVars("API_TOKENS"),
			},
			&cli.StringFlag{
				Name:    "step-tables",
				Usage:   "Comma-separated tables database steps may write to",
				Sources: cli.EnvVars("STEP_TABLES"),
			},
			&cli.StringFlag{
				Name:    "http-allowed-hosts",
				Usage:   "Comma-separated hosts http_request steps may call (empty allows all)",
				Sources: cli.EnvVars("HTTP_ALLOWED_HOSTS"),
			},
			&cli.StringFlag{
				Name:    "smtp-url",
				Usage:   "SMTP URL for send_email steps (empty logs instead of sending)",
				Sources: cli.EnvVars("SMTP_URL"),
			},
			&cli.StringFlag{
				Name:    "smtp-from",
				Usage:   "Default sender address for send_email steps",
				Value:   "workflows@localhost",
				Sources: cli.EnvVars("SMTP_FROM"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for daily execution quotas (empty disables quotas)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.Int64Flag{
				Name:    "daily-execution-cap",
				Usage:   "Maximum executions per owner per day",
				Sources: cli.EnvVars("DAILY_EXECUTION_CAP"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("api")
			logger.InfoContext(ctx, "Initializing Flowline API")

			store, err := cmd.NewPersistence(ctx, logger, command.String("database-url"), command.String("step-tables"))
			if err != nil {
				return err
			}

			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			mail, err := cmd.NewMailer(logger, command.String("smtp-url"), command.String("smtp-from"))
			if err != nil {
				return err
			}

			limiter, err := cmd.NewLimiter(command.String("redis-url"), command.Int64("daily-execution-cap"))
			if err != nil {
				return err
			}

			authenticator, err := auth.NewStaticAuthenticator(command.String("api-tokens"))
			if err != nil {
				return err
			}

			eventBus := cmd.NewEventBus(logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			if err := cmd.SubscribeLifecycleLogging(ctx, eventBus, logger); err != nil {
				return err
			}

			registry := cmd.NewRegistry(logger, store.RowStore(), mail, command.String("http-allowed-hosts"))
			runner := workflow.NewRunner(registry, logger)
			accountant := workflow.NewAccountant(store.WorkflowRepository(), store.ExecutionRepository(), logger)
			trigger := workflow.NewTriggerService(
				store.WorkflowRepository(),
				store.ExecutionRepository(),
				runner,
				accountant,
				limiter,
				eventBus,
				logger,
			)

			api := NewAPI(logger, store, registry, trigger, authenticator)

			return api.Start(command.Int("port"))
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
