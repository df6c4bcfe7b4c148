// Package main provides the Flowline scheduler daemon. It triggers active
// schedule-type workflows on their cron expressions.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/commerceops/flowline/pkg/cmd"
	"github.com/commerceops/flowline/pkg/log"
	"github.com/commerceops/flowline/pkg/scheduler"
	"github.com/commerceops/flowline/pkg/workflow"
	cli "github.com/urfave/cli/v3"
)

func main() {
	command := &cli.Command{
		Name:                  "flowline-scheduler",
		Usage:                 "Run scheduled workflows on their cron expressions",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
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

			logger := log.WithModule("scheduler")
			logger.InfoContext(ctx, "Initializing Flowline scheduler")

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

			runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return scheduler.NewScheduler(store.WorkflowRepository(), trigger, logger).Start(runCtx)
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
