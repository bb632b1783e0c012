package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/terraincognita07/cradle/internal/advisor"
	"github.com/terraincognita07/cradle/internal/api"
	"github.com/terraincognita07/cradle/internal/config"
	"github.com/terraincognita07/cradle/internal/db"
	"github.com/terraincognita07/cradle/internal/logging"
	"github.com/terraincognita07/cradle/internal/telemetry"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("logger init failed: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	time.Local = cfg.Location

	database, err := db.OpenSQLite(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	options := api.Options{
		SecretKey:    cfg.Server.SecretKey,
		Location:     cfg.Location,
		CookieSecure: cfg.Server.CookieSecure,
		Logger:       logger,
	}

	advisorService, err := buildAdvisor(ctx, cfg, logger)
	if err != nil {
		return err
	}
	options.Advisor = advisorService

	var poller *telemetry.Poller
	if cfg.TelemetryEnabled() {
		poller, err = buildPoller(cfg, logger)
		if err != nil {
			return err
		}
		if err := poller.Start(); err != nil {
			return fmt.Errorf("start vitals poller: %w", err)
		}
		options.Vitals = poller
	} else {
		logger.Info("vitals monitor disabled")
	}

	handler, err := api.NewHandler(database, options)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := newApp(handler, logger)

	sigCtx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("port", cfg.Server.Port),
			zap.String("db", cfg.Database.Path),
			zap.String("tz", cfg.Location.String()),
			zap.Bool("advisor", advisorService.Enabled()),
			zap.Bool("vitals", poller != nil),
		)
		serveErr <- app.Listen(":" + cfg.Server.Port)
	}()

	select {
	case err := <-serveErr:
		stopPoller(poller, logger)
		return fmt.Errorf("server exited: %w", err)
	case <-sigCtx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	stopPoller(poller, logger)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func newApp(handler *api.Handler, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Cradle",
		DisableStartupMessage: true,
		BodyLimit:             256 * 1024,
		ErrorHandler:          jsonErrorHandler(logger),
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logging.RequestLogger(logger))
	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

// jsonErrorHandler keeps framework errors (bad method, oversized body) in
// the same {"error","message"} shape as handler errors.
func jsonErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "Something went wrong. Please try again."
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			message = fiberErr.Message
		} else {
			logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		code := "internal error"
		if status < fiber.StatusInternalServerError {
			code = "invalid input"
		}
		return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
	}
}

// buildAdvisor returns a disabled service when no API key is configured.
func buildAdvisor(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*advisor.Service, error) {
	if !cfg.AdvisorEnabled() {
		logger.Info("advisor disabled")
		return advisor.NewService(nil, 0, logger), nil
	}
	generator, err := advisor.NewGenAIGenerator(ctx, cfg.Advisor.APIKey, cfg.Advisor.Model)
	if err != nil {
		return nil, fmt.Errorf("advisor init failed: %w", err)
	}
	return advisor.NewService(generator, advisor.DefaultTimeout, logger), nil
}

func buildPoller(cfg *config.Config, logger *zap.Logger) (*telemetry.Poller, error) {
	client := telemetry.NewClient(cfg.Telemetry.BaseURL, cfg.Telemetry.ChannelID, cfg.Telemetry.ReadKey, nil)
	poller, err := telemetry.NewPoller(client, cfg.TelemetryFields(), telemetry.PollerOptions{
		Interval: cfg.PollInterval(),
		Results:  cfg.Telemetry.Results,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("vitals poller init failed: %w", err)
	}
	return poller, nil
}

func stopPoller(poller *telemetry.Poller, logger *zap.Logger) {
	if poller == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := poller.Stop(ctx); err != nil {
		logger.Warn("vitals poller did not stop cleanly", zap.Error(err))
	}
}
