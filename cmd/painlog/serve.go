package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"painlog/cmd/migration/initialize"
	"painlog/internal/app"
	"painlog/internal/handlers"
	"painlog/internal/handlers/middleware"
	"painlog/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")
}

func newServer(app *app.App) (*fiber.App, error) {
	server := fiber.New(fiber.Config{
		AppName:               "painlog " + app.Config.GeneralVersion,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
	})

	server.Use(recover.New())
	server.Use(requestid.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins: app.Config.CorsAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, " + middleware.CallerHeader,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	server.Use(app.Middleware.RequestLogger())

	if err := handlers.Router(server, app); err != nil {
		return nil, err
	}

	return server, nil
}

func serve() error {
	log := logger.New("main").Function("serve")

	app, err := app.New()
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Er("failed to close app", err)
		}
	}()

	if !skipMigrations {
		if err := initialize.InitializeTables(app.Database, app.Config, log); err != nil {
			return err
		}
	}

	server, err := newServer(app)
	if err != nil {
		return log.Err("failed to register routes", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		address := fmt.Sprintf(":%d", app.Config.ServerPort)
		log.Info("Server listening", "address", address, "version", app.Config.GeneralVersion)
		errCh <- server.Listen(address)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return log.Err("server stopped", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return log.Err("failed to shut down server", err)
	}

	log.Info("Server stopped")
	return nil
}
