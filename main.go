// @title voxrelay API
// @version 1.0
// @description Gateway in front of the Volcengine ASR API and object storage.
// @BasePath /
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"golang.org/x/sync/errgroup"

	"voxrelay/config"
	_ "voxrelay/docs"
	"voxrelay/handlers"
	"voxrelay/internal/asr"
	"voxrelay/internal/events"
	"voxrelay/internal/metrics"
	"voxrelay/internal/storage"
	"voxrelay/internal/worker"
	"voxrelay/middleware"
)

// multipart framing allowance on top of the file size limit
const bodyOverhead = 1 << 20

func main() {
	bootLog := config.InitLogger(os.Getenv(config.EnvironmentPrefix + "LOG_LEVEL"))

	settings, err := config.Load()
	if err != nil {
		bootLog.WithError(err).Fatal("Failed to load configuration")
	}
	log := config.InitLogger(settings.LogLevel)

	store, err := config.NewObjectStore(settings, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize object storage")
	}

	dispatcher := worker.NewDispatcher(settings.Storage.Workers, settings.Storage.QueueSize,
		worker.WithLogger(log), worker.WithMetrics(metrics.DefaultMetrics))
	pipeline := storage.NewPipeline(settings.Storage, store, dispatcher, log)
	asrClient := asr.NewClient(settings.ASR, log)
	publisher := events.New(settings.Kafka, log)
	defer publisher.Close()

	h := handlers.NewApplicationHandler(asrClient, pipeline, publisher, log, settings.UIDir)

	app := fiber.New(fiber.Config{
		AppName:               "voxrelay",
		BodyLimit:             int(settings.Storage.MaxUploadBytes) + bodyOverhead,
		ErrorHandler:          handlers.ErrorHandler(log, settings.Storage.MaxUploadBytes),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-Id",
	}))
	app.Use(middleware.RequestLogger(log, metrics.DefaultMetrics))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/swagger/*", fiberSwagger.WrapHandler)
	h.RegisterRoutes(app)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	dispatcher.Run()

	// HTTP server
	g.Go(func() error {
		defer cancel()
		log.WithField("addr", settings.Addr()).Info("Starting voxrelay")
		return app.Listen(settings.Addr())
	})

	// Shutdown
	g.Go(func() error {
		<-gctx.Done()
		err := app.Shutdown()
		dispatcher.Stop()
		return err
	})

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-shutdownSignal:
		log.Info("Received signal, shutting down")
		cancel()
	case <-ctx.Done():
		log.Info("Context done, shutting down")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("Server stopped with error")
	}
}
