package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"health_service/internal/api"
	"health_service/internal/config"
	"health_service/internal/core"
	"health_service/internal/domain/repository"
)

func main() {
	configPath := flag.String("config", "config.yaml", "config file path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("can not read configuration: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Recorder for served classifications
	recorder, closeRecorder := newRecorder(ctx, conf.Recorder)
	defer closeRecorder()

	// Model artifacts are loaded once; a missing model leaves the service degraded
	models := repository.NewFileModelRepository(conf.Model.ScalerPath, conf.Model.KMeansPath)
	service := core.LoadClassificationService(ctx, models, recorder, conf.Recorder.Enabled)

	handler := api.NewHandler(service, conf.Visualization.Path)
	e, err := api.NewServer(handler, *loglevel)
	if err != nil {
		log.Fatalf("can not set up server: %s", err)
	}

	go func() {
		log.Printf("Starting server on %s", conf.Server.Address)
		if err := e.Start(conf.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %s", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: graceful shutdown failed: %v", err)
	}
}

func newRecorder(ctx context.Context, conf config.RecorderConfig) (repository.ClassificationRecorder, func()) {
	if !conf.Enabled {
		return repository.NopRecorder{}, func() {}
	}

	postgresRepo, err := repository.NewPostgresRepository(ctx, conf.PostgresURL)
	if err != nil {
		log.Printf("Warning: %v. Classifications will not be recorded.", err)
		return repository.NopRecorder{}, func() {}
	}
	if err := postgresRepo.EnsureSchema(ctx); err != nil {
		log.Printf("Warning: %v. Classifications will not be recorded.", err)
		postgresRepo.Close()
		return repository.NopRecorder{}, func() {}
	}

	closeDB := func() {
		if err := postgresRepo.Close(); err != nil {
			log.Printf("Warning: failed to close postgres: %v", err)
		}
	}
	return repository.NewPostgresClassificationRecorder(postgresRepo.DB), closeDB
}
