package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sweepgrid/internal/config"
	"sweepgrid/internal/executor"
	"sweepgrid/internal/outcome"
	"sweepgrid/internal/server"
	"sweepgrid/internal/store"
)

func main() {
	cfg, err := config.Load(":8081")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Store.Bucket == "" {
		log.Fatalf("SWEEP_RESULTS_BUCKET must be configured")
	}

	s3, err := store.NewS3Store(store.S3Config{
		Endpoint:  cfg.Store.Endpoint,
		Region:    cfg.Store.Region,
		AccessKey: cfg.Store.AccessKey,
		SecretKey: cfg.Store.SecretKey,
		Bucket:    cfg.Store.Bucket,
		UseSSL:    cfg.Store.UseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to init outcome store: %v", err)
	}

	exec, err := executor.New(
		outcome.NewRecorder(s3, cfg.ResultsPrefix),
		executor.Config{ExportPointMetrics: cfg.ExportPointMetrics},
	)
	if err != nil {
		log.Fatalf("Failed to init executor: %v", err)
	}

	srv := server.New(cfg.Port, server.NewWorkerMux(executor.NewHandler(exec).HandleShard))

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down worker...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Worker exiting")
}
