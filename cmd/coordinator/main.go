package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sweepgrid/internal/config"
	"sweepgrid/internal/coordinator"
	"sweepgrid/internal/dispatch"
	"sweepgrid/internal/server"
)

func main() {
	cfg, err := config.Load(":8080")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.WorkerTarget == "" {
		log.Printf("SHARD_WORKER_URL is not set; sweep submissions will be rejected as misconfigured")
	}

	handler := coordinator.NewHandler(dispatch.NewHTTPInvoker(nil), cfg.WorkerTarget)
	srv := server.New(cfg.Port, server.NewCoordinatorMux(handler.HandleSweep))

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down coordinator...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Coordinator exiting")
}
