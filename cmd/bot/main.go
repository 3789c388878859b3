package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"twir-bot/internal/di"
)

func main() {
	application, cleanup, err := di.InitializeApp()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		cleanup()
		stop()
		log.Fatalf("application runtime error: %v", err)
	}
}
