package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/dalemusser/terragon/internal/app/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
