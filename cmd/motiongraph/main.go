package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"schmoovin/motiongraph/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.Execute(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}
}
