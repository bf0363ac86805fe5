package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"

	"github.com/tmc/axe"
)

func main() {
	log.SetFlags(0)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := NewRootCommand().ExecuteContext(ctx)
	switch {
	case err == nil:
	case errors.Is(err, axe.ErrInterrupted):
		os.Exit(130)
	case errors.Is(err, errFailures):
		os.Exit(1)
	default:
		log.Fatalf("axe: %v", err)
	}
}
