package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(version, commit, date).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ideas: %v\n", err)
		os.Exit(1)
	}
}
