package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nhle/todo/internal/cli"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, Version, os.Args[1:], cli.Options{})
	stop()
	os.Exit(code)
}
