package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/satscope/internal/cli"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.New(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "satscope: %v\n", err)
		return 1
	}
	return 0
}
