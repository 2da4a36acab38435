package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/JayJamieson/csv-loader/pkg/config"
	"github.com/JayJamieson/csv-loader/pkg/loader"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	cmd := newRootCmd(&cfg, stdout, stderr)
	cmd.SetArgs(args)

	err = cmd.ExecuteContext(ctx)
	if err != nil && loader.KindOf(err) == loader.KindNone {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}
