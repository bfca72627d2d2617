package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/cardiorisk/internal/adapters/cli"
	"github.com/okian/cardiorisk/internal/config"
	"github.com/okian/cardiorisk/internal/domain/validation"
	"github.com/okian/cardiorisk/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := logger.Init(logger.WithWriter(stderr)); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		_, _ = fmt.Fprintln(stderr, "failed to initialize logging:", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "failed to load config:", err)
		return 1
	}

	if err := cli.Execute(ctx, cfg, args, stdout, stderr); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

// printError lists every field error of a validation failure on its own line.
func printError(w io.Writer, err error) {
	fieldErrs := validation.FieldErrors(err)
	if len(fieldErrs) > 1 {
		_, _ = fmt.Fprintln(w, "error: invalid input")
		for _, fe := range fieldErrs {
			_, _ = fmt.Fprintln(w, "  -", fe)
		}
		return
	}
	_, _ = fmt.Fprintln(w, "error:", err)
}
