package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/hdlplan/internal/app"
	"github.com/specialistvlad/hdlplan/internal/cli"
	"github.com/specialistvlad/hdlplan/internal/model"
)

// main is the entrypoint for the hdlplan application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitFailure)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
// Descriptors and summaries go to outW, logs go to errW.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	hdlApp := app.NewApp(outW, errW, appConfig)
	err = hdlApp.Run(ctx)

	var cfgErr *model.ConfigurationError
	if errors.As(err, &cfgErr) {
		return &cli.ExitError{Code: cli.ExitUsage, Message: err.Error()}
	}
	return err
}
