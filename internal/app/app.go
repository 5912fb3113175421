package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/specialistvlad/hdlplan/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	ctx    context.Context
	runID  string

	httpServer *http.Server
	// currentTarget is the plan target being executed, reported by the
	// health check.
	currentTarget atomic.Value
}

// NewApp is the constructor for the main application. Command output goes to
// outW, logs go to logW.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	runID := uuid.NewString()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW).With("run_id", runID)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		ctx:    ctxlog.WithLogger(context.Background(), logger),
		runID:  runID,
	}
	a.currentTarget.Store("")
	return a
}

// RunID identifies this invocation in every log line.
func (a *App) RunID() string {
	return a.runID
}
