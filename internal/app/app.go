// Package app wires configuration, the fetch pipeline and the program
// surfaces (single cycle, dashboard, HTTP server) together.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agbru/fetchboard/internal/cli"
	"github.com/agbru/fetchboard/internal/config"
	apperrors "github.com/agbru/fetchboard/internal/errors"
	"github.com/agbru/fetchboard/internal/gateway"
	"github.com/agbru/fetchboard/internal/logging"
	"github.com/agbru/fetchboard/internal/metrics"
	"github.com/agbru/fetchboard/internal/network"
	"github.com/agbru/fetchboard/internal/orchestration"
	"github.com/agbru/fetchboard/internal/request"
	"github.com/agbru/fetchboard/internal/ui"
)

// Application represents the fetchboard application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	// Client performs the HTTP requests. Nil uses a plain http.Client.
	Client network.Doer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithHTTPClient sets the client used for every fetch.
func WithHTTPClient(c network.Doer) AppOption {
	return func(a *Application) { a.Client = c }
}

// New creates a new Application instance by parsing command-line arguments.
// args includes the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Client == nil {
		app.Client = &http.Client{}
	}

	programName := "fetchboard"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(a.Config.LogLevel))
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	zerolog.SetGlobalLevel(level)
	ui.InitTheme(a.Config.NoColor)

	switch {
	case a.Config.Serve != "":
		return a.runServer(ctx)
	case a.Config.Once:
		return a.runOnce(ctx, out)
	default:
		return a.runTUI(ctx)
	}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// newLogger returns the application logger writing to w.
func (a *Application) newLogger(w io.Writer) logging.Logger {
	l, err := logging.NewLeveledLogger(w, "fetchboard", a.Config.LogLevel)
	if err != nil {
		return logging.NewLogger(w, "fetchboard")
	}
	return l
}

// newCoordinator builds the fetch pipeline: fetcher, request builder,
// gateway and coordinator, sharing one logger and one metrics registry.
func (a *Application) newCoordinator(logger logging.Logger, m *metrics.Metrics, extra ...orchestration.Option) *orchestration.Coordinator {
	fetcher := network.NewFetcher(a.Client,
		network.WithLogger(logger),
		network.WithMetrics(m),
		network.WithMaxBodyBytes(a.Config.MaxBodyBytes),
	)
	gw := gateway.New(request.NewBuilder(a.Config.Endpoints.Map()), fetcher, gateway.WithLogger(logger))

	opts := []orchestration.Option{
		orchestration.WithLogger(logger),
		orchestration.WithMetrics(m),
		orchestration.WithFetchTimeout(a.Config.Timeout),
	}
	if a.Config.RejectOverlap {
		opts = append(opts, orchestration.WithOverlapPolicy(orchestration.OverlapReject))
	}
	logger.Debug("pipeline configured",
		logging.String("endpoints", a.Config.Endpoints.String()),
		logging.Duration("timeout", a.Config.Timeout))
	return orchestration.NewCoordinator(gw, append(opts, extra...)...)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
