package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/fetchboard/internal/cli"
	apperrors "github.com/agbru/fetchboard/internal/errors"
	"github.com/agbru/fetchboard/internal/logging"
	"github.com/agbru/fetchboard/internal/metrics"
	"github.com/agbru/fetchboard/internal/orchestration"
	"github.com/agbru/fetchboard/internal/server"
	"github.com/agbru/fetchboard/internal/tui"
)

// runOnce runs a single cycle in the terminal and maps its aggregate to an
// exit code.
func (a *Application) runOnce(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	width := cli.DefaultWidth
	if f, ok := out.(*os.File); ok {
		width = cli.TerminalWidth(f)
	}
	presenter := cli.CLIResultPresenter{CommentLimit: a.Config.Comments, Width: width}
	session := cli.NewSession(out, presenter, a.Config.Quiet)

	logger := a.newLogger(a.ErrWriter)
	coordinator := a.newCoordinator(logger, metrics.NewMetrics(),
		orchestration.WithProgressReporter(session, out))

	session.Start()
	if _, err := coordinator.RunFetchCycle(ctx, session); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	code := session.Wait(ctx)
	coordinator.Wait()
	return code
}

// runServer serves the HTTP API until interrupted.
func (a *Application) runServer(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	logger := a.newLogger(a.ErrWriter)
	m := metrics.NewMetrics()
	coordinator := a.newCoordinator(logger, m)

	srv := server.New(a.Config.Serve, coordinator, m,
		server.WithLogger(logger),
		server.WithVersion(Version),
	)
	if err := srv.Start(ctx); err != nil {
		logger.Error("server failed", err, logging.String("addr", a.Config.Serve))
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runTUI launches the interactive dashboard. Logs are discarded because the
// dashboard owns the terminal.
func (a *Application) runTUI(ctx context.Context) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	bridge := tui.NewBridge()
	coordinator := a.newCoordinator(a.newLogger(io.Discard), metrics.NewMetrics(),
		orchestration.WithProgressReporter(bridge, io.Discard))

	code := tui.Run(ctx, coordinator, bridge, tui.Options{
		CommentLimit: a.Config.Comments,
		Version:      Version,
	})
	cancel()
	coordinator.Wait()
	return code
}
