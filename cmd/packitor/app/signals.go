package app

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/sonemaro/packitor/pkg/logger"
)

// signalState tracks the state of signal handling
type signalState struct {
	shutdownInitiated atomic.Bool
}

// setupSignalHandling initializes signal handling for graceful shutdown
func (a *App) setupSignalHandling() {
	state := &signalState{}

	a.log.Debug("Initializing signal handlers")

	signal.Notify(a.signals,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)

	go a.handleSignals(state)
}

// handleSignals processes incoming system signals
func (a *App) handleSignals(state *signalState) {
	for sig := range a.signals {
		a.log.WithFields(logger.Fields{
			"signal": sig.String(),
		}).Debug("Received system signal")

		switch sig {
		case syscall.SIGINT, syscall.SIGTERM:
			if !state.shutdownInitiated.CompareAndSwap(false, true) {
				a.handleForcedShutdown()
				return
			}

			a.handleGracefulShutdown()

		case syscall.SIGHUP:
			// No reloadable state in a one-shot run.
			a.log.Info("Received SIGHUP signal, ignoring")
		}
	}
}

// handleGracefulShutdown cancels the running operation. A partially
// written archive is removed by the archiver when its context ends.
func (a *App) handleGracefulShutdown() {
	a.log.Info("Interrupt received, cancelling operation")

	a.cancel()

	if a.progress != nil {
		a.progress.Stop()
	}
}

// handleForcedShutdown performs an immediate shutdown
func (a *App) handleForcedShutdown() {
	a.log.Warn("Second interrupt received, forcing shutdown")

	a.cancel()

	if a.progress != nil {
		a.progress.Stop()
	}

	os.Exit(1)
}
