/*
Package app signal handling provides graceful shutdown for the wordfence-cli
application. A first SIGINT or SIGTERM cancels the running scan and lets it
unwind; a second one forces immediate exit.
*/
package app

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/pesc/wordfence-cli/pkg/logger"
)

// signalState tracks the state of signal handling
type signalState struct {
	shutdownInitiated atomic.Bool
}

// setupSignalHandling initializes signal handling for graceful shutdown
func (a *App) setupSignalHandling() {
	state := &signalState{}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan,
		syscall.SIGINT,
		syscall.SIGTERM,
	)

	go a.handleSignals(sigChan, state)
}

// handleSignals processes incoming system signals
func (a *App) handleSignals(sigChan chan os.Signal, state *signalState) {
	for sig := range sigChan {
		a.log.WithFields(logger.Fields{
			"signal": sig.String(),
		}).Debug("Received system signal")

		if !state.shutdownInitiated.CompareAndSwap(false, true) {
			a.log.Warn("Received second interrupt, forcing shutdown")
			a.handleForcedShutdown()
			return
		}

		a.log.Info("Interrupt received, cancelling scan")
		a.cancel()
	}
}

// handleForcedShutdown performs an immediate shutdown
func (a *App) handleForcedShutdown() {
	a.cancel()
	if a.progress != nil {
		a.progress.Stop()
	}
	os.Exit(1)
}
