package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	"go.uber.org/zap"
)

// ErrInterrupted is the cancellation cause set when a shutdown signal arrives.
var ErrInterrupted = humane.New("interrupted by signal")

// InterruptHandler cancels ctx with ErrInterrupted on SIGINT, SIGTERM or SIGQUIT.
func InterruptHandler(ctx context.Context, cancelCtx context.CancelCauseFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		defer signal.Stop(sigs)
		WatchSignals(ctx, cancelCtx, sigs)
	}()
}

// WatchSignals blocks until ctx is done or a signal arrives on sigs.
func WatchSignals(ctx context.Context, cancelCtx context.CancelCauseFunc, sigs <-chan os.Signal) {
	select {
	case <-ctx.Done():
		return

	case sig := <-sigs:
		otelzap.L().DebugContext(ctx, "Received signal, shutting down", zap.String("signal", sig.String()))
		cancelCtx(humane.Wrap(ErrInterrupted, "received "+sig.String()))
	}
}
