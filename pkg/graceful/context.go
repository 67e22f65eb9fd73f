package graceful

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// Context returns a context that is canceled on SIGINT or SIGTERM. A second
// signal after cancellation is left to the default handler.
func Context(ctx context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("received termination signal, shutting down", zap.Stringer("signal", sig))
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
