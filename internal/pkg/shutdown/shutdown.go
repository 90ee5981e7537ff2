package shutdown

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// Notify delivers the first termination signal. A second one terminates the process at once.
func Notify(logger *zap.Logger) <-chan os.Signal {
	signalChan := make(chan os.Signal, 2)
	signal.Notify(
		signalChan,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)

	first := make(chan os.Signal, 1)
	go func() {
		first <- <-signalChan

		sig := <-signalChan
		logger.Fatal("terminating",
			zap.Stringer("signal", sig),
		)
	}()
	return first
}
