package process

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Restarter replaces the running process with the binary currently on disk.
type Restarter interface {
	Restart() error
}

// ExecRestarter releases nothing before replacing the process. Descriptors are close-on-exec,
// so a failed exec leaves the agent running with every store still open.
type ExecRestarter struct {
	logger     *zap.Logger
	executable func() (string, error)
	exec       func(exe string) error
}

func NewRestarter(logger *zap.Logger) *ExecRestarter {
	return &ExecRestarter{
		logger:     logger,
		executable: os.Executable,
		exec:       restart,
	}
}

func (r *ExecRestarter) Restart() error {
	exe, err := r.executable()
	if err != nil {
		return errors.WithMessage(err, "failed to locate executable")
	}
	r.logger.Info("Restarting", zap.String("executable", exe))
	_ = r.logger.Sync()
	if err := r.exec(exe); err != nil {
		return errors.WithMessagef(err, "failed to exec %s", exe)
	}
	return nil
}
