package txexec

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const serviceName = "TransactionExecutor"

// logExecutor wraps Executor with automatic logging of all method calls
type logExecutor struct {
	exec   Executor
	logger *zap.Logger
}

// NewLog creates a logging decorator for the Executor.
// It logs method entry/exit, duration and errors.
func NewLog(exec Executor, logger *zap.Logger) Executor {
	return &logExecutor{
		exec:   exec,
		logger: logger,
	}
}

func (le *logExecutor) Execute(ctx context.Context, req Request) (hash string, err error) {
	start := time.Now()

	le.logger.Info("Execute started",
		zap.String("service", serviceName),
		zap.String("method", "Execute"),
		zap.String("operation", req.Operation),
		zap.String("target", req.Target.Hex()),
		zap.Int("args", len(req.Args)),
		zap.String("value", req.Value),
	)

	defer func() {
		duration := time.Since(start)

		if err != nil {
			le.logger.Error("Execute failed",
				zap.String("service", serviceName),
				zap.String("method", "Execute"),
				zap.String("operation", req.Operation),
				zap.String("tx_hash", hash),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			le.logger.Info("Execute completed",
				zap.String("service", serviceName),
				zap.String("method", "Execute"),
				zap.String("operation", req.Operation),
				zap.String("tx_hash", hash),
				zap.Duration("duration", duration),
			)
		}
	}()

	return le.exec.Execute(ctx, req)
}

func (le *logExecutor) State() State {
	return le.exec.State()
}

func (le *logExecutor) LastHash() string {
	return le.exec.LastHash()
}

func (le *logExecutor) Reset() {
	le.exec.Reset()
}
