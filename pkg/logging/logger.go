package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Common field keys so log lines stay greppable across packages.
const (
	KeyCalendar = "calendar"
	KeyTask     = "task"
	KeyPath     = "path"
)

// New builds a console logger writing to w at the given level
// ("debug", "info", "warn", "error"). An empty level means "warn" so
// that normal CLI runs stay quiet.
func New(w io.Writer, level string) (*zap.Logger, error) {
	if level == "" {
		level = "warn"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.CallerKey = ""
	cfg.StacktraceKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(lvl),
	)
	return zap.New(core), nil
}

// Calendar returns a field for a calendar id.
func Calendar(id string) zap.Field {
	return zap.String(KeyCalendar, id)
}

// Task returns a field for a task id.
func Task(id string) zap.Field {
	return zap.String(KeyTask, id)
}

// Path returns a field for a filesystem path.
func Path(p string) zap.Field {
	return zap.String(KeyPath, p)
}
