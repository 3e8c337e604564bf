package logging

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Setup returns the application logger.
// With an empty filename logging is disabled; the terminal belongs to the UI.
// Otherwise JSON lines go to filename, and bubbletea's own log is pointed at the same file.
func Setup(filename string, debug bool) (logger *zap.Logger, cleanup func(), err error) {
	if filename == "" {
		return zap.NewNop(), func() {}, nil
	}

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(f), zap.NewAtomicLevelAt(level))
	logger = zap.New(core, zap.AddCaller()).Named("ecgedit")

	tf, err := tea.LogToFile(filename, "tea")
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	// cleanup flushes the logger and closes both files
	cleanup = func() {
		_ = logger.Sync()
		tf.Close()
		f.Close()
	}
	return logger, cleanup, nil
}
