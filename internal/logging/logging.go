package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nhle/todo/internal/model"
)

// New builds a JSON logger writing to cfg.File, or to stderr when no file
// is configured, at cfg.Level. The returned close func syncs and closes
// the file.
func New(cfg model.LogConfig) (*zap.Logger, func(), error) {
	level := zapcore.WarnLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
		}
	}

	var (
		ws      zapcore.WriteSyncer
		closeFn = func() {}
	)
	if cfg.File == "" {
		ws = zapcore.Lock(os.Stderr)
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		file, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file %s: %w", cfg.File, err)
		}
		ws = zapcore.AddSync(file)
		closeFn = func() { _ = file.Close() }
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), ws, level)
	logger := zap.New(core)

	return logger, func() {
		_ = logger.Sync()
		closeFn()
	}, nil
}
