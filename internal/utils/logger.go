package utils

import (
	"log"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger   *zap.Logger
	loggerMu sync.Mutex
)

// InitLogger builds the global logger. Production uses JSON output,
// anything else the colored development encoder.
func InitLogger(appEnv, level string) *zap.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	var cfg zap.Config
	if strings.EqualFold(appEnv, "production") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if lvl, err := zapcore.ParseLevel(strings.TrimSpace(level)); err == nil && level != "" {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	logger = l
	zap.ReplaceGlobals(l)
	return l
}

// Logger returns the global logger, falling back to a no-op logger before init.
func Logger() *zap.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// LogEvent writes a service-level event with module/action/request_id fields.
// Keep message summarized; never log passwords or document contents.
func LogEvent(requestID, module, action, message string) {
	Logger().Info(message,
		zap.String("module", strings.ToUpper(module)),
		zap.String("action", action),
		zap.String("request_id", strings.TrimSpace(requestID)),
	)
}

// LogError is LogEvent at error level with the cause attached.
func LogError(requestID, module, action string, err error) {
	Logger().Error("operation failed",
		zap.String("module", strings.ToUpper(module)),
		zap.String("action", action),
		zap.String("request_id", strings.TrimSpace(requestID)),
		zap.Error(err),
	)
}
