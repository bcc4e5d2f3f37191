package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/go-cardano/txbuilder/internal/config"
)

var globalLogger *zap.SugaredLogger

// Configure builds the package-level logger from the current config's
// logging level. Debug gets a human-readable development encoder;
// everything else gets the production JSON encoder.
func Configure() {
	cfg := config.GetConfig()

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if level == zapcore.DebugLevel {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	globalLogger = logger.Sugar().With("component", "balance-demo")
}

// GetLogger returns the singleton logger, configuring it on first use.
func GetLogger() *zap.SugaredLogger {
	if globalLogger == nil {
		Configure()
	}
	return globalLogger
}
