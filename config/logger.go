package config

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a JSON production logger, or a development console logger
// when format is "console". Unknown levels fall back to info.
func NewLogger(level, format, serviceName string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	if serviceName != "" {
		logger = logger.With(zap.String("service_name", serviceName))
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		logger = logger.With(zap.String("hostname", hostname))
	}
	return logger, nil
}

// MustLoad loads configuration for a service binary and builds its logger,
// exiting when either is unusable.
func MustLoad(serviceName string) (*Config, *zap.Logger) {
	return MustLoadFor(serviceName, RequireAll)
}

// MustLoadFor is MustLoad for services that need only some setting groups.
func MustLoadFor(serviceName string, req Requirement) (*Config, *zap.Logger) {
	cfg, err := LoadFor(serviceName, os.Getenv("CONFIG_PATH"))
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}
	logger, err := NewLogger(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	if err := cfg.ValidateFor(req); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	return cfg, logger
}
