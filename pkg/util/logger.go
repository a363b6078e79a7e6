package util

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.SugaredLogger

func init() {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	writeStdout := zapcore.AddSync(os.Stdout)
	encoder := zapcore.NewConsoleEncoder(cfg.EncoderConfig)
	core := zapcore.NewCore(
		encoder,
		writeStdout,
		logLevel(),
	)
	zapLogger := zap.New(
		core,
		zap.AddStacktrace(zap.ErrorLevel),
	)
	Logger = zapLogger.Sugar()
}

// logLevel reads BRIDGE_LOG_LEVEL so resolution tracing can be turned on
// without a rebuild. Defaults to info.
func logLevel() zapcore.Level {
	var level zapcore.Level
	if err := level.Set(os.Getenv("BRIDGE_LOG_LEVEL")); err != nil {
		return zap.InfoLevel
	}
	return level
}
