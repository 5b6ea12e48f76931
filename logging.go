package http2

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the structured-logging surface ConnectionCodec calls into.
// Backed by zap.Logger in production; tests can substitute NopLogger.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

// zapLogger adapts *zap.Logger to the Logger interface.
type zapLogger struct {
	l *zap.Logger
}

func (z zapLogger) Debug(msg string, fields ...zap.Field) { z.l.Debug(msg, fields...) }
func (z zapLogger) Info(msg string, fields ...zap.Field)  { z.l.Info(msg, fields...) }
func (z zapLogger) Warn(msg string, fields ...zap.Field)  { z.l.Warn(msg, fields...) }
func (z zapLogger) Error(msg string, fields ...zap.Field) { z.l.Error(msg, fields...) }

// NewLogger builds a production zap.Logger writing JSON lines to w,
// wrapped as a Logger. Grounded on packetd-packetd's zap+lumberjack
// wiring: this package's demo CLI rotates its log file the same way.
func NewLogger(w *lumberjack.Logger) Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(w),
		zap.InfoLevel,
	)
	return zapLogger{l: zap.New(core)}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...zap.Field) {}
func (nopLogger) Info(string, ...zap.Field)  {}
func (nopLogger) Warn(string, ...zap.Field)  {}
func (nopLogger) Error(string, ...zap.Field) {}

// NopLogger returns a Logger that discards everything, the Codec
// default when no logger option is supplied.
func NopLogger() Logger {
	return nopLogger{}
}
