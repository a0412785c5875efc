package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	zapLog = zap.NewNop()
)

func Init(debug bool) {
	var config zap.Config
	var encoderConf zapcore.EncoderConfig

	if debug {
		config = zap.NewDevelopmentConfig()
		encoderConf = zap.NewDevelopmentEncoderConfig()

		// Use a human readable time
		encoderConf.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewProductionConfig()
		encoderConf = zap.NewProductionEncoderConfig()

		// Use unix timestamp millis for production
		encoderConf.EncodeTime = zapcore.EpochMillisTimeEncoder
	}

	config.EncoderConfig = encoderConf

	// Skip one caller as thats our own log package
	l, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}

	Replace(l)
}

// Replace swaps the global logger, tests use this to hook in an observer core
func Replace(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	zapLog = l
}

func logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return zapLog
}

// Sugar returns a printf style logger without the extra caller skip,
// its used as the logger of the http client
func Sugar() *zap.SugaredLogger {
	return logger().WithOptions(zap.AddCallerSkip(-1)).Sugar()
}

func Sync() {
	_ = logger().Sync()
}

func Debug(message string, fields ...zap.Field) {
	logger().Debug(message, fields...)
}

func Info(message string, fields ...zap.Field) {
	logger().Info(message, fields...)
}

func Warn(message string, fields ...zap.Field) {
	logger().Warn(message, fields...)
}

func Error(message string, fields ...zap.Field) {
	logger().Error(message, fields...)
}

func Fatal(message string, fields ...zap.Field) {
	logger().Fatal(message, fields...)
}

func Panic(message string, fields ...zap.Field) {
	logger().Panic(message, fields...)
}
