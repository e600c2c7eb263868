package log

import (
	"context"
	"fmt"
	"log"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Logger is the ctx-aware logger used by the usecase and repository layers.
type Logger interface {
	Info(ctx context.Context, message string, details ...interface{})
	Warn(ctx context.Context, message string, details ...interface{})
	Error(ctx context.Context, message string, details ...interface{})
}

var logger Logger

func Setup() *otelzap.Logger {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	return otelzap.New(zapLogger)
}

func SetupLogger() *otelzap.Logger {
	return Setup()
}

func Init(l *otelzap.Logger) {
	logger = &zapLogger{log: l}
}

func GetLogger() Logger {
	return logger
}

type zapLogger struct {
	log *otelzap.Logger
}

func (l *zapLogger) Info(ctx context.Context, message string, details ...interface{}) {
	l.log.Ctx(ctx).Info(format(message, details...))
}

func (l *zapLogger) Warn(ctx context.Context, message string, details ...interface{}) {
	l.log.Ctx(ctx).Warn(format(message, details...))
}

func (l *zapLogger) Error(ctx context.Context, message string, details ...interface{}) {
	l.log.Ctx(ctx).Error(format(message, details...))
}

func format(message string, details ...interface{}) string {
	if len(details) == 0 {
		return message
	}
	return fmt.Sprintf("%s: %v", message, details)
}
