package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.SugaredLogger

// Init инициализирует глобальный логгер
// env: "development" или "production"
func Init(env string) {
	var cfg zap.Config

	if env == "development" {
		// Development: читаемый консольный формат, уровень debug
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		// Production: JSON для парсинга
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Без логгера работать нельзя, но и падать из-за конфига энкодера незачем
		base = zap.NewExample()
	}

	log = base.Sugar()
}

// SetLogger подменяет глобальный логгер (используется в тестах с zaptest/observer).
func SetLogger(l *zap.Logger) {
	log = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

// GetLogger возвращает глобальный логгер
func GetLogger() *zap.SugaredLogger {
	if log == nil {
		Init("development")
	}
	return log
}

// Sync сбрасывает буферы, вызывать перед выходом
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}

// ============================================
// Convenience функции для быстрого логирования
// ============================================

func Debug(msg string, args ...any) {
	GetLogger().Debugw(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Infow(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warnw(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Errorw(msg, args...)
}

// Fatal логирует fatal ошибку и завершает программу
func Fatal(msg string, args ...any) {
	GetLogger().Errorw(msg, args...)
	Sync()
	os.Exit(1)
}

// ============================================
// Логирование с дополнительными полями
// ============================================

// With создает новый логгер с дополнительными полями
// Пример: logger.With("job_id", id).Infow("job created")
func With(args ...any) *zap.SugaredLogger {
	return GetLogger().With(args...)
}

// WithError создает логгер с полем error
func WithError(err error) *zap.SugaredLogger {
	return GetLogger().With("error", err.Error())
}

// ============================================
// Специализированные логгеры
// ============================================

// UpstreamLog логирует вызов внешнего провайдера
func UpstreamLog(provider, operation string, duration time.Duration, err error) {
	fields := []any{
		"provider", provider,
		"operation", operation,
		"duration_ms", duration.Milliseconds(),
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Warnw("upstream call failed", fields...)
	} else {
		GetLogger().Debugw("upstream call", fields...)
	}
}

// WorkerLog логирует background worker операцию
func WorkerLog(worker, operation string, err error) {
	fields := []any{
		"worker", worker,
		"operation", operation,
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Errorw("worker operation failed", fields...)
	} else {
		GetLogger().Infow("worker operation completed", fields...)
	}
}
