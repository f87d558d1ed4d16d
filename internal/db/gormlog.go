package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"naat/pkg/logger"

	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// GormLogger sends gorm output through the application logger. SQL traces are
// logged at debug, slow queries at warn and failed queries at error.
type GormLogger struct {
	log   logger.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

func NewGormLogger(log logger.Logger) *GormLogger {
	return &GormLogger{log: log, level: gormlogger.Warn, slow: slowQueryThreshold}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	copied := *l
	copied.level = level
	return &copied
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		logger.FromContext(ctx, l.log).Info("db: " + fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		logger.FromContext(ctx, l.log).Warn("db: " + fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		logger.FromContext(ctx, l.log).Error("db: " + fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	log := logger.FromContext(ctx, l.log)
	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, rows := fc()
		log.InternalError("db: query failed", err, "sql", sql, "rows", rows, "elapsed", elapsed)
	case elapsed > l.slow && l.level >= gormlogger.Warn:
		sql, rows := fc()
		log.Warn("db: slow query", "sql", sql, "rows", rows, "elapsed", elapsed)
	case log.Enabled(slog.LevelDebug):
		sql, rows := fc()
		log.Debug("db: query", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}
