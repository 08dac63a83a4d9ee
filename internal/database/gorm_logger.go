package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/yukikurage/fest-registration-api/internal/logging"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SlowQueryThreshold is the elapsed time above which a query is logged as slow.
const SlowQueryThreshold = 200 * time.Millisecond

// GormLogger forwards GORM's log output to a logging.Logger.
type GormLogger struct {
	log   logging.Logger
	level logger.LogLevel
}

// NewGormLogger returns a GORM logger writing through log at the given level.
func NewGormLogger(log logging.Logger, level logger.LogLevel) *GormLogger {
	return &GormLogger{log: log.With("component", "gorm"), level: level}
}

func (g *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Info {
		g.log.Info(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Warn {
		g.log.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Error {
		g.log.Error(ctx, fmt.Sprintf(msg, args...))
	}
}

// Trace logs failed queries as errors and slow ones as warnings. Every query
// is logged at debug when the level is Info. Missing rows are not failures.
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && g.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		g.log.Error(ctx, "query failed", "error", err, "sql", sql, "rows", rows, "elapsed", elapsed)
	case elapsed > SlowQueryThreshold && g.level >= logger.Warn:
		sql, rows := fc()
		g.log.Warn(ctx, "slow query", "sql", sql, "rows", rows, "elapsed", elapsed)
	case g.level >= logger.Info:
		sql, rows := fc()
		g.log.Debug(ctx, "query", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}

// gooseLogger forwards goose migration output to a logging.Logger.
type gooseLogger struct {
	ctx context.Context
	log logging.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info(g.ctx, fmt.Sprintf(format, v...))
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Error(g.ctx, fmt.Sprintf(format, v...))
	os.Exit(1)
}
