package dbroute

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

type routeMarkKey string

const routeMark routeMarkKey = "dbroute:route_mark"

// routeModeLogger prefixes every traced statement with the node it ran on
// and, when known, the routing reason: "[FIS fixed-primary] EXEC ...".
//
// With a zap logger the trace is written straight to it, and its source is the
// first frame outside gorm, never this wrapper.
type routeModeLogger struct {
	logger.Interface
	z     *zap.Logger
	level logger.LogLevel
	slow  time.Duration
}

func (l routeModeLogger) LogMode(level logger.LogLevel) logger.Interface {
	l.Interface = l.Interface.LogMode(level)
	l.level = level
	return l
}

// marked fc with the statement's route mark prepended
func marked(ctx context.Context, fc func() (string, int64)) func() (string, int64) {
	return func() (sql string, rowsAffected int64) {
		sql, rowsAffected = fc()
		if mark, ok := ctx.Value(routeMark).(string); ok {
			sql = fmt.Sprintf("[%s] %s", mark, sql)
		}
		return
	}
}

func (l routeModeLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.z == nil {
		l.Interface.Trace(ctx, begin, marked(ctx, fc), err)
		return
	}
	if l.level <= logger.Silent {
		return
	}
	// called here, not in a helper: it counts frames from Trace
	source := utils.FileWithLineNum()
	elapsed := time.Since(begin)
	fields := func(sqlFields ...zap.Field) []zap.Field {
		return append([]zap.Field{
			zap.String("source", source),
			zap.Duration("elapsed", elapsed),
		}, sqlFields...)
	}
	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := marked(ctx, fc)()
		l.z.Error(sql, fields(zap.Int64("rows", rows), zap.Error(err))...)
	case l.slow > 0 && elapsed > l.slow && l.level >= logger.Warn:
		sql, rows := marked(ctx, fc)()
		l.z.Warn(sql, fields(zap.Int64("rows", rows), zap.Duration("slow_threshold", l.slow))...)
	case l.level == logger.Info:
		sql, rows := marked(ctx, fc)()
		l.z.Info(sql, fields(zap.Int64("rows", rows))...)
	}
}

func newRouteModeLogger(l logger.Interface) logger.Interface {
	if _, ok := l.(routeModeLogger); ok {
		return l
	}
	return routeModeLogger{
		Interface: l,
	}
}

// newTraceLogger SQL traces on z named "sql"; gorm's own messages go through
// the standard gorm logger writing to the same sink
func newTraceLogger(z *zap.Logger, level logger.LogLevel) logger.Interface {
	z = z.Named("sql")
	const slow = 200 * time.Millisecond
	return routeModeLogger{
		Interface: logger.New(
			zap.NewStdLog(z),
			logger.Config{
				SlowThreshold:             slow,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
		z:     z,
		level: level,
		slow:  slow,
	}
}

func markStmtNode(stmt *gorm.Statement, node string) {
	if _, ok := stmt.Logger.(routeModeLogger); !ok {
		return
	}
	mark := node
	if d, ok := DecisionFrom(stmt.Context); ok && d.Node == node {
		mark = d.String()
	}
	stmt.Context = context.WithValue(stmt.Context, routeMark, mark)
}
