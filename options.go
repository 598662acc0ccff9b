package dbroute

import (
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// Option configures a Router or a Connection
type Option func(*options)

type options struct {
	logger        *zap.Logger
	traceLevel    logger.LogLevel
	connectPolicy ConnectPolicy
}

func newOptions(opts ...Option) *options {
	o := &options{
		logger:        zap.NewNop(),
		traceLevel:    logger.Silent,
		connectPolicy: ConnectPolicy{Attempts: 1},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger application logger, SQL traces are written through it as well
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTrace enables gorm SQL tracing at the given level
func WithTrace(level logger.LogLevel) Option {
	return func(o *options) {
		o.traceLevel = level
	}
}

// WithConnectPolicy connect attempt policy, a single attempt by default
func WithConnectPolicy(p ConnectPolicy) Option {
	return func(o *options) {
		o.connectPolicy = p
	}
}
