package dbroute

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/juju/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Connection owns at most one live handle to one node.
//
// A Connection is not safe for concurrent use: callers sharing a node must
// serialize their calls. Connect, statement execution and Disconnect block
// until the driver returns; no timeout is imposed here beyond what the
// node's dsn and the caller's context carry.
type Connection struct {
	node NodeConfig
	opts *options
	db   *gorm.DB
}

// probeVersionLength characters of the server version kept in a probe message
const probeVersionLength = 50

// ProbeResult outcome of a connectivity probe
type ProbeResult struct {
	OK      bool
	Message string
}

// NewConnection creates a Disconnected connection to node
func NewConnection(node NodeConfig, opts ...Option) *Connection {
	return &Connection{node: node, opts: newOptions(opts...)}
}

func newConnection(node NodeConfig, o *options) *Connection {
	return &Connection{node: node, opts: o}
}

// Node config of the node this connection targets
func (c *Connection) Node() NodeConfig {
	return c.node
}

// IsConnected reports whether a live handle is held
func (c *Connection) IsConnected() bool {
	return c.db != nil
}

// Connect opens the handle. Connecting an already connected node is a no-op.
// Attempts follow the configured ConnectPolicy, a single attempt by default.
func (c *Connection) Connect(ctx context.Context) error {
	if c.db != nil {
		return nil
	}
	var db *gorm.DB
	err := c.opts.connectPolicy.run(ctx, func() (err error) {
		db, err = c.open(ctx)
		return err
	})
	if err != nil {
		c.opts.logger.Warn("connect failed", zap.String("node", c.node.Name), zap.Error(err))
		return connectFailed(c.node.Name, err)
	}
	c.db = db
	c.opts.logger.Debug("connected", zap.String("node", c.node.Name))
	return nil
}

func (c *Connection) open(ctx context.Context) (*gorm.DB, error) {
	dialector, err := openDialector(c.node)
	if err != nil {
		return nil, permanent(err)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		NamingStrategy:         schema.NamingStrategy{SingularTable: true},
		Logger:                 newTraceLogger(c.opts.logger, c.opts.traceLevel),
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	if err != nil {
		return nil, err
	}
	pinConnPool(db.ConnPool)
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	if err = registerCallbacks(db, c.node.Name); err != nil {
		_ = sqlDB.Close()
		return nil, permanent(err)
	}
	return db, nil
}

// Disconnect releases the handle. Safe to call when already disconnected.
func (c *Connection) Disconnect() error {
	if c.db == nil {
		return nil
	}
	db := c.db
	c.db = nil
	if err := closeDB(db); err != nil {
		return errors.Annotatef(err, "closing node %q", c.node.Name)
	}
	c.opts.logger.Debug("disconnected", zap.String("node", c.node.Name))
	return nil
}

func (c *Connection) session(ctx context.Context) (*gorm.DB, error) {
	if c.db == nil {
		return nil, notConnected(c.node.Name)
	}
	return c.db.WithContext(ctx), nil
}

// withCursor runs statement and hands its result set to fc. The result set is
// released on every exit path.
func (c *Connection) withCursor(ctx context.Context, statement string, params []interface{}, fc func(*sql.Rows) error) error {
	db, err := c.session(ctx)
	if err != nil {
		return err
	}
	rows, err := db.Raw(statement, params...).Rows()
	if err != nil {
		return statementFailed(c.node.Name, err)
	}
	defer rows.Close()
	if err := fc(rows); err != nil {
		return statementFailed(c.node.Name, err)
	}
	return nil
}

// ExecuteQuery runs statement and returns every row as an ordered field mapping
func (c *Connection) ExecuteQuery(ctx context.Context, statement string, params ...interface{}) (result []Row, err error) {
	err = c.withCursor(ctx, statement, params, func(rows *sql.Rows) (err error) {
		result, err = scanRows(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ExecuteWrite runs statement and returns the affected row count. The effect is
// committed before returning: no transaction spans more than one call.
func (c *Connection) ExecuteWrite(ctx context.Context, statement string, params ...interface{}) (int64, error) {
	db, err := c.session(ctx)
	if err != nil {
		return 0, err
	}
	tx := db.Exec(statement, params...)
	if tx.Error != nil {
		return 0, statementFailed(c.node.Name, tx.Error)
	}
	return tx.RowsAffected, nil
}

// ExecuteScalar first column of the first row. ok is false when there are no rows.
func (c *Connection) ExecuteScalar(ctx context.Context, statement string, params ...interface{}) (value interface{}, ok bool, err error) {
	err = c.withCursor(ctx, statement, params, func(rows *sql.Rows) error {
		rs, err := scanRows(rows)
		if err != nil || len(rs) == 0 || len(rs[0]) == 0 {
			return err
		}
		value, ok = rs[0][0].Value, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, ok, nil
}

// Probe connects on a transient handle, asks the server for its version and
// closes the handle again. The live handle, if any, is left untouched.
// Diagnostics only.
func (c *Connection) Probe(ctx context.Context) ProbeResult {
	var db *gorm.DB
	err := c.opts.connectPolicy.run(ctx, func() (err error) {
		db, err = c.open(ctx)
		return err
	})
	if err != nil {
		return ProbeResult{OK: false, Message: connectFailed(c.node.Name, err).Error()}
	}
	defer closeDB(db)

	var version string
	if err := db.WithContext(ctx).Raw(readinessQuery(c.node)).Row().Scan(&version); err != nil {
		return ProbeResult{OK: false, Message: statementFailed(c.node.Name, err).Error()}
	}
	return ProbeResult{OK: true, Message: fmt.Sprintf("connected to %s: %s", c.node.Name, shortVersion(version))}
}

// shortVersion first probeVersionLength characters of version
func shortVersion(version string) string {
	if r := []rune(version); len(r) > probeVersionLength {
		return string(r[:probeVersionLength]) + "..."
	}
	return version
}
