// Package gateway turns business operations on the library entities into
// routed, parameterized procedure calls.
//
// Every operation is total: it never returns an error and never panics.
// Failures come back as WriteResult{OK: false} or an empty ReadResult, with the
// diagnostic text for the user and the underlying error for callers that want
// to inspect its kind with errors.Is.
package gateway

import (
	"context"
	"fmt"

	"biblioteca/dbroute"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Entity names, also used to pick fragmentation rules
const (
	EntityBook  = "book"
	EntityAisle = "aisle"
	EntityLoan  = "loan"
	EntityUser  = "user"
)

// ErrInvalidInput business input rejected before routing
const ErrInvalidInput = errors.ConstError("invalid input")

// Executor runs statements on a named node; *dbroute.Router is the production one
type Executor interface {
	ExecuteRead(ctx context.Context, node string, statement string, params ...interface{}) ([]dbroute.Row, error)
	ExecuteWrite(ctx context.Context, node string, statement string, params ...interface{}) (int64, error)
}

// WriteResult outcome of a mutating operation
type WriteResult struct {
	OK           bool
	Decision     dbroute.RoutingDecision
	RowsAffected int64
	Diagnostic   string
	Err          error
}

// ReadResult outcome of a query. Rows is never nil.
type ReadResult struct {
	Rows       []dbroute.Row
	Decision   dbroute.RoutingDecision
	Diagnostic string
	Err        error
}

// OK reports whether the read succeeded
func (r ReadResult) OK() bool {
	return r.Err == nil
}

// Option configures a gateway
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger logger for routed operations
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts ...Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// action verb and past participle used in diagnostics
type action struct {
	verb string
	done string
}

var (
	actInsert = action{"insert", "inserted"}
	actUpdate = action{"update", "updated"}
	actDelete = action{"delete", "deleted"}
	actQuery  = action{"query", "queried"}
)

type base struct {
	entity string
	exec   Executor
	policy dbroute.Policy
	logger *zap.Logger
}

func newBase(entity string, exec Executor, policy dbroute.Policy, opts ...Option) base {
	o := newOptions(opts...)
	return base{
		entity: entity,
		exec:   exec,
		policy: policy,
		logger: o.logger.With(zap.String("entity", entity)),
	}
}

// errorKinds in the order they are reported; the first match names the failure
var errorKinds = []error{
	ErrInvalidInput,
	dbroute.ErrUnknownFragmentKey,
	dbroute.ErrInvalidWriteTarget,
	dbroute.ErrUnknownNode,
	dbroute.ErrPrimaryUndefined,
	dbroute.ErrReadOnlyStatement,
	dbroute.ErrConnectFailed,
	dbroute.ErrNotConnected,
	dbroute.ErrStatementFailed,
}

// kindOf name of the first error kind err matches, empty when none does
func kindOf(err error) string {
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return ""
}

func (b *base) failed(act action, err error) string {
	if kind := kindOf(err); kind != "" {
		return fmt.Sprintf("%s %s failed (%s): %v", act.verb, b.entity, kind, err)
	}
	return fmt.Sprintf("%s %s failed: %v", act.verb, b.entity, err)
}

// WriteTarget decision a write of key would get, without running anything
func (b *base) WriteTarget(ctx context.Context, node, key string) (dbroute.RoutingDecision, error) {
	return b.policy.Resolve(ctx, dbroute.Write, dbroute.RouteRequest{Node: node, FragmentKey: key})
}

// ReadTarget decision a read of key would get
func (b *base) ReadTarget(ctx context.Context, node, key string) (dbroute.RoutingDecision, error) {
	return b.policy.Resolve(ctx, dbroute.Read, dbroute.RouteRequest{Node: node, FragmentKey: key})
}

// write validates input, resolves the node and runs call there
func (b *base) write(ctx context.Context, act action, req dbroute.RouteRequest, input interface{}, call statement) (res WriteResult) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Errorf("panic: %v", r)
			res = WriteResult{Decision: res.Decision, Diagnostic: b.failed(act, err), Err: err}
		}
	}()
	fail := func(d dbroute.RoutingDecision, err error) WriteResult {
		b.logger.Warn(act.verb+" failed", zap.String("node", d.Node), zap.Error(err))
		return WriteResult{Decision: d, Diagnostic: b.failed(act, err), Err: err}
	}

	if err := validateInput(input); err != nil {
		return fail(dbroute.RoutingDecision{}, err)
	}
	if call.err != nil {
		return fail(dbroute.RoutingDecision{}, call.err)
	}
	d, err := b.policy.Resolve(ctx, dbroute.Write, req)
	if err != nil {
		return fail(d, err)
	}
	n, err := b.exec.ExecuteWrite(dbroute.WithDecision(ctx, d), d.Node, call.text, call.params...)
	if err != nil {
		return fail(d, err)
	}
	b.logger.Info(act.done, zap.String("node", d.Node), zap.String("reason", string(d.Reason)), zap.Int64("rows", n))
	return WriteResult{
		OK:           true,
		Decision:     d,
		RowsAffected: n,
		Diagnostic:   fmt.Sprintf("%s %s on node %s", b.entity, act.done, d.Node),
	}
}

// read resolves the node and runs call there
func (b *base) read(ctx context.Context, req dbroute.RouteRequest, call statement) (res ReadResult) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Errorf("panic: %v", r)
			res = ReadResult{Rows: []dbroute.Row{}, Decision: res.Decision, Diagnostic: b.failed(actQuery, err), Err: err}
		}
	}()
	fail := func(d dbroute.RoutingDecision, err error) ReadResult {
		b.logger.Warn("query failed", zap.String("node", d.Node), zap.Error(err))
		return ReadResult{Rows: []dbroute.Row{}, Decision: d, Diagnostic: b.failed(actQuery, err), Err: err}
	}

	if call.err != nil {
		return fail(dbroute.RoutingDecision{}, call.err)
	}
	d, err := b.policy.Resolve(ctx, dbroute.Read, req)
	if err != nil {
		return fail(d, err)
	}
	rows, err := b.exec.ExecuteRead(dbroute.WithDecision(ctx, d), d.Node, call.text, call.params...)
	if err != nil {
		return fail(d, err)
	}
	if rows == nil {
		rows = []dbroute.Row{}
	}
	return ReadResult{Rows: rows, Decision: d}
}
