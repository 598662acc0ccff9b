package dbroute

import (
	"github.com/juju/errors"
)

// Error kinds. Check with errors.Is; the message of a returned error carries
// the node and the underlying driver text.
const (
	// ErrUnknownNode node name not in the registry, never retried
	ErrUnknownNode = errors.ConstError("unknown node")
	// ErrNotConnected statement attempted on a disconnected node
	ErrNotConnected = errors.ConstError("not connected")
	// ErrConnectFailed network, credential or driver failure while opening a handle
	ErrConnectFailed = errors.ConstError("connect failed")
	// ErrStatementFailed malformed call, constraint violation or procedure rejection
	ErrStatementFailed = errors.ConstError("statement failed")
	// ErrPrimaryUndefined the designated primary is not a configured node
	ErrPrimaryUndefined = errors.ConstError("primary node undefined")
	// ErrInvalidWriteTarget write aimed at a node that may not accept it
	ErrInvalidWriteTarget = errors.ConstError("invalid write target")
	// ErrUnknownFragmentKey fragment key outside the closed key set
	ErrUnknownFragmentKey = errors.ConstError("unknown fragment key")
	// ErrReadOnlyStatement mutating statement sent down the read path
	ErrReadOnlyStatement = errors.ConstError("statement not allowed on read path")
)

func unknownNode(name string) error {
	return errors.WithType(errors.Errorf("node %q is not configured", name), ErrUnknownNode)
}

func notConnected(name string) error {
	return errors.WithType(errors.Errorf("node %q: no active connection", name), ErrNotConnected)
}

func connectFailed(name string, err error) error {
	return errors.WithType(errors.Annotatef(err, "connecting to node %q", name), ErrConnectFailed)
}

func statementFailed(name string, err error) error {
	return errors.WithType(errors.Annotatef(err, "node %q", name), ErrStatementFailed)
}
