package dbroute

import (
	"context"
)

// Reason why a node was chosen
type Reason string

const (
	// ReasonFixedPrimary statement must run on the primary
	ReasonFixedPrimary Reason = "fixed-primary"
	// ReasonFragmentKey node owns the fragment key
	ReasonFragmentKey Reason = "fragment-key"
	// ReasonReadAny any node may serve the read
	ReasonReadAny Reason = "read-any"
)

// RoutingDecision target node plus the reason it was chosen. Computed per call.
type RoutingDecision struct {
	Node   string
	Reason Reason
}

func (d RoutingDecision) String() string {
	if d.Reason == "" {
		return d.Node
	}
	return d.Node + " " + string(d.Reason)
}

type decisionKey struct{}

// WithDecision attaches d to ctx so that traces of the statements run with ctx
// show the routing reason
func WithDecision(ctx context.Context, d RoutingDecision) context.Context {
	return context.WithValue(ctx, decisionKey{}, d)
}

// DecisionFrom decision attached by WithDecision
func DecisionFrom(ctx context.Context) (RoutingDecision, bool) {
	if ctx == nil {
		return RoutingDecision{}, false
	}
	d, ok := ctx.Value(decisionKey{}).(RoutingDecision)
	return d, ok
}
