package dbroute

import (
	"context"

	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Policy decides which node a statement of an entity must run on
type Policy interface {
	Resolve(ctx context.Context, op Operation, req RouteRequest) (RoutingDecision, error)
}

// RouteRequest caller-side routing inputs. Both fields may be empty.
type RouteRequest struct {
	// Node explicitly requested by the caller
	Node string
	// FragmentKey business key of the row, for fragmented entities
	FragmentKey string
}

func primaryDecision(cluster ClusterConfig) (RoutingDecision, error) {
	p, err := cluster.Primary()
	if err != nil {
		return RoutingDecision{}, err
	}
	return RoutingDecision{Node: p.Name, Reason: ReasonFixedPrimary}, nil
}

func explicitNode(cluster ClusterConfig, name string) (string, error) {
	n, err := cluster.Get(name)
	if err != nil {
		return "", err
	}
	return n.Name, nil
}

// readAny read target: the requested node, or the primary when none is given
func readAny(cluster ClusterConfig, node string) (RoutingDecision, error) {
	if node == "" {
		d, err := primaryDecision(cluster)
		d.Reason = ReasonReadAny
		return d, err
	}
	name, err := explicitNode(cluster, node)
	if err != nil {
		return RoutingDecision{}, err
	}
	return RoutingDecision{Node: name, Reason: ReasonReadAny}, nil
}

// primaryWrite writes go to the primary; asking for any other node is an error
func primaryWrite(cluster ClusterConfig, node string) (RoutingDecision, error) {
	d, err := primaryDecision(cluster)
	if err != nil || node == "" {
		return d, err
	}
	name, err := explicitNode(cluster, node)
	if err != nil {
		return RoutingDecision{}, err
	}
	if name != d.Node {
		return RoutingDecision{}, errors.WithType(
			errors.Errorf("writes must target primary %q, not %q", d.Node, name),
			ErrInvalidWriteTarget)
	}
	return d, nil
}

// ReplicatedPolicy full replication: the primary (publisher) takes every write,
// any node serves reads.
type ReplicatedPolicy struct {
	Cluster ClusterConfig
}

func (p ReplicatedPolicy) Resolve(_ context.Context, op Operation, req RouteRequest) (RoutingDecision, error) {
	if op == Write {
		return primaryWrite(p.Cluster, req.Node)
	}
	return readAny(p.Cluster, req.Node)
}

// FragmentedPolicy horizontal fragmentation: the fragment key decides the node
// of every write. An explicit node that disagrees with the key is overridden.
// Reads honour an explicit node and otherwise go to the key owner, or to the
// primary when no key is given either.
type FragmentedPolicy struct {
	Cluster ClusterConfig
	Rule    *FragmentRule
	Logger  *zap.Logger
}

func (p FragmentedPolicy) Resolve(_ context.Context, op Operation, req RouteRequest) (RoutingDecision, error) {
	if op == Read && (req.Node != "" || req.FragmentKey == "") {
		return readAny(p.Cluster, req.Node)
	}
	if req.FragmentKey == "" {
		return RoutingDecision{}, errors.WithType(
			errors.Errorf("%s is required to route a write", p.Rule.Parameter),
			ErrUnknownFragmentKey)
	}
	owner, err := p.Rule.NodeFor(req.FragmentKey)
	if err != nil {
		return RoutingDecision{}, err
	}
	if req.Node != "" {
		requested, err := explicitNode(p.Cluster, req.Node)
		if err != nil {
			return RoutingDecision{}, err
		}
		if requested != owner && p.Logger != nil {
			p.Logger.Warn("explicit node overridden by fragment key",
				zap.String("requested", requested),
				zap.String("owner", owner),
				zap.String("key", req.FragmentKey))
		}
	}
	return RoutingDecision{Node: owner, Reason: ReasonFragmentKey}, nil
}

// MixedPolicy mixed fragmentation: one procedure call updates the vertical slice
// kept on the primary and the horizontal slice on the key owner, so writes go to
// the primary and carry a key from the closed set. Reads go through the unifying
// view and may use any node.
type MixedPolicy struct {
	Cluster ClusterConfig
	Rule    *FragmentRule
}

func (p MixedPolicy) Resolve(_ context.Context, op Operation, req RouteRequest) (RoutingDecision, error) {
	if op == Read {
		return readAny(p.Cluster, req.Node)
	}
	if req.FragmentKey != "" {
		if _, err := p.Rule.NodeFor(req.FragmentKey); err != nil {
			return RoutingDecision{}, err
		}
	}
	return primaryWrite(p.Cluster, req.Node)
}
