package dbroute

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Router owns one Connection per configured node and resolves node names to
// them. It knows nothing about replication or fragmentation: policies decide
// the node, the Router only runs the statement there.
//
// The node set is fixed at construction. Each node has exactly one handle, so
// concurrent callers on the same node must serialize their calls.
type Router struct {
	cluster ClusterConfig
	conns   map[string]*Connection
	opts    *options
}

// NodeInfo descriptive view of a node, without credentials
type NodeInfo struct {
	Name      string
	Server    string
	Database  string
	Port      int
	IsPrimary bool
	Connected bool
}

// NewRouter creates a Disconnected connection for every node of cluster
func NewRouter(cluster ClusterConfig, opts ...Option) *Router {
	o := newOptions(opts...)
	r := &Router{
		cluster: cluster,
		conns:   make(map[string]*Connection),
		opts:    o,
	}
	for _, node := range cluster.Nodes() {
		r.conns[node.Name] = newConnection(node, o)
	}
	return r
}

// Cluster registry the router was built from
func (r *Router) Cluster() ClusterConfig {
	return r.cluster
}

// Connection slot of node, without connecting it
func (r *Router) Connection(node string) (*Connection, error) {
	c, ok := r.conns[NormalizeNodeName(node)]
	if !ok {
		return nil, unknownNode(node)
	}
	return c, nil
}

// ensureConnected resolves node and connects it once if needed. A failed
// connect is surfaced as is, never retried beyond the connect policy.
func (r *Router) ensureConnected(ctx context.Context, node string) (*Connection, error) {
	c, err := r.Connection(node)
	if err != nil {
		return nil, err
	}
	if !c.IsConnected() {
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ExecuteRead runs a read statement on node. Mutating SQL is rejected with
// ErrReadOnlyStatement before any connection is made.
func (r *Router) ExecuteRead(ctx context.Context, node string, statement string, params ...interface{}) ([]Row, error) {
	if err := checkReadStatement(statement); err != nil {
		return nil, err
	}
	c, err := r.ensureConnected(ctx, node)
	if err != nil {
		return nil, err
	}
	return c.ExecuteQuery(ctx, statement, params...)
}

// ExecuteWrite runs a write statement on node and returns the affected row count
func (r *Router) ExecuteWrite(ctx context.Context, node string, statement string, params ...interface{}) (int64, error) {
	c, err := r.ensureConnected(ctx, node)
	if err != nil {
		return 0, err
	}
	return c.ExecuteWrite(ctx, statement, params...)
}

// ExecuteScalar first column of the first row on node
func (r *Router) ExecuteScalar(ctx context.Context, node string, statement string, params ...interface{}) (interface{}, bool, error) {
	if err := checkReadStatement(statement); err != nil {
		return nil, false, err
	}
	c, err := r.ensureConnected(ctx, node)
	if err != nil {
		return nil, false, err
	}
	return c.ExecuteScalar(ctx, statement, params...)
}

// ConnectNode connects a single node
func (r *Router) ConnectNode(ctx context.Context, node string) error {
	c, err := r.Connection(node)
	if err != nil {
		return err
	}
	return c.Connect(ctx)
}

// ConnectAll tries every node; one node's failure does not stop the others.
// The map holds nil for every node that connected.
func (r *Router) ConnectAll(ctx context.Context) map[string]error {
	results := make(map[string]error, len(r.conns))
	for _, name := range r.cluster.Names() {
		results[name] = r.conns[name].Connect(ctx)
	}
	return results
}

// DisconnectNode disconnects a single node
func (r *Router) DisconnectNode(node string) error {
	c, err := r.Connection(node)
	if err != nil {
		return err
	}
	return c.Disconnect()
}

// DisconnectAll disconnects every node, used at shutdown
func (r *Router) DisconnectAll() error {
	var err error
	for _, name := range r.cluster.Names() {
		err = multierr.Append(err, r.conns[name].Disconnect())
	}
	return err
}

// ProbeAll probes every node independently
func (r *Router) ProbeAll(ctx context.Context) map[string]ProbeResult {
	results := make(map[string]ProbeResult, len(r.conns))
	for _, name := range r.cluster.Names() {
		res := r.conns[name].Probe(ctx)
		r.opts.logger.Info("probe", zap.String("node", name), zap.Bool("ok", res.OK), zap.String("message", res.Message))
		results[name] = res
	}
	return results
}

// NodeInfo description of node
func (r *Router) NodeInfo(node string) (NodeInfo, error) {
	c, err := r.Connection(node)
	if err != nil {
		return NodeInfo{}, err
	}
	n := c.Node()
	return NodeInfo{
		Name:      n.Name,
		Server:    n.Server,
		Database:  n.Database,
		Port:      n.Port,
		IsPrimary: n.IsPrimary,
		Connected: c.IsConnected(),
	}, nil
}

// Nodes description of every node, sorted by name
func (r *Router) Nodes() []NodeInfo {
	out := make([]NodeInfo, 0, len(r.conns))
	for _, name := range r.cluster.Names() {
		info, _ := r.NodeInfo(name)
		out = append(out, info)
	}
	return out
}
