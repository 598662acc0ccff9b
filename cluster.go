package dbroute

import (
	"sort"
	"strings"

	"github.com/juju/errors"
)

// NodeConfig static description of one physical node
type NodeConfig struct {
	Name     string
	DBType   string
	Server   string
	Port     int
	Database string
	User     string
	Password string
	// DSN overrides the dsn generated from the fields above
	DSN string
	// ConnectTimeout seconds, passed to the driver. 0 keeps the driver default.
	ConnectTimeout int
	IsPrimary      bool
}

// ClusterConfig node registry: node name -> NodeConfig plus the designated primary.
// Names are stored upper-cased and looked up case-insensitively.
type ClusterConfig struct {
	nodes   map[string]NodeConfig
	primary string
}

// NormalizeNodeName canonical form of a node name
func NormalizeNodeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// NewClusterConfig builds the registry. It never fails: a primary name that
// does not match a node is reported by Primary.
func NewClusterConfig(primary string, nodes ...NodeConfig) ClusterConfig {
	c := ClusterConfig{
		nodes:   make(map[string]NodeConfig, len(nodes)),
		primary: NormalizeNodeName(primary),
	}
	for _, n := range nodes {
		n.Name = NormalizeNodeName(n.Name)
		n.IsPrimary = n.Name == c.primary
		c.nodes[n.Name] = n
	}
	return c
}

// Get node config by name, case-insensitive
func (c ClusterConfig) Get(name string) (NodeConfig, error) {
	n, ok := c.nodes[NormalizeNodeName(name)]
	if !ok {
		return NodeConfig{}, unknownNode(name)
	}
	return n, nil
}

// Has reports whether name is a configured node
func (c ClusterConfig) Has(name string) bool {
	_, ok := c.nodes[NormalizeNodeName(name)]
	return ok
}

// Primary config of the designated primary node
func (c ClusterConfig) Primary() (NodeConfig, error) {
	n, ok := c.nodes[c.primary]
	if !ok {
		return NodeConfig{}, errors.WithType(errors.Errorf("primary %q does not name a configured node", c.primary), ErrPrimaryUndefined)
	}
	return n, nil
}

// PrimaryName name of the designated primary, as configured
func (c ClusterConfig) PrimaryName() string {
	return c.primary
}

// Names sorted node names
func (c ClusterConfig) Names() []string {
	names := make([]string, 0, len(c.nodes))
	for name := range c.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Nodes every node config, sorted by name
func (c ClusterConfig) Nodes() []NodeConfig {
	out := make([]NodeConfig, 0, len(c.nodes))
	for _, name := range c.Names() {
		out = append(out, c.nodes[name])
	}
	return out
}
