package dbroute

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
)

// Default fragmentation: library "01" lives on FIS, "02" on FIQA.
const (
	DefaultFragmentParameter  = "id_biblioteca"
	DefaultFragmentExpression = "id_biblioteca == '01' ? 'FIS' : 'FIQA'"
)

// DefaultFragmentKeys closed set of library identifiers
var DefaultFragmentKeys = []string{"01", "02"}

// FragmentRule maps a fragmentation key to the node owning the rows carrying it.
// Expression is a govaluate expression over Parameter that yields a node name.
type FragmentRule struct {
	// Entity the rule applies to, empty or "*" for every entity
	Entity     string   `json:"entity"`
	Parameter  string   `json:"parameter"`
	Expression string   `json:"expression"`
	Keys       []string `json:"keys"`

	owners map[string]string
}

// DefaultFragmentRule library-key rule used by every fragmented entity
func DefaultFragmentRule() FragmentRule {
	return FragmentRule{
		Parameter:  DefaultFragmentParameter,
		Expression: DefaultFragmentExpression,
		Keys:       append([]string(nil), DefaultFragmentKeys...),
	}
}

// CompileFragmentRule evaluates the expression once for every key of the closed
// set and freezes the result. Compilation fails unless every key maps to exactly
// one configured node, so NodeFor is total over the key set and stable for the
// lifetime of the rule.
func CompileFragmentRule(rule FragmentRule, cluster ClusterConfig) (*FragmentRule, error) {
	if len(rule.Keys) == 0 {
		return nil, errors.NotValidf("fragment rule %q without keys", rule.Entity)
	}
	if rule.Parameter == "" {
		rule.Parameter = DefaultFragmentParameter
	}
	compiled := rule
	compiled.Keys = make([]string, 0, len(rule.Keys))
	compiled.owners = make(map[string]string, len(rule.Keys))
	for _, key := range rule.Keys {
		key = strings.TrimSpace(key)
		if _, dup := compiled.owners[key]; dup {
			return nil, errors.NotValidf("fragment rule %q: duplicate key %q", rule.Entity, key)
		}
		result, err := evaluateExpression(rule.Parameter, rule.Expression, key)
		if err != nil {
			return nil, errors.Annotatef(err, "fragment rule %q key %q", rule.Entity, key)
		}
		node := NormalizeNodeName(fmt.Sprintf("%v", result))
		if !cluster.Has(node) {
			return nil, errors.WithType(
				errors.Errorf("fragment rule %q maps key %q to %q", rule.Entity, key, node),
				ErrUnknownNode)
		}
		compiled.Keys = append(compiled.Keys, key)
		compiled.owners[key] = node
	}
	sort.Strings(compiled.Keys)
	return &compiled, nil
}

// NodeFor node owning key
func (r *FragmentRule) NodeFor(key string) (string, error) {
	node, ok := r.owners[strings.TrimSpace(key)]
	if !ok {
		return "", errors.WithType(
			errors.Errorf("%s %q is not one of %s", r.Parameter, key, strings.Join(r.Keys, ", ")),
			ErrUnknownFragmentKey)
	}
	return node, nil
}

// Owners copy of the key -> node table
func (r *FragmentRule) Owners() map[string]string {
	out := make(map[string]string, len(r.owners))
	for k, v := range r.owners {
		out[k] = v
	}
	return out
}

// FragmentRules compiled rules by entity
type FragmentRules map[string]*FragmentRule

// CompileFragmentRules compiles every rule; an empty list compiles the default rule
func CompileFragmentRules(rules []FragmentRule, cluster ClusterConfig) (FragmentRules, error) {
	if len(rules) == 0 {
		rules = []FragmentRule{DefaultFragmentRule()}
	}
	out := make(FragmentRules, len(rules))
	for _, rule := range rules {
		compiled, err := CompileFragmentRule(rule, cluster)
		if err != nil {
			return nil, err
		}
		out[entityKey(rule.Entity)] = compiled
	}
	return out, nil
}

// For rule of entity, falling back to the catch-all rule
func (rs FragmentRules) For(entity string) (*FragmentRule, error) {
	if r, ok := rs[entityKey(entity)]; ok {
		return r, nil
	}
	if r, ok := rs["*"]; ok {
		return r, nil
	}
	return nil, errors.NotFoundf("fragment rule for %q", entity)
}

func entityKey(entity string) string {
	entity = strings.ToLower(strings.TrimSpace(entity))
	if entity == "" {
		return "*"
	}
	return entity
}
