package gateway

import (
	"biblioteca/dbroute"
	"github.com/juju/errors"
)

// Gateways every entity gateway over one executor
type Gateways struct {
	Books  *BookGateway
	Aisles *AisleGateway
	Loans  *LoanGateway
	Users  *UserGateway
	Views  *ViewGateway
}

// New wires each entity to the policy matching its distribution: books are
// replicated, aisles and loans fragmented by library, users mixed.
func New(exec Executor, cluster dbroute.ClusterConfig, rules dbroute.FragmentRules, opts ...Option) (*Gateways, error) {
	o := newOptions(opts...)
	aisleRule, err := rules.For(EntityAisle)
	if err != nil {
		return nil, errors.Annotate(err, EntityAisle)
	}
	loanRule, err := rules.For(EntityLoan)
	if err != nil {
		return nil, errors.Annotate(err, EntityLoan)
	}
	userRule, err := rules.For(EntityUser)
	if err != nil {
		return nil, errors.Annotate(err, EntityUser)
	}
	return &Gateways{
		Books:  NewBookGateway(exec, dbroute.ReplicatedPolicy{Cluster: cluster}, opts...),
		Aisles: NewAisleGateway(exec, dbroute.FragmentedPolicy{Cluster: cluster, Rule: aisleRule, Logger: o.logger}, opts...),
		Loans:  NewLoanGateway(exec, dbroute.FragmentedPolicy{Cluster: cluster, Rule: loanRule, Logger: o.logger}, opts...),
		Users:  NewUserGateway(exec, dbroute.MixedPolicy{Cluster: cluster, Rule: userRule}, opts...),
		Views:  NewViewGateway(exec, cluster, opts...),
	}, nil
}
