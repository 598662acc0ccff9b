package config

import (
	"fmt"

	"biblioteca/dbroute"
	"biblioteca/dbroute/auth"
	"biblioteca/dbroute/gateway"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// App the assembled data layer. Nothing is connected yet: nodes connect on
// first use or through Router.ConnectAll.
type App struct {
	Config    *Config
	Logger    *zap.Logger
	Router    *dbroute.Router
	Rules     dbroute.FragmentRules
	Gateways  *gateway.Gateways
	Directory auth.Directory
}

// Open assembles the router, fragmentation rules, gateways and authorization
// directory described by cfg. logger may be nil.
func Open(cfg *Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cluster := cfg.Cluster()
	rules, err := dbroute.CompileFragmentRules(cfg.FragmentRules, cluster)
	if err != nil {
		return nil, errors.Annotate(err, "fragment rules")
	}
	router := dbroute.NewRouter(cluster,
		dbroute.WithLogger(logger),
		dbroute.WithTrace(traceLevel(cfg.Trace)),
		dbroute.WithConnectPolicy(cfg.Connect),
	)
	gateways, err := gateway.New(router, cluster, rules, gateway.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	logger.Debug("data layer assembled",
		zap.Strings("nodes", cluster.Names()),
		zap.String("primary", cluster.PrimaryName()),
		zap.String("rules", fmt.Sprint(ruleOwners(rules))))
	return &App{
		Config:    cfg,
		Logger:    logger,
		Router:    router,
		Rules:     rules,
		Gateways:  gateways,
		Directory: auth.NewStaticDirectory(cfg.Accounts...),
	}, nil
}

// Close disconnects every node
func (a *App) Close() error {
	return a.Router.DisconnectAll()
}

func ruleOwners(rules dbroute.FragmentRules) map[string]map[string]string {
	out := make(map[string]map[string]string, len(rules))
	for entity, rule := range rules {
		out[entity] = rule.Owners()
	}
	return out
}
