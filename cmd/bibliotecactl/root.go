package main

import (
	"context"
	"io"

	"biblioteca/dbroute"
	"biblioteca/dbroute/auth"
	"biblioteca/dbroute/config"
	"biblioteca/dbroute/gateway"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli state shared by every command
type cli struct {
	out      io.Writer
	envFiles []string
	node     string
	username string
	password string

	app     *config.App
	session *auth.Session
}

// execute runs the command line args and disconnects every node afterwards,
// whatever the outcome
func execute(out io.Writer, args []string) error {
	c := &cli{out: out}
	root := newRootCmd(c)
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	if c.app != nil {
		if cerr := c.app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:          "bibliotecactl",
		Short:        "Library cluster administration",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd.Context())
		},
	}
	flags := root.PersistentFlags()
	flags.StringSliceVar(&c.envFiles, "env-file", []string{".env"}, "env files seeding the configuration")
	flags.StringVarP(&c.node, "node", "n", "", "node to run on (FIS, FIQA); empty lets the entity decide")
	flags.StringVarP(&c.username, "user", "u", "", "account to authorize the command with")
	flags.StringVarP(&c.password, "password", "p", "", "password of --user")

	root.AddCommand(
		newProbeCmd(c),
		newNodesCmd(c),
		newBooksCmd(c),
		newAislesCmd(c),
		newLoansCmd(c),
		newUsersCmd(c),
		newViewsCmd(c),
	)
	return root
}

func (c *cli) open(ctx context.Context) error {
	cfg, warnings := config.Load(c.envFiles...)
	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return errors.Annotate(err, config.KeyLogLevel)
	}
	for _, w := range warnings {
		logger.Warn("configuration", zap.String("warning", w))
	}
	if c.app, err = config.Open(cfg, logger); err != nil {
		return err
	}
	if c.username == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := c.app.Directory.Authenticate(ctx, c.username, c.password)
	if err != nil {
		return err
	}
	c.session = &s
	return nil
}

func (c *cli) gateways() *gateway.Gateways {
	return c.app.Gateways
}

// routed resolves where a gateway would send an operation
type routed interface {
	WriteTarget(ctx context.Context, node, key string) (dbroute.RoutingDecision, error)
	ReadTarget(ctx context.Context, node, key string) (dbroute.RoutingDecision, error)
}

// authorizeWrite checks the node the entity's policy sends the write to.
// Without --user every command is allowed. A write the policy cannot route is
// left to the gateway, which reports it as a diagnostic.
func (c *cli) authorizeWrite(ctx context.Context, g routed, key string) error {
	if c.session == nil {
		return nil
	}
	d, err := g.WriteTarget(ctx, c.node, key)
	if err != nil {
		return nil
	}
	return c.session.RequireWrite(d.Node)
}

// authorizeUserWrite user mutations also need the user management permission
func (c *cli) authorizeUserWrite(ctx context.Context, key string) error {
	if c.session == nil {
		return nil
	}
	if err := c.session.RequireManageUsers(); err != nil {
		return err
	}
	return c.authorizeWrite(ctx, c.gateways().Users, key)
}

func (c *cli) authorizeRead(ctx context.Context, g routed, key string) error {
	if c.session == nil {
		return nil
	}
	d, err := g.ReadTarget(ctx, c.node, key)
	if err != nil {
		return nil
	}
	return c.session.RequireRead(d.Node)
}
