package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProbeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check connectivity of every node",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.printProbe(c.app.Router.ProbeAll(cmd.Context()))
		},
	}
}

func newNodesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "nodes",
		Short: "List configured nodes",
		RunE: func(*cobra.Command, []string) error {
			table := newTable()
			table.AddRow("NODE", "SERVER", "PORT", "DATABASE", "PRIMARY")
			for _, n := range c.app.Router.Nodes() {
				table.AddRow(n.Name, n.Server, n.Port, n.Database, n.IsPrimary)
			}
			fmt.Fprintln(c.out, table)
			return nil
		},
	}
}
