package main

import (
	"fmt"

	"biblioteca/dbroute/gateway"
	"github.com/spf13/cobra"
)

func newViewsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "views [view]",
		Short: "List the views, or read one of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, v := range gateway.Views {
					fmt.Fprintln(c.out, v)
				}
				return nil
			}
			if err := c.authorizeRead(cmd.Context(), c.gateways().Views, ""); err != nil {
				return err
			}
			return c.printRead(c.gateways().Views.Query(cmd.Context(), args[0], c.node))
		},
	}
}
