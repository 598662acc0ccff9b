package main

import (
	"biblioteca/dbroute/gateway"
	"github.com/spf13/cobra"
)

func newUsersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Library members, mixed fragmentation"}

	var (
		cedula string
		u      gateway.User
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List users, or one user with --cedula",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.authorizeRead(cmd.Context(), c.gateways().Users, ""); err != nil {
				return err
			}
			return c.printRead(c.gateways().Users.Query(cmd.Context(), cedula, c.node))
		},
	}
	merged := &cobra.Command{
		Use:   "merged",
		Short: "Users with both slices joined",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.authorizeRead(cmd.Context(), c.gateways().Users, ""); err != nil {
				return err
			}
			return c.printRead(c.gateways().Users.Merged(cmd.Context(), cedula, c.node))
		},
	}
	for _, sub := range []*cobra.Command{list, merged} {
		sub.Flags().StringVar(&cedula, "cedula", "", "cedula")
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.authorizeUserWrite(cmd.Context(), u.LibraryID); err != nil {
				return err
			}
			return c.printWrite(c.gateways().Users.Insert(cmd.Context(), u, c.node))
		},
	}
	update := &cobra.Command{
		Use:   "update",
		Short: "Replace the attributes of a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.authorizeUserWrite(cmd.Context(), u.LibraryID); err != nil {
				return err
			}
			return c.printWrite(c.gateways().Users.Update(cmd.Context(), u, c.node))
		},
	}
	for _, sub := range []*cobra.Command{add, update} {
		sub.Flags().StringVar(&u.LibraryID, "library", "", "library id (01, 02)")
		sub.Flags().StringVar(&u.Cedula, "cedula", "", "cedula")
		sub.Flags().StringVar(&u.FirstName, "first", "", "first name")
		sub.Flags().StringVar(&u.LastName, "last", "", "last name")
		sub.Flags().StringVar(&u.Email, "email", "", "email")
		sub.Flags().StringVar(&u.Phone, "phone", "", "mobile phone")
	}

	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.authorizeUserWrite(cmd.Context(), u.LibraryID); err != nil {
				return err
			}
			return c.printWrite(c.gateways().Users.Delete(cmd.Context(), u.LibraryID, cedula, c.node))
		},
	}
	del.Flags().StringVar(&u.LibraryID, "library", "", "library id (01, 02)")
	del.Flags().StringVar(&cedula, "cedula", "", "cedula")

	cmd.AddCommand(list, merged, add, update, del)
	return cmd
}
