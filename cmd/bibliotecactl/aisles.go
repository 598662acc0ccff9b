package main

import (
	"biblioteca/dbroute/gateway"
	"github.com/spf13/cobra"
)

func newAislesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "aisles", Short: "Aisles, fragmented by library"}

	var (
		library string
		a       gateway.Aisle
		r       gateway.AisleRename
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List aisles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.authorizeRead(cmd.Context(), c.gateways().Aisles, library); err != nil {
				return err
			}
			return c.printRead(c.gateways().Aisles.Query(cmd.Context(), library, c.node))
		},
	}
	list.Flags().StringVar(&library, "library", "", "library id (01, 02)")

	add := &cobra.Command{
		Use:   "add",
		Short: "Add an aisle on its library's node",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.authorizeWrite(cmd.Context(), c.gateways().Aisles, a.LibraryID); err != nil {
				return err
			}
			return c.printWrite(c.gateways().Aisles.Insert(cmd.Context(), a, c.node))
		},
	}
	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete an aisle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.authorizeWrite(cmd.Context(), c.gateways().Aisles, a.LibraryID); err != nil {
				return err
			}
			return c.printWrite(c.gateways().Aisles.Delete(cmd.Context(), a, c.node))
		},
	}
	for _, sub := range []*cobra.Command{add, del} {
		sub.Flags().StringVar(&a.LibraryID, "library", "", "library id (01, 02)")
		sub.Flags().IntVar(&a.Number, "number", 0, "aisle number")
	}

	rename := &cobra.Command{
		Use:   "rename",
		Short: "Renumber an aisle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.authorizeWrite(cmd.Context(), c.gateways().Aisles, r.LibraryID); err != nil {
				return err
			}
			return c.printWrite(c.gateways().Aisles.Rename(cmd.Context(), r, c.node))
		},
	}
	rename.Flags().StringVar(&r.LibraryID, "library", "", "library id (01, 02)")
	rename.Flags().IntVar(&r.Current, "number", 0, "current aisle number")
	rename.Flags().IntVar(&r.New, "new", 0, "new aisle number")

	cmd.AddCommand(list, add, rename, del)
	return cmd
}
