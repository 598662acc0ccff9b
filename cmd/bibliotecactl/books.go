package main

import (
	"biblioteca/dbroute/gateway"
	"github.com/spf13/cobra"
)

func newBooksCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "books", Short: "Replicated book catalogue"}

	var isbn string
	list := &cobra.Command{
		Use:   "list",
		Short: "List books, or one book with --isbn",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.authorizeRead(cmd.Context(), c.gateways().Books, ""); err != nil {
				return err
			}
			return c.printRead(c.gateways().Books.Query(cmd.Context(), isbn, c.node))
		},
	}
	list.Flags().StringVar(&isbn, "isbn", "", "ISBN")

	var b gateway.Book
	bookFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&b.ISBN, "isbn", "", "ISBN")
		cmd.Flags().StringVar(&b.Title, "title", "", "title")
		cmd.Flags().IntVar(&b.Year, "year", 0, "edition year")
		cmd.Flags().StringVar(&b.Category, "category", "", "category")
		cmd.Flags().StringVar(&b.PrintLocation, "location", "", "place of printing")
	}
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a book on the primary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.authorizeWrite(cmd.Context(), c.gateways().Books, ""); err != nil {
				return err
			}
			return c.printWrite(c.gateways().Books.Insert(cmd.Context(), b, c.node))
		},
	}
	bookFlags(add)
	update := &cobra.Command{
		Use:   "update",
		Short: "Replace the attributes of a book",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.authorizeWrite(cmd.Context(), c.gateways().Books, ""); err != nil {
				return err
			}
			return c.printWrite(c.gateways().Books.Update(cmd.Context(), b, c.node))
		},
	}
	bookFlags(update)

	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete a book",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.authorizeWrite(cmd.Context(), c.gateways().Books, ""); err != nil {
				return err
			}
			return c.printWrite(c.gateways().Books.Delete(cmd.Context(), isbn, c.node))
		},
	}
	del.Flags().StringVar(&isbn, "isbn", "", "ISBN")

	cmd.AddCommand(list, add, update, del)
	return cmd
}
