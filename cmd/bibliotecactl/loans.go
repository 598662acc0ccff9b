package main

import (
	"context"

	"biblioteca/dbroute/gateway"
	"github.com/spf13/cobra"
)

func newLoansCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "loans", Short: "Loans, fragmented by library"}

	var (
		library                   string
		key                       gateway.LoanKey
		loanDate, due, returnedOn string
	)
	keyFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&key.LibraryID, "library", "", "library id (01, 02)")
		cmd.Flags().StringVar(&key.ISBN, "isbn", "", "ISBN")
		cmd.Flags().IntVar(&key.CopyID, "copy", 0, "copy id")
		cmd.Flags().StringVar(&key.Cedula, "cedula", "", "borrower cedula")
		cmd.Flags().StringVar(&loanDate, "date", "", "loan date (YYYY-MM-DD)")
	}
	parseKey := func() error {
		var err error
		key.LoanDate, err = parseDate("date", loanDate)
		return err
	}

	reads := []struct {
		use, short string
		run        func(ctx context.Context) gateway.ReadResult
	}{
		{"list", "List loans", func(ctx context.Context) gateway.ReadResult {
			return c.gateways().Loans.Query(ctx, library, c.node)
		}},
		{"active", "Loans not returned yet", func(ctx context.Context) gateway.ReadResult {
			return c.gateways().Loans.Active(ctx, library, c.node)
		}},
		{"overdue", "Active loans past their due date", func(ctx context.Context) gateway.ReadResult {
			return c.gateways().Loans.Overdue(ctx, library, c.node)
		}},
	}
	for _, r := range reads {
		run := r.run
		sub := &cobra.Command{
			Use:   r.use,
			Short: r.short,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := c.authorizeRead(cmd.Context(), c.gateways().Loans, library); err != nil {
					return err
				}
				return c.printRead(run(cmd.Context()))
			},
		}
		sub.Flags().StringVar(&library, "library", "", "library id (01, 02)")
		cmd.AddCommand(sub)
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Register a loan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := parseKey(); err != nil {
				return err
			}
			dueDate, err := parseDate("due", due)
			if err != nil {
				return err
			}
			if err := c.authorizeWrite(cmd.Context(), c.gateways().Loans, key.LibraryID); err != nil {
				return err
			}
			return c.printWrite(c.gateways().Loans.Insert(cmd.Context(), gateway.Loan{
				LibraryID: key.LibraryID,
				ISBN:      key.ISBN,
				CopyID:    key.CopyID,
				Cedula:    key.Cedula,
				LoanDate:  key.LoanDate,
				DueDate:   dueDate,
			}, c.node))
		},
	}
	keyFlags(add)
	add.Flags().StringVar(&due, "due", "", "return-by date (YYYY-MM-DD)")

	ret := &cobra.Command{
		Use:   "return",
		Short: "Register the return of a loan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := parseKey(); err != nil {
				return err
			}
			returned, err := parseDate("returned", returnedOn)
			if err != nil {
				return err
			}
			if err := c.authorizeWrite(cmd.Context(), c.gateways().Loans, key.LibraryID); err != nil {
				return err
			}
			return c.printWrite(c.gateways().Loans.Return(cmd.Context(), gateway.LoanReturn{LoanKey: key, ReturnedOn: returned}, c.node))
		},
	}
	keyFlags(ret)
	ret.Flags().StringVar(&returnedOn, "returned", "", "return date (YYYY-MM-DD)")

	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete a loan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := parseKey(); err != nil {
				return err
			}
			if err := c.authorizeWrite(cmd.Context(), c.gateways().Loans, key.LibraryID); err != nil {
				return err
			}
			return c.printWrite(c.gateways().Loans.Delete(cmd.Context(), key, c.node))
		},
	}
	keyFlags(del)

	cmd.AddCommand(add, ret, del)
	return cmd
}
