package gateway

import (
	"context"

	"biblioteca/dbroute"
)

// LoanGateway loans are fragmented by library like aisles
type LoanGateway struct {
	base
}

// NewLoanGateway policy is normally a dbroute.FragmentedPolicy
func NewLoanGateway(exec Executor, policy dbroute.Policy, opts ...Option) *LoanGateway {
	return &LoanGateway{newBase(EntityLoan, exec, policy, opts...)}
}

// Insert registers a loan on the node owning l.LibraryID
func (g *LoanGateway) Insert(ctx context.Context, l Loan, node string) WriteResult {
	return g.write(ctx, actInsert, dbroute.RouteRequest{Node: node, FragmentKey: l.LibraryID}, l,
		spInsertLoan.bind(l.LibraryID, l.ISBN, l.CopyID, l.Cedula, l.LoanDate, l.DueDate))
}

// Return sets the return date of a loan
func (g *LoanGateway) Return(ctx context.Context, r LoanReturn, node string) WriteResult {
	return g.write(ctx, actUpdate, dbroute.RouteRequest{Node: node, FragmentKey: r.LibraryID}, r,
		spUpdateLoan.bind(r.LibraryID, r.ISBN, r.CopyID, r.Cedula, r.LoanDate, r.ReturnedOn))
}

func (g *LoanGateway) Delete(ctx context.Context, k LoanKey, node string) WriteResult {
	return g.write(ctx, actDelete, dbroute.RouteRequest{Node: node, FragmentKey: k.LibraryID}, k,
		spDeleteLoan.bind(k.LibraryID, k.ISBN, k.CopyID, k.Cedula, k.LoanDate))
}

// Query loans of libraryID on its node, or every loan visible from node
func (g *LoanGateway) Query(ctx context.Context, libraryID string, node string) ReadResult {
	call := spQueryLoan.all()
	if libraryID != "" {
		call = spQueryLoan.bind(libraryID)
	}
	return g.read(ctx, dbroute.RouteRequest{Node: node, FragmentKey: libraryID}, call)
}

// Active loans not returned yet, read through v_Prestamo. A non-empty
// libraryID picks the node and restricts the rows to that library.
func (g *LoanGateway) Active(ctx context.Context, libraryID string, node string) ReadResult {
	return g.read(ctx, dbroute.RouteRequest{Node: node, FragmentKey: libraryID},
		loanViewQuery(activeLoansFilter, libraryID))
}

// Overdue active loans past their due date
func (g *LoanGateway) Overdue(ctx context.Context, libraryID string, node string) ReadResult {
	return g.read(ctx, dbroute.RouteRequest{Node: node, FragmentKey: libraryID},
		loanViewQuery(overdueLoansFilter, libraryID))
}

func loanViewQuery(filter, libraryID string) statement {
	if libraryID == "" {
		return viewQuery(ViewLoans, filter)
	}
	return viewQuery(ViewLoans, filter+" AND "+libraryFilter, libraryID)
}
