package gateway

import (
	"context"

	"biblioteca/dbroute"
)

// BookGateway books are replicated: every write goes to the primary and reads
// may use any node.
type BookGateway struct {
	base
}

// NewBookGateway policy is normally a dbroute.ReplicatedPolicy
func NewBookGateway(exec Executor, policy dbroute.Policy, opts ...Option) *BookGateway {
	return &BookGateway{newBase(EntityBook, exec, policy, opts...)}
}

// Insert adds b. node may be empty or the primary.
func (g *BookGateway) Insert(ctx context.Context, b Book, node string) WriteResult {
	return g.write(ctx, actInsert, dbroute.RouteRequest{Node: node}, b,
		spInsertBook.bind(b.ISBN, b.Title, b.Year, b.Category, b.PrintLocation))
}

// Update replaces every attribute of the book with ISBN b.ISBN
func (g *BookGateway) Update(ctx context.Context, b Book, node string) WriteResult {
	return g.write(ctx, actUpdate, dbroute.RouteRequest{Node: node}, b,
		spUpdateBook.bind(b.ISBN, b.Title, b.Year, b.Category, b.PrintLocation))
}

func (g *BookGateway) Delete(ctx context.Context, isbn string, node string) WriteResult {
	return g.write(ctx, actDelete, dbroute.RouteRequest{Node: node}, bookKey{ISBN: isbn},
		spDeleteBook.bind(isbn))
}

// Query one book by ISBN, or every book when isbn is empty
func (g *BookGateway) Query(ctx context.Context, isbn string, node string) ReadResult {
	call := spQueryBook.all()
	if isbn != "" {
		call = spQueryBook.bind(isbn)
	}
	return g.read(ctx, dbroute.RouteRequest{Node: node}, call)
}
