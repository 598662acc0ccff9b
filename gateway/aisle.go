package gateway

import (
	"context"

	"biblioteca/dbroute"
)

// AisleGateway aisles are fragmented by library: the library id decides the
// node of every write, whatever node the caller named.
type AisleGateway struct {
	base
}

// NewAisleGateway policy is normally a dbroute.FragmentedPolicy
func NewAisleGateway(exec Executor, policy dbroute.Policy, opts ...Option) *AisleGateway {
	return &AisleGateway{newBase(EntityAisle, exec, policy, opts...)}
}

func (g *AisleGateway) Insert(ctx context.Context, a Aisle, node string) WriteResult {
	return g.write(ctx, actInsert, dbroute.RouteRequest{Node: node, FragmentKey: a.LibraryID}, a,
		spInsertAisle.bind(a.LibraryID, a.Number))
}

// Rename renumbers aisle r.Current of library r.LibraryID to r.New
func (g *AisleGateway) Rename(ctx context.Context, r AisleRename, node string) WriteResult {
	return g.write(ctx, actUpdate, dbroute.RouteRequest{Node: node, FragmentKey: r.LibraryID}, r,
		spUpdateAisle.bind(r.LibraryID, r.Current, r.New))
}

func (g *AisleGateway) Delete(ctx context.Context, a Aisle, node string) WriteResult {
	return g.write(ctx, actDelete, dbroute.RouteRequest{Node: node, FragmentKey: a.LibraryID}, a,
		spDeleteAisle.bind(a.LibraryID, a.Number))
}

// Query aisles of libraryID on its node, or every aisle visible from node
// when libraryID is empty
func (g *AisleGateway) Query(ctx context.Context, libraryID string, node string) ReadResult {
	call := spQueryAisle.all()
	if libraryID != "" {
		call = spQueryAisle.bind(libraryID)
	}
	return g.read(ctx, dbroute.RouteRequest{Node: node, FragmentKey: libraryID}, call)
}
