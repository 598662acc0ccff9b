package gateway

import (
	"context"

	"biblioteca/dbroute"
)

// UserGateway users are split both ways: one procedure call writes the contact
// slice on the primary and the identity slice on the library's node, so the
// layer never issues two calls for one user.
type UserGateway struct {
	base
}

// NewUserGateway policy is normally a dbroute.MixedPolicy
func NewUserGateway(exec Executor, policy dbroute.Policy, opts ...Option) *UserGateway {
	return &UserGateway{newBase(EntityUser, exec, policy, opts...)}
}

func (g *UserGateway) Insert(ctx context.Context, u User, node string) WriteResult {
	return g.write(ctx, actInsert, dbroute.RouteRequest{Node: node, FragmentKey: u.LibraryID}, u,
		spInsertUser.bind(u.LibraryID, u.Cedula, u.FirstName, u.LastName, u.Email, u.Phone))
}

func (g *UserGateway) Update(ctx context.Context, u User, node string) WriteResult {
	return g.write(ctx, actUpdate, dbroute.RouteRequest{Node: node, FragmentKey: u.LibraryID}, u,
		spUpdateUser.bind(u.LibraryID, u.Cedula, u.FirstName, u.LastName, u.Email, u.Phone))
}

func (g *UserGateway) Delete(ctx context.Context, libraryID, cedula string, node string) WriteResult {
	return g.write(ctx, actDelete, dbroute.RouteRequest{Node: node, FragmentKey: libraryID},
		userKey{LibraryID: libraryID, Cedula: cedula}, spDeleteUser.bind(libraryID, cedula))
}

// Query one user by cedula, or every user when cedula is empty
func (g *UserGateway) Query(ctx context.Context, cedula string, node string) ReadResult {
	call := spQueryUser.all()
	if cedula != "" {
		call = spQueryUser.bind(cedula)
	}
	return g.read(ctx, dbroute.RouteRequest{Node: node}, call)
}

// Merged users with both slices joined, read through v_Usuario
func (g *UserGateway) Merged(ctx context.Context, cedula string, node string) ReadResult {
	if cedula == "" {
		return g.read(ctx, dbroute.RouteRequest{Node: node}, viewQuery(ViewUsers, ""))
	}
	return g.read(ctx, dbroute.RouteRequest{Node: node}, viewQuery(ViewUsers, userByCedulaFilter, cedula))
}
