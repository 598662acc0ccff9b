package gateway

import (
	"context"
	"strings"

	"biblioteca/dbroute"
	"github.com/juju/errors"
)

// Views the bulk reads go through. Only their documented output columns may
// be referenced.
const (
	ViewLoans     = "v_Prestamo"
	ViewUsers     = "v_Usuario"
	ViewAisles    = "v_Pasillo"
	ViewLibraries = "v_Biblioteca"
)

// Views every view the layer knows, for diagnostics
var Views = []string{ViewLibraries, ViewAisles, ViewLoans, ViewUsers}

// viewQuery SELECT * over view with an optional WHERE clause made of view
// columns and placeholders
func viewQuery(view string, where string, params ...interface{}) statement {
	text := "SELECT * FROM " + view
	if where != "" {
		text += " WHERE " + where
	}
	if n := strings.Count(text, "?"); n != len(params) {
		return statement{err: errors.Errorf("%s: %d placeholders, %d values", view, n, len(params))}
	}
	source, err := dbroute.TableOf(text)
	if err != nil {
		return statement{err: err}
	}
	if !strings.EqualFold(source, view) {
		return statement{err: errors.Errorf("query reads %q, not view %q", source, view)}
	}
	return statement{text: text, params: params}
}

const (
	activeLoansFilter  = "fecha_devolucion IS NULL"
	overdueLoansFilter = "fecha_devolucion IS NULL AND fecha_devolucion_tope < GETDATE()"
	userByCedulaFilter = "cedula = ?"
	libraryFilter      = "id_biblioteca = ?"
)

// ViewGateway plain reads of a whole view on one node
type ViewGateway struct {
	base
}

// NewViewGateway view reads may use any node
func NewViewGateway(exec Executor, cluster dbroute.ClusterConfig, opts ...Option) *ViewGateway {
	return &ViewGateway{newBase("view", exec, dbroute.ReplicatedPolicy{Cluster: cluster}, opts...)}
}

// Query every row of view on node (primary when empty)
func (g *ViewGateway) Query(ctx context.Context, view string, node string) ReadResult {
	for _, v := range Views {
		if strings.EqualFold(v, view) {
			return g.read(ctx, dbroute.RouteRequest{Node: node}, viewQuery(v, ""))
		}
	}
	return g.read(ctx, dbroute.RouteRequest{Node: node}, statement{err: errors.WithType(
		errors.Errorf("unknown view %q", view), ErrInvalidInput)})
}
