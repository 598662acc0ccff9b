package gateway

import (
	"strings"

	"github.com/juju/errors"
)

// procedure stored procedure and its positional parameters. The order of
// params is part of the contract with the database: never reorder.
type procedure struct {
	name   string
	params []string
}

// statement text plus its positional values. Values are never part of text.
type statement struct {
	text   string
	params []interface{}
	err    error
}

// bind call with every parameter supplied, in order
func (p procedure) bind(args ...interface{}) statement {
	if len(args) != len(p.params) {
		return statement{err: errors.Errorf("%s takes %d arguments (%s), got %d",
			p.name, len(p.params), strings.Join(p.params, ", "), len(args))}
	}
	text := "EXEC " + p.name
	if len(args) > 0 {
		text += " ?" + strings.Repeat(", ?", len(args)-1)
	}
	return statement{text: text, params: args}
}

// all call without its optional filter parameter
func (p procedure) all() statement {
	return statement{text: "EXEC " + p.name}
}

// Book: replicated, written at the publisher.
var (
	spInsertBook = procedure{"sp_Insertar_Libro", []string{"ISBN", "nombre_libro", "anio_edicion", "categoria_libro", "lugar_impresion_libro"}}
	spUpdateBook = procedure{"sp_Actualizar_Libro", []string{"ISBN", "nombre_libro", "anio_edicion", "categoria_libro", "lugar_impresion_libro"}}
	spDeleteBook = procedure{"sp_Eliminar_Libro", []string{"ISBN"}}
	spQueryBook  = procedure{"sp_Consultar_Libro", []string{"ISBN"}}
)

// Aisle: horizontally fragmented by library.
var (
	spInsertAisle = procedure{"sp_Insertar_Pasillo", []string{"id_biblioteca", "num_pasillo"}}
	spUpdateAisle = procedure{"sp_Actualizar_Pasillo", []string{"id_biblioteca", "num_pasillo_actual", "num_pasillo_nuevo"}}
	spDeleteAisle = procedure{"sp_Eliminar_Pasillo", []string{"id_biblioteca", "num_pasillo"}}
	spQueryAisle  = procedure{"sp_Consultar_Pasillo", []string{"id_biblioteca"}}
)

// Loan: horizontally fragmented by library.
var (
	spInsertLoan = procedure{"sp_Insertar_Prestamo", []string{"id_biblioteca", "ISBN", "id_ejemplar", "cedula", "fecha_prestamo", "fecha_devolucion_tope"}}
	spUpdateLoan = procedure{"sp_Actualizar_Prestamo", []string{"id_biblioteca", "ISBN", "id_ejemplar", "cedula", "fecha_prestamo", "fecha_devolucion_nueva"}}
	spDeleteLoan = procedure{"sp_Eliminar_Prestamo", []string{"id_biblioteca", "ISBN", "id_ejemplar", "cedula", "fecha_prestamo"}}
	spQueryLoan  = procedure{"sp_Consultar_Prestamo", []string{"id_biblioteca"}}
)

// User: mixed fragmentation. Contact columns live on the primary, identity
// columns on the library's node; one call updates both.
var (
	spInsertUser = procedure{"sp_Insertar_Usuario", []string{"id_biblioteca", "cedula", "nombre_usuario", "apellido_usuario", "email_usuario", "celular_usuario"}}
	spUpdateUser = procedure{"sp_Actualizar_Usuario", []string{"id_biblioteca", "cedula", "nombre_usuario", "apellido_usuario", "email_usuario", "celular_usuario"}}
	spDeleteUser = procedure{"sp_Eliminar_Usuario", []string{"id_biblioteca", "cedula"}}
	spQueryUser  = procedure{"sp_Consultar_Usuario", []string{"cedula"}}
)
