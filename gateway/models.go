package gateway

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
)

// Book catalogue entry, replicated on every node
type Book struct {
	ISBN          string `json:"ISBN" validate:"required,max=20"`
	Title         string `json:"nombre_libro" validate:"required,max=200"`
	Year          int    `json:"anio_edicion" validate:"gte=0,lte=9999"`
	Category      string `json:"categoria_libro" validate:"max=100"`
	PrintLocation string `json:"lugar_impresion_libro" validate:"max=100"`
}

// Aisle shelving aisle of a library
type Aisle struct {
	LibraryID string `json:"id_biblioteca" validate:"required"`
	Number    int    `json:"num_pasillo" validate:"gt=0"`
}

// AisleRename renumbers an aisle of a library
type AisleRename struct {
	LibraryID string `json:"id_biblioteca" validate:"required"`
	Current   int    `json:"num_pasillo_actual" validate:"gt=0"`
	New       int    `json:"num_pasillo_nuevo" validate:"gt=0"`
}

// LoanKey identifies one loan
type LoanKey struct {
	LibraryID string    `json:"id_biblioteca" validate:"required"`
	ISBN      string    `json:"ISBN" validate:"required"`
	CopyID    int       `json:"id_ejemplar" validate:"gt=0"`
	Cedula    string    `json:"cedula" validate:"required"`
	LoanDate  time.Time `json:"fecha_prestamo" validate:"required"`
}

// Loan a copy lent to a user until DueDate
type Loan struct {
	LibraryID string    `json:"id_biblioteca" validate:"required"`
	ISBN      string    `json:"ISBN" validate:"required"`
	CopyID    int       `json:"id_ejemplar" validate:"gt=0"`
	Cedula    string    `json:"cedula" validate:"required"`
	LoanDate  time.Time `json:"fecha_prestamo" validate:"required"`
	DueDate   time.Time `json:"fecha_devolucion_tope" validate:"required,gtefield=LoanDate"`
}

// LoanReturn records the return date of a loan
type LoanReturn struct {
	LoanKey
	ReturnedOn time.Time `json:"fecha_devolucion_nueva" validate:"required,gtefield=LoanDate"`
}

// User library member. Contact fields are kept on the primary, the rest on the
// node of LibraryID.
type User struct {
	LibraryID string `json:"id_biblioteca" validate:"required"`
	Cedula    string `json:"cedula" validate:"required,max=20"`
	FirstName string `json:"nombre_usuario" validate:"required,max=100"`
	LastName  string `json:"apellido_usuario" validate:"required,max=100"`
	Email     string `json:"email_usuario" validate:"omitempty,email"`
	Phone     string `json:"celular_usuario" validate:"max=20"`
}

type bookKey struct {
	ISBN string `json:"ISBN" validate:"required"`
}

type userKey struct {
	LibraryID string `json:"id_biblioteca" validate:"required"`
	Cedula    string `json:"cedula" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report column names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput nil input is valid
func validateInput(input interface{}) error {
	if input == nil {
		return nil
	}
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return errors.WithType(errors.Annotate(err, "validate"), ErrInvalidInput)
	}
	msgs := make([]string, 0, len(fields))
	for _, fe := range fields {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s fails %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s fails %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.WithType(errors.New(strings.Join(msgs, "; ")), ErrInvalidInput)
}
