package services

import (
	"errors"
	"fmt"
)

// ValidationError es una falla de regla de negocio o de entrada. Los handlers
// exponen su mensaje al llamador con un 400; cualquier transacción en curso ya
// tiene que estar deshecha cuando se propaga.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf arma un ValidationError a partir de un formato.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError marca un registro referenciado que no existe; los handlers lo
// mapean a 404, distinto de una falla de validación.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d no encontrada", e.Resource, e.ID)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
