package usecase

import (
	"errors"

	"github.com/jhoicas/telco-selfcare-api/internal/domain"
)

// notFoundError ErrNotFound con un mensaje específico para el cliente.
type notFoundError struct{ msg string }

func (e *notFoundError) Error() string { return e.msg }
func (e *notFoundError) Unwrap() error { return domain.ErrNotFound }

func wrapNotFound(msg string) error { return &notFoundError{msg: msg} }

// PublicMessage devuelve el mensaje pensado para el cliente si el error lo trae.
func PublicMessage(err error) (string, bool) {
	var nf *notFoundError
	if errors.As(err, &nf) {
		return nf.msg, true
	}
	return "", false
}
