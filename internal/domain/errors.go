package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("usuario no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrRateLimited  = errors.New("demasiadas solicitudes")

	// Autenticación.
	ErrInvalidCredentials = errors.New("usuario o contraseña inválidos")
	ErrNotVerified        = errors.New("cuenta no verificada")
	ErrOTPExpired         = errors.New("OTP expirado o inexistente")
	ErrOTPMismatch        = errors.New("OTP incorrecto")
	ErrInvalidSession     = errors.New("sesión inválida")
	ErrSessionExpired     = errors.New("sesión expirada")
	ErrInvalidContract    = errors.New("número de contrato inválido")

	// Pedidos.
	ErrInvalidTransition = errors.New("transición de estado no permitida")
)
