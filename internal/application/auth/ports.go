package auth

import (
	"context"
	"time"

	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

// TxRunner ejecuta fn con repos de usuarios y sesiones atados a una misma transacción.
// La implementación vive en infrastructure/postgres.
type TxRunner interface {
	RunAuth(ctx context.Context, fn func(
		users repository.UserRepository,
		sessions repository.SessionRepository,
	) error) error
}

// OTPSender canal de entrega del código (SMS, webhook, log en desarrollo).
type OTPSender interface {
	SendOTP(ctx context.Context, recipient, code string) error
}

// AttemptCounter cuenta intentos fallidos por clave en una ventana de tiempo.
// Nil desactiva el límite de intentos de OTP.
type AttemptCounter interface {
	Attempts(ctx context.Context, key string) (int64, error)
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

// RequestMeta datos del cliente para auditoría y sesión.
type RequestMeta struct {
	IP        string
	UserAgent string
}
