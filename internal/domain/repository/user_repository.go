package repository

import (
	"context"
	"time"

	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las lecturas devuelven (nil, nil) cuando no hay fila.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// FindByLogin busca por username, phone o msisdn.
	FindByLogin(ctx context.Context, identifier string) (*entity.User, error)
	List(ctx context.Context, f entity.UserFilter) ([]*entity.User, error)
	Count(ctx context.Context, companyID string) (int, error)
	Update(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error)
	Delete(ctx context.Context, id string) error

	SetOTP(ctx context.Context, userID, code string, expiry time.Time) error
	// ConsumeOTP borra otp/otp_expiry y marca la cuenta como verified, solo si el código
	// almacenado sigue siendo code; si otra petición ya lo consumió devuelve domain.ErrOTPExpired.
	ConsumeOTP(ctx context.Context, userID, code string) error
	ClearExpiredOTPs(ctx context.Context, now time.Time) (int64, error)
}
