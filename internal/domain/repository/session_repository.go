package repository

import (
	"context"
	"time"

	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
)

// SessionRepository sesiones persistidas en servidor.
type SessionRepository interface {
	Create(ctx context.Context, s *entity.Session) error
	GetByToken(ctx context.Context, token string) (*entity.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	// DeleteByUserExcept revoca todas las sesiones del usuario salvo keepToken (vacío = todas).
	DeleteByUserExcept(ctx context.Context, userID, keepToken string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
