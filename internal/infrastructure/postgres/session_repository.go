package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo sesiones de servidor sobre PostgreSQL.
type SessionRepo struct {
	db Querier
}

// NewSessionRepository construye el adaptador.
func NewSessionRepository(db Querier) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create persiste la sesión.
func (r *SessionRepo) Create(ctx context.Context, s *entity.Session) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (id, token, user_id, expires_at, created_at, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Token, s.UserID, s.ExpiresAt, s.CreatedAt, s.IP, s.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetByToken devuelve la sesión aunque esté vencida; el llamador decide.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*entity.Session, error) {
	var s entity.Session
	err := r.db.QueryRow(ctx, `
		SELECT id, token, user_id, expires_at, created_at, ip, user_agent
		FROM sessions WHERE token = $1`, token,
	).Scan(&s.ID, &s.Token, &s.UserID, &s.ExpiresAt, &s.CreatedAt, &s.IP, &s.UserAgent)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

// DeleteByToken borra la sesión; no falla si ya no existe.
func (r *SessionRepo) DeleteByToken(ctx context.Context, token string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteByUserExcept revoca las sesiones del usuario salvo keepToken.
func (r *SessionRepo) DeleteByUserExcept(ctx context.Context, userID, keepToken string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM sessions WHERE user_id = $1 AND token <> $2`, userID, keepToken)
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteExpired purga las sesiones vencidas.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
