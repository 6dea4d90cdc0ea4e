package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
	"github.com/jhoicas/telco-selfcare-api/pkg/jwt"
)

// createSession persiste la sesión y firma el JWT que la envuelve (jti = token de sesión).
func (uc *AuthUseCase) createSession(ctx context.Context, sessions repository.SessionRepository, user *entity.User, meta RequestMeta) (*dto.SessionResponse, error) {
	token, err := randomToken()
	if err != nil {
		return nil, err
	}
	now := uc.now()
	// exp del JWT tiene resolución de segundos
	expiresAt := now.Add(uc.cfg.SessionTTL).Truncate(time.Second)
	s := &entity.Session{
		ID:        uuid.New().String(),
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	}
	if err := sessions.Create(ctx, s); err != nil {
		return nil, err
	}
	signed, err := jwt.Generate(uc.cfg.JWTSecret, token, user.ID, user.CompanyIDOrEmpty(), user.Role, uc.cfg.Issuer, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("firmar sesión: %w", err)
	}
	return &dto.SessionResponse{Token: signed, ExpiresAt: expiresAt, User: toSessionUser(user)}, nil
}

// ValidateSession resuelve un token a exactamente una identidad o falla cerrado.
// El rol y la empresa se leen de la fila del usuario, no de los claims.
func (uc *AuthUseCase) ValidateSession(ctx context.Context, token string) (*entity.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	claims, err := jwt.Parse(uc.cfg.JWTSecret, token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) && claims != nil {
			if derr := uc.sessions.DeleteByToken(ctx, claims.SessionID()); derr != nil {
				uc.log.Error().Err(derr).Msg("no se pudo borrar sesión expirada")
			}
			return nil, domain.ErrSessionExpired
		}
		return nil, domain.ErrInvalidSession
	}

	s, err := uc.sessions.GetByToken(ctx, claims.SessionID())
	if err != nil {
		return nil, err
	}
	if s == nil || s.UserID != claims.UserID {
		return nil, domain.ErrInvalidSession
	}
	if s.Expired(uc.now()) {
		if err := uc.sessions.DeleteByToken(ctx, s.Token); err != nil {
			uc.log.Error().Err(err).Msg("no se pudo borrar sesión expirada")
		}
		return nil, domain.ErrSessionExpired
	}

	user, err := uc.users.GetByID(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidSession
	}
	return &entity.Identity{
		UserID:       user.ID,
		Role:         user.Role,
		CompanyID:    user.CompanyIDOrEmpty(),
		SessionToken: s.Token,
	}, nil
}

// Logout borra la sesión del token. Un token ilegible o ya revocado no es error.
func (uc *AuthUseCase) Logout(ctx context.Context, token string, meta RequestMeta) error {
	if token == "" {
		return nil
	}
	claims, err := jwt.Parse(uc.cfg.JWTSecret, token)
	if claims == nil {
		if err != nil {
			uc.log.Debug().Err(err).Msg("logout con token inválido")
		}
		return nil
	}
	s, err := uc.sessions.GetByToken(ctx, claims.SessionID())
	if err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	if err := uc.sessions.DeleteByToken(ctx, s.Token); err != nil {
		return err
	}
	uc.audit(ctx, &s.UserID, entity.ActionUserLogout, nil, meta.IP)
	uc.log.Info().Str("user_id", s.UserID).Msg("sesión cerrada")
	return nil
}

// PurgeExpired borra sesiones vencidas y limpia OTPs vencidos (tarea programada).
func (uc *AuthUseCase) PurgeExpired(ctx context.Context) (sessions, otps int64, err error) {
	now := uc.now()
	sessions, err = uc.sessions.DeleteExpired(ctx, now)
	if err != nil {
		return 0, 0, err
	}
	otps, err = uc.users.ClearExpiredOTPs(ctx, now)
	if err != nil {
		return sessions, 0, err
	}
	return sessions, otps, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("token aleatorio: %w", err)
	}
	return hex.EncodeToString(b), nil
}
