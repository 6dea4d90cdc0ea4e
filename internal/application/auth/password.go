package auth

import (
	"context"
	"fmt"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
)

// ResetPassword cambia la contraseña del llamador o, si es admin, la de la cuenta con ese msisdn.
// Revoca las demás sesiones de la cuenta afectada.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, caller entity.Identity, in dto.ResetPasswordRequest, meta RequestMeta) error {
	if len(in.Password) < 6 {
		return domain.ErrInvalidInput
	}
	targetID := caller.UserID
	if in.MSISDN != "" {
		target, err := uc.users.FindByLogin(ctx, normalizeNumber(in.MSISDN))
		if err != nil {
			return err
		}
		if target == nil {
			return domain.ErrUserNotFound
		}
		if target.ID != caller.UserID && caller.Role != entity.RoleAdmin {
			return domain.ErrForbidden
		}
		targetID = target.ID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	h := string(hash)
	updated, err := uc.users.Update(ctx, targetID, entity.UserPatch{PasswordHash: &h})
	if err != nil {
		return err
	}
	if updated == nil {
		return domain.ErrUserNotFound
	}

	keep := ""
	if targetID == caller.UserID {
		keep = caller.SessionToken
	}
	revoked, err := uc.sessions.DeleteByUserExcept(ctx, targetID, keep)
	if err != nil {
		return err
	}

	uc.audit(ctx, &caller.UserID, entity.ActionPasswordReset, map[string]any{
		"target_user_id":   targetID,
		"revoked_sessions": revoked,
	}, meta.IP)
	return nil
}
