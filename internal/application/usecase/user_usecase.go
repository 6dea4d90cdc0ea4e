package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase aplica reglas de negocio para la gestión de usuarios.
type UserUseCase struct {
	repo       repository.UserRepository
	audit      auditor
	bcryptCost int
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, logs repository.AuditLogRepository, l *logger.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, audit: newAuditor(logs, l), bcryptCost: bcrypt.DefaultCost}
}

// Me devuelve el usuario de la sesión.
func (uc *UserUseCase) Me(ctx context.Context, caller entity.Identity) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return entityToUserResponse(u), nil
}

// List lista usuarios visibles para el llamador.
func (uc *UserUseCase) List(ctx context.Context, caller entity.Identity, q dto.UserListQuery) ([]dto.UserResponse, error) {
	company, err := ScopeCompany(caller, q.CompanyID)
	if err != nil {
		return nil, err
	}
	q.DefaultPage()
	list, err := uc.repo.List(ctx, entity.UserFilter{CompanyID: company, Phone: q.Phone, Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *entityToUserResponse(u))
	}
	return out, nil
}

// Create alta de usuario por un administrador. Queda verified (sin OTP inicial).
func (uc *UserUseCase) Create(ctx context.Context, caller entity.Identity, in dto.CreateUserRequest, ip string) (*dto.UserResponse, error) {
	if in.Username == nil && in.Phone == nil && in.MSISDN == nil {
		return nil, fmt.Errorf("%w: se requiere username, phone o msisdn", domain.ErrInvalidInput)
	}
	if !entity.ValidRole(in.Role) {
		return nil, domain.ErrInvalidInput
	}
	if err := canAssignRole(caller, in.Role); err != nil {
		return nil, err
	}
	companyID := ""
	if in.CompanyID != nil {
		companyID = *in.CompanyID
	}
	if !entity.IsGlobalRole(caller.Role) {
		scoped, err := ScopeCompany(caller, companyID)
		if err != nil {
			return nil, err
		}
		companyID = scoped
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Phone:        in.Phone,
		MSISDN:       in.MSISDN,
		PasswordHash: string(hash),
		Role:         in.Role,
		Status:       entity.UserStatusVerified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if companyID != "" {
		u.CompanyID = &companyID
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	uc.audit.record(ctx, caller.UserID, entity.ActionUserCreated, map[string]any{
		"user_id": u.ID, "role": u.Role, "company_id": companyID,
	}, ip)
	return entityToUserResponse(u), nil
}

// Update actualización parcial. La contraseña se hashea y nunca se registra en auditoría.
func (uc *UserUseCase) Update(ctx context.Context, caller entity.Identity, in dto.UpdateUserRequest, ip string) (*dto.UserResponse, error) {
	current, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if current == nil || !inScope(caller, current.CompanyIDOrEmpty()) {
		return nil, domain.ErrUserNotFound
	}
	if current.Role == entity.RoleAdmin && caller.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if in.Role != nil {
		if err := canAssignRole(caller, *in.Role); err != nil {
			return nil, err
		}
	}
	if in.CompanyID != nil && !entity.IsGlobalRole(caller.Role) && *in.CompanyID != caller.CompanyID {
		return nil, domain.ErrForbidden
	}

	patch := entity.UserPatch{
		Username:  in.Username,
		Phone:     in.Phone,
		MSISDN:    in.MSISDN,
		Role:      in.Role,
		CompanyID: in.CompanyID,
	}
	changed := changedFields(in)
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), uc.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		patch.PasswordHash = &h
	}
	u, err := uc.repo.Update(ctx, in.ID, patch)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	uc.audit.record(ctx, caller.UserID, entity.ActionUserUpdated, map[string]any{
		"user_id": u.ID, "fields": changed,
	}, ip)
	return entityToUserResponse(u), nil
}

// Delete borra un usuario (admin/ssr). Solo admin puede borrar a otro admin.
func (uc *UserUseCase) Delete(ctx context.Context, caller entity.Identity, id, ip string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrUserNotFound
	}
	current, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil || !inScope(caller, current.CompanyIDOrEmpty()) {
		return domain.ErrUserNotFound
	}
	if current.Role == entity.RoleAdmin && caller.Role != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit.record(ctx, caller.UserID, entity.ActionUserDeleted, map[string]any{"user_id": id}, ip)
	return nil
}

// canAssignRole: solo admin concede admin; smea solo concede smea o user.
func canAssignRole(caller entity.Identity, role string) error {
	switch caller.Role {
	case entity.RoleAdmin:
		return nil
	case entity.RoleSSR:
		if role == entity.RoleAdmin {
			return domain.ErrForbidden
		}
		return nil
	case entity.RoleSMEA:
		if role == entity.RoleSMEA || role == entity.RoleUser {
			return nil
		}
	}
	return domain.ErrForbidden
}

func changedFields(in dto.UpdateUserRequest) []string {
	var f []string
	if in.Username != nil {
		f = append(f, "username")
	}
	if in.Phone != nil {
		f = append(f, "phone")
	}
	if in.MSISDN != nil {
		f = append(f, "msisdn")
	}
	if in.Role != nil {
		f = append(f, "role")
	}
	if in.CompanyID != nil {
		f = append(f, "company_id")
	}
	if in.Password != nil {
		f = append(f, "password")
	}
	return f
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Phone:     u.Phone,
		MSISDN:    u.MSISDN,
		Role:      u.Role,
		CompanyID: u.CompanyID,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}
