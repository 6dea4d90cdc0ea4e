package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/repository"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
	"github.com/jhoicas/telco-selfcare-api/pkg/otp"
	"golang.org/x/crypto/bcrypt"
)

// Mensajes visibles por el cliente.
const (
	MsgOTPSent          = "OTP sent to your phone number"
	MsgOTPVerified      = "OTP verified successfully"
	MsgRegistered       = "Registration successful. OTP sent to your phone number"
	albanianPhonePrefix = "35569"
)

// Config parámetros de sesión y OTP.
type Config struct {
	JWTSecret      string
	Issuer         string
	SessionTTL     time.Duration
	OTPTTL         time.Duration
	OTPMaxAttempts int
	BcryptCost     int // 0 = bcrypt.DefaultCost
}

// AuthUseCase casos de uso de autenticación: login con OTP, sesiones, alta y contraseñas.
type AuthUseCase struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	sessions  repository.SessionRepository
	logs      repository.AuditLogRepository
	tx        TxRunner
	sender    OTPSender
	attempts  AttemptCounter
	cfg       Config
	log       *logger.Logger
	now       func() time.Time
}

// Deps colaboradores del caso de uso.
type Deps struct {
	Users     repository.UserRepository
	Companies repository.CompanyRepository
	Sessions  repository.SessionRepository
	Logs      repository.AuditLogRepository
	Tx        TxRunner
	Sender    OTPSender
	Attempts  AttemptCounter // opcional
	Log       *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(d Deps, cfg Config) *AuthUseCase {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	l := d.Log
	if l == nil {
		l = logger.Nop()
	}
	return &AuthUseCase{
		users:     d.Users,
		companies: d.Companies,
		sessions:  d.Sessions,
		logs:      d.Logs,
		tx:        d.Tx,
		sender:    d.Sender,
		attempts:  d.Attempts,
		cfg:       cfg,
		log:       l.Component("auth"),
		now:       time.Now,
	}
}

// Login verifica usuario/contraseña y emite un OTP. Nunca devuelve el código.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest, meta RequestMeta) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.users.FindByLogin(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsVerified() {
		return nil, domain.ErrNotVerified
	}

	if err := uc.issueOTP(ctx, uc.users, user); err != nil {
		return nil, err
	}
	uc.audit(ctx, &user.ID, entity.ActionUserLogin, map[string]any{"username": username}, meta.IP)
	uc.log.Info().Str("user_id", user.ID).Msg("login correcto, OTP emitido")

	return &dto.LoginResponse{Message: MsgOTPSent, UserID: user.ID}, nil
}

// VerifyOTP valida el código y abre sesión. El código se consume siempre (uso único).
func (uc *AuthUseCase) VerifyOTP(ctx context.Context, in dto.VerifyOTPRequest, meta RequestMeta) (*dto.SessionResponse, error) {
	if !otp.Valid(in.OTP) {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uuid.Parse(in.UserID); err != nil {
		return nil, domain.ErrUserNotFound
	}
	user, err := uc.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	attemptsKey := otpAttemptsKey(user.ID)
	if uc.attempts != nil && uc.cfg.OTPMaxAttempts > 0 {
		n, err := uc.attempts.Attempts(ctx, attemptsKey)
		if err != nil {
			uc.log.Warn().Err(err).Msg("contador de intentos OTP no disponible")
		} else if n >= int64(uc.cfg.OTPMaxAttempts) {
			return nil, domain.ErrRateLimited
		}
	}

	now := uc.now()
	if user.OTP == nil || user.OTPExpiry == nil || now.After(*user.OTPExpiry) {
		return nil, domain.ErrOTPExpired
	}
	if !otp.Equal(*user.OTP, in.OTP) {
		if uc.attempts != nil {
			if _, err := uc.attempts.Hit(ctx, attemptsKey, uc.cfg.OTPTTL); err != nil {
				uc.log.Warn().Err(err).Msg("no se pudo registrar intento OTP fallido")
			}
		}
		return nil, domain.ErrOTPMismatch
	}

	var resp *dto.SessionResponse
	err = uc.tx.RunAuth(ctx, func(users repository.UserRepository, sessions repository.SessionRepository) error {
		if err := users.ConsumeOTP(ctx, user.ID, in.OTP); err != nil {
			return err
		}
		user.Status = entity.UserStatusVerified
		r, err := uc.createSession(ctx, sessions, user, meta)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.attempts != nil {
		_ = uc.attempts.Reset(ctx, attemptsKey)
	}
	uc.audit(ctx, &user.ID, entity.ActionOTPVerified, nil, meta.IP)
	uc.log.Info().Str("user_id", user.ID).Msg("OTP verificado, sesión creada")

	resp.Message = MsgOTPVerified
	return resp, nil
}

// Signup alta self-service de un usuario final con número de contrato; abre sesión directamente.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest, meta RequestMeta) (*dto.SessionResponse, error) {
	identifier := normalizeNumber(in.Identifier)
	if identifier == "" || in.Password == "" || strings.TrimSpace(in.ContractNumber) == "" {
		return nil, domain.ErrInvalidInput
	}
	company, err := uc.companies.GetByContractNumber(ctx, strings.TrimSpace(in.ContractNumber))
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrInvalidContract
	}
	existing, err := uc.users.FindByLogin(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		PasswordHash: string(hash),
		Role:         entity.RoleUser,
		CompanyID:    &company.ID,
		Status:       entity.UserStatusVerified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if strings.HasPrefix(identifier, albanianPhonePrefix) {
		user.Phone = &identifier
	} else {
		user.MSISDN = &identifier
	}

	var resp *dto.SessionResponse
	err = uc.tx.RunAuth(ctx, func(users repository.UserRepository, sessions repository.SessionRepository) error {
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		r, err := uc.createSession(ctx, sessions, user, meta)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, &user.ID, entity.ActionUserSignup, map[string]any{"company_id": company.ID}, meta.IP)
	uc.log.Info().Str("user_id", user.ID).Str("company_id", company.ID).Msg("alta self-service")
	return resp, nil
}

// Register alta de administrador de empresa (smea). Queda pending hasta verificar el OTP enviado.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest, meta RequestMeta) (*dto.RegisterResponse, error) {
	username := strings.TrimSpace(in.Username)
	phone := normalizeNumber(in.PhoneNumber)
	if len(username) < 3 || len(in.Password) < 6 || phone == "" {
		return nil, domain.ErrInvalidInput
	}
	company, err := uc.companies.GetByContractNumber(ctx, strings.TrimSpace(in.ContractNumber))
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrInvalidContract
	}
	for _, id := range []string{username, phone} {
		existing, err := uc.users.FindByLogin(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, expiry, err := uc.newOTP()
	if err != nil {
		return nil, err
	}

	// La fila nace con su OTP: no queda ninguna cuenta pending sin código.
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     &username,
		Phone:        &phone,
		PasswordHash: string(hash),
		Role:         entity.RoleSMEA,
		CompanyID:    &company.ID,
		OTP:          &code,
		OTPExpiry:    &expiry,
		Status:       entity.UserStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.sendOTP(ctx, user, code)

	uc.audit(ctx, &user.ID, entity.ActionUserRegistered, map[string]any{"company_id": company.ID}, meta.IP)
	uc.log.Info().Str("user_id", user.ID).Msg("registro pendiente de verificación")
	return &dto.RegisterResponse{Message: MsgRegistered, UserID: user.ID}, nil
}

// newOTP genera un código y su vencimiento.
func (uc *AuthUseCase) newOTP() (string, time.Time, error) {
	code, err := otp.Generate()
	if err != nil {
		return "", time.Time{}, err
	}
	return code, uc.now().Add(uc.cfg.OTPTTL), nil
}

// issueOTP genera y persiste el código y lo envía. Un código nuevo reinicia el
// contador de intentos fallidos del anterior.
func (uc *AuthUseCase) issueOTP(ctx context.Context, users repository.UserRepository, user *entity.User) error {
	code, expiry, err := uc.newOTP()
	if err != nil {
		return err
	}
	if err := users.SetOTP(ctx, user.ID, code, expiry); err != nil {
		return err
	}
	user.OTP, user.OTPExpiry = &code, &expiry

	if uc.attempts != nil {
		if err := uc.attempts.Reset(ctx, otpAttemptsKey(user.ID)); err != nil {
			uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo reiniciar el contador de intentos OTP")
		}
	}
	uc.sendOTP(ctx, user, code)
	return nil
}

// sendOTP despacha el código; un fallo de envío solo se registra.
func (uc *AuthUseCase) sendOTP(ctx context.Context, user *entity.User, code string) {
	if uc.sender == nil {
		return
	}
	if err := uc.sender.SendOTP(ctx, otpRecipient(user), code); err != nil {
		uc.log.Error().Err(err).Str("user_id", user.ID).Msg("envío de OTP fallido")
	}
}

func otpAttemptsKey(userID string) string { return "otp:" + userID }

// audit añade una entrada a la bitácora; los fallos se registran sin afectar la operación.
func (uc *AuthUseCase) audit(ctx context.Context, userID *string, action string, details map[string]any, ip string) {
	if uc.logs == nil {
		return
	}
	raw := json.RawMessage(`{}`)
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			raw = b
		}
	}
	entry := &entity.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Details:   raw,
		IP:        ip,
		CreatedAt: uc.now(),
	}
	if err := uc.logs.Append(ctx, entry); err != nil {
		uc.log.Error().Err(err).Str("action", action).Msg("no se pudo registrar auditoría")
	}
}

func otpRecipient(u *entity.User) string {
	switch {
	case u.Phone != nil && *u.Phone != "":
		return *u.Phone
	case u.MSISDN != nil && *u.MSISDN != "":
		return *u.MSISDN
	case u.Username != nil:
		return *u.Username
	}
	return ""
}

// normalizeNumber quita espacios, guiones y el "+" inicial.
func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	return strings.NewReplacer(" ", "", "-", "").Replace(s)
}

func toSessionUser(u *entity.User) dto.SessionUser {
	return dto.SessionUser{
		ID:        u.ID,
		Username:  u.Username,
		Phone:     u.Phone,
		MSISDN:    u.MSISDN,
		Role:      u.Role,
		CompanyID: u.CompanyID,
	}
}
