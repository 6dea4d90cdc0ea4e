package http

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telco-selfcare-api/internal/application/auth"
	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

// AuthService flujo de autenticación; lo implementa *auth.AuthUseCase.
type AuthService interface {
	Login(ctx context.Context, in dto.LoginRequest, meta auth.RequestMeta) (*dto.LoginResponse, error)
	VerifyOTP(ctx context.Context, in dto.VerifyOTPRequest, meta auth.RequestMeta) (*dto.SessionResponse, error)
	Signup(ctx context.Context, in dto.SignupRequest, meta auth.RequestMeta) (*dto.SessionResponse, error)
	Register(ctx context.Context, in dto.RegisterRequest, meta auth.RequestMeta) (*dto.RegisterResponse, error)
	Logout(ctx context.Context, token string, meta auth.RequestMeta) error
	ResetPassword(ctx context.Context, caller entity.Identity, in dto.ResetPasswordRequest, meta auth.RequestMeta) error
}

// CookieConfig atributos de la cookie de sesión.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler maneja login, OTP, alta de cuentas y cierre de sesión.
type AuthHandler struct {
	base
	uc     AuthService
	cookie CookieConfig
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc AuthService, cookie CookieConfig, log *logger.Logger, v *validator.Validate) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "session"
	}
	return &AuthHandler{base: newBase(log, v), uc: uc, cookie: cookie}
}

// Login godoc
// @Summary      Iniciar sesión (paso 1: envía OTP)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username (usuario, teléfono o MSISDN) y password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/login [post]
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Login(c.Context(), in, requestMeta(c))
	recordAuthEvent("login", err)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// VerifyOTP godoc
// @Summary      Verificar OTP (paso 2: abre sesión)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyOTPRequest  true  "userId y código de 6 dígitos"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var in dto.VerifyOTPRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("INVALID_BODY", "Invalid request body"))
	}
	if in.UserID == "" || in.OTP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("VALIDATION", "User ID and OTP are required"))
	}
	if err := h.validate.StructCtx(c.Context(), &in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("VALIDATION", "OTP must be 6 digits"))
	}
	out, err := h.uc.VerifyOTP(c.Context(), in, requestMeta(c))
	recordAuthEvent("verify_otp", err)
	if err != nil {
		return h.fail(c, err)
	}
	h.setSessionCookie(c, out.Token, out.ExpiresAt)
	return c.JSON(out)
}

// Signup godoc
// @Summary      Alta de cliente con número de contrato
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "identifier (teléfono o MSISDN), password, contract_number"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Signup(c.Context(), in, requestMeta(c))
	recordAuthEvent("signup", err)
	if err != nil {
		return h.failWith(c, err, messages{
			domain.ErrDuplicate: "An account with this phone number or MSISDN already exists",
		})
	}
	h.setSessionCookie(c, out.Token, out.ExpiresAt)
	return c.JSON(out)
}

// Register godoc
// @Summary      Registro de administrador de empresa (queda pendiente de OTP)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "contractNumber, phoneNumber, username, password"
// @Success      201   {object}  dto.RegisterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Register(c.Context(), in, requestMeta(c))
	recordAuthEvent("register", err)
	if err != nil {
		return h.failWith(c, err, messages{
			domain.ErrDuplicate: "Username or phone number already registered",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LogoutRequest  false  "sessionToken (opcional si se envía cookie o Bearer)"
// @Success      200   {object}  dto.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := credential(c, h.cookie.Name)
	if token == "" {
		var in dto.LogoutRequest
		_ = c.BodyParser(&in)
		token = in.SessionToken
	}
	err := h.uc.Logout(c.Context(), token, requestMeta(c))
	recordAuthEvent("logout", err)
	if err != nil {
		return h.fail(c, err)
	}
	h.clearSessionCookie(c)
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

// ResetPassword godoc
// @Summary      Cambiar contraseña
// @Description  Sin msisdn cambia la del llamador; con msisdn de otra cuenta requiere rol admin.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ResetPasswordRequest  true  "password y msisdn opcional"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	var in dto.ResetPasswordRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}
	err := h.uc.ResetPassword(c.Context(), caller, in, requestMeta(c))
	recordAuthEvent("reset_password", err)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password updated successfully"})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
