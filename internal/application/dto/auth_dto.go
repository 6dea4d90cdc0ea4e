package dto

import "time"

// LoginRequest credenciales; username puede ser el username, el teléfono o el MSISDN.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse primer paso completado; el OTP se envía por SMS, nunca en la respuesta.
type LoginResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// VerifyOTPRequest segundo factor.
type VerifyOTPRequest struct {
	UserID string `json:"userId" validate:"required"`
	OTP    string `json:"otp" validate:"required,len=6,numeric"`
}

// SessionUser identidad devuelta al abrir sesión.
type SessionUser struct {
	ID        string  `json:"id"`
	Username  *string `json:"username"`
	Phone     *string `json:"phone,omitempty"`
	MSISDN    *string `json:"msisdn,omitempty"`
	Role      string  `json:"role"`
	CompanyID *string `json:"companyId"`
}

// SessionResponse token de sesión y usuario.
type SessionResponse struct {
	Message   string      `json:"message,omitempty"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      SessionUser `json:"user"`
}

// SignupRequest alta self-service con número de contrato.
type SignupRequest struct {
	Identifier     string `json:"identifier" validate:"required,min=6,max=20"`
	Password       string `json:"password" validate:"required,min=6"`
	ContractNumber string `json:"contract_number" validate:"required"`
}

// RegisterRequest alta de un administrador de empresa (queda pendiente de OTP).
type RegisterRequest struct {
	ContractNumber string `json:"contractNumber" validate:"required"`
	PhoneNumber    string `json:"phoneNumber" validate:"required,min=6,max=20"`
	Username       string `json:"username" validate:"required,min=3,max=50"`
	Password       string `json:"password" validate:"required,min=6"`
}

// RegisterResponse siguiente paso: verificar el OTP enviado.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// LogoutRequest clientes API pueden enviar el token en el cuerpo.
type LogoutRequest struct {
	SessionToken string `json:"sessionToken"`
}

// ResetPasswordRequest cambia la contraseña propia o, siendo admin, la de otra línea.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
	MSISDN   string `json:"msisdn" validate:"omitempty,min=6,max=20"`
}
