package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleSSR   = "ssr"  // soporte / ventas del operador
	RoleSMEA  = "smea" // administrador de la empresa cliente
	RoleUser  = "user"
)

// Estados de cuenta.
const (
	UserStatusPending  = "pending"
	UserStatusVerified = "verified"
)

// ValidRole indica si r es uno de los roles conocidos.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleSSR, RoleSMEA, RoleUser:
		return true
	}
	return false
}

// IsGlobalRole roles del operador que ven todas las empresas.
func IsGlobalRole(r string) bool {
	return r == RoleAdmin || r == RoleSSR
}

// User cuenta de acceso. Se identifica por username, phone o msisdn (cualquiera de los tres).
type User struct {
	ID           string
	Username     *string
	Phone        *string
	MSISDN       *string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string
	CompanyID    *string
	OTP          *string
	OTPExpiry    *time.Time
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsVerified indica si la cuenta completó la verificación inicial.
func (u *User) IsVerified() bool { return u.Status == UserStatusVerified }

// CompanyIDOrEmpty devuelve el company_id o "" si es nulo.
func (u *User) CompanyIDOrEmpty() string {
	if u.CompanyID == nil {
		return ""
	}
	return *u.CompanyID
}

// UserFilter filtros de listado.
type UserFilter struct {
	CompanyID string // vacío = todas
	Phone     string // búsqueda parcial
	Limit     int
	Offset    int
}

// UserPatch campos opcionales de una actualización parcial.
type UserPatch struct {
	Username     *string
	Phone        *string
	MSISDN       *string
	Role         *string
	CompanyID    *string
	PasswordHash *string
}

// Identity identidad resuelta a partir de una sesión válida.
type Identity struct {
	UserID       string
	Role         string
	CompanyID    string
	SessionToken string
}
