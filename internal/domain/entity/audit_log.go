package entity

import (
	"encoding/json"
	"time"
)

// Acciones de auditoría registradas por el sistema.
const (
	ActionUserLogin          = "user_login"
	ActionOTPVerified        = "otp_verified"
	ActionUserSignup         = "user_signup"
	ActionUserRegistered     = "user_registered"
	ActionUserLogout         = "user_logout"
	ActionPasswordReset      = "password_reset"
	ActionUserCreated        = "user_created"
	ActionUserUpdated        = "user_updated"
	ActionUserDeleted        = "user_deleted"
	ActionOrderCreated       = "order_created"
	ActionOrderStatusChanged = "order_status_changed"
)

// AuditLog entrada de la bitácora (solo inserción).
type AuditLog struct {
	ID        string
	UserID    *string
	Action    string
	Details   json.RawMessage
	IP        string
	CreatedAt time.Time

	UserMSISDN *string // solo en listados
}
