package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=50"`
	Phone     *string `json:"phone" validate:"omitempty,min=6,max=20"`
	MSISDN    *string `json:"msisdn" validate:"omitempty,min=6,max=20"`
	Password  string  `json:"password" validate:"required,min=6"`
	Role      string  `json:"role" validate:"required,oneof=admin ssr smea user"`
	CompanyID *string `json:"company_id" validate:"omitempty,uuid"`
}

// UpdateUserRequest actualización parcial; solo se tocan los campos presentes.
type UpdateUserRequest struct {
	ID        string  `json:"id" validate:"required,uuid"`
	Username  *string `json:"username" validate:"omitempty,min=3,max=50"`
	Phone     *string `json:"phone" validate:"omitempty,min=6,max=20"`
	MSISDN    *string `json:"msisdn" validate:"omitempty,min=6,max=20"`
	Role      *string `json:"role" validate:"omitempty,oneof=admin ssr smea user"`
	CompanyID *string `json:"company_id" validate:"omitempty,uuid"`
	Password  *string `json:"password" validate:"omitempty,min=6"`
}

// UserListQuery filtros de GET /api/users.
type UserListQuery struct {
	PageRequest
	Phone     string `query:"phone"`
	CompanyID string `query:"company_id" validate:"omitempty,uuid"`
}

// UserResponse salida de un usuario (sin password ni OTP).
type UserResponse struct {
	ID        string    `json:"id"`
	Username  *string   `json:"username"`
	Phone     *string   `json:"phone"`
	MSISDN    *string   `json:"msisdn"`
	Role      string    `json:"role"`
	CompanyID *string   `json:"company_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// MeResponse cuerpo de GET /api/user.
type MeResponse struct {
	User UserResponse `json:"user"`
}
