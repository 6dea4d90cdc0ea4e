package dto

import (
	"encoding/json"
	"time"
)

// CreateLogRequest entrada de bitácora enviada por el cliente.
type CreateLogRequest struct {
	Action  string          `json:"action" validate:"required,max=100"`
	Details json.RawMessage `json:"details"`
}

// LogListQuery paginación por página (1-based).
type LogListQuery struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// LogUser usuario embebido en la entrada.
type LogUser struct {
	ID     string  `json:"id"`
	MSISDN *string `json:"msisdn"`
}

// LogResponse salida de una entrada.
type LogResponse struct {
	ID        string          `json:"id"`
	UserID    *string         `json:"user_id"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details"`
	IP        string          `json:"ip"`
	CreatedAt time.Time       `json:"created_at"`
	User      *LogUser        `json:"user"`
}

// LogListResponse página de la bitácora.
type LogListResponse struct {
	Logs  []LogResponse `json:"logs"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}
