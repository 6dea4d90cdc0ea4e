package entity

import "time"

// Session sesión persistida en servidor. Es válida mientras la fila exista y now < ExpiresAt.
type Session struct {
	ID        string
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
	IP        string
	UserAgent string
}

// Expired indica si la sesión ya venció en el instante now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
