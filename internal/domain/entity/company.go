package entity

import "time"

// Company empresa cliente del operador; el número de contrato la identifica en el alta.
type Company struct {
	ID             string
	Name           string
	ContractNumber string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
