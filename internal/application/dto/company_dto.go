package dto

// CreateCompanyRequest alta de empresa.
type CreateCompanyRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=200"`
	ContractNumber string `json:"contract_number" validate:"required,min=1,max=50"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ContractNumber string `json:"contract_number"`
}
