package usecase

import (
	"github.com/google/uuid"

	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
)

// ScopeCompany devuelve la empresa a la que se restringe una consulta.
// admin y ssr ven todas ("" = sin filtro) y pueden filtrar con requested;
// smea y user quedan siempre en su propia empresa. Un requested que no es
// UUID es ErrInvalidInput.
func ScopeCompany(caller entity.Identity, requested string) (string, error) {
	if requested != "" {
		if _, err := uuid.Parse(requested); err != nil {
			return "", domain.ErrInvalidInput
		}
	}
	if entity.IsGlobalRole(caller.Role) {
		return requested, nil
	}
	if caller.CompanyID == "" {
		return "", domain.ErrForbidden
	}
	if requested != "" && requested != caller.CompanyID {
		return "", domain.ErrForbidden
	}
	return caller.CompanyID, nil
}

// inScope indica si un recurso de companyID es visible para el llamador.
func inScope(caller entity.Identity, companyID string) bool {
	return entity.IsGlobalRole(caller.Role) || (caller.CompanyID != "" && caller.CompanyID == companyID)
}

// targetCompany empresa sobre la que escribe el llamador: la suya, salvo admin/ssr que deben indicarla.
func targetCompany(caller entity.Identity, requested string) (string, error) {
	if entity.IsGlobalRole(caller.Role) {
		if requested == "" {
			if caller.CompanyID == "" {
				return "", domain.ErrInvalidInput
			}
			return caller.CompanyID, nil
		}
	}
	return ScopeCompany(caller, requested)
}
