package http

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

// CompanyService lo implementa *usecase.CompanyUseCase.
type CompanyService interface {
	Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error)
	GetByID(ctx context.Context, caller entity.Identity, id string) (*dto.CompanyResponse, error)
	List(ctx context.Context) ([]dto.CompanyResponse, error)
}

// CompanyHandler maneja endpoints de empresas (clientes corporativos del operador).
type CompanyHandler struct {
	base
	uc CompanyService
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc CompanyService, log *logger.Logger, v *validator.Validate) *CompanyHandler {
	return &CompanyHandler{base: newBase(log, v), uc: uc}
}

// Create godoc
// @Summary      Crear empresa
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateCompanyRequest  true  "name, contract_number"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return h.failWith(c, err, messages{
			domain.ErrDuplicate: "A company with this contract number already exists",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener empresa por ID
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	out, err := h.uc.GetByID(c.Context(), caller, c.Params("id"))
	if err != nil {
		return h.failWith(c, err, messages{domain.ErrNotFound: "Company not found"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar empresas
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.CompanyResponse
// @Router       /api/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
