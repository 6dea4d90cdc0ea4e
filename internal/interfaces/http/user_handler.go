package http

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/telco-selfcare-api/internal/application/dto"
	"github.com/jhoicas/telco-selfcare-api/internal/domain"
	"github.com/jhoicas/telco-selfcare-api/internal/domain/entity"
	"github.com/jhoicas/telco-selfcare-api/pkg/logger"
)

// UserService lo implementa *usecase.UserUseCase.
type UserService interface {
	Me(ctx context.Context, caller entity.Identity) (*dto.UserResponse, error)
	List(ctx context.Context, caller entity.Identity, q dto.UserListQuery) ([]dto.UserResponse, error)
	Create(ctx context.Context, caller entity.Identity, in dto.CreateUserRequest, ip string) (*dto.UserResponse, error)
	Update(ctx context.Context, caller entity.Identity, in dto.UpdateUserRequest, ip string) (*dto.UserResponse, error)
	Delete(ctx context.Context, caller entity.Identity, id, ip string) error
}

// UserHandler maneja /api/user y /api/users.
type UserHandler struct {
	base
	uc UserService
}

// NewUserHandler construye el handler.
func NewUserHandler(uc UserService, log *logger.Logger, v *validator.Validate) *UserHandler {
	return &UserHandler{base: newBase(log, v), uc: uc}
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/user [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	u, err := h.uc.Me(c.Context(), caller)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MeResponse{User: *u})
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        phone       query  string  false  "búsqueda parcial por teléfono"
// @Param        company_id  query  string  false  "solo admin/ssr"
// @Param        limit       query  int     false  "máx. 100"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {array}   dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	var q dto.UserListQuery
	if ok, err := h.bindQuery(c, &q); !ok {
		return err
	}
	q.DefaultPage()
	out, err := h.uc.List(c.Context(), caller, q)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear usuario
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateUserRequest  true  "msisdn, phone, password, role, company_id"
// @Success      201  {object}  dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	var in dto.CreateUserRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), caller, in, clientIP(c))
	if err != nil {
		return h.failWith(c, err, messages{
			domain.ErrDuplicate: "A user with this msisdn, phone or username already exists",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar usuario (parcial)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpdateUserRequest  true  "id y campos a cambiar"
// @Success      200  {object}  dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users [patch]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	var in dto.UpdateUserRequest
	if ok, err := h.bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), caller, in, clientIP(c))
	if err != nil {
		return h.failWith(c, err, messages{domain.ErrNotFound: "User not found"})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar usuario
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   query  string  true  "ID del usuario"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	caller, _ := GetIdentity(c)
	id := c.Query("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError("VALIDATION", "id is required"))
	}
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.NewError("NOT_FOUND", "User not found"))
	}
	if err := h.uc.Delete(c.Context(), caller, id, clientIP(c)); err != nil {
		return h.failWith(c, err, messages{domain.ErrNotFound: "User not found"})
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}
