package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"reviewdesk/internal/domain/repository"
	"reviewdesk/pkg/response"
)

// UserHandler proxies the admin screens' user management calls to the
// backend. Enforcement lives server side.
type UserHandler struct {
	userRepo repository.UserRepository
}

func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
	}
}

type setPermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
}

type setCustomerTypesRequest struct {
	CustomerTypes []string `json:"customerTypes" validate:"required"`
}

func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userRepo.List(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, users)
}

func (h *UserHandler) SetPermissions(c echo.Context) error {
	var req setPermissionsRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.userRepo.SetPermissions(c.Request().Context(), c.Param("id"), req.Permissions); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *UserHandler) SetCustomerTypes(c echo.Context) error {
	var req setCustomerTypesRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.userRepo.SetCustomerTypes(c.Request().Context(), c.Param("id"), req.CustomerTypes); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusOK)
}
