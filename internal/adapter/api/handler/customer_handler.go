package handler

import (
	"github.com/labstack/echo/v4"

	"reviewdesk/internal/usecase"
	"reviewdesk/pkg/response"
)

type CustomerHandler struct {
	syncUseCase *usecase.ChatSyncUseCase
}

func NewCustomerHandler(syncUseCase *usecase.ChatSyncUseCase) *CustomerHandler {
	return &CustomerHandler{
		syncUseCase: syncUseCase,
	}
}

// GetProfile returns a customer snapshot for the profile side panel.
func (h *CustomerHandler) GetProfile(c echo.Context) error {
	customer, err := h.syncUseCase.GetCustomerProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, customer)
}
