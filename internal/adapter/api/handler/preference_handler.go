package handler

import (
	"github.com/labstack/echo/v4"

	"reviewdesk/internal/domain/entity"
	"reviewdesk/internal/usecase"
	"reviewdesk/pkg/response"
)

type PreferenceHandler struct {
	preferenceUseCase *usecase.PreferenceUseCase
}

func NewPreferenceHandler(preferenceUseCase *usecase.PreferenceUseCase) *PreferenceHandler {
	return &PreferenceHandler{
		preferenceUseCase: preferenceUseCase,
	}
}

func (h *PreferenceHandler) Get(c echo.Context) error {
	if preferences := h.preferenceUseCase.Preferences(); preferences != nil {
		return response.Success(c, preferences)
	}

	preferences, err := h.preferenceUseCase.Load(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, preferences)
}

func (h *PreferenceHandler) Update(c echo.Context) error {
	var req entity.UserPreferences
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	preferences, err := h.preferenceUseCase.Update(c.Request().Context(), &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, preferences)
}
