package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"reviewdesk/internal/usecase"
	"reviewdesk/pkg/response"
)

type QuickReplyHandler struct {
	quickReplyUseCase *usecase.QuickReplyUseCase
	syncUseCase       *usecase.ChatSyncUseCase
}

func NewQuickReplyHandler(quickReplyUseCase *usecase.QuickReplyUseCase, syncUseCase *usecase.ChatSyncUseCase) *QuickReplyHandler {
	return &QuickReplyHandler{
		quickReplyUseCase: quickReplyUseCase,
		syncUseCase:       syncUseCase,
	}
}

type quickReplyRequest struct {
	Shortcut string `json:"shortcut" validate:"required"`
	Message  string `json:"message" validate:"required"`
}

type expandRequest struct {
	Input string `json:"input" validate:"required"`
	// Trigger is "space" for the whitespace key-press path or "submit"
	// for full-message expansion. A non-empty Shortcut selects the
	// suggestion-click path instead.
	Trigger  string `json:"trigger" validate:"omitempty,oneof=space submit"`
	Shortcut string `json:"shortcut"`
}

type expandResponse struct {
	Text     string `json:"text"`
	Expanded bool   `json:"expanded"`
}

func (h *QuickReplyHandler) List(c echo.Context) error {
	return response.Success(c, h.quickReplyUseCase.QuickReplies())
}

func (h *QuickReplyHandler) Create(c echo.Context) error {
	var req quickReplyRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	reply, err := h.quickReplyUseCase.Create(c.Request().Context(), req.Shortcut, req.Message)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, reply)
}

func (h *QuickReplyHandler) Update(c echo.Context) error {
	var req quickReplyRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	reply, err := h.quickReplyUseCase.Update(c.Request().Context(), c.Param("id"), req.Shortcut, req.Message)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, reply)
}

func (h *QuickReplyHandler) Delete(c echo.Context) error {
	if err := h.quickReplyUseCase.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusOK)
}

// Suggest returns live completions for the token being typed.
func (h *QuickReplyHandler) Suggest(c echo.Context) error {
	suggestions := h.quickReplyUseCase.Suggest(c.QueryParam("input"))
	return response.Success(c, suggestions)
}

// Expand serves the three expansion paths of the composer.
func (h *QuickReplyHandler) Expand(c echo.Context) error {
	var req expandRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	customerName := h.syncUseCase.ActiveCustomerName()

	if req.Shortcut != "" {
		text, err := h.quickReplyUseCase.ApplySuggestion(req.Input, req.Shortcut, customerName)
		if err != nil {
			return response.Error(c, err)
		}
		return response.Success(c, expandResponse{Text: text, Expanded: true})
	}

	if req.Trigger == "space" {
		text, expanded := h.quickReplyUseCase.ExpandOnSpace(req.Input, customerName)
		return response.Success(c, expandResponse{Text: text, Expanded: expanded})
	}

	text := h.quickReplyUseCase.ExpandAll(req.Input, customerName)
	return response.Success(c, expandResponse{Text: text, Expanded: text != req.Input})
}
