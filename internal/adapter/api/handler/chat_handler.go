package handler

import (
	"github.com/labstack/echo/v4"

	"reviewdesk/internal/usecase"
	"reviewdesk/pkg/response"
	"reviewdesk/pkg/utils"
)

type ChatHandler struct {
	syncUseCase       *usecase.ChatSyncUseCase
	quickReplyUseCase *usecase.QuickReplyUseCase
}

func NewChatHandler(syncUseCase *usecase.ChatSyncUseCase, quickReplyUseCase *usecase.QuickReplyUseCase) *ChatHandler {
	return &ChatHandler{
		syncUseCase:       syncUseCase,
		quickReplyUseCase: quickReplyUseCase,
	}
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// ListConversations returns a page of the current recency-ordered list.
// Paging is a view concern only; the synchronizer always holds the full
// list.
func (h *ChatHandler) ListConversations(c echo.Context) error {
	params := utils.GetPaginationParams(c)
	conversations := h.syncUseCase.Conversations()

	start := params.Offset
	if start > len(conversations) {
		start = len(conversations)
	}
	end := start + params.PageSize
	if end > len(conversations) {
		end = len(conversations)
	}

	return response.Success(c, map[string]interface{}{
		"conversations": conversations[start:end],
		"total":         len(conversations),
		"page":          params.Page,
		"limit":         params.PageSize,
	})
}

// ReloadConversations replaces local state with a fresh backend fetch.
func (h *ChatHandler) ReloadConversations(c echo.Context) error {
	conversations, err := h.syncUseCase.LoadConversations(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversations)
}

// GetMessages selects the conversation and returns its fetched history.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	conversationID := c.Param("id")

	messages, err := h.syncUseCase.SelectConversation(c.Request().Context(), conversationID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, messages)
}

// SendMessage expands any shortcut tokens in the final text, then sends
// optimistically.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	conversationID := c.Param("id")

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	content := h.quickReplyUseCase.ExpandAll(req.Content, h.syncUseCase.ActiveCustomerName())

	message, err := h.syncUseCase.SendMessage(c.Request().Context(), conversationID, content)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}
