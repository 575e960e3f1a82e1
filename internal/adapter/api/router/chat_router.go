package router

import (
	"github.com/labstack/echo/v4"

	"reviewdesk/internal/adapter/api/handler"
)

// SetupChatRouter registers conversation and customer routes.
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, customerHandler *handler.CustomerHandler) {
	conversations := e.Group("/v1/conversations")

	conversations.GET("", chatHandler.ListConversations)            // GET /v1/conversations - current ordered list
	conversations.POST("/reload", chatHandler.ReloadConversations)  // POST /v1/conversations/reload - full refetch
	conversations.GET("/:id/messages", chatHandler.GetMessages)     // GET /v1/conversations/:id/messages - select + history
	conversations.POST("/:id/messages", chatHandler.SendMessage)    // POST /v1/conversations/:id/messages - optimistic send

	e.GET("/v1/customers/:id", customerHandler.GetProfile)
}
