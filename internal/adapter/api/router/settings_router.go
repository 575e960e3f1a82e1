package router

import (
	"github.com/labstack/echo/v4"

	"reviewdesk/internal/adapter/api/handler"
)

// SetupSettingsRouter registers quick-reply and preference routes.
func SetupSettingsRouter(e *echo.Echo, quickReplyHandler *handler.QuickReplyHandler, preferenceHandler *handler.PreferenceHandler) {
	quickReplies := e.Group("/v1/quick-replies")

	quickReplies.GET("", quickReplyHandler.List)
	quickReplies.POST("", quickReplyHandler.Create)
	quickReplies.GET("/suggest", quickReplyHandler.Suggest)
	quickReplies.POST("/expand", quickReplyHandler.Expand)
	quickReplies.PUT("/:id", quickReplyHandler.Update)
	quickReplies.DELETE("/:id", quickReplyHandler.Delete)

	e.GET("/v1/preferences", preferenceHandler.Get)
	e.PUT("/v1/preferences", preferenceHandler.Update)
}
