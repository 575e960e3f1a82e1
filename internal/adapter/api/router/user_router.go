package router

import (
	"github.com/labstack/echo/v4"

	"reviewdesk/internal/adapter/api/handler"
)

// SetupUserRouter registers the admin screens' user management routes.
func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler) {
	users := e.Group("/v1/users")

	users.GET("", userHandler.List)
	users.PUT("/:id/permissions", userHandler.SetPermissions)
	users.PUT("/:id/customer-types", userHandler.SetCustomerTypes)
}
