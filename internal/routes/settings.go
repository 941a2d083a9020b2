package routes

import (
	"github.com/labstack/echo/v4"

	"support-system/internal/controllers"
)

func runSettingsRouter(secureGroup *echo.Group, settingsCtrl *controllers.SettingsController) {
	settings := secureGroup.Group("/settings")

	settings.GET("/categories", settingsCtrl.GetCategories)
	settings.GET("/priorities", settingsCtrl.GetPriorities)
}
