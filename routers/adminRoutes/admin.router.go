package adminRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "github.com/mohamedamineameur/comptia/controllers/admin"
	"github.com/mohamedamineameur/comptia/middleware"
	adminValidator "github.com/mohamedamineameur/comptia/validators/admin"
)

// SetupAdminRoutes wires the admin endpoints under /api/admin.
// Every route requires an authenticated admin user.
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/api/admin", middleware.RequireAuth, middleware.RequireAdmin)

	adminGroup.Get("/status", controllers.GetStatus)
	adminGroup.Post("/seed-baseline", controllers.SeedBaseline)
	adminGroup.Post("/questions", adminValidator.CreateQuestion(), controllers.CreateQuestion)
}
