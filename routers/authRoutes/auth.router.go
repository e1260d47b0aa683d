package authRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "github.com/mohamedamineameur/comptia/controllers/auth"
	"github.com/mohamedamineameur/comptia/middleware"
	validators "github.com/mohamedamineameur/comptia/validators/auth"
)

// SetupAuthRoutes wires the auth endpoints under /api/auth
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api/auth")

	authGroup.Post("/register", validators.Register(), controllers.Register)
	authGroup.Post("/login", validators.Login(), controllers.Login)
	authGroup.Get("/me", middleware.RequireAuth, controllers.Me)
	authGroup.Post("/logout", middleware.RequireAuth, controllers.Logout)
}
