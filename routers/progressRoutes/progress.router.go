package progressRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "github.com/mohamedamineameur/comptia/controllers/progress"
	"github.com/mohamedamineameur/comptia/database"
	"github.com/mohamedamineameur/comptia/middleware"
	"github.com/mohamedamineameur/comptia/repositories"
	"github.com/mohamedamineameur/comptia/services"
)

// SetupProgressRoutes wires the progress endpoints under /api/progress
func SetupProgressRoutes(app *fiber.App) {
	repo := repositories.NewGormProgressRepository(database.Database.Db)
	controllers.Init(services.NewProgressService(repo))

	progressGroup := app.Group("/api/progress", middleware.RequireAuth)

	progressGroup.Get("/summary", controllers.GetSummary)
	progressGroup.Get("/by-domain", controllers.GetByDomain)
	progressGroup.Get("/by-sub-objective", controllers.GetBySubObjective)
	progressGroup.Get("/daily", controllers.GetDailyStats)
	progressGroup.Get("/weak-areas", controllers.GetWeakAreas)
	progressGroup.Get("/next-best", controllers.GetNextBest)
	progressGroup.Get("/dashboard", controllers.GetDashboard)
}
