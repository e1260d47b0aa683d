package catalogRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "github.com/mohamedamineameur/comptia/controllers/catalog"
)

// SetupCatalogRoutes wires the catalog browsing endpoints under /api/catalog
func SetupCatalogRoutes(app *fiber.App) {
	catalogGroup := app.Group("/api/catalog")

	catalogGroup.Get("/exams", controllers.GetExams)
	catalogGroup.Get("/domains", controllers.GetDomains)
	catalogGroup.Get("/objectives", controllers.GetObjectives)
	catalogGroup.Get("/sub-objectives", controllers.GetSubObjectives)
	catalogGroup.Get("/topics", controllers.GetTopics)
}
