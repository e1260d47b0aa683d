package quizRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "github.com/mohamedamineameur/comptia/controllers/quiz"
	"github.com/mohamedamineameur/comptia/database"
	"github.com/mohamedamineameur/comptia/generation"
	"github.com/mohamedamineameur/comptia/middleware"
	"github.com/mohamedamineameur/comptia/repositories"
	"github.com/mohamedamineameur/comptia/services"
	validators "github.com/mohamedamineameur/comptia/validators/quiz"
)

// SetupQuizRoutes wires the quiz endpoints under /api/qcm
func SetupQuizRoutes(app *fiber.App) {
	repo := repositories.NewGormQuizRepository(database.Database.Db)
	provider := generation.NewOpenAIProvider()
	controllers.Init(services.NewQuizService(repo, provider))

	quizGroup := app.Group("/api/qcm")

	quizGroup.Get("/questions", validators.GetQuestions(), controllers.GetQuestions)
	quizGroup.Post("/generate", middleware.RequireAuth, middleware.GenerateRateLimit(), validators.Generate(), controllers.Generate)
	quizGroup.Post("/answer", middleware.RequireAuth, validators.Answer(), controllers.Answer)
}
