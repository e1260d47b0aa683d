package adminController

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/mohamedamineameur/comptia/database"
	"github.com/mohamedamineameur/comptia/middleware"
	"github.com/mohamedamineameur/comptia/models"
	"github.com/mohamedamineameur/comptia/repositories"
	adminValidator "github.com/mohamedamineameur/comptia/validators/admin"
)

// GetStatus returns entity counts for the admin dashboard
func GetStatus(c *fiber.Ctx) error {
	db := database.Database.Db

	counts := fiber.Map{}
	for name, model := range map[string]interface{}{
		"users":          &models.User{},
		"exams":          &models.Exam{},
		"domains":        &models.Domain{},
		"objectives":     &models.Objective{},
		"subObjectives":  &models.SubObjective{},
		"topics":         &models.Topic{},
		"questions":      &models.Question{},
		"generationRuns": &models.GenerationRun{},
		"userAnswers":    &models.UserAnswer{},
	} {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			return middleware.ErrorResponse(c, err)
		}
		counts[name] = count
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Status fetched.", counts)
}

// SeedBaseline loads the baseline catalog, then returns the counts
func SeedBaseline(c *fiber.Ctx) error {
	if err := database.SeedBaseline(database.Database.Db); err != nil {
		log.Printf("Error seeding baseline catalog: %v", err)
		return middleware.ErrorResponse(c, err)
	}
	return GetStatus(c)
}

// CreateQuestion persists a manually authored question with its four choices
func CreateQuestion(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuestion").(*adminValidator.ManualQuestionRequest)
	repo := repositories.NewGormQuizRepository(database.Database.Db)

	subObjective, err := repo.FindSubObjective(reqData.SubObjectiveID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if subObjective == nil {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeSubObjectiveMissing, fiber.StatusNotFound))
	}

	question := models.Question{
		SubObjectiveID: reqData.SubObjectiveID,
		Language:       reqData.Language,
		QuestionTextEn: reqData.QuestionTextEn,
		QuestionTextFr: reqData.QuestionTextFr,
		ExplanationEn:  reqData.ExplanationEn,
		ExplanationFr:  reqData.ExplanationFr,
		Difficulty:     reqData.Difficulty,
		Source:         models.SourceManual,
	}
	choices := make([]models.QuestionChoice, len(reqData.Choices))
	for i, choice := range reqData.Choices {
		choices[i] = models.QuestionChoice{
			TextEn:    choice.TextEn,
			TextFr:    choice.TextFr,
			IsCorrect: choice.IsCorrect,
		}
	}

	if err := repo.CreateQuestionWithChoices(&question, choices); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question created.", fiber.Map{
		"id": question.ID,
	})
}
