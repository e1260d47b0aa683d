package quizController

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mohamedamineameur/comptia/middleware"
	"github.com/mohamedamineameur/comptia/services"
	"github.com/mohamedamineameur/comptia/utils"
	quizValidator "github.com/mohamedamineameur/comptia/validators/quiz"
)

var service *services.QuizService

// requestLocale resolves the display language: lang query param, then the
// body field, then the Accept-Language header
func requestLocale(c *fiber.Ctx, bodyLang string) utils.Locale {
	if c.Query("lang") == "" && bodyLang != "" {
		return utils.ParseLocale(bodyLang)
	}
	return utils.ResolveLocale(c)
}

// Init injects the quiz service, called once from route setup
func Init(quizService *services.QuizService) {
	service = quizService
}

// GetQuestions lists public questions for a sub-objective
func GetQuestions(c *fiber.Ctx) error {
	subObjectiveID := c.Locals("subObjectiveId").(uint)
	lang := utils.ResolveLocale(c)

	questions, err := service.GetQuestions(subObjectiveID, lang)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return c.JSON(questions)
}

// Generate returns count questions for a sub-objective and difficulty,
// calling the provider only when the stocked inventory falls short
func Generate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeUnauthorized, fiber.StatusUnauthorized))
	}
	reqData := c.Locals("validatedGenerate").(*quizValidator.GenerateRequest)

	questions, err := service.Generate(services.GenerateInput{
		SubObjectiveID: reqData.SubObjectiveID,
		Lang:           requestLocale(c, reqData.Lang),
		Difficulty:     reqData.Difficulty,
		Count:          reqData.Count,
		UserID:         userID,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(questions)
}

// Answer grades a submission and returns feedback with the updated mastery
func Answer(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeUnauthorized, fiber.StatusUnauthorized))
	}
	reqData := c.Locals("validatedAnswer").(*quizValidator.AnswerRequest)

	result, err := service.Answer(services.AnswerInput{
		UserID:      userID,
		QuestionID:  reqData.QuestionID,
		ChoiceID:    reqData.ChoiceID,
		Locale:      requestLocale(c, reqData.Lang),
		TimeSpentMs: reqData.TimeSpentMs,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return c.JSON(result)
}
