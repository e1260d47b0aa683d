package quizValidator

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/mohamedamineameur/comptia/middleware"
)

// GenerateRequest is the validated body of POST /generate
type GenerateRequest struct {
	SubObjectiveID uint   `json:"subObjectiveId"`
	Lang           string `json:"lang"`
	Difficulty     int    `json:"difficulty"`
	Count          int    `json:"count"`
}

// AnswerRequest is the validated body of POST /answer
type AnswerRequest struct {
	QuestionID  uint   `json:"questionId"`
	ChoiceID    uint   `json:"choiceId"`
	Lang        string `json:"lang"`
	TimeSpentMs *int   `json:"timeSpentMs"`
}

// GetQuestions validates the subObjectiveId query parameter
func GetQuestions() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("subObjectiveId")
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeInvalidQueryParam, fiber.StatusBadRequest))
		}

		c.Locals("subObjectiveId", uint(id))
		return c.Next()
	}
}

// Generate validates the generation request body
func Generate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(GenerateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeInvalidBody, fiber.StatusBadRequest))
		}

		if reqData.SubObjectiveID == 0 ||
			reqData.Difficulty < 1 || reqData.Difficulty > 5 ||
			reqData.Count < 1 || reqData.Count > 20 {
			return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeInvalidBody, fiber.StatusBadRequest))
		}

		c.Locals("validatedGenerate", reqData)
		return c.Next()
	}
}

// Answer validates the answer submission body
func Answer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AnswerRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeInvalidBody, fiber.StatusBadRequest))
		}

		if reqData.QuestionID == 0 || reqData.ChoiceID == 0 {
			return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeInvalidBody, fiber.StatusBadRequest))
		}
		if reqData.TimeSpentMs != nil && *reqData.TimeSpentMs <= 0 {
			return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeInvalidBody, fiber.StatusBadRequest))
		}

		c.Locals("validatedAnswer", reqData)
		return c.Next()
	}
}
