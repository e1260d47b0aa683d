package adminValidator

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mohamedamineameur/comptia/middleware"
)

// ManualChoice is one choice of a manually authored question
type ManualChoice struct {
	TextEn    string `json:"textEn"`
	TextFr    string `json:"textFr"`
	IsCorrect bool   `json:"isCorrect"`
}

// ManualQuestionRequest is the validated body of POST /admin/questions
type ManualQuestionRequest struct {
	SubObjectiveID uint           `json:"subObjectiveId"`
	Language       string         `json:"language"`
	QuestionTextEn string         `json:"questionTextEn"`
	QuestionTextFr string         `json:"questionTextFr"`
	ExplanationEn  string         `json:"explanationEn"`
	ExplanationFr  string         `json:"explanationFr"`
	Difficulty     int            `json:"difficulty"`
	Choices        []ManualChoice `json:"choices"`
}

// CreateQuestion validates a manual question: four choices, exactly one correct
func CreateQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ManualQuestionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeAdminInvalidPayload, fiber.StatusBadRequest))
		}

		invalid := reqData.SubObjectiveID == 0 ||
			reqData.Difficulty < 1 || reqData.Difficulty > 5 ||
			(reqData.Language != "en" && reqData.Language != "fr" && reqData.Language != "bi") ||
			(reqData.QuestionTextEn == "" && reqData.QuestionTextFr == "") ||
			len(reqData.Choices) != 4
		if invalid {
			return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeAdminInvalidPayload, fiber.StatusBadRequest))
		}

		correct := 0
		for _, choice := range reqData.Choices {
			if choice.TextEn == "" && choice.TextFr == "" {
				return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeAdminInvalidPayload, fiber.StatusBadRequest))
			}
			if choice.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return middleware.ErrorResponse(c, middleware.NewAppError(middleware.CodeAdminInvalidPayload, fiber.StatusBadRequest))
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}
