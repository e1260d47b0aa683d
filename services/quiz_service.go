package services

import (
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"

	"github.com/mohamedamineameur/comptia/config"
	"github.com/mohamedamineameur/comptia/generation"
	"github.com/mohamedamineameur/comptia/middleware"
	"github.com/mohamedamineameur/comptia/models"
	"github.com/mohamedamineameur/comptia/repositories"
	"github.com/mohamedamineameur/comptia/utils"
)

// PublicChoice is a choice as exposed to clients: no correctness flag
type PublicChoice struct {
	ID         uint   `json:"id"`
	ChoiceText string `json:"choiceText"`
}

// PublicQuestion is the localized, non-revealing question projection
type PublicQuestion struct {
	ID             uint           `json:"id"`
	SubObjectiveID uint           `json:"subObjectiveId"`
	Language       string         `json:"language"`
	QuestionText   string         `json:"questionText"`
	Explanation    string         `json:"explanation"`
	Difficulty     int            `json:"difficulty"`
	Source         string         `json:"source"`
	Choices        []PublicChoice `json:"choices"`
}

// GenerateInput is one generation request
type GenerateInput struct {
	SubObjectiveID uint
	Lang           utils.Locale
	Difficulty     int
	Count          int
	UserID         uint
}

// AnswerInput is one answer submission
type AnswerInput struct {
	UserID      uint
	QuestionID  uint
	ChoiceID    uint
	Locale      utils.Locale
	TimeSpentMs *int
}

// AnswerResult is the grading feedback returned to the client
type AnswerResult struct {
	IsCorrect       bool   `json:"isCorrect"`
	Explanation     string `json:"explanation"`
	CorrectChoiceID uint   `json:"correctChoiceId"`
	MasteryScore    int    `json:"masteryScore"`
}

// QuizService orchestrates quota checks, cache-or-generate decisions,
// grading and mastery recomputation
type QuizService struct {
	repo     repositories.QuizRepository
	provider generation.Provider
}

// NewQuizService wires the quiz service
func NewQuizService(repo repositories.QuizRepository, provider generation.Provider) *QuizService {
	return &QuizService{repo: repo, provider: provider}
}

// GetQuestions lists the public questions of a sub-objective for a locale
func (s *QuizService) GetQuestions(subObjectiveID uint, lang utils.Locale) ([]PublicQuestion, error) {
	rows, err := s.repo.QuestionsForLocale(subObjectiveID, lang)
	if err != nil {
		return nil, err
	}
	return toPublicQuestions(rows, lang), nil
}

// Generate returns count questions for (sub-objective, difficulty, locale),
// reusing stocked questions and calling the provider only for the shortfall.
// A fully stocked topic costs no quota and writes no audit row.
func (s *QuizService) Generate(input GenerateInput) ([]PublicQuestion, error) {
	dayStart := now.BeginningOfDay()
	dayEnd := dayStart.AddDate(0, 0, 1)
	todayCount, err := s.repo.CountDailyGenerations(input.UserID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if todayCount >= int64(config.AppConfig.DailyGenerationLimit) {
		return nil, middleware.NewAppError(middleware.CodeQuotaExceeded, fiber.StatusTooManyRequests)
	}

	subObjective, err := s.repo.FindSubObjective(input.SubObjectiveID)
	if err != nil {
		return nil, err
	}
	if subObjective == nil {
		return nil, middleware.NewAppError(middleware.CodeSubObjectiveMissing, fiber.StatusNotFound)
	}

	existing, err := s.repo.QuestionsByDifficulty(input.SubObjectiveID, input.Lang, input.Difficulty)
	if err != nil {
		return nil, err
	}
	if len(existing) >= input.Count {
		return toPublicQuestions(existing[:input.Count], input.Lang), nil
	}

	title, topics, err := s.repo.SubObjectiveContext(input.SubObjectiveID, input.Lang)
	if err != nil {
		return nil, err
	}

	needed := input.Count - len(existing)
	result, genErr := s.provider.Generate(generation.Request{
		SubObjectiveTitle: title,
		Topics:            topics,
		Lang:              input.Lang,
		Difficulty:        input.Difficulty,
		Count:             needed,
	})

	run := &models.GenerationRun{
		SubObjectiveID:  input.SubObjectiveID,
		Language:        string(input.Lang),
		ModelName:       config.AppConfig.OpenAIModel,
		PromptVersion:   generation.PromptVersion,
		CreatedByUserID: input.UserID,
	}
	if genErr != nil {
		run.Status = models.RunFailed
		if auditErr := s.repo.CreateGenerationRun(run); auditErr != nil {
			// The provider error stays the caller-visible one
			log.Printf("Error recording failed generation run: %v", auditErr)
		}
		return nil, genErr
	}
	run.Status = models.RunCompleted
	run.CostTokens = result.CostTokens
	if err := s.repo.CreateGenerationRun(run); err != nil {
		return nil, err
	}

	created := make([]repositories.QuestionWithChoices, 0, len(result.Questions))
	for _, item := range result.Questions {
		question := models.Question{
			SubObjectiveID: input.SubObjectiveID,
			Language:       models.LanguageBi,
			QuestionTextEn: item.QuestionText,
			QuestionTextFr: item.QuestionText,
			ExplanationEn:  item.Explanation,
			ExplanationFr:  item.Explanation,
			Difficulty:     input.Difficulty,
			Source:         models.SourceGenerated,
		}
		choices := make([]models.QuestionChoice, len(item.Choices))
		for i, choice := range item.Choices {
			choices[i] = models.QuestionChoice{
				TextEn:    choice.Text,
				TextFr:    choice.Text,
				IsCorrect: choice.IsCorrect,
			}
		}
		if err := s.repo.CreateQuestionWithChoices(&question, choices); err != nil {
			return nil, err
		}
		created = append(created, repositories.QuestionWithChoices{Question: question, Choices: choices})
	}

	combined := append(existing, created...)
	if len(combined) > input.Count {
		combined = combined[:input.Count]
	}
	return toPublicQuestions(combined, input.Lang), nil
}

// Answer grades one submission, appends the answer row and recomputes the
// user's mastery for the question's sub-objective
func (s *QuizService) Answer(input AnswerInput) (*AnswerResult, error) {
	row, err := s.repo.FindQuestionWithChoices(input.QuestionID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, middleware.NewAppError(middleware.CodeQuestionNotFound, fiber.StatusNotFound)
	}

	var selected, correct *models.QuestionChoice
	for i := range row.Choices {
		choice := &row.Choices[i]
		if choice.ID == input.ChoiceID {
			selected = choice
		}
		if choice.IsCorrect {
			correct = choice
		}
	}
	if selected == nil || correct == nil {
		return nil, middleware.NewAppError(middleware.CodeInvalidChoice, fiber.StatusBadRequest)
	}

	isCorrect := selected.IsCorrect
	answer := &models.UserAnswer{
		UserID:           input.UserID,
		QuestionID:       row.Question.ID,
		SelectedChoiceID: selected.ID,
		IsCorrect:        isCorrect,
		AnsweredAt:       time.Now(),
		TimeSpentMs:      input.TimeSpentMs,
	}
	if err := s.repo.CreateUserAnswer(answer); err != nil {
		return nil, err
	}

	previous, err := s.repo.FindUserMastery(input.UserID, row.Question.SubObjectiveID)
	if err != nil {
		return nil, err
	}

	// Full aggregate recompute over the sub-objective, not an incremental update
	total, correctCount, err := s.repo.UserSubObjectiveStats(input.UserID, row.Question.SubObjectiveID)
	if err != nil {
		return nil, err
	}
	masteryScore := 0
	if total > 0 {
		masteryScore = int(math.Round(float64(correctCount) / float64(total) * 100))
	}

	streak := 0
	if isCorrect {
		if previous != nil {
			streak = previous.Streak + 1
		} else {
			streak = 1
		}
	}

	if err := s.repo.UpsertUserMastery(input.UserID, row.Question.SubObjectiveID, masteryScore, streak); err != nil {
		return nil, err
	}

	return &AnswerResult{
		IsCorrect: isCorrect,
		Explanation: utils.PickLocalized(
			row.Question.ExplanationEn,
			row.Question.ExplanationFr,
			input.Locale,
			"",
		),
		CorrectChoiceID: correct.ID,
		MasteryScore:    masteryScore,
	}, nil
}

func toPublicQuestions(rows []repositories.QuestionWithChoices, locale utils.Locale) []PublicQuestion {
	out := make([]PublicQuestion, len(rows))
	for i, row := range rows {
		choices := make([]PublicChoice, len(row.Choices))
		for j, choice := range row.Choices {
			choices[j] = PublicChoice{
				ID:         choice.ID,
				ChoiceText: utils.PickLocalized(choice.TextEn, choice.TextFr, locale, ""),
			}
		}
		out[i] = PublicQuestion{
			ID:             row.Question.ID,
			SubObjectiveID: row.Question.SubObjectiveID,
			Language:       row.Question.Language,
			QuestionText:   utils.PickLocalized(row.Question.QuestionTextEn, row.Question.QuestionTextFr, locale, ""),
			Explanation:    utils.PickLocalized(row.Question.ExplanationEn, row.Question.ExplanationFr, locale, ""),
			Difficulty:     row.Question.Difficulty,
			Source:         row.Question.Source,
			Choices:        choices,
		}
	}
	return out
}
