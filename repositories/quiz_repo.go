package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mohamedamineameur/comptia/models"
	"github.com/mohamedamineameur/comptia/utils"
)

// QuestionWithChoices bundles a question and its four choices without relying
// on ORM-managed associations
type QuestionWithChoices struct {
	Question models.Question
	Choices  []models.QuestionChoice
}

// QuizRepository is the persistence boundary of the quiz service
type QuizRepository interface {
	FindSubObjective(id uint) (*models.SubObjective, error)
	SubObjectiveContext(id uint, locale utils.Locale) (title string, topics []string, err error)
	QuestionsForLocale(subObjectiveID uint, lang utils.Locale) ([]QuestionWithChoices, error)
	QuestionsByDifficulty(subObjectiveID uint, lang utils.Locale, difficulty int) ([]QuestionWithChoices, error)
	CountDailyGenerations(userID uint, from, to time.Time) (int64, error)
	CreateGenerationRun(run *models.GenerationRun) error
	CreateQuestionWithChoices(question *models.Question, choices []models.QuestionChoice) error
	FindQuestionWithChoices(id uint) (*QuestionWithChoices, error)
	CreateUserAnswer(answer *models.UserAnswer) error
	UserSubObjectiveStats(userID, subObjectiveID uint) (total, correct int64, err error)
	FindUserMastery(userID, subObjectiveID uint) (*models.UserMastery, error)
	UpsertUserMastery(userID, subObjectiveID uint, masteryScore, streak int) error
}

// GormQuizRepository implements QuizRepository on GORM
type GormQuizRepository struct {
	db *gorm.DB
}

// NewGormQuizRepository wraps db in a quiz repository
func NewGormQuizRepository(db *gorm.DB) *GormQuizRepository {
	return &GormQuizRepository{db: db}
}

// FindSubObjective returns the sub-objective or nil when absent
func (r *GormQuizRepository) FindSubObjective(id uint) (*models.SubObjective, error) {
	var subObjective models.SubObjective
	err := r.db.First(&subObjective, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &subObjective, nil
}

// SubObjectiveContext returns the localized title and topic names used to
// prompt the generation provider
func (r *GormQuizRepository) SubObjectiveContext(id uint, locale utils.Locale) (string, []string, error) {
	subObjective, err := r.FindSubObjective(id)
	if err != nil {
		return "", nil, err
	}
	if subObjective == nil {
		return "", nil, gorm.ErrRecordNotFound
	}

	title := utils.PickLocalized(subObjective.TitleEn, subObjective.TitleFr, locale, subObjective.Code)

	var topicRows []models.Topic
	if err := r.db.Where("sub_objective_id = ?", id).Order("code asc").Find(&topicRows).Error; err != nil {
		return "", nil, err
	}

	topics := make([]string, 0, len(topicRows))
	for _, topic := range topicRows {
		topics = append(topics, utils.PickLocalized(topic.NameEn, topic.NameFr, locale, topic.Code))
	}
	return title, topics, nil
}

// QuestionsForLocale lists the questions available to a locale, bilingual
// rows included, newest first
func (r *GormQuizRepository) QuestionsForLocale(subObjectiveID uint, lang utils.Locale) ([]QuestionWithChoices, error) {
	var questions []models.Question
	err := r.db.
		Where("sub_objective_id = ? AND language IN ?", subObjectiveID, []string{string(lang), models.LanguageBi}).
		Order("id desc").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return r.attachChoices(questions)
}

// QuestionsByDifficulty is the cache-check read of the generation flow
func (r *GormQuizRepository) QuestionsByDifficulty(subObjectiveID uint, lang utils.Locale, difficulty int) ([]QuestionWithChoices, error) {
	var questions []models.Question
	err := r.db.
		Where("sub_objective_id = ? AND language IN ? AND difficulty = ?",
			subObjectiveID, []string{string(lang), models.LanguageBi}, difficulty).
		Order("id desc").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return r.attachChoices(questions)
}

func (r *GormQuizRepository) attachChoices(questions []models.Question) ([]QuestionWithChoices, error) {
	if len(questions) == 0 {
		return nil, nil
	}

	ids := make([]uint, len(questions))
	for i, question := range questions {
		ids[i] = question.ID
	}

	var choices []models.QuestionChoice
	if err := r.db.Where("question_id IN ?", ids).Order("id asc").Find(&choices).Error; err != nil {
		return nil, err
	}

	byQuestion := make(map[uint][]models.QuestionChoice, len(questions))
	for _, choice := range choices {
		byQuestion[choice.QuestionID] = append(byQuestion[choice.QuestionID], choice)
	}

	out := make([]QuestionWithChoices, len(questions))
	for i, question := range questions {
		out[i] = QuestionWithChoices{Question: question, Choices: byQuestion[question.ID]}
	}
	return out, nil
}

// CountDailyGenerations counts audit rows the user created in [from, to)
func (r *GormQuizRepository) CountDailyGenerations(userID uint, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.GenerationRun{}).
		Where("created_by_user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Count(&count).Error
	return count, err
}

// CreateGenerationRun writes one audit row
func (r *GormQuizRepository) CreateGenerationRun(run *models.GenerationRun) error {
	return r.db.Create(run).Error
}

// CreateQuestionWithChoices persists a question and its choices as one
// transaction, so a crash cannot leave an orphaned partial question
func (r *GormQuizRepository) CreateQuestionWithChoices(question *models.Question, choices []models.QuestionChoice) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		for i := range choices {
			choices[i].QuestionID = question.ID
		}
		return tx.Create(&choices).Error
	})
}

// FindQuestionWithChoices returns nil when the question does not exist
func (r *GormQuizRepository) FindQuestionWithChoices(id uint) (*QuestionWithChoices, error) {
	var question models.Question
	err := r.db.First(&question, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var choices []models.QuestionChoice
	if err := r.db.Where("question_id = ?", id).Order("id asc").Find(&choices).Error; err != nil {
		return nil, err
	}
	return &QuestionWithChoices{Question: question, Choices: choices}, nil
}

// CreateUserAnswer appends one immutable answer row
func (r *GormQuizRepository) CreateUserAnswer(answer *models.UserAnswer) error {
	return r.db.Create(answer).Error
}

// UserSubObjectiveStats aggregates all of the user's answers for questions
// under the sub-objective
func (r *GormQuizRepository) UserSubObjectiveStats(userID, subObjectiveID uint) (int64, int64, error) {
	base := r.db.Model(&models.UserAnswer{}).
		Joins("JOIN questions ON questions.id = user_answers.question_id").
		Where("user_answers.user_id = ? AND questions.sub_objective_id = ?", userID, subObjectiveID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}

	var correct int64
	if err := base.Session(&gorm.Session{}).Where("user_answers.is_correct = ?", true).Count(&correct).Error; err != nil {
		return 0, 0, err
	}
	return total, correct, nil
}

// FindUserMastery returns nil when the user has no mastery row yet
func (r *GormQuizRepository) FindUserMastery(userID, subObjectiveID uint) (*models.UserMastery, error) {
	var mastery models.UserMastery
	err := r.db.Where("user_id = ? AND sub_objective_id = ?", userID, subObjectiveID).First(&mastery).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mastery, nil
}

// UpsertUserMastery creates or updates the (user, sub-objective) mastery row
func (r *GormQuizRepository) UpsertUserMastery(userID, subObjectiveID uint, masteryScore, streak int) error {
	now := time.Now()

	existing, err := r.FindUserMastery(userID, subObjectiveID)
	if err != nil {
		return err
	}
	if existing != nil {
		return r.db.Model(existing).Updates(map[string]interface{}{
			"mastery_score":    masteryScore,
			"streak":           streak,
			"last_activity_at": now,
		}).Error
	}

	return r.db.Create(&models.UserMastery{
		UserID:         userID,
		SubObjectiveID: subObjectiveID,
		MasteryScore:   masteryScore,
		Streak:         streak,
		LastActivityAt: now,
	}).Error
}
