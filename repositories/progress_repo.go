package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mohamedamineameur/comptia/models"
)

// ProgressRepository is the read-only persistence boundary of the progress views
type ProgressRepository interface {
	AnswerCounts(userID uint) (answered, correct int64, err error)
	MasteryRows(userID uint) ([]models.UserMastery, error)
	WeakestMastery(userID uint, limit int) ([]models.UserMastery, error)
	AnswersSince(userID uint, from time.Time) ([]models.UserAnswer, error)
	SubObjectivesByIDs(ids []uint) (map[uint]models.SubObjective, error)
	ObjectivesByIDs(ids []uint) (map[uint]models.Objective, error)
	DomainsByIDs(ids []uint) (map[uint]models.Domain, error)
	AnsweredQuestionIDs(userID uint) ([]uint, error)
	FirstUnseenQuestion(excludeIDs []uint) (*models.Question, error)
}

// GormProgressRepository implements ProgressRepository on GORM
type GormProgressRepository struct {
	db *gorm.DB
}

// NewGormProgressRepository wraps db in a progress repository
func NewGormProgressRepository(db *gorm.DB) *GormProgressRepository {
	return &GormProgressRepository{db: db}
}

// AnswerCounts returns total and correct answer counts for the user
func (r *GormProgressRepository) AnswerCounts(userID uint) (int64, int64, error) {
	var answered int64
	if err := r.db.Model(&models.UserAnswer{}).Where("user_id = ?", userID).Count(&answered).Error; err != nil {
		return 0, 0, err
	}

	var correct int64
	if err := r.db.Model(&models.UserAnswer{}).
		Where("user_id = ? AND is_correct = ?", userID, true).
		Count(&correct).Error; err != nil {
		return 0, 0, err
	}
	return answered, correct, nil
}

// MasteryRows lists the user's mastery rows, most recent activity first
func (r *GormProgressRepository) MasteryRows(userID uint) ([]models.UserMastery, error) {
	var rows []models.UserMastery
	err := r.db.Where("user_id = ?", userID).Order("last_activity_at desc").Find(&rows).Error
	return rows, err
}

// WeakestMastery lists the user's lowest-mastery rows, ascending by score
func (r *GormProgressRepository) WeakestMastery(userID uint, limit int) ([]models.UserMastery, error) {
	var rows []models.UserMastery
	err := r.db.Where("user_id = ?", userID).
		Order("mastery_score asc").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// AnswersSince lists the user's answers from a point in time, oldest first
func (r *GormProgressRepository) AnswersSince(userID uint, from time.Time) ([]models.UserAnswer, error) {
	var answers []models.UserAnswer
	err := r.db.Where("user_id = ? AND answered_at >= ?", userID, from).
		Order("answered_at asc").
		Find(&answers).Error
	return answers, err
}

// SubObjectivesByIDs fetches the named sub-objectives keyed by id
func (r *GormProgressRepository) SubObjectivesByIDs(ids []uint) (map[uint]models.SubObjective, error) {
	out := make(map[uint]models.SubObjective, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.SubObjective
	if err := r.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// ObjectivesByIDs fetches the named objectives keyed by id
func (r *GormProgressRepository) ObjectivesByIDs(ids []uint) (map[uint]models.Objective, error) {
	out := make(map[uint]models.Objective, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Objective
	if err := r.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// DomainsByIDs fetches the named domains keyed by id
func (r *GormProgressRepository) DomainsByIDs(ids []uint) (map[uint]models.Domain, error) {
	out := make(map[uint]models.Domain, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Domain
	if err := r.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// AnsweredQuestionIDs lists the distinct question ids the user has answered
func (r *GormProgressRepository) AnsweredQuestionIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.UserAnswer{}).
		Where("user_id = ?", userID).
		Distinct("question_id").
		Pluck("question_id", &ids).Error
	return ids, err
}

// FirstUnseenQuestion returns the lowest-id question outside excludeIDs, or
// nil when every question has been seen
func (r *GormProgressRepository) FirstUnseenQuestion(excludeIDs []uint) (*models.Question, error) {
	query := r.db.Order("id asc")
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	var question models.Question
	err := query.First(&question).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}
