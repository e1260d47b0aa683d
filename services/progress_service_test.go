package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mohamedamineameur/comptia/models"
	"github.com/mohamedamineameur/comptia/repositories"
	"github.com/mohamedamineameur/comptia/utils"
)

func seedAnswer(t *testing.T, db *gorm.DB, userID, questionID uint, correct bool, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.UserAnswer{
		UserID:           userID,
		QuestionID:       questionID,
		SelectedChoiceID: 1,
		IsCorrect:        correct,
		AnsweredAt:       at,
	}).Error)
}

func seedMastery(t *testing.T, db *gorm.DB, userID, subObjectiveID uint, score, streak int, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.UserMastery{
		UserID:         userID,
		SubObjectiveID: subObjectiveID,
		MasteryScore:   score,
		Streak:         streak,
		LastActivityAt: at,
	}).Error)
}

func TestGetSummary(t *testing.T) {
	db := setupTestDB(t)
	subObjective := seedCatalogPath(t, db, "3.1.1")
	service := NewProgressService(repositories.NewGormProgressRepository(db))

	now := time.Now().UTC()
	seedAnswer(t, db, 10, 1, true, now)
	seedAnswer(t, db, 10, 2, true, now)
	seedAnswer(t, db, 10, 3, false, now)
	seedMastery(t, db, 10, subObjective.ID, 67, 2, now)

	summary, err := service.GetSummary(10)

	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Answered)
	assert.Equal(t, int64(2), summary.Correct)
	assert.Equal(t, 67, summary.Accuracy, "round(2/3*100)")
	assert.Equal(t, 67, summary.AverageMastery)
	assert.Equal(t, 2, summary.Streak)
}

func TestGetSummaryEmptyHistory(t *testing.T) {
	db := setupTestDB(t)
	service := NewProgressService(repositories.NewGormProgressRepository(db))

	summary, err := service.GetSummary(11)

	require.NoError(t, err)
	assert.Zero(t, summary.Answered)
	assert.Zero(t, summary.Accuracy)
	assert.Zero(t, summary.AverageMastery)
	assert.Zero(t, summary.Streak)
}

func TestGetDailyStatsZeroFilled(t *testing.T) {
	db := setupTestDB(t)
	service := NewProgressService(repositories.NewGormProgressRepository(db))

	now := time.Now().UTC()
	seedAnswer(t, db, 12, 1, true, now)
	seedAnswer(t, db, 12, 2, false, now)
	seedAnswer(t, db, 12, 3, true, now.AddDate(0, 0, -2))
	// Outside the window, must be ignored
	seedAnswer(t, db, 12, 4, true, now.AddDate(0, 0, -30))

	stats, err := service.GetDailyStats(12, 7)

	require.NoError(t, err)
	require.Len(t, stats, 7)

	assert.Equal(t, now.AddDate(0, 0, -6).Format("2006-01-02"), stats[0].Day)
	assert.Equal(t, now.Format("2006-01-02"), stats[6].Day)

	assert.Equal(t, 2, stats[6].Answered)
	assert.Equal(t, 1, stats[6].Correct)
	assert.Equal(t, 1, stats[4].Answered)
	assert.Equal(t, 1, stats[4].Correct)

	for _, i := range []int{0, 1, 2, 3, 5} {
		assert.Zero(t, stats[i].Answered, "day %s must be zero-filled", stats[i].Day)
	}
}

func TestGetWeakAreasOrdering(t *testing.T) {
	db := setupTestDB(t)
	service := NewProgressService(repositories.NewGormProgressRepository(db))

	weak := seedCatalogPath(t, db, "4.1.1")
	mid := seedCatalogPath(t, db, "4.1.2")
	strong := seedCatalogPath(t, db, "4.1.3")

	now := time.Now().UTC()
	seedMastery(t, db, 13, strong.ID, 90, 4, now)
	seedMastery(t, db, 13, weak.ID, 20, 0, now)
	seedMastery(t, db, 13, mid.ID, 55, 1, now)

	areas, err := service.GetWeakAreas(13, utils.LocaleEn, 2)

	require.NoError(t, err)
	require.Len(t, areas, 2)
	assert.Equal(t, weak.ID, areas[0].SubObjectiveID)
	assert.Equal(t, 20, areas[0].MasteryScore)
	assert.Equal(t, mid.ID, areas[1].SubObjectiveID)
	assert.Equal(t, "Categories of controls", areas[0].Title)
}

func TestGetBySubObjective(t *testing.T) {
	db := setupTestDB(t)
	service := NewProgressService(repositories.NewGormProgressRepository(db))

	subObjective := seedCatalogPath(t, db, "4.2.1")
	now := time.Now().UTC()
	seedMastery(t, db, 14, subObjective.ID, 75, 3, now)

	rows, err := service.GetBySubObjective(14, utils.LocaleFr)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, subObjective.Code, rows[0].SubObjectiveCode)
	assert.Equal(t, "Categories de controles", rows[0].Title)
	assert.Equal(t, 75, rows[0].MasteryScore)
	assert.Equal(t, 3, rows[0].Streak)
}

func TestGetByDomainAverages(t *testing.T) {
	db := setupTestDB(t)
	service := NewProgressService(repositories.NewGormProgressRepository(db))

	first := seedCatalogPath(t, db, "4.3.1")

	// Second sub-objective under the same objective, so the same domain
	second := models.SubObjective{ObjectiveID: first.ObjectiveID, Code: "4.3.2", TitleEn: "Change management", TitleFr: "Gestion des changements"}
	require.NoError(t, db.Create(&second).Error)

	now := time.Now().UTC()
	seedMastery(t, db, 15, first.ID, 80, 2, now)
	seedMastery(t, db, 15, second.ID, 51, 1, now)

	rows, err := service.GetByDomain(15, utils.LocaleEn)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "D-4.3.1", rows[0].DomainCode)
	assert.Equal(t, "General Security Concepts", rows[0].Name)
	assert.Equal(t, 66, rows[0].MasteryScore, "round((80+51)/2)")
}

func TestGetNextBestPrefersWeakArea(t *testing.T) {
	db := setupTestDB(t)
	service := NewProgressService(repositories.NewGormProgressRepository(db))

	subObjective := seedCatalogPath(t, db, "5.1.1")
	seedMastery(t, db, 16, subObjective.ID, 30, 0, time.Now().UTC())

	recommendation, err := service.GetNextBest(16, utils.LocaleFr)

	require.NoError(t, err)
	require.NotNil(t, recommendation)
	assert.Equal(t, subObjective.ID, recommendation.SubObjectiveID)
	assert.Contains(t, recommendation.Rationale, "score global")
}

func TestGetNextBestFallsBackToUnseenQuestion(t *testing.T) {
	db := setupTestDB(t)
	service := NewProgressService(repositories.NewGormProgressRepository(db))

	seen := seedCatalogPath(t, db, "5.2.1")
	unseen := seedCatalogPath(t, db, "5.2.2")
	answered, _ := seedQuestion(t, db, seen.ID, 2, 0)
	seedQuestion(t, db, unseen.ID, 2, 0)

	seedAnswer(t, db, 17, answered.ID, true, time.Now().UTC())

	recommendation, err := service.GetNextBest(17, utils.LocaleEn)

	require.NoError(t, err)
	require.NotNil(t, recommendation)
	assert.Equal(t, unseen.ID, recommendation.SubObjectiveID)
	assert.Contains(t, recommendation.Rationale, "Unseen")
}

func TestGetNextBestNilWhenExhausted(t *testing.T) {
	db := setupTestDB(t)
	service := NewProgressService(repositories.NewGormProgressRepository(db))

	subObjective := seedCatalogPath(t, db, "5.3.1")
	question, _ := seedQuestion(t, db, subObjective.ID, 2, 0)
	seedAnswer(t, db, 18, question.ID, true, time.Now().UTC())

	recommendation, err := service.GetNextBest(18, utils.LocaleEn)

	require.NoError(t, err)
	assert.Nil(t, recommendation)
}

func TestGetDashboard(t *testing.T) {
	db := setupTestDB(t)
	service := NewProgressService(repositories.NewGormProgressRepository(db))

	subObjective := seedCatalogPath(t, db, "6.1.1")
	question, _ := seedQuestion(t, db, subObjective.ID, 2, 0)
	now := time.Now().UTC()
	seedAnswer(t, db, 19, question.ID, true, now)
	seedMastery(t, db, 19, subObjective.ID, 100, 1, now)

	dashboard, err := service.GetDashboard(19, utils.LocaleEn)

	require.NoError(t, err)
	assert.Equal(t, int64(1), dashboard.Summary.Answered)
	assert.Len(t, dashboard.BySubObjective, 1)
	assert.Len(t, dashboard.ByDomain, 1)
	assert.Len(t, dashboard.Daily, DefaultDailyStatsDays)
	assert.Len(t, dashboard.WeakAreas, 1)
	require.NotNil(t, dashboard.NextBest)
	assert.Equal(t, subObjective.ID, dashboard.NextBest.SubObjectiveID)
}
