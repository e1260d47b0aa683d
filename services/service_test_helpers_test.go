package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mohamedamineameur/comptia/config"
	"github.com/mohamedamineameur/comptia/database"
	"github.com/mohamedamineameur/comptia/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// One named in-memory database per test; shared cache keeps every pooled
	// connection on the same database
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	config.AppConfig = &config.Config{
		OpenAIModel:          "gpt-4o-mini",
		DailyGenerationLimit: 20,
		GenerateRateWindowMs: 60000,
		GenerateRateMax:      10,
	}
	return db
}

// seedCatalogPath creates exam -> domain -> objective -> sub-objective with
// two topics, returning the sub-objective
func seedCatalogPath(t *testing.T, db *gorm.DB, code string) models.SubObjective {
	t.Helper()

	exam := models.Exam{Code: "SY0-701-" + code, Title: "CompTIA Security+"}
	require.NoError(t, db.Create(&exam).Error)

	domain := models.Domain{ExamID: exam.ID, Code: "D-" + code, NameEn: "General Security Concepts", NameFr: "Concepts generaux de securite"}
	require.NoError(t, db.Create(&domain).Error)

	objective := models.Objective{DomainID: domain.ID, Code: "O-" + code, TitleEn: "Compare security controls", TitleFr: "Comparer les controles de securite"}
	require.NoError(t, db.Create(&objective).Error)

	subObjective := models.SubObjective{ObjectiveID: objective.ID, Code: code, TitleEn: "Categories of controls", TitleFr: "Categories de controles"}
	require.NoError(t, db.Create(&subObjective).Error)

	topics := []models.Topic{
		{SubObjectiveID: subObjective.ID, Code: code + "-T1", NameEn: "Technical", NameFr: "Technique"},
		{SubObjectiveID: subObjective.ID, Code: code + "-T2", NameEn: "Managerial", NameFr: "Managerial"},
	}
	require.NoError(t, db.Create(&topics).Error)

	return subObjective
}

func seedQuestion(t *testing.T, db *gorm.DB, subObjectiveID uint, difficulty int, correctIndex int) (models.Question, []models.QuestionChoice) {
	t.Helper()

	question := models.Question{
		SubObjectiveID: subObjectiveID,
		Language:       models.LanguageBi,
		QuestionTextEn: "Which category does a firewall rule belong to?",
		QuestionTextFr: "A quelle categorie appartient une regle de pare-feu ?",
		ExplanationEn:  "A firewall rule is a technical control enforced by a system.",
		ExplanationFr:  "Une regle de pare-feu est un controle technique applique par un systeme.",
		Difficulty:     difficulty,
		Source:         models.SourceManual,
	}
	require.NoError(t, db.Create(&question).Error)

	choices := make([]models.QuestionChoice, 4)
	for i := range choices {
		choices[i] = models.QuestionChoice{
			QuestionID: question.ID,
			TextEn:     "Choice",
			TextFr:     "Choix",
			IsCorrect:  i == correctIndex,
		}
	}
	require.NoError(t, db.Create(&choices).Error)

	return question, choices
}
