package models

import (
	"time"

	"gorm.io/gorm"
)

// Question language tags
const (
	LanguageEn = "en"
	LanguageFr = "fr"
	LanguageBi = "bi" // bilingual-capable, both text pairs populated
)

// Question sources
const (
	SourceManual    = "manual"
	SourceGenerated = "generated"
)

// Generation run statuses
const (
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// Question is a multiple choice question owned by a sub-objective.
// Questions are never mutated after creation.
type Question struct {
	gorm.Model
	SubObjectiveID uint   `json:"subObjectiveId" gorm:"index;not null"`
	Language       string `json:"language" gorm:"not null;size:8"`
	QuestionTextEn string `json:"questionTextEn" gorm:"type:text"`
	QuestionTextFr string `json:"questionTextFr" gorm:"type:text"`
	ExplanationEn  string `json:"explanationEn" gorm:"type:text"`
	ExplanationFr  string `json:"explanationFr" gorm:"type:text"`
	Difficulty     int    `json:"difficulty" gorm:"not null;default:2"`
	Source         string `json:"source" gorm:"not null;size:20;default:generated"`
}

// QuestionChoice is one of exactly four answers to a question.
// Exactly one choice per question carries IsCorrect.
type QuestionChoice struct {
	gorm.Model
	QuestionID uint   `json:"questionId" gorm:"index;not null"`
	TextEn     string `json:"textEn" gorm:"type:text"`
	TextFr     string `json:"textFr" gorm:"type:text"`
	IsCorrect  bool   `json:"isCorrect" gorm:"not null;default:false"`
}

// GenerationRun is the audit record of one provider call, written on success
// and on failure. Daily quota accounting counts these rows.
type GenerationRun struct {
	gorm.Model
	SubObjectiveID  uint   `json:"subObjectiveId" gorm:"index;not null"`
	Language        string `json:"language" gorm:"not null;size:8"`
	ModelName       string `json:"model" gorm:"column:model;not null;size:100"`
	PromptVersion   string `json:"promptVersion" gorm:"not null;size:20;default:v1"`
	Status          string `json:"status" gorm:"not null;size:20;default:completed"`
	CostTokens      *int   `json:"costTokens"`
	CreatedByUserID uint   `json:"createdByUserId" gorm:"index;not null"`
}

// UserAnswer is one answer submission. Append-only history; correctness is
// computed at submission time and never re-derived.
type UserAnswer struct {
	gorm.Model
	UserID           uint      `json:"userId" gorm:"index;not null"`
	QuestionID       uint      `json:"questionId" gorm:"index;not null"`
	SelectedChoiceID uint      `json:"selectedChoiceId" gorm:"not null"`
	IsCorrect        bool      `json:"isCorrect" gorm:"not null"`
	AnsweredAt       time.Time `json:"answeredAt" gorm:"index;not null"`
	TimeSpentMs      *int      `json:"timeSpentMs"`
}

// UserMastery tracks a user's score for one sub-objective. The only
// continuously mutated quiz entity; one row per (user, sub-objective).
type UserMastery struct {
	gorm.Model
	UserID         uint      `json:"userId" gorm:"index:idx_user_sub_objective,unique;not null"`
	SubObjectiveID uint      `json:"subObjectiveId" gorm:"index:idx_user_sub_objective,unique;not null"`
	MasteryScore   int       `json:"masteryScore" gorm:"not null;default:0"`
	Streak         int       `json:"streak" gorm:"not null;default:0"`
	LastActivityAt time.Time `json:"lastActivityAt" gorm:"not null"`
}
