package models

import "gorm.io/gorm"

// Exam is the root of the catalog (e.g. Security+ SY0-701)
type Exam struct {
	gorm.Model
	Code  string `json:"code" gorm:"uniqueIndex;not null;size:32"`
	Title string `json:"title" gorm:"not null;size:255"`
}

// Domain groups objectives inside an exam
type Domain struct {
	gorm.Model
	ExamID uint   `json:"examId" gorm:"index;not null"`
	Code   string `json:"code" gorm:"uniqueIndex;not null;size:32"`
	NameEn string `json:"nameEn" gorm:"size:255"`
	NameFr string `json:"nameFr" gorm:"size:255"`
}

// Objective groups sub-objectives inside a domain
type Objective struct {
	gorm.Model
	DomainID uint   `json:"domainId" gorm:"index;not null"`
	Code     string `json:"code" gorm:"uniqueIndex;not null;size:32"`
	TitleEn  string `json:"titleEn" gorm:"size:255"`
	TitleFr  string `json:"titleFr" gorm:"size:255"`
}

// SubObjective is the unit against which questions and mastery are tracked
type SubObjective struct {
	gorm.Model
	ObjectiveID uint   `json:"objectiveId" gorm:"index;not null"`
	Code        string `json:"code" gorm:"uniqueIndex;not null;size:32"`
	TitleEn     string `json:"titleEn" gorm:"size:255"`
	TitleFr     string `json:"titleFr" gorm:"size:255"`
}

// Topic is a named theme under a sub-objective, used as generation context
type Topic struct {
	gorm.Model
	SubObjectiveID uint   `json:"subObjectiveId" gorm:"index;not null"`
	Code           string `json:"code" gorm:"uniqueIndex;not null;size:32"`
	NameEn         string `json:"nameEn" gorm:"size:255"`
	NameFr         string `json:"nameFr" gorm:"size:255"`
}
