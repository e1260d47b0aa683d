package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account able to answer questions and request generations
type User struct {
	gorm.Model
	Email        string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string `json:"-" gorm:"not null;size:255"`
	DisplayName  string `json:"displayName" gorm:"size:100"`
}

// Session is a server side session referenced by the sid cookie
type Session struct {
	SessionID string     `json:"sessionId" gorm:"primaryKey;size:128"`
	UserID    uint       `json:"userId" gorm:"index;not null"`
	ExpiresAt time.Time  `json:"expiresAt" gorm:"not null"`
	RevokedAt *time.Time `json:"revokedAt"`
	IP        string     `json:"ip" gorm:"size:64"`
	UserAgent string     `json:"userAgent" gorm:"size:512"`
	CreatedAt time.Time  `json:"createdAt"`
}
