package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz holds the multiple-choice questions for one tutorial.
type Quiz struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	TutorialID uint           `gorm:"index;not null" json:"tutorialId"`
	Questions  []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// QuizQuestion is a single multiple-choice question.
type QuizQuestion struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	QuizID        uint                        `gorm:"index;not null" json:"quizId"`
	Question      string                      `gorm:"size:1000;not null" json:"question"`
	Options       datatypes.JSONSlice[string] `gorm:"type:json" json:"options"`
	CorrectAnswer string                      `gorm:"size:500;not null" json:"correctAnswer"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// BeforeSave normalizes the options list prior to persistence.
func (q *QuizQuestion) BeforeSave(tx *gorm.DB) error {
	q.Options = cleanList(q.Options)
	return nil
}

// Score records one quiz attempt. Attempts are history, not unique.
type Score struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  uint      `gorm:"index;not null" json:"studentId"`
	QuizID     uint      `gorm:"index;not null" json:"quizId"`
	TutorialID uint      `gorm:"index;not null" json:"tutorialId"`
	Score      int       `gorm:"not null" json:"score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BeforeSave clamps the score into [0, 100].
func (s *Score) BeforeSave(tx *gorm.DB) error {
	if s.Score < 0 {
		s.Score = 0
	}
	if s.Score > 100 {
		s.Score = 100
	}
	return nil
}
