package models

import "time"

// Enrollment grants a student access to a tutorial's content. One row per
// (student, tutorial); the unique index backstops the find-then-insert path.
type Enrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_enrollments_student_tutorial" json:"studentId"`
	TutorialID uint      `gorm:"not null;uniqueIndex:idx_enrollments_student_tutorial" json:"tutorialId"`
	Student    User      `gorm:"foreignKey:StudentID" json:"-"`
	Tutorial   Tutorial  `gorm:"foreignKey:TutorialID" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SavedTutorial bookmarks a tutorial for a student.
type SavedTutorial struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_saved_student_tutorial" json:"studentId"`
	TutorialID uint      `gorm:"not null;uniqueIndex:idx_saved_student_tutorial" json:"tutorialId"`
	Tutorial   Tutorial  `gorm:"foreignKey:TutorialID" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Completion records that a student finished one lesson of a tutorial.
// The count per (student, tutorial) is the progress metric.
type Completion struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_completions_natural_key" json:"studentId"`
	TutorialID uint      `gorm:"not null;uniqueIndex:idx_completions_natural_key" json:"tutorialId"`
	LessonID   uint      `gorm:"not null;uniqueIndex:idx_completions_natural_key" json:"lessonId"`
	Student    User      `gorm:"foreignKey:StudentID" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Review is a student's rating and comment on a tutorial. At most one per
// (student, tutorial); resubmission is rejected rather than ignored.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_reviews_student_tutorial" json:"studentId"`
	TutorialID uint      `gorm:"not null;uniqueIndex:idx_reviews_student_tutorial" json:"tutorialId"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"size:1000" json:"comment"`
	Student    User      `gorm:"foreignKey:StudentID" json:"-"`
	Tutorial   Tutorial  `gorm:"foreignKey:TutorialID" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
