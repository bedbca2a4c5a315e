package models

import "time"

// Lesson is one unit of video content inside a tutorial. Creation order
// defines prev/next navigation.
type Lesson struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	TutorialID  uint       `gorm:"index;not null" json:"tutorialId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	VideoURL    string     `gorm:"size:1000;not null" json:"videoUrl"`
	Resources   []Resource `gorm:"many2many:lesson_resources" json:"resources,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Resource is a downloadable file referenced by lessons and tutorials.
type Resource struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Path      string    `gorm:"size:1000;not null" json:"path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
