package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tutorial is a purchasable course owned by one teacher.
type Tutorial struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	TeacherID     uint                        `gorm:"index;not null" json:"teacherId"`
	Teacher       User                        `gorm:"foreignKey:TeacherID" json:"-"`
	Category      string                      `gorm:"size:64;index;not null" json:"category"`
	Title         string                      `gorm:"size:120;not null" json:"title"`
	Thumbnail     string                      `gorm:"size:1000;not null" json:"thumbnail"`
	Description   string                      `gorm:"size:1000;not null" json:"description"`
	Price         float64                     `gorm:"default:0" json:"price"`
	Benefits      datatypes.JSONSlice[string] `gorm:"type:json" json:"benefits"`
	Prerequisites datatypes.JSONSlice[string] `gorm:"type:json" json:"prerequisites"`
	Lessons       []Lesson                    `gorm:"foreignKey:TutorialID" json:"lessons,omitempty"`
	Faqs          []Faq                       `gorm:"foreignKey:TutorialID" json:"faqs,omitempty"`
	Resources     []Resource                  `gorm:"many2many:tutorial_resources" json:"resources,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// BeforeSave normalizes list fields and clamps the price into its allowed range.
func (t *Tutorial) BeforeSave(tx *gorm.DB) error {
	t.Benefits = cleanList(t.Benefits)
	t.Prerequisites = cleanList(t.Prerequisites)
	if t.Price < 0 {
		t.Price = 0
	}
	if t.Price > 1_000_000 {
		t.Price = 1_000_000
	}
	return nil
}

// Faq is a question/answer pair attached to a tutorial.
type Faq struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TutorialID uint      `gorm:"index;not null" json:"tutorialId"`
	Question   string    `gorm:"size:500;not null" json:"question"`
	Answer     string    `gorm:"type:text;not null" json:"answer"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// cleanList trims entries and drops empty ones. The stored value keeps
// entry text verbatim otherwise.
func cleanList(items datatypes.JSONSlice[string]) datatypes.JSONSlice[string] {
	cleaned := make(datatypes.JSONSlice[string], 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned
}
