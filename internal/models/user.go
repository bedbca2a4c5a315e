package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User roles supported by the platform. Admins live in their own table.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User represents a student or teacher account.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FirstName    string    `gorm:"size:50;not null" json:"firstName"`
	LastName     string    `gorm:"size:50;not null" json:"lastName"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:16;default:'student'" json:"role"`
	Profile      string    `gorm:"size:255" json:"profile"`
	ProfilePic   string    `gorm:"size:512" json:"profilePic"`
	Bio          string    `gorm:"type:text" json:"bio"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName joins first and last name for display fields.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// BeforeSave normalises the email and role prior to persistence.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Role = normalizeUserRole(u.Role)
	return nil
}

// Admin is a back-office identity, kept separate from the User table.
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FirstName    string    `gorm:"size:50;not null" json:"firstName"`
	LastName     string    `gorm:"size:50;not null" json:"lastName"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	ProfilePic   string    `gorm:"size:512" json:"profilePic"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName joins first and last name for display fields.
func (a Admin) FullName() string {
	return a.FirstName + " " + a.LastName
}

// BeforeSave normalises the admin email prior to persistence.
func (a *Admin) BeforeSave(tx *gorm.DB) error {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	return nil
}

func normalizeUserRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleTeacher:
		return RoleTeacher
	default:
		return RoleStudent
	}
}
