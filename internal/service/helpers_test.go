package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// openTestDB gives each test its own in-memory database with the full schema.
func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Tutorial{},
		&models.Lesson{},
		&models.Resource{},
		&models.Faq{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.Score{},
		&models.Enrollment{},
		&models.SavedTutorial{},
		&models.Completion{},
		&models.Review{},
	))
	return db
}
