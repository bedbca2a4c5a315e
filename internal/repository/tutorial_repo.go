package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/models"
)

// TutorialFilter narrows public catalog queries.
type TutorialFilter struct {
	Category   string
	TitleTerm  string
	TeacherIDs []uint
}

// TeacherCourseCount pairs a teacher with the number of courses they own.
type TeacherCourseCount struct {
	TeacherID uint
	Total     int64
}

// TutorialRepository persists courses and their owned children.
type TutorialRepository interface {
	Create(ctx context.Context, tutorial *models.Tutorial) error
	GetByID(ctx context.Context, id uint) (models.Tutorial, error)
	GetWithContent(ctx context.Context, id uint) (models.Tutorial, error)
	List(ctx context.Context, filter TutorialFilter) ([]models.Tutorial, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Tutorial, error)
	IDsByTeacher(ctx context.Context, teacherID uint) ([]uint, error)
	CountByTeacher(ctx context.Context, category string) ([]TeacherCourseCount, error)
	Update(ctx context.Context, tutorial *models.Tutorial) error
	AppendResources(ctx context.Context, tutorialID uint, resources []models.Resource) error
	RemoveResource(ctx context.Context, tutorialID, resourceID uint) error
	DeleteCascade(ctx context.Context, id uint) error
}

type tutorialRepository struct {
	db *gorm.DB
}

// NewTutorialRepository constructs a tutorial repository.
func NewTutorialRepository(db *gorm.DB) TutorialRepository {
	return &tutorialRepository{db: db}
}

func (r *tutorialRepository) Create(ctx context.Context, tutorial *models.Tutorial) error {
	return r.db.WithContext(ctx).Create(tutorial).Error
}

func (r *tutorialRepository) GetByID(ctx context.Context, id uint) (models.Tutorial, error) {
	var tutorial models.Tutorial
	err := r.db.WithContext(ctx).Preload("Teacher").First(&tutorial, id).Error
	return tutorial, err
}

func (r *tutorialRepository) GetWithContent(ctx context.Context, id uint) (models.Tutorial, error) {
	var tutorial models.Tutorial
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("lessons.created_at ASC") }).
		Preload("Lessons.Resources").
		Preload("Faqs").
		Preload("Resources").
		First(&tutorial, id).Error
	return tutorial, err
}

func (r *tutorialRepository) List(ctx context.Context, filter TutorialFilter) ([]models.Tutorial, error) {
	query := r.db.WithContext(ctx).Preload("Teacher").Order("created_at DESC")

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.TitleTerm != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.TitleTerm)) + "%"
		if len(filter.TeacherIDs) > 0 {
			query = query.Where("LOWER(title) LIKE ? OR teacher_id IN ?", pattern, filter.TeacherIDs)
		} else {
			query = query.Where("LOWER(title) LIKE ?", pattern)
		}
	}

	var tutorials []models.Tutorial
	err := query.Find(&tutorials).Error
	return tutorials, err
}

func (r *tutorialRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Tutorial, error) {
	var tutorials []models.Tutorial
	err := r.db.WithContext(ctx).
		Preload("Lessons").
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&tutorials).Error
	return tutorials, err
}

func (r *tutorialRepository) IDsByTeacher(ctx context.Context, teacherID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Tutorial{}).
		Where("teacher_id = ?", teacherID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *tutorialRepository) CountByTeacher(ctx context.Context, category string) ([]TeacherCourseCount, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Tutorial{}).
		Select("teacher_id AS teacher_id, COUNT(*) AS total").
		Group("teacher_id")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var counts []TeacherCourseCount
	err := query.Scan(&counts).Error
	return counts, err
}

func (r *tutorialRepository) Update(ctx context.Context, tutorial *models.Tutorial) error {
	return r.db.WithContext(ctx).Save(tutorial).Error
}

func (r *tutorialRepository) AppendResources(ctx context.Context, tutorialID uint, resources []models.Resource) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tutorial models.Tutorial
		if err := tx.First(&tutorial, tutorialID).Error; err != nil {
			return err
		}
		for i := range resources {
			if err := tx.Create(&resources[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(&tutorial).Association("Resources").Append(resources)
	})
}

func (r *tutorialRepository) RemoveResource(ctx context.Context, tutorialID, resourceID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tutorial models.Tutorial
		if err := tx.First(&tutorial, tutorialID).Error; err != nil {
			return err
		}
		resource := models.Resource{ID: resourceID}
		if err := tx.Model(&tutorial).Association("Resources").Delete(&resource); err != nil {
			return err
		}
		return tx.Delete(&models.Resource{}, resourceID).Error
	})
}

// DeleteCascade removes a course and everything it owns: lesson resources,
// lessons, FAQs, the quiz with its questions, and course-level resources.
// Children go first so a mid-flight failure rolls back to an intact course.
func (r *tutorialRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tutorial models.Tutorial
		if err := tx.Preload("Resources").First(&tutorial, id).Error; err != nil {
			return err
		}

		var lessons []models.Lesson
		if err := tx.Preload("Resources").Where("tutorial_id = ?", id).Find(&lessons).Error; err != nil {
			return err
		}
		for i := range lessons {
			if err := deleteLessonCascade(tx, &lessons[i]); err != nil {
				return err
			}
		}

		if err := tx.Where("tutorial_id = ?", id).Delete(&models.Faq{}).Error; err != nil {
			return err
		}

		var quiz models.Quiz
		err := tx.Where("tutorial_id = ?", id).First(&quiz).Error
		switch {
		case err == nil:
			if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.QuizQuestion{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&quiz).Error; err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		courseResources := tutorial.Resources
		if err := tx.Model(&tutorial).Association("Resources").Clear(); err != nil {
			return err
		}
		for i := range courseResources {
			if err := tx.Delete(&models.Resource{}, courseResources[i].ID).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Tutorial{}, id).Error
	})
}
