package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/models"
)

// LessonWithCourse is one lesson joined to its course title.
type LessonWithCourse struct {
	ID          uint
	Title       string
	Description string
	VideoURL    string
	CourseTitle string
}

// LessonRepository persists lessons and their attached resources.
type LessonRepository interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	GetByID(ctx context.Context, id uint) (models.Lesson, error)
	ListByTutorial(ctx context.Context, tutorialID uint) ([]models.Lesson, error)
	ListWithCourse(ctx context.Context) ([]LessonWithCourse, error)
	CountInRange(ctx context.Context, tutorialIDs []uint, start, end time.Time) (int64, error)
	Update(ctx context.Context, lesson *models.Lesson) error
	AppendResources(ctx context.Context, lessonID uint, resources []models.Resource) error
	RemoveResource(ctx context.Context, lessonID, resourceID uint) error
	DeleteCascade(ctx context.Context, id uint) error
}

// ResourceRepository reads standalone resource rows.
type ResourceRepository interface {
	GetByID(ctx context.Context, id uint) (models.Resource, error)
}

type lessonRepository struct {
	db *gorm.DB
}

type resourceRepository struct {
	db *gorm.DB
}

// NewLessonRepository constructs a lesson repository.
func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

// NewResourceRepository constructs a resource repository.
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

func (r *lessonRepository) GetByID(ctx context.Context, id uint) (models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.WithContext(ctx).Preload("Resources").First(&lesson, id).Error
	return lesson, err
}

// ListByTutorial returns lessons ordered by creation time; that order defines
// prev/next navigation.
func (r *lessonRepository) ListByTutorial(ctx context.Context, tutorialID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.WithContext(ctx).
		Preload("Resources").
		Where("tutorial_id = ?", tutorialID).
		Order("created_at ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepository) ListWithCourse(ctx context.Context) ([]LessonWithCourse, error) {
	var rows []LessonWithCourse
	err := r.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Select("lessons.id AS id, lessons.title AS title, lessons.description AS description, lessons.video_url AS video_url, tutorials.title AS course_title").
		Joins("JOIN tutorials ON tutorials.id = lessons.tutorial_id").
		Order("tutorials.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *lessonRepository) CountInRange(ctx context.Context, tutorialIDs []uint, start, end time.Time) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Where("created_at BETWEEN ? AND ?", start, end)
	if tutorialIDs != nil {
		query = query.Where("tutorial_id IN ?", tutorialIDs)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *lessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	return r.db.WithContext(ctx).Save(lesson).Error
}

func (r *lessonRepository) AppendResources(ctx context.Context, lessonID uint, resources []models.Resource) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lesson models.Lesson
		if err := tx.First(&lesson, lessonID).Error; err != nil {
			return err
		}
		for i := range resources {
			if err := tx.Create(&resources[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(&lesson).Association("Resources").Append(resources)
	})
}

func (r *lessonRepository) RemoveResource(ctx context.Context, lessonID, resourceID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lesson models.Lesson
		if err := tx.First(&lesson, lessonID).Error; err != nil {
			return err
		}
		resource := models.Resource{ID: resourceID}
		if err := tx.Model(&lesson).Association("Resources").Delete(&resource); err != nil {
			return err
		}
		return tx.Delete(&models.Resource{}, resourceID).Error
	})
}

// DeleteCascade removes a lesson together with its attached resources.
func (r *lessonRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lesson models.Lesson
		if err := tx.Preload("Resources").First(&lesson, id).Error; err != nil {
			return err
		}
		return deleteLessonCascade(tx, &lesson)
	})
}

func deleteLessonCascade(tx *gorm.DB, lesson *models.Lesson) error {
	resources := lesson.Resources
	if err := tx.Model(lesson).Association("Resources").Clear(); err != nil {
		return err
	}
	for i := range resources {
		if err := tx.Delete(&models.Resource{}, resources[i].ID).Error; err != nil {
			return err
		}
	}
	return tx.Delete(&models.Lesson{}, lesson.ID).Error
}

func (r *resourceRepository) GetByID(ctx context.Context, id uint) (models.Resource, error) {
	var resource models.Resource
	err := r.db.WithContext(ctx).First(&resource, id).Error
	return resource, err
}
