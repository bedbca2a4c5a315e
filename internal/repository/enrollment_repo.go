package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/models"
)

// EnrollmentRepository persists (student, tutorial) access rows.
type EnrollmentRepository interface {
	FindByKey(ctx context.Context, studentID, tutorialID uint) (models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	DeleteByKey(ctx context.Context, studentID, tutorialID uint) error
	ListByStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error)
	CountByTutorial(ctx context.Context, tutorialID uint) (int64, error)
	CountsByTutorials(ctx context.Context, tutorialIDs []uint) ([]TutorialCount, error)
}

// SavedTutorialRepository persists student bookmarks.
type SavedTutorialRepository interface {
	FindByKey(ctx context.Context, studentID, tutorialID uint) (models.SavedTutorial, error)
	Create(ctx context.Context, saved *models.SavedTutorial) error
	DeleteByKey(ctx context.Context, studentID, tutorialID uint) error
	ListByStudent(ctx context.Context, studentID uint) ([]models.SavedTutorial, error)
}

// CompletionRepository persists per-lesson completion rows.
type CompletionRepository interface {
	FindByKey(ctx context.Context, studentID, tutorialID, lessonID uint) (models.Completion, error)
	Create(ctx context.Context, completion *models.Completion) error
	ListByStudentTutorial(ctx context.Context, studentID, tutorialID uint) ([]models.Completion, error)
}

// ReviewRepository persists course reviews.
type ReviewRepository interface {
	FindByKey(ctx context.Context, studentID, tutorialID uint) (models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	ListByTutorial(ctx context.Context, tutorialID uint) ([]models.Review, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Review, error)
	ListTopByTutorials(ctx context.Context, tutorialIDs []uint, limit int) ([]models.Review, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

type savedTutorialRepository struct {
	db *gorm.DB
}

type completionRepository struct {
	db *gorm.DB
}

type reviewRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository constructs an enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// NewSavedTutorialRepository constructs a bookmark repository.
func NewSavedTutorialRepository(db *gorm.DB) SavedTutorialRepository {
	return &savedTutorialRepository{db: db}
}

// NewCompletionRepository constructs a completion repository.
func NewCompletionRepository(db *gorm.DB) CompletionRepository {
	return &completionRepository{db: db}
}

// NewReviewRepository constructs a review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *enrollmentRepository) FindByKey(ctx context.Context, studentID, tutorialID uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND tutorial_id = ?", studentID, tutorialID).
		First(&enrollment).Error
	return enrollment, err
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) DeleteByKey(ctx context.Context, studentID, tutorialID uint) error {
	return deleteByNaturalKey(r.db.WithContext(ctx), &models.Enrollment{}, studentID, tutorialID)
}

func (r *enrollmentRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Tutorial").
		Preload("Tutorial.Faqs").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepository) CountByTutorial(ctx context.Context, tutorialID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("tutorial_id = ?", tutorialID).
		Count(&count).Error
	return count, err
}

func (r *enrollmentRepository) CountsByTutorials(ctx context.Context, tutorialIDs []uint) ([]TutorialCount, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Select("tutorial_id AS tutorial_id, COUNT(*) AS total").
		Group("tutorial_id")
	query = scopeTutorials(query, "tutorial_id", tutorialIDs)

	var counts []TutorialCount
	err := query.Scan(&counts).Error
	return counts, err
}

func (r *savedTutorialRepository) FindByKey(ctx context.Context, studentID, tutorialID uint) (models.SavedTutorial, error) {
	var saved models.SavedTutorial
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND tutorial_id = ?", studentID, tutorialID).
		First(&saved).Error
	return saved, err
}

func (r *savedTutorialRepository) Create(ctx context.Context, saved *models.SavedTutorial) error {
	return r.db.WithContext(ctx).Create(saved).Error
}

func (r *savedTutorialRepository) DeleteByKey(ctx context.Context, studentID, tutorialID uint) error {
	return deleteByNaturalKey(r.db.WithContext(ctx), &models.SavedTutorial{}, studentID, tutorialID)
}

func (r *savedTutorialRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.SavedTutorial, error) {
	var saved []models.SavedTutorial
	err := r.db.WithContext(ctx).
		Preload("Tutorial").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&saved).Error
	return saved, err
}

func (r *completionRepository) FindByKey(ctx context.Context, studentID, tutorialID, lessonID uint) (models.Completion, error) {
	var completion models.Completion
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND tutorial_id = ? AND lesson_id = ?", studentID, tutorialID, lessonID).
		First(&completion).Error
	return completion, err
}

func (r *completionRepository) Create(ctx context.Context, completion *models.Completion) error {
	return r.db.WithContext(ctx).Create(completion).Error
}

func (r *completionRepository) ListByStudentTutorial(ctx context.Context, studentID, tutorialID uint) ([]models.Completion, error) {
	var completions []models.Completion
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND tutorial_id = ?", studentID, tutorialID).
		Find(&completions).Error
	return completions, err
}

func (r *reviewRepository) FindByKey(ctx context.Context, studentID, tutorialID uint) (models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND tutorial_id = ?", studentID, tutorialID).
		First(&review).Error
	return review, err
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) ListByTutorial(ctx context.Context, tutorialID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("tutorial_id = ?", tutorialID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Preload("Tutorial").
		Where("student_id = ?", studentID).
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) ListTopByTutorials(ctx context.Context, tutorialIDs []uint, limit int) ([]models.Review, error) {
	if len(tutorialIDs) == 0 {
		return nil, nil
	}

	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("tutorial_id IN ?", tutorialIDs).
		Order("rating DESC, created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

// deleteByNaturalKey removes the single row matching (student, tutorial) and
// reports gorm.ErrRecordNotFound when nothing matched.
func deleteByNaturalKey(db *gorm.DB, model interface{}, studentID, tutorialID uint) error {
	result := db.Where("student_id = ? AND tutorial_id = ?", studentID, tutorialID).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
