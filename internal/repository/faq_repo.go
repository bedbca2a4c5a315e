package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/models"
)

// FaqRepository persists question/answer entries per course.
type FaqRepository interface {
	Create(ctx context.Context, faq *models.Faq) error
	GetByID(ctx context.Context, id uint) (models.Faq, error)
	List(ctx context.Context) ([]models.Faq, error)
	ListByTutorial(ctx context.Context, tutorialID uint) ([]models.Faq, error)
	Update(ctx context.Context, faq *models.Faq) error
	Delete(ctx context.Context, id uint) error
}

type faqRepository struct {
	db *gorm.DB
}

// NewFaqRepository constructs a FAQ repository.
func NewFaqRepository(db *gorm.DB) FaqRepository {
	return &faqRepository{db: db}
}

func (r *faqRepository) Create(ctx context.Context, faq *models.Faq) error {
	return r.db.WithContext(ctx).Create(faq).Error
}

func (r *faqRepository) GetByID(ctx context.Context, id uint) (models.Faq, error) {
	var faq models.Faq
	err := r.db.WithContext(ctx).First(&faq, id).Error
	return faq, err
}

func (r *faqRepository) List(ctx context.Context) ([]models.Faq, error) {
	var faqs []models.Faq
	err := r.db.WithContext(ctx).Find(&faqs).Error
	return faqs, err
}

func (r *faqRepository) ListByTutorial(ctx context.Context, tutorialID uint) ([]models.Faq, error) {
	var faqs []models.Faq
	err := r.db.WithContext(ctx).Where("tutorial_id = ?", tutorialID).Find(&faqs).Error
	return faqs, err
}

func (r *faqRepository) Update(ctx context.Context, faq *models.Faq) error {
	return r.db.WithContext(ctx).Save(faq).Error
}

func (r *faqRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Faq{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
