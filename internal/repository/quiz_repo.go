package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/models"
)

// QuizRepository persists quizzes and their questions.
type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id uint) (models.Quiz, error)
	GetByTutorial(ctx context.Context, tutorialID uint) (models.Quiz, error)
	AddQuestions(ctx context.Context, quizID uint, questions []models.QuizQuestion) (models.Quiz, error)
	ReplaceQuestions(ctx context.Context, quizID uint, questions []models.QuizQuestion) (models.Quiz, error)
}

// ScoreRepository persists quiz attempt history.
type ScoreRepository interface {
	Create(ctx context.Context, score *models.Score) error
	ListByStudent(ctx context.Context, studentID uint) ([]models.Score, error)
	LatestByStudentQuiz(ctx context.Context, studentID, quizID uint) (models.Score, error)
}

type quizRepository struct {
	db *gorm.DB
}

type scoreRepository struct {
	db *gorm.DB
}

// NewQuizRepository constructs a quiz repository.
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

// NewScoreRepository constructs a score repository.
func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *quizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *quizRepository) GetByID(ctx context.Context, id uint) (models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.WithContext(ctx).Preload("Questions").First(&quiz, id).Error
	return quiz, err
}

func (r *quizRepository) GetByTutorial(ctx context.Context, tutorialID uint) (models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.WithContext(ctx).
		Preload("Questions").
		Where("tutorial_id = ?", tutorialID).
		First(&quiz).Error
	return quiz, err
}

func (r *quizRepository) AddQuestions(ctx context.Context, quizID uint, questions []models.QuizQuestion) (models.Quiz, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		if err := tx.First(&quiz, quizID).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].QuizID = quizID
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Quiz{}, err
	}
	return r.GetByID(ctx, quizID)
}

func (r *quizRepository) ReplaceQuestions(ctx context.Context, quizID uint, questions []models.QuizQuestion) (models.Quiz, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		if err := tx.First(&quiz, quizID).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.QuizQuestion{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].QuizID = quizID
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Quiz{}, err
	}
	return r.GetByID(ctx, quizID)
}

func (r *scoreRepository) Create(ctx context.Context, score *models.Score) error {
	return r.db.WithContext(ctx).Create(score).Error
}

func (r *scoreRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Score, error) {
	var scores []models.Score
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&scores).Error
	return scores, err
}

func (r *scoreRepository) LatestByStudentQuiz(ctx context.Context, studentID, quizID uint) (models.Score, error) {
	var score models.Score
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Order("created_at DESC").
		First(&score).Error
	return score, err
}
