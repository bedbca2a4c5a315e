package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/models"
)

// TutorialCount is a per-course total from a grouped query.
type TutorialCount struct {
	TutorialID uint
	Total      int64
}

// CategoryTotal ranks a category by enrollments.
type CategoryTotal struct {
	Category string
	Total    int64
}

// CourseEnrollments ranks a course by enrollments in range.
type CourseEnrollments struct {
	TutorialID  uint
	Title       string
	Enrollments int64
}

// LearnerTotal ranks a student by completed lessons in range.
type LearnerTotal struct {
	StudentID    uint
	FirstName    string
	LastName     string
	ProfilePic   string
	TotalLessons int64
}

// TeacherEnrollments ranks a teacher by enrollments across their courses.
type TeacherEnrollments struct {
	TeacherID   uint
	FirstName   string
	LastName    string
	ProfilePic  string
	Enrollments int64
}

// TutorialRating carries review aggregates for one course.
type TutorialRating struct {
	TutorialID    uint
	AverageRating float64
	ReviewCount   int64
}

// CourseRating is a course ranked by average review rating, joined to its
// display fields and owning teacher.
type CourseRating struct {
	TutorialID       uint
	Title            string
	Thumbnail        string
	Description      string
	Price            float64
	Category         string
	AverageRating    float64
	ReviewCount      int64
	TeacherID        uint
	TeacherFirstName string
	TeacherLastName  string
}

// TeacherRating is a teacher ranked by average rating across their courses.
type TeacherRating struct {
	TeacherID    uint
	FirstName    string
	LastName     string
	Profile      string
	Bio          string
	ProfilePic   string
	AvgRating    float64
	TotalReviews int64
	CoursesCount int64
}

// AnalyticsRepository runs the grouped and joined queries behind the
// dashboards. A nil tutorialIDs slice means unscoped (admin); a non-nil slice
// restricts every match to that owner's course set.
type AnalyticsRepository interface {
	EnrollmentsInRange(ctx context.Context, tutorialIDs []uint, start, end time.Time) ([]models.Enrollment, error)
	CompletionsInRange(ctx context.Context, tutorialIDs []uint, start, end time.Time) ([]models.Completion, error)
	CountTutorialsInRange(ctx context.Context, start, end time.Time) (int64, error)
	EnrollmentCountsByTutorial(ctx context.Context, tutorialIDs []uint, start, end time.Time) ([]TutorialCount, error)
	CompletionCountsByTutorial(ctx context.Context, tutorialIDs []uint, start, end time.Time) ([]TutorialCount, error)
	PopularCategories(ctx context.Context, tutorialIDs []uint, start, end time.Time) ([]CategoryTotal, error)
	RecentEnrollments(ctx context.Context, tutorialIDs []uint, limit int) ([]models.Enrollment, error)
	TopCoursesByEnrollments(ctx context.Context, tutorialIDs []uint, start, end time.Time, limit int) ([]CourseEnrollments, error)
	TopLearners(ctx context.Context, tutorialIDs []uint, start, end time.Time, limit int) ([]LearnerTotal, error)
	TopTeachersByEnrollments(ctx context.Context, start, end time.Time, limit int) ([]TeacherEnrollments, error)
	RatingStatsByTutorial(ctx context.Context, tutorialIDs []uint) ([]TutorialRating, error)
	TopCoursesByRating(ctx context.Context, category string, limit int) ([]CourseRating, error)
	TopTeachersByRating(ctx context.Context, limit int) ([]TeacherRating, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository constructs the analytics repository.
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func scopeTutorials(query *gorm.DB, column string, tutorialIDs []uint) *gorm.DB {
	if tutorialIDs != nil {
		query = query.Where(column+" IN ?", tutorialIDs)
	}
	return query
}

func (r *analyticsRepository) EnrollmentsInRange(ctx context.Context, tutorialIDs []uint, start, end time.Time) ([]models.Enrollment, error) {
	query := r.db.WithContext(ctx).
		Preload("Tutorial").
		Where("created_at BETWEEN ? AND ?", start, end)
	query = scopeTutorials(query, "tutorial_id", tutorialIDs)

	var enrollments []models.Enrollment
	err := query.Find(&enrollments).Error
	return enrollments, err
}

func (r *analyticsRepository) CompletionsInRange(ctx context.Context, tutorialIDs []uint, start, end time.Time) ([]models.Completion, error) {
	query := r.db.WithContext(ctx).
		Where("created_at BETWEEN ? AND ?", start, end)
	query = scopeTutorials(query, "tutorial_id", tutorialIDs)

	var completions []models.Completion
	err := query.Find(&completions).Error
	return completions, err
}

func (r *analyticsRepository) CountTutorialsInRange(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Tutorial{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&count).Error
	return count, err
}

func (r *analyticsRepository) EnrollmentCountsByTutorial(ctx context.Context, tutorialIDs []uint, start, end time.Time) ([]TutorialCount, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Select("tutorial_id AS tutorial_id, COUNT(*) AS total").
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("tutorial_id")
	query = scopeTutorials(query, "tutorial_id", tutorialIDs)

	var counts []TutorialCount
	err := query.Scan(&counts).Error
	return counts, err
}

func (r *analyticsRepository) CompletionCountsByTutorial(ctx context.Context, tutorialIDs []uint, start, end time.Time) ([]TutorialCount, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Completion{}).
		Select("tutorial_id AS tutorial_id, COUNT(*) AS total").
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("tutorial_id")
	query = scopeTutorials(query, "tutorial_id", tutorialIDs)

	var counts []TutorialCount
	err := query.Scan(&counts).Error
	return counts, err
}

func (r *analyticsRepository) PopularCategories(ctx context.Context, tutorialIDs []uint, start, end time.Time) ([]CategoryTotal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Select("tutorials.category AS category, COUNT(*) AS total").
		Joins("JOIN tutorials ON tutorials.id = enrollments.tutorial_id").
		Where("enrollments.created_at BETWEEN ? AND ?", start, end).
		Group("tutorials.category").
		Order("total DESC")
	query = scopeTutorials(query, "enrollments.tutorial_id", tutorialIDs)

	var totals []CategoryTotal
	err := query.Scan(&totals).Error
	return totals, err
}

func (r *analyticsRepository) RecentEnrollments(ctx context.Context, tutorialIDs []uint, limit int) ([]models.Enrollment, error) {
	query := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Tutorial").
		Order("created_at DESC").
		Limit(limit)
	query = scopeTutorials(query, "tutorial_id", tutorialIDs)

	var enrollments []models.Enrollment
	err := query.Find(&enrollments).Error
	return enrollments, err
}

// TopCoursesByEnrollments groups enrollments per course and joins course
// titles. The inner join drops dangling tutorial references.
func (r *analyticsRepository) TopCoursesByEnrollments(ctx context.Context, tutorialIDs []uint, start, end time.Time, limit int) ([]CourseEnrollments, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Select("enrollments.tutorial_id AS tutorial_id, tutorials.title AS title, COUNT(*) AS enrollments").
		Joins("JOIN tutorials ON tutorials.id = enrollments.tutorial_id").
		Where("enrollments.created_at BETWEEN ? AND ?", start, end).
		Group("enrollments.tutorial_id, tutorials.title").
		Order("enrollments DESC, tutorial_id ASC").
		Limit(limit)
	query = scopeTutorials(query, "enrollments.tutorial_id", tutorialIDs)

	var rows []CourseEnrollments
	err := query.Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) TopLearners(ctx context.Context, tutorialIDs []uint, start, end time.Time, limit int) ([]LearnerTotal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Completion{}).
		Select("completions.student_id AS student_id, users.first_name AS first_name, users.last_name AS last_name, users.profile_pic AS profile_pic, COUNT(*) AS total_lessons").
		Joins("JOIN users ON users.id = completions.student_id").
		Where("completions.created_at BETWEEN ? AND ?", start, end).
		Group("completions.student_id, users.first_name, users.last_name, users.profile_pic").
		Order("total_lessons DESC, student_id ASC").
		Limit(limit)
	query = scopeTutorials(query, "completions.tutorial_id", tutorialIDs)

	var rows []LearnerTotal
	err := query.Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) TopTeachersByEnrollments(ctx context.Context, start, end time.Time, limit int) ([]TeacherEnrollments, error) {
	var rows []TeacherEnrollments
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Select("tutorials.teacher_id AS teacher_id, users.first_name AS first_name, users.last_name AS last_name, users.profile_pic AS profile_pic, COUNT(*) AS enrollments").
		Joins("JOIN tutorials ON tutorials.id = enrollments.tutorial_id").
		Joins("JOIN users ON users.id = tutorials.teacher_id").
		Where("enrollments.created_at BETWEEN ? AND ?", start, end).
		Group("tutorials.teacher_id, users.first_name, users.last_name, users.profile_pic").
		Order("enrollments DESC, teacher_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) RatingStatsByTutorial(ctx context.Context, tutorialIDs []uint) ([]TutorialRating, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("tutorial_id AS tutorial_id, AVG(rating) AS average_rating, COUNT(*) AS review_count").
		Group("tutorial_id")
	query = scopeTutorials(query, "tutorial_id", tutorialIDs)

	var stats []TutorialRating
	err := query.Scan(&stats).Error
	return stats, err
}

// TopCoursesByRating ranks courses by average rating, review count breaking
// ties, and joins course and teacher display fields.
func (r *analyticsRepository) TopCoursesByRating(ctx context.Context, category string, limit int) ([]CourseRating, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("reviews.tutorial_id AS tutorial_id, tutorials.title AS title, tutorials.thumbnail AS thumbnail, tutorials.description AS description, tutorials.price AS price, tutorials.category AS category, AVG(reviews.rating) AS average_rating, COUNT(*) AS review_count, tutorials.teacher_id AS teacher_id, users.first_name AS teacher_first_name, users.last_name AS teacher_last_name").
		Joins("JOIN tutorials ON tutorials.id = reviews.tutorial_id").
		Joins("JOIN users ON users.id = tutorials.teacher_id").
		Group("reviews.tutorial_id, tutorials.title, tutorials.thumbnail, tutorials.description, tutorials.price, tutorials.category, tutorials.teacher_id, users.first_name, users.last_name").
		Order("average_rating DESC, review_count DESC").
		Limit(limit)
	if category != "" {
		query = query.Where("tutorials.category = ?", category)
	}

	var rows []CourseRating
	err := query.Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) TopTeachersByRating(ctx context.Context, limit int) ([]TeacherRating, error) {
	var rows []TeacherRating
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("tutorials.teacher_id AS teacher_id, users.first_name AS first_name, users.last_name AS last_name, users.profile AS profile, users.bio AS bio, users.profile_pic AS profile_pic, AVG(reviews.rating) AS avg_rating, COUNT(*) AS total_reviews, (SELECT COUNT(*) FROM tutorials owned WHERE owned.teacher_id = tutorials.teacher_id) AS courses_count").
		Joins("JOIN tutorials ON tutorials.id = reviews.tutorial_id").
		Joins("JOIN users ON users.id = tutorials.teacher_id").
		Group("tutorials.teacher_id, users.first_name, users.last_name, users.profile, users.bio, users.profile_pic").
		Order("avg_rating DESC, total_reviews DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
