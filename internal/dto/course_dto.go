package dto

import (
	"time"

	"github.com/devking-app/devking-api/internal/models"
)

// ResourceInput names a downloadable file attached to a course or lesson.
type ResourceInput struct {
	Title string `json:"title" validate:"required,max=255"`
	Path  string `json:"path" validate:"required,max=1000"`
}

// CourseCreateRequest carries the fields for a new course.
type CourseCreateRequest struct {
	Title         string          `json:"title" validate:"required,min=3,max=120"`
	Description   string          `json:"description" validate:"required,min=10,max=1000"`
	Category      string          `json:"category" validate:"required,max=64"`
	Thumbnail     string          `json:"thumbnail" validate:"required,min=10,max=1000"`
	Price         float64         `json:"price" validate:"gte=0,lte=1000000"`
	Benefits      []string        `json:"benefits" validate:"dive,min=3,max=120"`
	Prerequisites []string        `json:"prerequisites" validate:"dive,min=3,max=120"`
	Resources     []ResourceInput `json:"resources" validate:"dive"`
}

// CourseUpdateRequest carries optional replacement fields for a course.
type CourseUpdateRequest struct {
	Title         *string         `json:"title" validate:"omitempty,min=3,max=120"`
	Description   *string         `json:"description" validate:"omitempty,min=10,max=1000"`
	Category      *string         `json:"category" validate:"omitempty,max=64"`
	Thumbnail     *string         `json:"thumbnail" validate:"omitempty,min=10,max=1000"`
	Price         *float64        `json:"price" validate:"omitempty,gte=0,lte=1000000"`
	Benefits      []string        `json:"benefits" validate:"omitempty,dive,min=3,max=120"`
	Prerequisites []string        `json:"prerequisites" validate:"omitempty,dive,min=3,max=120"`
	Resources     []ResourceInput `json:"resources" validate:"omitempty,dive"`
}

// LessonCreateRequest carries the fields for a new lesson.
type LessonCreateRequest struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Description string          `json:"description" validate:"required,max=1000"`
	VideoURL    string          `json:"videoUrl" validate:"required,max=1000"`
	Resources   []ResourceInput `json:"resources" validate:"dive"`
}

// LessonUpdateRequest carries optional replacement fields for a lesson.
type LessonUpdateRequest struct {
	Title       *string         `json:"title" validate:"omitempty,max=255"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
	VideoURL    *string         `json:"videoUrl" validate:"omitempty,max=1000"`
	Resources   []ResourceInput `json:"resources" validate:"omitempty,dive"`
}

// FaqRequest creates or replaces a FAQ entry.
type FaqRequest struct {
	Question string `json:"question" validate:"required,max=500"`
	Answer   string `json:"answer" validate:"required,max=2000"`
}

// QuizQuestionInput is one multiple-choice question submitted by a teacher.
type QuizQuestionInput struct {
	Question      string   `json:"question" validate:"required,max=1000"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
}

// QuizRequest creates or replaces the questions of a course quiz.
type QuizRequest struct {
	Questions []QuizQuestionInput `json:"questions" validate:"required,min=1,dive"`
}

// TeacherCourseSummary is one row of the teacher's course list.
type TeacherCourseSummary struct {
	ID       uint   `json:"id"`
	Image    string `json:"image"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Lessons  int    `json:"lessons"`
	Students int64  `json:"students"`
}

// CourseDetail is the teacher-facing detail view of one course.
type CourseDetail struct {
	Course        models.Tutorial `json:"course"`
	StudentsCount int64           `json:"studentsCount"`
	AverageRating float64         `json:"avgRating"`
	ReviewsCount  int             `json:"reviewsCount"`
	Reviews       []ReviewEntry   `json:"reviews"`
}

// ReviewEntry is a denormalized review row for display.
type ReviewEntry struct {
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	FullName   string    `json:"fullName"`
	ProfilePic string    `json:"profilePic"`
	CreatedAt  time.Time `json:"created_at"`
}
