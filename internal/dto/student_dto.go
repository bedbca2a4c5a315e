package dto

import (
	"time"

	"github.com/devking-app/devking-api/internal/models"
)

// ReviewRequest submits a rating and comment for an enrolled tutorial.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=1000"`
}

// EnrolledTutorial pairs an enrollment with its course payload.
type EnrolledTutorial struct {
	Tutorial   models.Tutorial `json:"tutorial"`
	EnrolledAt time.Time       `json:"enrolledAt"`
}

// EnrolledTutorialsResponse lists a student's enrollments plus their reviews.
type EnrolledTutorialsResponse struct {
	Count     int                `json:"count"`
	Tutorials []EnrolledTutorial `json:"enrolledTutorials"`
	Reviews   []models.Review    `json:"reviews"`
}

// SavedTutorialEntry is one bookmarked course.
type SavedTutorialEntry struct {
	TutorialID  uint      `json:"tutorialId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	SavedAt     time.Time `json:"savedAt"`
}

// LessonNavigation wraps a lesson with its neighbours in creation order.
type LessonNavigation struct {
	Lesson models.Lesson  `json:"lesson"`
	Prev   *models.Lesson `json:"prevLesson"`
	Next   *models.Lesson `json:"nextLesson"`
}

// QuizQuestionView is a question as shown to students, without the answer key.
type QuizQuestionView struct {
	ID       uint     `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuizView is the student-facing quiz payload.
type QuizView struct {
	QuizID      uint               `json:"quizId"`
	TutorialID  uint               `json:"tutorialId"`
	TeacherName string             `json:"teacher"`
	Questions   []QuizQuestionView `json:"questions"`
}

// QuizSubmission carries the student's answers, positional to the questions.
type QuizSubmission struct {
	Answers []string `json:"answers" validate:"required"`
}

// QuizResult reports a graded attempt.
type QuizResult struct {
	Score          int `json:"score"`
	TotalQuestions int `json:"totalQuestions"`
}

// CheckoutResponse carries the payment redirect for a course purchase.
type CheckoutResponse struct {
	URL string `json:"url"`
}

// EnrollmentStatus reports whether the student holds an enrollment.
type EnrollmentStatus struct {
	Enrolled bool `json:"enrolled"`
}
