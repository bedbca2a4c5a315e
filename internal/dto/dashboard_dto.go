package dto

import (
	"time"

	"github.com/devking-app/devking-api/internal/models"
)

// OverviewStats is the headline dashboard block. LessonsCreated is only
// populated for teacher dashboards.
type OverviewStats struct {
	Revenue        float64 `json:"revenue"`
	CoursesCreated int64   `json:"coursesCreated"`
	LessonsCreated *int64  `json:"lessonsCreated,omitempty"`
	ActiveUsers    int     `json:"activeUsers"`
}

// SalesPoint is one calendar-day bucket of the sales performance series,
// ordered ascending by (year, month, day).
type SalesPoint struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Day   int   `json:"day"`
	Count int64 `json:"count"`
}

// CourseFunnel pairs enrollments with completed lessons for one course.
type CourseFunnel struct {
	Title       string `json:"title"`
	Enrollments int64  `json:"enrollments"`
	Completions int64  `json:"completions"`
}

// CategoryCount ranks a course category by enrollments.
type CategoryCount struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

// TransactionEntry is one of the latest enrollments with display fields.
type TransactionEntry struct {
	StudentName string    `json:"studentName"`
	ProfilePic  string    `json:"profilePic"`
	CourseTitle string    `json:"courseTitle"`
	CreatedAt   time.Time `json:"created_at"`
}

// TopLearner ranks a student by completed lessons.
type TopLearner struct {
	Name         string `json:"name"`
	ProfilePic   string `json:"profilePic"`
	TotalLessons int64  `json:"totalLessons"`
}

// TopTeacher ranks a teacher by enrollments across their courses.
type TopTeacher struct {
	Name        string `json:"name"`
	ProfilePic  string `json:"profilePic"`
	Enrollments int64  `json:"enrollments"`
}

// TopCourse ranks a course by enrollments.
type TopCourse struct {
	Title       string `json:"title"`
	Enrollments int64  `json:"enrollments"`
}

// RankedCourse is a course enriched with its review metrics.
type RankedCourse struct {
	Course        models.Tutorial `json:"course"`
	StudentCount  int64           `json:"studentCount"`
	AverageRating float64         `json:"avgRating"`
	ReviewCount   int64           `json:"reviewCount"`
}

// TeacherHome is the teacher landing payload.
type TeacherHome struct {
	Teacher       models.User    `json:"teacher"`
	TotalStudents int64          `json:"totalStudents"`
	TopCourses    []RankedCourse `json:"topCourses"`
	TopReviews    []ReviewEntry  `json:"topReviews"`
}
