package service

import (
	"sort"

	"github.com/devking-app/devking-api/internal/dto"
	"github.com/devking-app/devking-api/internal/models"
	"github.com/devking-app/devking-api/internal/repository"
)

// Ranking sizes shared by both dashboards.
const (
	topRankLimit       = 5
	recentTxLimit      = 5
	dashboardCacheVers = "v1"
)

// revenueOf sums the current price of the course behind each enrollment.
// Price changes therefore reflect into past windows.
func revenueOf(enrollments []models.Enrollment) float64 {
	var total float64
	for _, enrollment := range enrollments {
		total += enrollment.Tutorial.Price
	}
	return total
}

// activeUsers counts distinct students across enrollments and completions.
func activeUsers(enrollments []models.Enrollment, completions []models.Completion) int {
	seen := make(map[uint]struct{})
	for _, enrollment := range enrollments {
		seen[enrollment.StudentID] = struct{}{}
	}
	for _, completion := range completions {
		seen[completion.StudentID] = struct{}{}
	}
	return len(seen)
}

// salesSeries buckets enrollments per calendar day, ascending.
func salesSeries(enrollments []models.Enrollment) []dto.SalesPoint {
	type day struct {
		year  int
		month int
		day   int
	}
	buckets := make(map[day]int64)
	for _, enrollment := range enrollments {
		created := enrollment.CreatedAt
		buckets[day{created.Year(), int(created.Month()), created.Day()}]++
	}

	points := make([]dto.SalesPoint, 0, len(buckets))
	for key, count := range buckets {
		points = append(points, dto.SalesPoint{
			Year:  key.year,
			Month: key.month,
			Day:   key.day,
			Count: count,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Day < b.Day
	})
	return points
}

// courseFunnel pairs enrollment and completion counts for the given courses.
func courseFunnel(titles map[uint]string, order []uint, enrollments, completions []repository.TutorialCount) []dto.CourseFunnel {
	enrolled := make(map[uint]int64, len(enrollments))
	for _, row := range enrollments {
		enrolled[row.TutorialID] = row.Total
	}
	completed := make(map[uint]int64, len(completions))
	for _, row := range completions {
		completed[row.TutorialID] = row.Total
	}

	funnel := make([]dto.CourseFunnel, 0, len(order))
	for _, id := range order {
		funnel = append(funnel, dto.CourseFunnel{
			Title:       titles[id],
			Enrollments: enrolled[id],
			Completions: completed[id],
		})
	}
	return funnel
}

// transactionEntries flattens recent enrollments for display, skipping rows
// whose student or course has since been deleted.
func transactionEntries(enrollments []models.Enrollment) []dto.TransactionEntry {
	entries := make([]dto.TransactionEntry, 0, len(enrollments))
	for _, enrollment := range enrollments {
		if enrollment.Student.ID == 0 || enrollment.Tutorial.ID == 0 {
			continue
		}
		entries = append(entries, dto.TransactionEntry{
			StudentName: enrollment.Student.FullName(),
			ProfilePic:  enrollment.Student.ProfilePic,
			CourseTitle: enrollment.Tutorial.Title,
			CreatedAt:   enrollment.CreatedAt,
		})
	}
	return entries
}

func topLearnersOf(rows []repository.LearnerTotal) []dto.TopLearner {
	learners := make([]dto.TopLearner, 0, len(rows))
	for _, row := range rows {
		learners = append(learners, dto.TopLearner{
			Name:         row.FirstName + " " + row.LastName,
			ProfilePic:   row.ProfilePic,
			TotalLessons: row.TotalLessons,
		})
	}
	return learners
}

func topCoursesOf(rows []repository.CourseEnrollments) []dto.TopCourse {
	courses := make([]dto.TopCourse, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, dto.TopCourse{
			Title:       row.Title,
			Enrollments: row.Enrollments,
		})
	}
	return courses
}

// countCreatedIn counts courses created inside the window.
func countCreatedIn(tutorials []models.Tutorial, window TimeRange) int64 {
	var count int64
	for _, tutorial := range tutorials {
		if !tutorial.CreatedAt.Before(window.Start) && !tutorial.CreatedAt.After(window.End) {
			count++
		}
	}
	return count
}

// orDefault substitutes the fallback period for an empty one.
func orDefault(period, fallback string) string {
	if period == "" {
		return fallback
	}
	return period
}
