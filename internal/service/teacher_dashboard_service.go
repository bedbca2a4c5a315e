package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/dto"
	"github.com/devking-app/devking-api/internal/repository"
)

// TeacherDashboardService assembles the per-teacher analytics views. Every
// query is scoped to the courses the authenticated teacher owns; the course
// set is resolved once per call.
type TeacherDashboardService interface {
	Overview(ctx context.Context, teacherID uint, period string) (dto.OverviewStats, error)
	SalesPerformance(ctx context.Context, teacherID uint, period string) ([]dto.SalesPoint, error)
	EnrollmentFunnel(ctx context.Context, teacherID uint, period string) ([]dto.CourseFunnel, error)
	RecentTransactions(ctx context.Context, teacherID uint) ([]dto.TransactionEntry, error)
	TopLearners(ctx context.Context, teacherID uint) ([]dto.TopLearner, error)
	TopCourses(ctx context.Context, teacherID uint, period string) ([]dto.TopCourse, error)
	Home(ctx context.Context, teacherID uint) (dto.TeacherHome, error)
}

type teacherDashboardService struct {
	analytics   repository.AnalyticsRepository
	tutorials   repository.TutorialRepository
	lessons     repository.LessonRepository
	enrollments repository.EnrollmentRepository
	reviews     repository.ReviewRepository
	users       repository.UserRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewTeacherDashboardService constructs the teacher dashboard service.
func NewTeacherDashboardService(
	analytics repository.AnalyticsRepository,
	tutorials repository.TutorialRepository,
	lessons repository.LessonRepository,
	enrollments repository.EnrollmentRepository,
	reviews repository.ReviewRepository,
	users repository.UserRepository,
	logger zerolog.Logger,
) TeacherDashboardService {
	return &teacherDashboardService{
		analytics:   analytics,
		tutorials:   tutorials,
		lessons:     lessons,
		enrollments: enrollments,
		reviews:     reviews,
		users:       users,
		logger:      logger.With().Str("component", "teacher_dashboard_service").Logger(),
		now:         time.Now,
	}
}

// courseSet resolves the teacher's owned course ids. The returned slice is
// never nil so downstream queries stay scoped even when it is empty.
func (s *teacherDashboardService) courseSet(ctx context.Context, teacherID uint) ([]uint, error) {
	ids, err := s.tutorials.IDsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}

func (s *teacherDashboardService) Overview(ctx context.Context, teacherID uint, period string) (dto.OverviewStats, error) {
	window := ResolveRange(orDefault(period, PeriodMonth), s.now())

	ids, err := s.courseSet(ctx, teacherID)
	if err != nil {
		return dto.OverviewStats{}, err
	}

	lessonsCreated := int64(0)
	stats := dto.OverviewStats{LessonsCreated: &lessonsCreated}
	if len(ids) == 0 {
		return stats, nil
	}

	enrollments, err := s.analytics.EnrollmentsInRange(ctx, ids, window.Start, window.End)
	if err != nil {
		return dto.OverviewStats{}, err
	}
	completions, err := s.analytics.CompletionsInRange(ctx, ids, window.Start, window.End)
	if err != nil {
		return dto.OverviewStats{}, err
	}
	tutorials, err := s.tutorials.ListByTeacher(ctx, teacherID)
	if err != nil {
		return dto.OverviewStats{}, err
	}
	lessonsCreated, err = s.lessons.CountInRange(ctx, ids, window.Start, window.End)
	if err != nil {
		return dto.OverviewStats{}, err
	}

	stats.Revenue = revenueOf(enrollments)
	stats.CoursesCreated = countCreatedIn(tutorials, window)
	stats.ActiveUsers = activeUsers(enrollments, completions)
	stats.LessonsCreated = &lessonsCreated
	return stats, nil
}

func (s *teacherDashboardService) SalesPerformance(ctx context.Context, teacherID uint, period string) ([]dto.SalesPoint, error) {
	window := ResolveRange(orDefault(period, PeriodMonth), s.now())

	ids, err := s.courseSet(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []dto.SalesPoint{}, nil
	}

	enrollments, err := s.analytics.EnrollmentsInRange(ctx, ids, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	return salesSeries(enrollments), nil
}

func (s *teacherDashboardService) EnrollmentFunnel(ctx context.Context, teacherID uint, period string) ([]dto.CourseFunnel, error) {
	window := ResolveRange(orDefault(period, PeriodMonth), s.now())

	tutorials, err := s.tutorials.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if len(tutorials) == 0 {
		return []dto.CourseFunnel{}, nil
	}

	titles := make(map[uint]string, len(tutorials))
	order := make([]uint, 0, len(tutorials))
	for _, tutorial := range tutorials {
		titles[tutorial.ID] = tutorial.Title
		order = append(order, tutorial.ID)
	}

	enrollments, err := s.analytics.EnrollmentCountsByTutorial(ctx, order, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	completions, err := s.analytics.CompletionCountsByTutorial(ctx, order, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	return courseFunnel(titles, order, enrollments, completions), nil
}

func (s *teacherDashboardService) RecentTransactions(ctx context.Context, teacherID uint) ([]dto.TransactionEntry, error) {
	ids, err := s.courseSet(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []dto.TransactionEntry{}, nil
	}

	enrollments, err := s.analytics.RecentEnrollments(ctx, ids, recentTxLimit)
	if err != nil {
		return nil, err
	}
	return transactionEntries(enrollments), nil
}

func (s *teacherDashboardService) TopLearners(ctx context.Context, teacherID uint) ([]dto.TopLearner, error) {
	window := ResolveRange(PeriodMonth, s.now())

	ids, err := s.courseSet(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []dto.TopLearner{}, nil
	}

	rows, err := s.analytics.TopLearners(ctx, ids, window.Start, window.End, topRankLimit)
	if err != nil {
		return nil, err
	}
	return topLearnersOf(rows), nil
}

func (s *teacherDashboardService) TopCourses(ctx context.Context, teacherID uint, period string) ([]dto.TopCourse, error) {
	window := ResolveRange(orDefault(period, PeriodMonth), s.now())

	ids, err := s.courseSet(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []dto.TopCourse{}, nil
	}

	rows, err := s.analytics.TopCoursesByEnrollments(ctx, ids, window.Start, window.End, topRankLimit)
	if err != nil {
		return nil, err
	}
	return topCoursesOf(rows), nil
}

func (s *teacherDashboardService) Home(ctx context.Context, teacherID uint) (dto.TeacherHome, error) {
	teacher, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherHome{}, ErrUserNotFound
		}
		return dto.TeacherHome{}, err
	}

	tutorials, err := s.tutorials.ListByTeacher(ctx, teacherID)
	if err != nil {
		return dto.TeacherHome{}, err
	}

	home := dto.TeacherHome{
		Teacher:    teacher,
		TopCourses: []dto.RankedCourse{},
		TopReviews: []dto.ReviewEntry{},
	}
	if len(tutorials) == 0 {
		return home, nil
	}

	ids := make([]uint, 0, len(tutorials))
	for _, tutorial := range tutorials {
		ids = append(ids, tutorial.ID)
	}

	stats, err := s.analytics.RatingStatsByTutorial(ctx, ids)
	if err != nil {
		return dto.TeacherHome{}, err
	}
	ratings := make(map[uint]repository.TutorialRating, len(stats))
	for _, stat := range stats {
		ratings[stat.TutorialID] = stat
	}

	counts, err := s.enrollments.CountsByTutorials(ctx, ids)
	if err != nil {
		return dto.TeacherHome{}, err
	}
	students := make(map[uint]int64, len(counts))
	for _, count := range counts {
		students[count.TutorialID] = count.Total
		home.TotalStudents += count.Total
	}

	ranked := make([]dto.RankedCourse, 0, len(tutorials))
	for _, tutorial := range tutorials {
		stat := ratings[tutorial.ID]
		ranked = append(ranked, dto.RankedCourse{
			Course:        tutorial,
			StudentCount:  students[tutorial.ID],
			AverageRating: stat.AverageRating,
			ReviewCount:   stat.ReviewCount,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AverageRating > ranked[j].AverageRating
	})
	if len(ranked) > topRankLimit {
		ranked = ranked[:topRankLimit]
	}
	home.TopCourses = ranked

	reviews, err := s.reviews.ListTopByTutorials(ctx, ids, topRankLimit)
	if err != nil {
		return dto.TeacherHome{}, err
	}
	entries, _ := reviewEntries(reviews)
	home.TopReviews = entries

	return home, nil
}
