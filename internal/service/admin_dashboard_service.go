package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/devking-app/devking-api/internal/dto"
	"github.com/devking-app/devking-api/internal/repository"
)

// AdminDashboardService assembles the platform-wide analytics views. All
// queries run unscoped across every course.
type AdminDashboardService interface {
	Overview(ctx context.Context, period string) (dto.OverviewStats, error)
	SalesPerformance(ctx context.Context, period string) ([]dto.SalesPoint, error)
	EnrollmentFunnel(ctx context.Context, period string) ([]dto.CourseFunnel, error)
	PopularCategories(ctx context.Context, period string) ([]dto.CategoryCount, error)
	RecentTransactions(ctx context.Context) ([]dto.TransactionEntry, error)
	TopLearners(ctx context.Context) ([]dto.TopLearner, error)
	TopTeachers(ctx context.Context) ([]dto.TopTeacher, error)
	TopCourses(ctx context.Context) ([]dto.TopCourse, error)
}

type adminDashboardService struct {
	analytics repository.AnalyticsRepository
	tutorials repository.TutorialRepository
	cache     *redis.Client
	ttl       time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAdminDashboardService constructs the admin dashboard service. The cache
// client may be nil, in which case every call hits the store.
func NewAdminDashboardService(
	analytics repository.AnalyticsRepository,
	tutorials repository.TutorialRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) AdminDashboardService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &adminDashboardService{
		analytics: analytics,
		tutorials: tutorials,
		cache:     cache,
		ttl:       ttl,
		logger:    logger.With().Str("component", "admin_dashboard_service").Logger(),
		now:       time.Now,
	}
}

func (s *adminDashboardService) Overview(ctx context.Context, period string) (dto.OverviewStats, error) {
	period = CanonicalPeriod(period, PeriodDay)
	window := ResolveRange(period, s.now())

	cacheKey := fmt.Sprintf("dashboard:admin:overview:%s:%s", dashboardCacheVers, period)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var stats dto.OverviewStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return stats, nil
			}
		}
	}

	enrollments, err := s.analytics.EnrollmentsInRange(ctx, nil, window.Start, window.End)
	if err != nil {
		return dto.OverviewStats{}, err
	}
	completions, err := s.analytics.CompletionsInRange(ctx, nil, window.Start, window.End)
	if err != nil {
		return dto.OverviewStats{}, err
	}
	courses, err := s.analytics.CountTutorialsInRange(ctx, window.Start, window.End)
	if err != nil {
		return dto.OverviewStats{}, err
	}

	stats := dto.OverviewStats{
		Revenue:        revenueOf(enrollments),
		CoursesCreated: courses,
		ActiveUsers:    activeUsers(enrollments, completions),
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache overview stats")
			}
		}
	}
	return stats, nil
}

func (s *adminDashboardService) SalesPerformance(ctx context.Context, period string) ([]dto.SalesPoint, error) {
	window := ResolveRange(orDefault(period, PeriodMonth), s.now())

	enrollments, err := s.analytics.EnrollmentsInRange(ctx, nil, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	return salesSeries(enrollments), nil
}

func (s *adminDashboardService) EnrollmentFunnel(ctx context.Context, period string) ([]dto.CourseFunnel, error) {
	window := ResolveRange(orDefault(period, PeriodMonth), s.now())

	tutorials, err := s.tutorials.List(ctx, repository.TutorialFilter{})
	if err != nil {
		return nil, err
	}
	titles := make(map[uint]string, len(tutorials))
	order := make([]uint, 0, len(tutorials))
	for _, tutorial := range tutorials {
		titles[tutorial.ID] = tutorial.Title
		order = append(order, tutorial.ID)
	}

	enrollments, err := s.analytics.EnrollmentCountsByTutorial(ctx, nil, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	completions, err := s.analytics.CompletionCountsByTutorial(ctx, nil, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	return courseFunnel(titles, order, enrollments, completions), nil
}

func (s *adminDashboardService) PopularCategories(ctx context.Context, period string) ([]dto.CategoryCount, error) {
	window := ResolveRange(orDefault(period, PeriodMonth), s.now())

	totals, err := s.analytics.PopularCategories(ctx, nil, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	categories := make([]dto.CategoryCount, 0, len(totals))
	for _, total := range totals {
		categories = append(categories, dto.CategoryCount{Category: total.Category, Total: total.Total})
	}
	return categories, nil
}

func (s *adminDashboardService) RecentTransactions(ctx context.Context) ([]dto.TransactionEntry, error) {
	enrollments, err := s.analytics.RecentEnrollments(ctx, nil, recentTxLimit)
	if err != nil {
		return nil, err
	}
	return transactionEntries(enrollments), nil
}

func (s *adminDashboardService) TopLearners(ctx context.Context) ([]dto.TopLearner, error) {
	window := ResolveRange(PeriodMonth, s.now())

	rows, err := s.analytics.TopLearners(ctx, nil, window.Start, window.End, topRankLimit)
	if err != nil {
		return nil, err
	}
	return topLearnersOf(rows), nil
}

func (s *adminDashboardService) TopTeachers(ctx context.Context) ([]dto.TopTeacher, error) {
	window := ResolveRange(PeriodMonth, s.now())

	rows, err := s.analytics.TopTeachersByEnrollments(ctx, window.Start, window.End, topRankLimit)
	if err != nil {
		return nil, err
	}

	teachers := make([]dto.TopTeacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, dto.TopTeacher{
			Name:        row.FirstName + " " + row.LastName,
			ProfilePic:  row.ProfilePic,
			Enrollments: row.Enrollments,
		})
	}
	return teachers, nil
}

func (s *adminDashboardService) TopCourses(ctx context.Context) ([]dto.TopCourse, error) {
	window := ResolveRange(PeriodMonth, s.now())

	rows, err := s.analytics.TopCoursesByEnrollments(ctx, nil, window.Start, window.End, topRankLimit)
	if err != nil {
		return nil, err
	}
	return topCoursesOf(rows), nil
}
