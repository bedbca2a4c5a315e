package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/devking-app/devking-api/internal/dto"
	"github.com/devking-app/devking-api/internal/handler"
	"github.com/devking-app/devking-api/internal/service"
)

type mockCatalogService struct {
	lastSearch   string
	lastCategory string
	courses      []dto.CatalogCourse
	details      dto.CourseDetailsResponse
	detailsErr   error
}

func (m *mockCatalogService) Courses(_ context.Context, search, category string) ([]dto.CatalogCourse, error) {
	m.lastSearch = search
	m.lastCategory = category
	return m.courses, nil
}

func (m *mockCatalogService) CourseDetails(_ context.Context, tutorialID uint) (dto.CourseDetailsResponse, error) {
	if m.detailsErr != nil {
		return dto.CourseDetailsResponse{}, m.detailsErr
	}
	return m.details, nil
}

func (m *mockCatalogService) Teachers(_ context.Context, category string) ([]dto.TeacherDirectoryEntry, error) {
	return nil, nil
}

func (m *mockCatalogService) TopCourses(_ context.Context, category string) ([]dto.RatedCourse, error) {
	return nil, nil
}

func (m *mockCatalogService) Homepage(_ context.Context) (dto.HomepageContent, error) {
	return dto.HomepageContent{}, nil
}

func TestCatalogHandler_CoursesForwardsFilters(t *testing.T) {
	svc := &mockCatalogService{courses: []dto.CatalogCourse{{ID: 1, Title: "Go Basics"}}}
	app := fiber.New()
	handler.NewCatalogHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/catalog"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/courses?search=go&category=programming", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                `json:"success"`
		Data    []dto.CatalogCourse `json:"data"`
		Message string              `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Len(t, response.Data, 1)
	require.Equal(t, "Go Basics", response.Data[0].Title)
	require.Equal(t, "go", svc.lastSearch)
	require.Equal(t, "programming", svc.lastCategory)
}

func TestCatalogHandler_CourseDetailsNotFound(t *testing.T) {
	svc := &mockCatalogService{detailsErr: service.ErrCourseNotFound}
	app := fiber.New()
	handler.NewCatalogHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/catalog"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/courses/99", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCatalogHandler_CourseDetailsRejectsBadID(t *testing.T) {
	svc := &mockCatalogService{}
	app := fiber.New()
	handler.NewCatalogHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/catalog"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/courses/abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(body, target))
}
