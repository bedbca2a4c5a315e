package handler_test

import (
	"bytes"
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
	"github.com/devking-app/devking-api/internal/models"
	"github.com/devking-app/devking-api/internal/service"
)

type mockAuthService struct {
	registerResp dto.AuthResponse
	registerErr  error
	loginErr     error
	refreshErr   error
}

func (m *mockAuthService) Register(_ context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	if m.registerErr != nil {
		return dto.AuthResponse{}, m.registerErr
	}
	return m.registerResp, nil
}

func (m *mockAuthService) Login(_ context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	if m.loginErr != nil {
		return dto.AuthResponse{}, m.loginErr
	}
	return dto.AuthResponse{AccessToken: "token"}, nil
}

func (m *mockAuthService) LoginAdmin(_ context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	return dto.AuthResponse{}, m.loginErr
}

func (m *mockAuthService) Refresh(_ context.Context, refreshToken string) (dto.AuthResponse, error) {
	if m.refreshErr != nil {
		return dto.AuthResponse{}, m.refreshErr
	}
	return dto.AuthResponse{AccessToken: "fresh-access", RefreshToken: "fresh-refresh"}, nil
}

func (m *mockAuthService) Profile(_ context.Context, userID uint) (models.User, error) {
	return models.User{}, nil
}

func (m *mockAuthService) UpdateProfile(_ context.Context, userID uint, req dto.ProfileUpdateRequest) (models.User, error) {
	return models.User{}, nil
}

func TestAuthHandler_RegisterCreated(t *testing.T) {
	svc := &mockAuthService{registerResp: dto.AuthResponse{
		AccessToken: "token",
		User:        dto.AuthUser{ID: 7, Email: "dina@example.com", Role: models.RoleStudent},
	}}
	app := fiber.New()
	handler.NewAuthHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/auth"))

	payload := dto.RegisterRequest{
		FirstName:       "Dina",
		LastName:        "Puspita",
		Email:           "dina@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Role:            models.RoleStudent,
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool             `json:"success"`
		Data    dto.AuthResponse `json:"data"`
		Message string           `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "registration successful", response.Message)
	require.Equal(t, uint(7), response.Data.User.ID)
}

func TestAuthHandler_RegisterDuplicateEmail(t *testing.T) {
	svc := &mockAuthService{registerErr: service.ErrEmailTaken}
	app := fiber.New()
	handler.NewAuthHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/auth"))

	body, err := json.Marshal(dto.RegisterRequest{Email: "dina@example.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestAuthHandler_LoginRejectsBadCredentials(t *testing.T) {
	svc := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	app := fiber.New()
	handler.NewAuthHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/auth"))

	body, err := json.Marshal(dto.LoginRequest{Email: "dina@example.com", Password: "wrong"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	svc := &mockAuthService{}
	app := fiber.New()
	handler.NewAuthHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/auth"))

	body, err := json.Marshal(dto.RefreshRequest{RefreshToken: "old-refresh"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh-token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.AuthResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	require.Equal(t, "fresh-access", response.Data.AccessToken)
	require.Equal(t, "fresh-refresh", response.Data.RefreshToken)
}

func TestAuthHandler_RefreshTokenRejected(t *testing.T) {
	svc := &mockAuthService{refreshErr: service.ErrInvalidRefreshToken}
	app := fiber.New()
	handler.NewAuthHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/auth"))

	body, err := json.Marshal(dto.RefreshRequest{RefreshToken: "garbage"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh-token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh-token", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAuthHandler_Logout(t *testing.T) {
	app := fiber.New()
	handler.NewAuthHandler(&mockAuthService{}, zerolog.New(io.Discard)).Register(app.Group("/api/v1/auth"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
