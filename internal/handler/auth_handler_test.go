package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/campus-timetable-api/internal/dto"
	"github.com/noah-isme/campus-timetable-api/internal/models"
	"github.com/noah-isme/campus-timetable-api/internal/service"
)

type userRepoMock struct {
	user *models.User
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.user == nil || m.user.Email != email {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

func (m *userRepoMock) Create(ctx context.Context, user *models.User) error {
	m.user = user
	return nil
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func newAuthHandlerFixture(t *testing.T) *AuthHandler {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("scheduler-pass-1"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &userRepoMock{user: &models.User{
		ID:           "u-1",
		Email:        "scheduler@example.edu",
		PasswordHash: string(hash),
		Role:         models.RoleScheduler,
		Active:       true,
	}}

	auth := service.NewAuthService(repo, zap.NewNop(), service.AuthConfig{
		Secret:     "test_secret",
		Expiration: time.Hour,
	})
	return NewAuthHandler(auth)
}

func TestAuthHandlerLoginSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAuthHandlerFixture(t)

	payload, _ := json.Marshal(dto.LoginRequest{Email: "scheduler@example.edu", Password: "scheduler-pass-1"})
	c, w := newGinContext(http.MethodPost, "/auth/login", payload)

	handler.Login(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)
	require.Equal(t, "Bearer", envelope.Data.TokenType)
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAuthHandlerFixture(t)

	payload, _ := json.Marshal(dto.LoginRequest{Email: "scheduler@example.edu", Password: "wrong-pass-1"})
	c, w := newGinContext(http.MethodPost, "/auth/login", payload)

	handler.Login(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerLoginBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAuthHandlerFixture(t)

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte(`{"email":"not-an-email"}`))

	handler.Login(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
