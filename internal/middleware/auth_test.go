package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"stocksim/internal/domain"
)

const testSecret = "test-secret"

// MockSessionRepository is a mock implementation of domain.SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func invoke(t *testing.T, sessions domain.SessionRepository, configure func(req *http.Request)) (error, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	if configure != nil {
		configure(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	handler := AuthMiddleware(testSecret, sessions)(func(c echo.Context) error {
		nextCalled = true
		return c.NoContent(http.StatusOK)
	})

	return handler(c), nextCalled
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()
	expiresAt := time.Now().Add(time.Hour)

	token, err := GenerateToken(testSecret, userID, sessionID, expiresAt)
	assert.NoError(t, err)

	sessions := new(MockSessionRepository)
	sessions.On("GetByID", mock.Anything, sessionID).Return(&domain.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}, nil)

	err, nextCalled := invoke(t, sessions, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.NoError(t, err)
	assert.True(t, nextCalled)
	sessions.AssertExpectations(t)
}

func TestAuthMiddleware_TokenFromCookie(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()
	expiresAt := time.Now().Add(time.Hour)

	token, err := GenerateToken(testSecret, userID, sessionID, expiresAt)
	assert.NoError(t, err)

	sessions := new(MockSessionRepository)
	sessions.On("GetByID", mock.Anything, sessionID).Return(&domain.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}, nil)

	err, nextCalled := invoke(t, sessions, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	})

	assert.NoError(t, err)
	assert.True(t, nextCalled)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	sessions := new(MockSessionRepository)

	err, nextCalled := invoke(t, sessions, nil)

	assert.False(t, nextCalled)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	sessions := new(MockSessionRepository)

	err, nextCalled := invoke(t, sessions, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer not-a-token")
	})

	assert.False(t, nextCalled)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthMiddleware_RevokedSession(t *testing.T) {
	// A signed, unexpired token whose session row is gone (logout)
	userID := uuid.New()
	sessionID := uuid.New()

	token, err := GenerateToken(testSecret, userID, sessionID, time.Now().Add(time.Hour))
	assert.NoError(t, err)

	sessions := new(MockSessionRepository)
	sessions.On("GetByID", mock.Anything, sessionID).Return(nil, domain.ErrNotFound)

	err, nextCalled := invoke(t, sessions, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.False(t, nextCalled)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthMiddleware_ExpiredSessionRow(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()

	token, err := GenerateToken(testSecret, userID, sessionID, time.Now().Add(time.Hour))
	assert.NoError(t, err)

	sessions := new(MockSessionRepository)
	sessions.On("GetByID", mock.Anything, sessionID).Return(&domain.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)

	err, nextCalled := invoke(t, sessions, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.False(t, nextCalled)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestGenerateAndParseToken(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()

	token, err := GenerateToken(testSecret, userID, sessionID, time.Now().Add(time.Hour))
	assert.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, sessionID.String(), claims.RegisteredClaims.ID)

	// Wrong secret must not verify
	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}
