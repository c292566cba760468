package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"stocksim/internal/delivery/http/dto"
	"stocksim/internal/domain"
	"stocksim/internal/middleware"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	jwtSecret   string
	sessionTTL  time.Duration
	seedCash    decimal.Decimal
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	jwtSecret string,
	sessionTTL time.Duration,
	seedCash decimal.Decimal,
) *AuthHandler {
	return &AuthHandler{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   jwtSecret,
		sessionTTL:  sessionTTL,
		seedCash:    seedCash,
	}
}

// Register handles user registration
// POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	// Validate input
	if req.Username == "" || req.Password == "" {
		return BadRequestResponse(c, "Username and password are required")
	}
	if req.Password != req.Confirmation {
		return BadRequestResponse(c, "Passwords do not match")
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to hash password")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		Cash:         h.seedCash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index is the source of truth for duplicates; no
	// pre-check, so two racing registrations cannot both win
	if err := h.userRepo.Create(ctx, user); err != nil {
		return DomainErrorResponse(c, err)
	}

	token, err := h.openSession(ctx, c, user.ID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to create session")
	}

	return CreatedResponse(c, dto.AuthResponse{
		Token: token,
		User:  userOutput(user),
	})
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	// Validate input
	if req.Username == "" || req.Password == "" {
		return BadRequestResponse(c, "Username and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		// Unknown username reads as bad credentials; storage faults do not
		if errors.Is(err, domain.ErrNotFound) {
			return DomainErrorResponse(c, domain.ErrAuth)
		}
		return DomainErrorResponse(c, err)
	}

	// bcrypt comparison is constant time for equal-cost hashes
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return DomainErrorResponse(c, domain.ErrAuth)
	}

	token, err := h.openSession(ctx, c, user.ID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to create session")
	}

	return SuccessResponse(c, dto.AuthResponse{
		Token: token,
		User:  userOutput(user),
	})
}

// Logout handles user logout
// POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	// Best effort: revoke the backing session if the caller presented a
	// valid token, then clear the cookie either way
	if cookie, err := c.Cookie(middleware.TokenCookieName); err == nil {
		if claims, err := middleware.ParseToken(h.jwtSecret, cookie.Value); err == nil {
			if sessionID, err := uuid.Parse(claims.RegisteredClaims.ID); err == nil {
				ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
				defer cancel()
				_ = h.sessionRepo.Delete(ctx, sessionID)
			}
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1, // Delete cookie
	})

	return SuccessResponse(c, map[string]string{"message": "Logged out"})
}

// openSession persists a session row, signs a token bound to it, and
// sets the browser cookie.
func (h *AuthHandler) openSession(ctx context.Context, c echo.Context, userID uuid.UUID) (string, error) {
	now := time.Now()
	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    userID,
		ExpiresAt: now.Add(h.sessionTTL),
		CreatedAt: now,
	}

	if err := h.sessionRepo.Create(ctx, session); err != nil {
		return "", err
	}

	token, err := middleware.GenerateToken(h.jwtSecret, userID, session.ID, session.ExpiresAt)
	if err != nil {
		return "", err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.sessionTTL.Seconds()),
	})

	return token, nil
}

func userOutput(user *domain.User) *dto.UserOutput {
	return &dto.UserOutput{
		ID:       user.ID.String(),
		Username: user.Username,
		Cash:     user.Cash.StringFixed(2),
	}
}
