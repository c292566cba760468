package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"stocksim/internal/domain"
)

// TokenCookieName is the cookie carrying the session token.
const TokenCookieName = "token"

// JWTClaims represents the session token claims. The registered ID
// (jti) is the session row's primary key; a token is only accepted
// while that row exists.
type JWTClaims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateToken generates a signed token bound to a session
func GenerateToken(secret string, userID, sessionID uuid.UUID, expiresAt time.Time) (string, error) {
	claims := &JWTClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token string and returns its claims
func ParseToken(secret, tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// AuthMiddleware validates the session token and sets user context.
// Beyond signature and expiry it requires the backing session row to
// still exist, so logged-out tokens are rejected immediately.
func AuthMiddleware(secret string, sessions domain.SessionRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := extractToken(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication token")
			}

			claims, err := ParseToken(secret, tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			sessionID, err := uuid.Parse(claims.RegisteredClaims.ID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token claims")
			}

			session, err := sessions.GetByID(c.Request().Context(), sessionID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Session revoked")
			}
			if session.Expired(time.Now()) || session.UserID != claims.UserID {
				return echo.NewHTTPError(http.StatusUnauthorized, "Session expired")
			}

			// Set user context
			c.Set("user_id", claims.UserID)
			c.Set("session_id", sessionID)

			return next(c)
		}
	}
}

// extractToken pulls the token from the Authorization header or, for
// browser callers, the session cookie.
func extractToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := c.Cookie(TokenCookieName)
		if err != nil {
			return "", fmt.Errorf("no token provided")
		}
		authHeader = "Bearer " + cookie.Value
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("invalid authorization header format")
	}

	return parts[1], nil
}

// GetUserID extracts user ID from echo context
func GetUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("user_id not found in context")
	}
	return userID, nil
}

// GetSessionID extracts session ID from echo context
func GetSessionID(c echo.Context) (uuid.UUID, error) {
	sessionID, ok := c.Get("session_id").(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("session_id not found in context")
	}
	return sessionID, nil
}
