package fnware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "fnware.user_id"

// RequireAuth returns middleware that validates a JWT from the event's
// Authorization header. It expects the format: "Authorization: Bearer <token>"
//
// If the token is valid, the user ID is stored on the event for inner
// stages. If the token is invalid or missing, the chain is short-circuited
// with a 401 response and next is never called.
//
// Usage:
//
//	trg := fnware.New(myHandler).Use(fnware.RequireAuth("your-secret-key"))
func RequireAuth(secret string) Middleware {
	return func(ctx context.Context, event *Event, next Next) (any, error) {
		authHeader := event.Header("Authorization")
		if authHeader == "" {
			return Unauthorized("missing authorization header"), nil
		}

		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return Unauthorized("invalid authorization format"), nil
		}

		userID, err := ValidateJWT(parts[1], secret)
		if err != nil {
			return Unauthorized("invalid token"), nil
		}

		// Hand the user ID to downstream stages
		SetUserID(event, userID)

		return next()
	}
}

// GenerateJWT creates a signed JWT token for the given user ID.
// The token includes standard claims (subject, issued at, expiration).
//
// Example:
//
//	token, err := fnware.GenerateJWT("user123", "secret", 24*time.Hour)
func GenerateJWT(userID string, secret string, expiration time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateJWT parses and validates a JWT token string.
// It verifies the signature, expiration, and extracts the user ID from the
// "sub" claim.
func ValidateJWT(tokenString string, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method is HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	userID, ok := claims["sub"].(string)
	if !ok {
		return "", errors.New("missing user ID in token")
	}

	return userID, nil
}

// SetUserID stores an authenticated user ID on the event.
// This is typically called by authentication middleware.
func SetUserID(e *Event, userID string) {
	e.Set(userIDKey, userID)
}

// UserID extracts the authenticated user ID from the event.
// Returns the user ID and a boolean indicating if it was found.
//
// Call this in handlers protected by RequireAuth or BasicAuth middleware.
func UserID(e *Event) (string, bool) {
	v, ok := e.Get(userIDKey)
	if !ok {
		return "", false
	}
	userID, ok := v.(string)
	return userID, ok
}
