package fnware

import (
	"context"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost defines the computational cost of the bcrypt algorithm.
// Higher values are more secure but slower.
const bcryptCost = 12

// HashPassword generates a bcrypt hash of the given password.
// The resulting hash is safe to store in a database or a BasicAuth account
// table.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies that a plaintext password matches a bcrypt hash.
// Returns nil if the password is correct.
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// BasicAuth returns middleware that validates HTTP basic credentials from
// the event's Authorization header against accounts, a map of username to
// bcrypt hash (see HashPassword).
//
// On success the username is stored on the event for inner stages; on any
// failure the chain is short-circuited with a 401 response.
func BasicAuth(accounts map[string]string) Middleware {
	return func(ctx context.Context, event *Event, next Next) (any, error) {
		authHeader := event.Header("Authorization")

		const prefix = "Basic "
		if !strings.HasPrefix(authHeader, prefix) {
			return Unauthorized("missing basic credentials"), nil
		}

		decoded, err := base64.StdEncoding.DecodeString(authHeader[len(prefix):])
		if err != nil {
			return Unauthorized("invalid basic credentials"), nil
		}

		username, password, ok := strings.Cut(string(decoded), ":")
		if !ok {
			return Unauthorized("invalid basic credentials"), nil
		}

		hash, ok := accounts[username]
		if !ok || CheckPassword(password, hash) != nil {
			return Unauthorized("invalid username or password"), nil
		}

		SetUserID(event, username)

		return next()
	}
}
