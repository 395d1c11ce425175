// Package auth turns plaintext credentials into stored digests and
// verifies login attempts against them. Storage problems, unknown keys
// and bad passwords are distinct errors here; the HTTP layer is the one
// that collapses the last two into a single user-facing message.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"claritybooks/crypto"
	"claritybooks/db"
	"claritybooks/models"
)

var (
	ErrInvalidInput       = errors.New("auth: invalid input")
	ErrWeakPassword       = errors.New("auth: password too short")
	ErrDuplicateKey       = errors.New("auth: login key already registered")
	ErrNotFound           = errors.New("auth: unknown login key")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrStorageUnavailable = errors.New("auth: storage unavailable")
)

const MinPasswordLength = 8

// Session is the ephemeral record of the authenticated identity. It is
// carried by the caller (cookie or API token), never persisted as-is.
type Session struct {
	Authenticated bool
	UserID        int
	LoginKey      string
	DisplayName   string
	Role          string
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// validLoginKey checks the shape expected of an email address. Anything
// stricter than "@" plus "." rejects real addresses.
func validLoginKey(key string) bool {
	return strings.Contains(key, "@") && strings.Contains(key, ".")
}

// Register validates input in a fixed order (required fields, key format,
// password policy, uniqueness) and inserts the new credential record.
// It never authenticates: logging in stays an explicit, separate step.
func Register(loginKey, password, displayName, role string) (models.User, error) {
	// Stored lowercase so the unique index and the case-insensitive
	// lookup agree on what a duplicate is.
	loginKey = strings.ToLower(strings.TrimSpace(loginKey))
	if loginKey == "" || password == "" {
		return models.User{}, ErrInvalidInput
	}
	if !validLoginKey(loginKey) {
		return models.User{}, ErrInvalidInput
	}
	if err := ValidatePassword(password); err != nil {
		return models.User{}, err
	}
	if role == "" {
		role = models.RoleLandlord
	}
	if role != models.RoleLandlord && role != models.RoleTenant {
		return models.User{}, ErrInvalidInput
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hashing password: %w", err)
	}

	id, err := db.CreateUser(loginKey, hash, displayName, role)
	if err != nil {
		if errors.Is(err, db.ErrDuplicateKey) {
			return models.User{}, ErrDuplicateKey
		}
		return models.User{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return models.User{
		ID:          id,
		LoginKey:    loginKey,
		DisplayName: displayName,
		Role:        role,
	}, nil
}

// Login verifies the credentials and returns an authenticated Session.
// A store failure is never reported as bad credentials.
func Login(loginKey, password string) (Session, error) {
	user, err := db.GetUserByLoginKey(loginKey)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			// Burn a digest check anyway so a miss costs the same as a
			// mismatch.
			crypto.CheckPasswordHash(password, crypto.DummyHash)
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if !crypto.CheckPasswordHash(password, user.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}

	return Session{
		Authenticated: true,
		UserID:        user.ID,
		LoginKey:      user.LoginKey,
		DisplayName:   user.DisplayName,
		Role:          user.Role,
	}, nil
}

// Logout returns the cleared, unauthenticated session. Pure.
func Logout(Session) Session {
	return Session{}
}
