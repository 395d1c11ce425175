package db

import (
	"fmt"

	"claritybooks/models"
)

// CreateUser inserts a user row and returns its id. The unique index on
// login_key is the source of truth for duplicates; a violation comes back
// as ErrDuplicateKey.
func CreateUser(loginKey, passwordHash, displayName, role string) (int, error) {
	result, err := DB.Exec(
		"INSERT INTO users (login_key, password_hash, display_name, role) VALUES (?, ?, ?, ?)",
		loginKey, passwordHash, displayName, role)
	if err != nil {
		return 0, translateErr(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading insert id: %w", err)
	}
	return int(id), nil
}

// GetUserByLoginKey looks a user up by email, case-insensitively.
func GetUserByLoginKey(loginKey string) (models.User, error) {
	var u models.User
	err := DB.QueryRow(
		"SELECT id, login_key, password_hash, display_name, role, created_at FROM users WHERE LOWER(login_key) = LOWER(?)",
		loginKey).
		Scan(&u.ID, &u.LoginKey, &u.PasswordHash, &u.DisplayName, &u.Role, &u.CreatedAt)
	if err != nil {
		return models.User{}, translateErr(err)
	}
	return u, nil
}
