package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"claritybooks/db"
)

// Token-based auth for the JSON API (mobile/extension clients). Tokens
// are opaque random strings persisted in the store, so they survive
// server restarts unlike the cookie sessions.

func CreateAPIToken(userID int, role string) string {
	token := generateRandomToken(32)

	_, err := db.DB.Exec("INSERT INTO api_sessions (token, user_id, role) VALUES (?, ?, ?)",
		token, userID, role)
	if err != nil {
		fmt.Printf("Error creating API token in DB: %v\n", err)
		return ""
	}

	return token
}

func GetAPISession(token string) (Session, bool) {
	var s Session
	err := db.DB.QueryRow("SELECT user_id, role FROM api_sessions WHERE token = ?", token).
		Scan(&s.UserID, &s.Role)
	if err != nil {
		return Session{}, false
	}
	s.Authenticated = true
	return s, true
}

func DeleteAPIToken(token string) {
	db.DB.Exec("DELETE FROM api_sessions WHERE token = ?", token)
}

func generateRandomToken(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// If we can't generate random numbers, the system is in a critical state.
		// Panic is appropriate here as we cannot securely continue.
		panic(fmt.Sprintf("critical security error: failed to generate random token: %v", err))
	}
	return base64.URLEncoding.EncodeToString(b)
}
