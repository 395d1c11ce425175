package auth

import (
	"crypto/sha256"
	"net/http"

	"claritybooks/config"

	"github.com/gorilla/sessions"
)

var Store *sessions.CookieStore

const SessionName = "claritybooks-session"

func InitStore() {
	// Derive two 32-byte keys from the session key to ensure secure encryption
	// Auth key for signing (HMAC)
	authKey := sha256.Sum256([]byte(config.AppConfig.SessionKey + "auth"))
	// Encryption key for content encryption (AES)
	encKey := sha256.Sum256([]byte(config.AppConfig.SessionKey + "encryption"))

	Store = sessions.NewCookieStore(authKey[:], encKey[:])

	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   config.AppConfig.ListenPort != 8080, // Default to true unless dev port
		SameSite: http.SameSiteLaxMode,
	}
}

// SetSession writes the authenticated session into the cookie.
func SetSession(w http.ResponseWriter, r *http.Request, s Session) {
	session, _ := Store.Get(r, SessionName)
	session.Values["userID"] = s.UserID
	session.Values["loginKey"] = s.LoginKey
	session.Values["displayName"] = s.DisplayName
	session.Values["role"] = s.Role
	session.Save(r, w)
}

// CurrentSession rebuilds the Session value from the request cookie. A
// request without a valid cookie yields the zero (unauthenticated) value.
func CurrentSession(r *http.Request) Session {
	session, _ := Store.Get(r, SessionName)
	id, ok := session.Values["userID"].(int)
	if !ok || id == 0 {
		return Session{}
	}
	s := Session{Authenticated: true, UserID: id}
	s.LoginKey, _ = session.Values["loginKey"].(string)
	s.DisplayName, _ = session.Values["displayName"].(string)
	s.Role, _ = session.Values["role"].(string)
	return s
}

func GetUserID(r *http.Request) int {
	return CurrentSession(r).UserID
}

func ClearSession(w http.ResponseWriter, r *http.Request) {
	session, _ := Store.Get(r, SessionName)
	session.Options.MaxAge = -1
	session.Save(r, w)
}
