package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeadersMiddleware(okHandler())

	req := httptest.NewRequest("GET", "/dashboard", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	checks := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "SAMEORIGIN",
		"X-XSS-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
		"Cache-Control":          "no-store, no-cache, must-revalidate",
	}
	for header, want := range checks {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}

	csp := w.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "default-src 'self'") {
		t.Errorf("CSP missing default-src: %q", csp)
	}
	if !strings.Contains(csp, "https://unpkg.com") {
		t.Errorf("CSP does not allow the htmx CDN: %q", csp)
	}
}

func TestSecurityHeadersStaticIsCacheable(t *testing.T) {
	handler := SecurityHeadersMiddleware(okHandler())

	req := httptest.NewRequest("GET", "/static/style.css", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Cache-Control"); got != "" {
		t.Errorf("Static asset got Cache-Control %q, want none", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("Static asset lost security headers: nosniff = %q", got)
	}
}

func TestCSRFExemptAPISkipsJSONRoutes(t *testing.T) {
	// A protect wrapper that rejects everything, the way an unsatisfied
	// CSRF check would
	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
	handler := CSRFExemptAPI(deny, okHandler())

	// Token-authenticated API posts reach the mux without a form token
	req := httptest.NewRequest("POST", "/api/v1/login", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("API route expected 200 past the CSRF wrap, got %d", w.Code)
	}

	// HTML form posts stay protected
	req = httptest.NewRequest("POST", "/login", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("HTML route expected 403 from the CSRF wrap, got %d", w.Code)
	}
}

func TestCORSEchoesOrigin(t *testing.T) {
	handler := CORSMiddleware(okHandler())

	req := httptest.NewRequest("GET", "/api/v1/summary", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Allow-Origin = %q, want the request origin", got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "X-API-Token") {
		t.Error("Allow-Headers does not include X-API-Token")
	}
}

func TestCORSWildcardWithoutOrigin(t *testing.T) {
	handler := CORSMiddleware(okHandler())

	req := httptest.NewRequest("GET", "/api/v1/summary", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	handler := CORSMiddleware(next)

	req := httptest.NewRequest("OPTIONS", "/api/v1/properties", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Preflight expected 200, got %d", w.Code)
	}
	if called {
		t.Error("Preflight request reached the next handler")
	}
}
