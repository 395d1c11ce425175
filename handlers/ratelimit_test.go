package handlers

import (
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter() *rateLimiter {
	return &rateLimiter{
		attempts: make(map[string]*attemptData),
		blocked:  make(map[string]time.Time),
	}
}

func TestRateLimiterBlocksAfterMaxAttempts(t *testing.T) {
	rl := newTestLimiter()
	ip := "203.0.113.10"

	for i := 0; i < maxAttempts; i++ {
		if !rl.Allow(ip) {
			t.Fatalf("Blocked after %d failures, expected %d allowed", i, maxAttempts)
		}
		rl.RecordFailure(ip)
	}

	if rl.Allow(ip) {
		t.Errorf("Expected IP to be blocked after %d failures", maxAttempts)
	}
}

func TestRateLimiterResetClearsBlock(t *testing.T) {
	rl := newTestLimiter()
	ip := "203.0.113.11"

	for i := 0; i < maxAttempts; i++ {
		rl.RecordFailure(ip)
	}
	if rl.Allow(ip) {
		t.Fatal("Expected IP to be blocked")
	}

	rl.Reset(ip)

	if !rl.Allow(ip) {
		t.Error("Reset did not unblock the IP")
	}
}

func TestRateLimiterIsolatesIPs(t *testing.T) {
	rl := newTestLimiter()

	for i := 0; i < maxAttempts; i++ {
		rl.RecordFailure("203.0.113.12")
	}

	if !rl.Allow("203.0.113.13") {
		t.Error("Failures from one IP blocked another")
	}
}

func TestRateLimiterExpiredBlockIsLifted(t *testing.T) {
	rl := newTestLimiter()
	ip := "203.0.113.14"

	rl.blocked[ip] = time.Now().Add(-time.Minute)

	if !rl.Allow(ip) {
		t.Error("Expired block was not lifted")
	}
	if _, ok := rl.blocked[ip]; ok {
		t.Error("Expired block was not cleaned up")
	}
}

func TestRateLimiterWindowRestartsCount(t *testing.T) {
	rl := newTestLimiter()
	ip := "203.0.113.15"

	rl.RecordFailure(ip)
	// Age the window past its duration; the next failure starts over
	rl.attempts[ip].firstAttempt = time.Now().Add(-windowDuration - time.Minute)
	rl.RecordFailure(ip)

	if rl.attempts[ip].count != 1 {
		t.Errorf("Expected count restarted at 1, got %d", rl.attempts[ip].count)
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "198.51.100.7:54321"
	if ip := getClientIP(req); ip != "198.51.100.7" {
		t.Errorf("Expected 198.51.100.7, got %q", ip)
	}

	// No port: returned as-is
	req.RemoteAddr = "198.51.100.8"
	if ip := getClientIP(req); ip != "198.51.100.8" {
		t.Errorf("Expected 198.51.100.8, got %q", ip)
	}
}
