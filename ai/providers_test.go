package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGeminiGenerate(t *testing.T) {
	var gotPath, gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		var req geminiRequest
		json.Unmarshal(body, &req)
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"generated text"}]}}]}`))
	}))
	defer server.Close()

	g := NewGemini("test-key", "gemini-1.5-flash", server.URL, 5*time.Second)
	text, err := g.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "generated text" {
		t.Errorf("Expected 'generated text', got %q", text)
	}
	if gotPath != "/v1beta/models/gemini-1.5-flash:generateContent" {
		t.Errorf("Unexpected request path: %s", gotPath)
	}
	if gotPrompt != "hello" {
		t.Errorf("Prompt not forwarded, got %q", gotPrompt)
	}
}

func TestGeminiGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	g := NewGemini("test-key", "gemini-1.5-flash", server.URL, 5*time.Second)
	_, err := g.Generate(context.Background(), "hello")
	if err == nil {
		t.Fatal("Expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("Expected quota message in error, got %v", err)
	}
}

func TestGeminiGenerateNoKey(t *testing.T) {
	g := NewGemini("", "gemini-1.5-flash", "http://localhost:1", time.Second)
	if _, err := g.Generate(context.Background(), "hello"); err == nil {
		t.Error("Expected error when no API key is configured")
	}
}

func TestGroqGenerate(t *testing.T) {
	var gotAuth, gotModel, gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		var req groqRequest
		json.Unmarshal(body, &req)
		gotModel = req.Model
		if len(req.Messages) > 0 {
			gotPrompt = req.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"llama says hi"}}]}`))
	}))
	defer server.Close()

	g := NewGroq("groq-key", "llama-3.3-70b-versatile", server.URL, 5*time.Second)
	text, err := g.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "llama says hi" {
		t.Errorf("Expected 'llama says hi', got %q", text)
	}
	if gotAuth != "Bearer groq-key" {
		t.Errorf("Missing bearer token, got %q", gotAuth)
	}
	if gotModel != "llama-3.3-70b-versatile" {
		t.Errorf("Model not forwarded, got %q", gotModel)
	}
	if gotPrompt != "hello" {
		t.Errorf("Prompt not forwarded, got %q", gotPrompt)
	}
}

func TestGroqGenerateEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	g := NewGroq("groq-key", "llama-3.3-70b-versatile", server.URL, 5*time.Second)
	if _, err := g.Generate(context.Background(), "hello"); err == nil {
		t.Error("Expected error for empty choices")
	}
}

func TestProviderUnreachable(t *testing.T) {
	// Closed server: connection refused
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	g := NewGroq("groq-key", "llama-3.3-70b-versatile", url, time.Second)
	if _, err := g.Generate(context.Background(), "hello"); err == nil {
		t.Error("Expected error for unreachable provider")
	}
}
