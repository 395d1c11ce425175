package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Groq calls the Groq OpenAI-compatible chat completions API.
type Groq struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGroq(apiKey, model, baseURL string, timeout time.Duration) *Groq {
	return &Groq{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *Groq) Name() string { return "Groq (Llama 3.3)" }

type groqRequest struct {
	Model    string        `json:"model"`
	Messages []groqMessage `json:"messages"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqResponse struct {
	Choices []struct {
		Message groqMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *Groq) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("groq: no API key configured")
	}

	body := groqRequest{
		Model:    g.model,
		Messages: []groqMessage{{Role: "user", Content: prompt}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := g.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed groqResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("groq: malformed response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("groq: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("groq: unexpected status %s", resp.Status)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("groq: empty response")
	}
	return parsed.Choices[0].Message.Content, nil
}
