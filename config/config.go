package config

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"os"
)

// ProviderConfig configures one text-generation provider.
type ProviderConfig struct {
	APIKey         string `json:"api_key"`
	Model          string `json:"model"`
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type Config struct {
	AppName    string         `json:"app_name"`
	ListenIP   string         `json:"listen_ip"`
	ListenPort int            `json:"listen_port"`
	SessionKey string         `json:"session_key"`
	DBPath     string         `json:"db_path"`
	Gemini     ProviderConfig `json:"gemini"`
	Groq       ProviderConfig `json:"groq"`
}

var AppConfig Config

func LoadConfig(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&AppConfig); err != nil {
		return err
	}

	// Override secrets with environment variables if present
	if envKey := os.Getenv("CLARITY_SESSION_KEY"); envKey != "" {
		AppConfig.SessionKey = envKey
	}
	if envKey := os.Getenv("CLARITY_GEMINI_API_KEY"); envKey != "" {
		AppConfig.Gemini.APIKey = envKey
	}
	if envKey := os.Getenv("CLARITY_GROQ_API_KEY"); envKey != "" {
		AppConfig.Groq.APIKey = envKey
	}

	applyDefaults()

	// If no key is provided or it's the placeholder, generate a secure random one
	if AppConfig.SessionKey == "" || AppConfig.SessionKey == "CHANGE_ME_IN_PRODUCTION" {
		log.Println("WARNING: No session key configured. Generating a random key. Sessions will be invalidated on restart.")
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err != nil {
			return err
		}
		AppConfig.SessionKey = hex.EncodeToString(randomKey)
	}

	return nil
}

func applyDefaults() {
	if AppConfig.DBPath == "" {
		AppConfig.DBPath = "./claritybooks.db"
	}
	if AppConfig.Gemini.Model == "" {
		AppConfig.Gemini.Model = "gemini-1.5-flash"
	}
	if AppConfig.Gemini.BaseURL == "" {
		AppConfig.Gemini.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if AppConfig.Gemini.TimeoutSeconds == 0 {
		AppConfig.Gemini.TimeoutSeconds = 30
	}
	if AppConfig.Groq.Model == "" {
		AppConfig.Groq.Model = "llama-3.3-70b-versatile"
	}
	if AppConfig.Groq.BaseURL == "" {
		AppConfig.Groq.BaseURL = "https://api.groq.com"
	}
	if AppConfig.Groq.TimeoutSeconds == 0 {
		AppConfig.Groq.TimeoutSeconds = 30
	}
}
