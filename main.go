package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"claritybooks/ai"
	"claritybooks/auth"
	"claritybooks/config"
	"claritybooks/db"
	"claritybooks/handlers"
	"claritybooks/i18n"

	"github.com/gorilla/csrf"
)

func main() {
	if err := config.LoadConfig("config.json"); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	if err := i18n.LoadTranslations("i18n"); err != nil {
		log.Fatalf("Error loading translations: %v", err)
	}

	auth.InitStore()

	db.InitDB(config.AppConfig.DBPath)
	defer db.DB.Close()

	// Gemini first, Groq second; the order is fixed and the broker never
	// races them.
	gemini := ai.NewGemini(
		config.AppConfig.Gemini.APIKey,
		config.AppConfig.Gemini.Model,
		config.AppConfig.Gemini.BaseURL,
		time.Duration(config.AppConfig.Gemini.TimeoutSeconds)*time.Second,
	)
	groq := ai.NewGroq(
		config.AppConfig.Groq.APIKey,
		config.AppConfig.Groq.Model,
		config.AppConfig.Groq.BaseURL,
		time.Duration(config.AppConfig.Groq.TimeoutSeconds)*time.Second,
	)
	broker := ai.NewBroker(gemini, groq)

	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Register application handlers
	handlers.RegisterHandlers(mux, broker)

	addr := fmt.Sprintf("%s:%d", config.AppConfig.ListenIP, config.AppConfig.ListenPort)
	log.Printf("Server starting on %s (%s)", addr, config.AppConfig.AppName)

	// CSRF Protection
	// We need a 32-byte key. Using session key for now, assuming it's suitable.
	// In production, this should be a separate key.
	csrfMiddleware := csrf.Protect(
		[]byte(config.AppConfig.SessionKey),
		csrf.Secure(false), // Set to true in production with HTTPS
		csrf.Path("/"),
	)

	// CSRF guards the HTML forms only; the JSON API authenticates with
	// X-API-Token and must stay reachable without a form token.
	handler := handlers.SecurityHeadersMiddleware(handlers.CORSMiddleware(handlers.CSRFExemptAPI(csrfMiddleware, mux)))
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
