package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"claritybooks/ai"
	"claritybooks/auth"
	"claritybooks/db"
	"claritybooks/i18n"
	"claritybooks/models"

	"github.com/shopspring/decimal"
)

type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func sendJSONResponse(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func getAPISession(r *http.Request) (auth.Session, bool) {
	token := r.Header.Get("X-API-Token")
	if token == "" {
		return auth.Session{}, false
	}
	return auth.GetAPISession(token)
}

func APILoginHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	if r.Method != http.MethodPost {
		sendJSONResponse(w, http.StatusMethodNotAllowed, APIResponse{Status: "error", Message: i18n.T(lang, "MethodNotAllowed")})
		return
	}

	ip := getClientIP(r)
	if !loginLimiter.Allow(ip) {
		sendJSONResponse(w, http.StatusTooManyRequests, APIResponse{Status: "error", Message: i18n.T(lang, "TooManyAttempts")})
		return
	}

	var input struct {
		LoginKey string `json:"login_key"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidRequestBody")})
		return
	}

	session, err := auth.Login(input.LoginKey, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrStorageUnavailable) {
			sendJSONResponse(w, http.StatusServiceUnavailable, APIResponse{Status: "error", Message: i18n.T(lang, "ServiceUnavailable")})
			return
		}
		// One message for unknown keys and wrong passwords alike.
		loginLimiter.RecordFailure(ip)
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidCredentials")})
		return
	}

	loginLimiter.Reset(ip)

	token := auth.CreateAPIToken(session.UserID, session.Role)

	sendJSONResponse(w, http.StatusOK, APIResponse{
		Status: "success",
		Data: map[string]any{
			"token":        token,
			"user_id":      session.UserID,
			"login_key":    session.LoginKey,
			"display_name": session.DisplayName,
			"role":         session.Role,
		},
	})
}

func APISignupHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	if r.Method != http.MethodPost {
		sendJSONResponse(w, http.StatusMethodNotAllowed, APIResponse{Status: "error", Message: i18n.T(lang, "MethodNotAllowed")})
		return
	}

	ip := getClientIP(r)
	if !signupLimiter.Allow(ip) {
		sendJSONResponse(w, http.StatusTooManyRequests, APIResponse{Status: "error", Message: i18n.T(lang, "TooManyAttempts")})
		return
	}

	var input struct {
		LoginKey    string `json:"login_key"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidRequestBody")})
		return
	}

	user, err := auth.Register(input.LoginKey, input.Password, input.DisplayName, "")
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDuplicateKey):
			sendJSONResponse(w, http.StatusConflict, APIResponse{Status: "error", Message: i18n.T(lang, "EmailAlreadyRegistered")})
		case errors.Is(err, auth.ErrWeakPassword):
			sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "PasswordTooShort")})
		case errors.Is(err, auth.ErrStorageUnavailable):
			sendJSONResponse(w, http.StatusServiceUnavailable, APIResponse{Status: "error", Message: i18n.T(lang, "ServiceUnavailable")})
		default:
			sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidSignupInput")})
		}
		return
	}

	// Record signup attempt to limit rate of creation per IP
	signupLimiter.RecordFailure(ip)

	// No token here: registration does not authenticate. Clients call
	// /api/v1/login next.
	sendJSONResponse(w, http.StatusCreated, APIResponse{
		Status: "success",
		Data: map[string]any{
			"id":        user.ID,
			"login_key": user.LoginKey,
			"role":      user.Role,
		},
	})
}

func APIListPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	session, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	properties, err := db.ListProperties(session.UserID)
	if err != nil {
		sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
		return
	}

	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: properties})
}

func APIAddPropertyHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	session, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	var input struct {
		Name        string `json:"name"`
		Address     string `json:"address"`
		MonthlyRent string `json:"monthly_rent"`
		BondBalance string `json:"bond_balance"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidRequestBody")})
		return
	}

	rent, rentErr := decimal.NewFromString(input.MonthlyRent)
	bond, bondErr := decimal.NewFromString(input.BondBalance)
	if input.Name == "" || rentErr != nil || bondErr != nil {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidPropertyInput")})
		return
	}

	id, err := db.InsertProperty(models.Property{
		OwnerID:     session.UserID,
		Name:        input.Name,
		Address:     input.Address,
		MonthlyRent: rent,
		BondBalance: bond,
	})
	if err != nil {
		sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
		return
	}

	sendJSONResponse(w, http.StatusCreated, APIResponse{Status: "success", Data: map[string]int{"id": id}})
}

func APIDeletePropertyHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	session, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	var input struct {
		ID int `json:"id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidRequestBody")})
		return
	}

	if err := db.DeleteProperty(input.ID, session.UserID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			sendJSONResponse(w, http.StatusNotFound, APIResponse{Status: "error", Message: i18n.T(lang, "PropertyNotFound")})
			return
		}
		sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
		return
	}

	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Message: i18n.T(lang, "PropertyDeleted")})
}

func APIListExpensesHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	session, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	expenses, err := db.ListExpenses(session.UserID)
	if err != nil {
		sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
		return
	}

	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: expenses})
}

func APIAddExpenseHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	session, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	var input struct {
		PropertyID int    `json:"property_id"`
		Category   string `json:"category"`
		Amount     string `json:"amount"`
		Date       string `json:"date"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidRequestBody")})
		return
	}

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil || !validCategory(input.Category) {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidExpenseInput")})
		return
	}
	if input.Date == "" {
		input.Date = time.Now().Format("2006-01-02")
	}

	id, err := db.InsertExpense(models.Expense{
		OwnerID:    session.UserID,
		PropertyID: input.PropertyID,
		Category:   input.Category,
		Amount:     amount,
		Date:       input.Date,
	})
	if err != nil {
		sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
		return
	}

	sendJSONResponse(w, http.StatusCreated, APIResponse{Status: "success", Data: map[string]int{"id": id}})
}

func APISummaryHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	session, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	summary, err := db.Summary(session.UserID)
	if err != nil {
		sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
		return
	}

	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: summary})
}

// APIAskHandler forwards a question to the AI broker, optionally with the
// caller's portfolio serialized into the prompt. The response always has
// displayable content; "Offline" in the engine field is the terminal case.
func APIAskHandler(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	if r.Method != http.MethodPost {
		sendJSONResponse(w, http.StatusMethodNotAllowed, APIResponse{Status: "error", Message: i18n.T(lang, "MethodNotAllowed")})
		return
	}
	session, ok := getAPISession(r)
	if !ok {
		sendJSONResponse(w, http.StatusUnauthorized, APIResponse{Status: "error", Message: i18n.T(lang, "Unauthorized")})
		return
	}

	var input struct {
		Question         string `json:"question"`
		IncludePortfolio bool   `json:"include_portfolio"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Question == "" {
		sendJSONResponse(w, http.StatusBadRequest, APIResponse{Status: "error", Message: i18n.T(lang, "InvalidRequestBody")})
		return
	}

	prompt := input.Question
	if input.IncludePortfolio {
		properties, err := db.ListProperties(session.UserID)
		if err != nil {
			sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
			return
		}
		expenses, err := db.ListExpenses(session.UserID)
		if err != nil {
			sendJSONResponse(w, http.StatusInternalServerError, APIResponse{Status: "error", Message: i18n.T(lang, "InternalServerError")})
			return
		}
		prompt = ai.AdvisorPrompt(ai.PortfolioContext(properties, expenses), input.Question)
	}

	answer := broker.Ask(r.Context(), prompt)
	sendJSONResponse(w, http.StatusOK, APIResponse{Status: "success", Data: answer})
}
