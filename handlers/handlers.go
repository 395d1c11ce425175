package handlers

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"claritybooks/ai"
	"claritybooks/auth"
	"claritybooks/config"
	"claritybooks/db"
	"claritybooks/i18n"
	"claritybooks/models"

	"github.com/dchest/captcha"
	"github.com/gorilla/csrf"
	"github.com/shopspring/decimal"
)

// Asker is what the handlers need from the AI query broker.
type Asker interface {
	Ask(ctx context.Context, prompt string) ai.Answer
}

var broker Asker

func RegisterHandlers(mux *http.ServeMux, b Asker) {
	broker = b

	mux.HandleFunc("/", IndexHandler)
	mux.HandleFunc("/login", LoginHandler)
	mux.HandleFunc("/signup", SignupHandler)
	mux.HandleFunc("/logout", LogoutHandler)
	mux.HandleFunc("/dashboard", DashboardHandler)
	mux.HandleFunc("/properties", PropertiesHandler)
	mux.HandleFunc("/properties/add", AddPropertyHandler)
	mux.HandleFunc("/properties/delete", DeletePropertyHandler)
	mux.HandleFunc("/expenses", ExpensesHandler)
	mux.HandleFunc("/expenses/add", AddExpenseHandler)
	mux.HandleFunc("/lease", LeaseHandler)
	mux.HandleFunc("/advisor", AdvisorHandler)
	mux.Handle("/captcha/", captcha.Server(captcha.StdWidth, captcha.StdHeight))

	// Mobile API endpoints (JSON)
	mux.HandleFunc("/api/v1/login", APILoginHandler)
	mux.HandleFunc("/api/v1/signup", APISignupHandler)
	mux.HandleFunc("/api/v1/properties", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			APIListPropertiesHandler(w, r)
		case http.MethodPost:
			APIAddPropertyHandler(w, r)
		case http.MethodDelete:
			APIDeletePropertyHandler(w, r)
		default:
			sendJSONResponse(w, http.StatusMethodNotAllowed, APIResponse{Status: "error", Message: "Method not allowed"})
		}
	})
	mux.HandleFunc("/api/v1/expenses", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			APIListExpensesHandler(w, r)
		case http.MethodPost:
			APIAddExpenseHandler(w, r)
		default:
			sendJSONResponse(w, http.StatusMethodNotAllowed, APIResponse{Status: "error", Message: "Method not allowed"})
		}
	})
	mux.HandleFunc("/api/v1/summary", APISummaryHandler)
	mux.HandleFunc("/api/v1/ask", APIAskHandler)
}

func IndexHandler(w http.ResponseWriter, r *http.Request) {
	if auth.GetUserID(r) != 0 {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "index.html", map[string]any{"AppName": config.AppConfig.AppName})
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		lang := i18n.DetectLanguage(r)
		ip := getClientIP(r)
		if !loginLimiter.Allow(ip) {
			http.Error(w, i18n.T(lang, "TooManyAttempts"), http.StatusTooManyRequests)
			return
		}

		session, err := auth.Login(r.FormValue("login_key"), r.FormValue("password"))
		if err != nil {
			if errors.Is(err, auth.ErrStorageUnavailable) {
				http.Error(w, i18n.T(lang, "ServiceUnavailable"), http.StatusServiceUnavailable)
				return
			}
			// Unknown key and bad password look identical to the user.
			loginLimiter.RecordFailure(ip)
			w.Header().Set("HX-Trigger", "loginError")
			// HTMX doesn't process HX-Trigger on 401/403 by default.
			// We return 200 OK for HTMX requests to ensure the trigger works.
			if r.Header.Get("HX-Request") == "true" {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusUnauthorized)
			}
			return
		}

		loginLimiter.Reset(ip)
		auth.SetSession(w, r, session)
		w.Header().Set("HX-Redirect", "/dashboard")
		return
	}
	renderTemplate(w, r, "login.html", nil)
}

func SignupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		lang := i18n.DetectLanguage(r)
		ip := getClientIP(r)
		if !signupLimiter.Allow(ip) {
			http.Error(w, i18n.T(lang, "TooManyAttempts"), http.StatusTooManyRequests)
			return
		}

		if !captcha.VerifyString(r.FormValue("captcha_id"), r.FormValue("captcha_solution")) {
			w.Header().Set("HX-Retarget", "#error-message")
			w.Write([]byte(i18n.T(lang, "CaptchaFailed")))
			return
		}

		_, err := auth.Register(r.FormValue("login_key"), r.FormValue("password"), r.FormValue("display_name"), "")
		if err != nil {
			w.Header().Set("HX-Retarget", "#error-message")
			w.Write([]byte(i18n.T(lang, registerErrorKey(err))))
			return
		}

		signupLimiter.RecordFailure(ip)

		// Registration never authenticates; the new landlord logs in
		// explicitly.
		w.Header().Set("HX-Redirect", "/login")
		return
	}
	renderTemplate(w, r, "signup.html", map[string]any{"CaptchaID": captcha.New()})
}

func registerErrorKey(err error) string {
	switch {
	case errors.Is(err, auth.ErrDuplicateKey):
		return "EmailAlreadyRegistered"
	case errors.Is(err, auth.ErrWeakPassword):
		return "PasswordTooShort"
	case errors.Is(err, auth.ErrStorageUnavailable):
		return "ServiceUnavailable"
	default:
		return "InvalidSignupInput"
	}
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	session := auth.CurrentSession(r)
	if !session.Authenticated {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	summary, err := db.Summary(session.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	renderTemplate(w, r, "dashboard.html", map[string]any{
		"DisplayName":   session.DisplayName,
		"LoginKey":      session.LoginKey,
		"HasProperties": summary.Properties > 0,
		"GrossRevenue":  formatRand(summary.GrossRevenue),
		"TotalExpenses": formatRand(summary.TotalExpenses),
		"NetProfit":     formatRand(summary.NetProfit),
	})
}

func PropertiesHandler(w http.ResponseWriter, r *http.Request) {
	session := auth.CurrentSession(r)
	if !session.Authenticated {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	properties, err := db.ListProperties(session.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	renderTemplate(w, r, "properties.html", map[string]any{"Properties": properties})
}

func AddPropertyHandler(w http.ResponseWriter, r *http.Request) {
	session := auth.CurrentSession(r)
	if !session.Authenticated || r.Method != http.MethodPost {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	lang := i18n.DetectLanguage(r)

	name := r.FormValue("name")
	address := r.FormValue("address")
	rent, rentErr := decimal.NewFromString(r.FormValue("monthly_rent"))
	bond, bondErr := decimal.NewFromString(r.FormValue("bond_balance"))
	if name == "" || rentErr != nil || bondErr != nil {
		w.Header().Set("HX-Retarget", "#error-message")
		w.Write([]byte(i18n.T(lang, "InvalidPropertyInput")))
		return
	}

	_, err := db.InsertProperty(models.Property{
		OwnerID:     session.UserID,
		Name:        name,
		Address:     address,
		MonthlyRent: rent,
		BondBalance: bond,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("HX-Redirect", "/properties")
}

func DeletePropertyHandler(w http.ResponseWriter, r *http.Request) {
	session := auth.CurrentSession(r)
	if !session.Authenticated || r.Method != http.MethodPost {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if err := db.DeleteProperty(id, session.UserID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("HX-Trigger", "propertyChanged")
	w.WriteHeader(http.StatusOK)
}

func ExpensesHandler(w http.ResponseWriter, r *http.Request) {
	session := auth.CurrentSession(r)
	if !session.Authenticated {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	properties, err := db.ListProperties(session.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	expenses, err := db.ListExpenses(session.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	renderTemplate(w, r, "expenses.html", map[string]any{
		"Properties": properties,
		"Expenses":   expenses,
		"Categories": models.ExpenseCategories,
	})
}

func AddExpenseHandler(w http.ResponseWriter, r *http.Request) {
	session := auth.CurrentSession(r)
	if !session.Authenticated || r.Method != http.MethodPost {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	lang := i18n.DetectLanguage(r)

	propertyID, idErr := strconv.Atoi(r.FormValue("property_id"))
	amount, amountErr := decimal.NewFromString(r.FormValue("amount"))
	category := r.FormValue("category")
	if idErr != nil || amountErr != nil || !validCategory(category) {
		w.Header().Set("HX-Retarget", "#error-message")
		w.Write([]byte(i18n.T(lang, "InvalidExpenseInput")))
		return
	}

	date := r.FormValue("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	_, err := db.InsertExpense(models.Expense{
		OwnerID:    session.UserID,
		PropertyID: propertyID,
		Category:   category,
		Amount:     amount,
		Date:       date,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("HX-Redirect", "/expenses")
}

func validCategory(category string) bool {
	for _, c := range models.ExpenseCategories {
		if c == category {
			return true
		}
	}
	return false
}

// LeaseHandler drafts a lease clause through the AI broker.
func LeaseHandler(w http.ResponseWriter, r *http.Request) {
	session := auth.CurrentSession(r)
	if !session.Authenticated {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	data := map[string]any{"Clauses": ai.LeaseClauses}

	if r.Method == http.MethodPost {
		clause := r.FormValue("clause")
		if !validClause(clause) {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		answer := broker.Ask(r.Context(), ai.LeaseClausePrompt(clause))
		data["Clause"] = clause
		data["Answer"] = answer
	}

	renderTemplate(w, r, "lease.html", data)
}

func validClause(clause string) bool {
	for _, c := range ai.LeaseClauses {
		if c == clause {
			return true
		}
	}
	return false
}

// AdvisorHandler answers a portfolio question: the owner's rows are
// serialized into the prompt before the broker is called.
func AdvisorHandler(w http.ResponseWriter, r *http.Request) {
	session := auth.CurrentSession(r)
	if !session.Authenticated {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	properties, err := db.ListProperties(session.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]any{"HasProperties": len(properties) > 0}

	if r.Method == http.MethodPost && r.FormValue("question") != "" {
		expenses, err := db.ListExpenses(session.UserID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		question := r.FormValue("question")
		prompt := ai.AdvisorPrompt(ai.PortfolioContext(properties, expenses), question)
		answer := broker.Ask(r.Context(), prompt)
		data["Question"] = question
		data["Answer"] = answer
	}

	renderTemplate(w, r, "advisor.html", data)
}

// formatRand renders an amount the way the dashboard shows money.
func formatRand(d decimal.Decimal) string {
	return "R" + d.StringFixed(2)
}

func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	lang := i18n.DetectLanguage(r)

	funcMap := template.FuncMap{
		"T": func(key string) string {
			return i18n.T(lang, key)
		},
	}

	tmpl, err := template.New(name).Funcs(funcMap).ParseFiles("templates/layout.html", "templates/"+name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Prepare CSRF field
	csrfField := csrf.TemplateField(r)

	// If data is a map, ensure AppName and Lang are there
	if m, ok := data.(map[string]any); ok {
		if _, exists := m["AppName"]; !exists {
			m["AppName"] = config.AppConfig.AppName
		}
		m["Lang"] = lang
		m["csrfField"] = csrfField
		m["LoggedIn"] = auth.GetUserID(r) != 0
	} else if data == nil {
		data = map[string]any{
			"AppName":   config.AppConfig.AppName,
			"Lang":      lang,
			"csrfField": csrfField,
			"LoggedIn":  auth.GetUserID(r) != 0,
		}
	}

	tmpl.ExecuteTemplate(w, "layout", data)
}
