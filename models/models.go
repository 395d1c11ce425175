package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles. Every self-registered account is a landlord; the tenant role is
// reserved for a future tenant portal.
const (
	RoleLandlord = "landlord"
	RoleTenant   = "tenant"
)

type User struct {
	ID           int       `json:"id"`
	LoginKey     string    `json:"login_key"` // email address, unique
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Property struct {
	ID          int             `json:"id"`
	OwnerID     int             `json:"owner_id"`
	Name        string          `json:"name"`
	Address     string          `json:"address"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
	BondBalance decimal.Decimal `json:"bond_balance"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Expense struct {
	ID         int             `json:"id"`
	OwnerID    int             `json:"owner_id"`
	PropertyID int             `json:"property_id"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"` // YYYY-MM-DD
}

// ExpenseCategories are the fixed choices offered on the expense form.
var ExpenseCategories = []string{"Maintenance", "Rates", "Levies", "Other"}

// PortfolioSummary holds the dashboard metrics for one owner.
type PortfolioSummary struct {
	Properties    int             `json:"properties"`
	GrossRevenue  decimal.Decimal `json:"gross_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
}
