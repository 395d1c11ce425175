package ai

import (
	"strings"
	"testing"

	"claritybooks/models"

	"github.com/shopspring/decimal"
)

func TestPortfolioContext(t *testing.T) {
	properties := []models.Property{
		{
			Name:        "Sea Point Flat",
			Address:     "12 Main Rd",
			MonthlyRent: decimal.RequireFromString("8500.5"),
			BondBalance: decimal.RequireFromString("650000"),
		},
	}
	expenses := []models.Expense{
		{PropertyID: 1, Category: "Rates", Amount: decimal.RequireFromString("950"), Date: "2026-08-01"},
	}

	ctx := PortfolioContext(properties, expenses)

	for _, want := range []string{"Sea Point Flat", "12 Main Rd", "8500.50", "650000.00", "Rates", "950.00", "2026-08-01"} {
		if !strings.Contains(ctx, want) {
			t.Errorf("Context missing %q:\n%s", want, ctx)
		}
	}
}

func TestPortfolioContextNoExpenses(t *testing.T) {
	ctx := PortfolioContext(nil, nil)
	if strings.Contains(ctx, "EXPENSES") {
		t.Errorf("Empty expense list should not render an EXPENSES section:\n%s", ctx)
	}
}

func TestLeaseClausePrompt(t *testing.T) {
	p := LeaseClausePrompt("Pet Policy")
	if p != "Draft a South African lease clause for Pet Policy based on the Rental Housing Act." {
		t.Errorf("Unexpected prompt: %q", p)
	}
}

func TestAdvisorPrompt(t *testing.T) {
	p := AdvisorPrompt("the table", "is my rent fair?")
	if p != "Context: the table. Question: is my rent fair?" {
		t.Errorf("Unexpected prompt: %q", p)
	}
}
