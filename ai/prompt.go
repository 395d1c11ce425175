package ai

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"claritybooks/models"
)

// Prompt composition lives with the callers, not the broker: the broker
// only ever sees the final string.

// PortfolioContext serializes the owner's rows into a plain-text table
// the model can read.
func PortfolioContext(properties []models.Property, expenses []models.Expense) string {
	var b strings.Builder

	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROPERTIES")
	fmt.Fprintln(w, "name\taddress\tmonthly_rent\tbond_balance")
	for _, p := range properties {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.Address, p.MonthlyRent.StringFixed(2), p.BondBalance.StringFixed(2))
	}
	if len(expenses) > 0 {
		fmt.Fprintln(w, "EXPENSES")
		fmt.Fprintln(w, "property_id\tcategory\tamount\tdate")
		for _, e := range expenses {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.PropertyID, e.Category, e.Amount.StringFixed(2), e.Date)
		}
	}
	w.Flush()

	return strings.TrimRight(b.String(), "\n")
}

// LeaseClausePrompt asks for a lease clause draft grounded in the Rental
// Housing Act.
func LeaseClausePrompt(clause string) string {
	return fmt.Sprintf("Draft a South African lease clause for %s based on the Rental Housing Act.", clause)
}

// LeaseClauses are the drafting options offered on the lease page.
var LeaseClauses = []string{"Pet Policy", "Late Payment", "Maintenance"}

// AdvisorPrompt prefixes the question with the serialized portfolio.
func AdvisorPrompt(context, question string) string {
	return fmt.Sprintf("Context: %s. Question: %s", context, question)
}
