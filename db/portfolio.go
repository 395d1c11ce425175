package db

import (
	"claritybooks/models"

	"github.com/shopspring/decimal"
)

// Money columns are stored as TEXT and carried as decimal.Decimal in Go.
// Aggregation happens here, not in SQL, so rand amounts never pass through
// floating point.

func InsertProperty(p models.Property) (int, error) {
	result, err := DB.Exec(
		"INSERT INTO properties (owner_id, name, address, monthly_rent, bond_balance) VALUES (?, ?, ?, ?, ?)",
		p.OwnerID, p.Name, p.Address, p.MonthlyRent.String(), p.BondBalance.String())
	if err != nil {
		return 0, translateErr(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func ListProperties(ownerID int) ([]models.Property, error) {
	rows, err := DB.Query(
		"SELECT id, owner_id, name, address, monthly_rent, bond_balance, created_at FROM properties WHERE owner_id = ? ORDER BY id",
		ownerID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var p models.Property
		var rent, bond string
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Address, &rent, &bond, &p.CreatedAt); err != nil {
			return nil, err
		}
		if p.MonthlyRent, err = decimal.NewFromString(rent); err != nil {
			return nil, err
		}
		if p.BondBalance, err = decimal.NewFromString(bond); err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// DeleteProperty removes the row if it belongs to ownerID. A miss, an
// unknown id or someone else's row alike, is ErrNotFound.
func DeleteProperty(id, ownerID int) error {
	result, err := DB.Exec("DELETE FROM properties WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return translateErr(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func InsertExpense(e models.Expense) (int, error) {
	result, err := DB.Exec(
		"INSERT INTO expenses (owner_id, property_id, category, amount, date) VALUES (?, ?, ?, ?, ?)",
		e.OwnerID, e.PropertyID, e.Category, e.Amount.String(), e.Date)
	if err != nil {
		return 0, translateErr(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func ListExpenses(ownerID int) ([]models.Expense, error) {
	rows, err := DB.Query(
		"SELECT id, owner_id, property_id, category, amount, date FROM expenses WHERE owner_id = ? ORDER BY id",
		ownerID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var amount string
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.PropertyID, &e.Category, &amount, &e.Date); err != nil {
			return nil, err
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// Summary computes the dashboard metrics for one owner: gross monthly
// revenue across properties, total logged expenses, and the difference.
func Summary(ownerID int) (models.PortfolioSummary, error) {
	properties, err := ListProperties(ownerID)
	if err != nil {
		return models.PortfolioSummary{}, err
	}
	expenses, err := ListExpenses(ownerID)
	if err != nil {
		return models.PortfolioSummary{}, err
	}

	s := models.PortfolioSummary{
		Properties:    len(properties),
		GrossRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, p := range properties {
		s.GrossRevenue = s.GrossRevenue.Add(p.MonthlyRent)
	}
	for _, e := range expenses {
		s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
	}
	s.NetProfit = s.GrossRevenue.Sub(s.TotalExpenses)
	return s, nil
}
