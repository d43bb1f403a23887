package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/storage"
)

// Account represents an account in the service layer.
type Account struct {
	ID          uuid.UUID
	Name        string
	Description string
	Type        storage.AccountType
	Balance     decimal.Decimal
	Icon        string
	Color       string
	CreatedAt   time.Time
}

// Assignment is one share of a transaction attributed to an assignee.
type Assignment struct {
	ID           uuid.UUID
	Assignee     string
	SharePercent decimal.Decimal
}

// Transaction is a transaction enriched with its assignment set.
type Transaction struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Category    string
	Type        storage.TransactionType
	Icon        string
	CreatedAt   time.Time
	Assignments []Assignment
}

// Goal is a goal enriched with its linked accounts. For a linked goal,
// CurrentAmount and Status are derived from the linked balances, not read
// from storage.
type Goal struct {
	ID               uuid.UUID
	Name             string
	Description      string
	TargetAmount     decimal.Decimal
	CurrentAmount    decimal.Decimal
	TargetDate       time.Time
	Status           storage.GoalStatus
	Icon             string
	Color            string
	CreatedAt        time.Time
	LinkedAccountIDs []uuid.UUID
	LinkedAccounts   []Account
}

func accountFromStorage(row *storage.Account) Account {
	return Account{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Type:        row.Type,
		Balance:     row.Balance,
		Icon:        row.Icon,
		Color:       row.Color,
		CreatedAt:   row.CreatedAt,
	}
}

func assignmentsFromStorage(rows []*storage.Assignment) []Assignment {
	result := make([]Assignment, len(rows))
	for i, row := range rows {
		result[i] = Assignment{
			ID:           row.ID,
			Assignee:     row.Assignee,
			SharePercent: row.SharePercent,
		}
	}
	return result
}

func transactionFromStorage(row *storage.Transaction, assignments []*storage.Assignment) Transaction {
	return Transaction{
		ID:          row.ID,
		AccountID:   row.AccountID,
		Description: row.Description,
		Amount:      row.Amount,
		Date:        row.Date,
		Category:    row.Category,
		Type:        row.Type,
		Icon:        row.Icon,
		CreatedAt:   row.CreatedAt,
		Assignments: assignmentsFromStorage(assignments),
	}
}

func goalFromStorage(row *storage.Goal) Goal {
	return Goal{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		TargetAmount:  row.TargetAmount,
		CurrentAmount: row.CurrentAmount,
		TargetDate:    row.TargetDate,
		Status:        row.Status,
		Icon:          row.Icon,
		Color:         row.Color,
		CreatedAt:     row.CreatedAt,
	}
}
