package storage

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// AccountType classifies an account.
type AccountType int8

const (
	AccountTypeSavings AccountType = iota
	AccountTypeChecking
	AccountTypeCredit
	AccountTypeInvestment
)

// TransactionType determines the sign of a transaction's balance contribution.
type TransactionType int8

const (
	TransactionTypeIncome TransactionType = iota
	TransactionTypeExpense
)

// GoalStatus tracks progress of a financial goal.
type GoalStatus int8

const (
	GoalStatusPending GoalStatus = iota
	GoalStatusInProgress
	GoalStatusCompleted
)

// Account represents an account record. Balance is a cached quantity owned by
// the transaction ledger; it always equals the net effect of the transactions
// posted against the account.
type Account struct {
	ID          uuid.UUID       `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Type        AccountType     `db:"type"`
	Balance     decimal.Decimal `db:"balance"`
	Icon        string          `db:"icon"`
	Color       string          `db:"color"`
	CreatedAt   time.Time       `db:"created_at"`
}

// Transaction represents a transaction record. Amount is strictly positive;
// Type determines whether it adds to or subtracts from the account balance.
type Transaction struct {
	ID          uuid.UUID       `db:"id"`
	AccountID   uuid.UUID       `db:"account_id"`
	Description string          `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
	Date        time.Time       `db:"transaction_date"`
	Category    string          `db:"category"`
	Type        TransactionType `db:"type"`
	Icon        string          `db:"icon"`
	CreatedAt   time.Time       `db:"created_at"`
}

// SignedAmount returns a transaction's contribution to its account balance:
// +amount for income, -amount for expense.
func SignedAmount(transactionType TransactionType, amount decimal.Decimal) decimal.Decimal {
	if transactionType == TransactionTypeExpense {
		return amount.Neg()
	}
	return amount
}

// SignedAmount returns the transaction's contribution to its account balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	return SignedAmount(t.Type, t.Amount)
}

// Assignment represents one share of a transaction attributed to an assignee.
type Assignment struct {
	ID            uuid.UUID       `db:"id"`
	TransactionID uuid.UUID       `db:"transaction_id"`
	Assignee      string          `db:"assignee"`
	SharePercent  decimal.Decimal `db:"share_percent"`
}

// DeriveGoalStatus computes a goal's status from an amount saved toward a
// target: completed at or past the target, in-progress for anything above
// zero, pending otherwise.
func DeriveGoalStatus(current, target decimal.Decimal) GoalStatus {
	if current.GreaterThanOrEqual(target) {
		return GoalStatusCompleted
	}
	if current.IsPositive() {
		return GoalStatusInProgress
	}
	return GoalStatusPending
}

// Goal represents a financial goal record. CurrentAmount is stored truth only
// while the goal has no linked accounts; with links the linked balances win.
type Goal struct {
	ID            uuid.UUID       `db:"id"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	TargetAmount  decimal.Decimal `db:"target_amount"`
	CurrentAmount decimal.Decimal `db:"current_amount"`
	TargetDate    time.Time       `db:"target_date"`
	Status        GoalStatus      `db:"status"`
	Icon          string          `db:"icon"`
	Color         string          `db:"color"`
	CreatedAt     time.Time       `db:"created_at"`
}
