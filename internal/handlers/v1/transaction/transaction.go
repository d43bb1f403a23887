package transaction

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
)

// Transaction is the API response model for a transaction, including its
// assignment set. It is used only for responses, not for request bodies.
type Transaction struct {
	ID          string       `json:"id" doc:"Transaction UUID"`
	AccountID   string       `json:"accountID" doc:"Owning account UUID"`
	Description string       `json:"description" doc:"Description"`
	Amount      string       `json:"amount" doc:"Decimal amount, always positive"`
	Date        string       `json:"date" doc:"Transaction date, YYYY-MM-DD"`
	Category    string       `json:"category,omitempty" doc:"Category label"`
	Type        string       `json:"type" enum:"income,expense" doc:"Transaction type"`
	Icon        string       `json:"icon,omitempty" doc:"Display icon"`
	Assignments []Assignment `json:"assignments" doc:"Expense shares, summing to 100%"`
}

// Assignment is the API response model for one expense share.
type Assignment struct {
	ID           string `json:"id" doc:"Assignment UUID"`
	Assignee     string `json:"assignee" doc:"Who carries this share"`
	SharePercent string `json:"sharePercent" doc:"Share of the amount, percent"`
}

// AssignmentBody is one entry of an assignment set in a request body.
type AssignmentBody struct {
	Assignee     string `json:"assignee" required:"true" doc:"Who carries this share"`
	SharePercent string `json:"sharePercent" required:"true" doc:"Share of the amount, percent"`
}

const dateLayout = "2006-01-02"

func transactionToWire(t service.Transaction) Transaction {
	result := Transaction{
		ID:          t.ID.String(),
		AccountID:   t.AccountID.String(),
		Description: t.Description,
		Amount:      t.Amount.StringFixed(2),
		Date:        t.Date.Format(dateLayout),
		Category:    t.Category,
		Type:        transactionTypeToString(t.Type),
		Icon:        t.Icon,
		Assignments: make([]Assignment, len(t.Assignments)),
	}
	for i, a := range t.Assignments {
		result.Assignments[i] = Assignment{
			ID:           a.ID.String(),
			Assignee:     a.Assignee,
			SharePercent: a.SharePercent.String(),
		}
	}
	return result
}

func transactionTypeToString(t storage.TransactionType) string {
	if t == storage.TransactionTypeIncome {
		return "income"
	}
	return "expense"
}

func parseTransactionType(s string) (storage.TransactionType, error) {
	switch s {
	case "income":
		return storage.TransactionTypeIncome, nil
	case "expense":
		return storage.TransactionTypeExpense, nil
	}
	return 0, fmt.Errorf("unknown transaction type %q", s)
}

// parseDate accepts a bare date or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if date, err := time.Parse(dateLayout, s); err == nil {
		return date, nil
	}
	return time.Parse(time.RFC3339, s)
}

func parseAssignments(bodies []AssignmentBody) ([]storage.AssignmentCreate, error) {
	set := make([]storage.AssignmentCreate, len(bodies))
	for i, body := range bodies {
		share, err := decimal.NewFromString(body.SharePercent)
		if err != nil {
			return nil, fmt.Errorf("assignment %d: invalid sharePercent: %w", i, err)
		}
		set[i] = storage.AssignmentCreate{Assignee: body.Assignee, SharePercent: share}
	}
	return set, nil
}

// mapServiceError converts validation failures into 422 responses and leaves
// everything else as a 500.
func mapServiceError(err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrAmountNotPositive),
		errors.Is(err, service.ErrDateMissing),
		errors.Is(err, service.ErrAssigneeEmpty),
		errors.Is(err, service.ErrShareOutOfRange),
		errors.Is(err, service.ErrShareSumInvalid):
		return huma.NewError(http.StatusUnprocessableEntity, err.Error())
	}
	return huma.NewError(http.StatusInternalServerError, fallback, err)
}
