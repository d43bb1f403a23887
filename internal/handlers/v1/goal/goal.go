package goal

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
)

// Goal is the API response model for a goal. For a goal with linked accounts,
// CurrentAmount and Status reflect the linked balances.
type Goal struct {
	ID               string        `json:"id" doc:"Goal UUID"`
	Name             string        `json:"name" doc:"Display name"`
	Description      string        `json:"description,omitempty" doc:"Description"`
	TargetAmount     string        `json:"targetAmount" doc:"Decimal target amount"`
	CurrentAmount    string        `json:"currentAmount" doc:"Decimal amount saved so far"`
	TargetDate       string        `json:"targetDate,omitempty" doc:"Target date, YYYY-MM-DD"`
	Status           string        `json:"status" enum:"pending,in_progress,completed" doc:"Goal status"`
	Icon             string        `json:"icon" doc:"Display icon"`
	Color            string        `json:"color" doc:"Display color"`
	LinkedAccountIDs []string      `json:"linkedAccountIDs,omitempty" doc:"Linked account UUIDs"`
	LinkedAccounts   []GoalAccount `json:"linkedAccounts,omitempty" doc:"Linked accounts feeding this goal"`
}

// GoalAccount is the slim account view embedded in a goal response.
type GoalAccount struct {
	ID      string `json:"id" doc:"Account UUID"`
	Name    string `json:"name" doc:"Display name"`
	Balance string `json:"balance" doc:"Current balance"`
}

const dateLayout = "2006-01-02"

func goalToWire(g service.Goal) Goal {
	result := Goal{
		ID:            g.ID.String(),
		Name:          g.Name,
		Description:   g.Description,
		TargetAmount:  g.TargetAmount.StringFixed(2),
		CurrentAmount: g.CurrentAmount.StringFixed(2),
		Status:        goalStatusToString(g.Status),
		Icon:          g.Icon,
		Color:         g.Color,
	}
	if !g.TargetDate.IsZero() {
		result.TargetDate = g.TargetDate.Format(dateLayout)
	}
	if len(g.LinkedAccountIDs) > 0 {
		result.LinkedAccountIDs = make([]string, len(g.LinkedAccountIDs))
		for i, id := range g.LinkedAccountIDs {
			result.LinkedAccountIDs[i] = id.String()
		}
	}
	if len(g.LinkedAccounts) > 0 {
		result.LinkedAccounts = make([]GoalAccount, len(g.LinkedAccounts))
		for i, account := range g.LinkedAccounts {
			result.LinkedAccounts[i] = GoalAccount{
				ID:      account.ID.String(),
				Name:    account.Name,
				Balance: account.Balance.StringFixed(2),
			}
		}
	}
	return result
}

func goalStatusToString(s storage.GoalStatus) string {
	switch s {
	case storage.GoalStatusInProgress:
		return "in_progress"
	case storage.GoalStatusCompleted:
		return "completed"
	}
	return "pending"
}

func parseGoalStatus(s string) (storage.GoalStatus, error) {
	switch s {
	case "pending":
		return storage.GoalStatusPending, nil
	case "in_progress":
		return storage.GoalStatusInProgress, nil
	case "completed":
		return storage.GoalStatusCompleted, nil
	}
	return 0, fmt.Errorf("unknown goal status %q", s)
}

// parseLinks converts an optional linked-account list. nil stays nil so the
// service can tell "leave the set alone" from "replace with this set".
func parseLinks(raw *[]string) (*[]uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	links := make([]uuid.UUID, len(*raw))
	for i, s := range *raw {
		id, err := uuid.FromString(s)
		if err != nil {
			return nil, fmt.Errorf("linked account %d: %w", i, err)
		}
		links[i] = id
	}
	return &links, nil
}

// mapServiceError converts validation failures into 422 responses and leaves
// everything else as a 500.
func mapServiceError(err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrTargetAmountNotPositive),
		errors.Is(err, service.ErrCurrentAmountNegative):
		return huma.NewError(http.StatusUnprocessableEntity, err.Error())
	}
	return huma.NewError(http.StatusInternalServerError, fallback, err)
}
