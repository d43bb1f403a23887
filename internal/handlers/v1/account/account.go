package account

import (
	"fmt"

	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
)

// Account is the wire representation of an account.
type Account struct {
	ID          string `json:"id" doc:"Account UUID"`
	Name        string `json:"name" doc:"Display name"`
	Description string `json:"description,omitempty" doc:"Optional description"`
	Type        string `json:"type" enum:"savings,checking,credit,investment" doc:"Account type"`
	Balance     string `json:"balance" doc:"Current balance, 2 decimal places"`
	Icon        string `json:"icon" doc:"Display icon"`
	Color       string `json:"color" doc:"Display color"`
}

func accountToWire(a service.Account) Account {
	return Account{
		ID:          a.ID.String(),
		Name:        a.Name,
		Description: a.Description,
		Type:        accountTypeToString(a.Type),
		Balance:     a.Balance.StringFixed(2),
		Icon:        a.Icon,
		Color:       a.Color,
	}
}

func accountTypeToString(t storage.AccountType) string {
	switch t {
	case storage.AccountTypeSavings:
		return "savings"
	case storage.AccountTypeChecking:
		return "checking"
	case storage.AccountTypeCredit:
		return "credit"
	case storage.AccountTypeInvestment:
		return "investment"
	}
	return "checking"
}

func parseAccountType(s string) (storage.AccountType, error) {
	switch s {
	case "savings":
		return storage.AccountTypeSavings, nil
	case "checking":
		return storage.AccountTypeChecking, nil
	case "credit":
		return storage.AccountTypeCredit, nil
	case "investment":
		return storage.AccountTypeInvestment, nil
	}
	return 0, fmt.Errorf("unknown account type %q", s)
}
