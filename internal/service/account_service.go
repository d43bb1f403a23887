package service

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
)

const (
	defaultAccountIcon  = "wallet"
	defaultAccountColor = "#2563EB"
)

// AccountService handles account business logic.
type AccountService struct {
	store    storage.Store
	operator *operator.OperatorDelegator
}

// NewAccountService creates a new AccountService.
func NewAccountService(store storage.Store, op *operator.OperatorDelegator) *AccountService {
	return &AccountService{store: store, operator: op}
}

// ListAccounts returns all accounts.
func (s *AccountService) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]Account, len(rows))
	for i, row := range rows {
		result[i] = accountFromStorage(row)
	}
	return result, nil
}

// GetAccount retrieves an account by id. An absent id yields a nil result,
// not an error.
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	row, err := s.store.FindAccount(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	account := accountFromStorage(row)
	return &account, nil
}

// CreateAccount creates a new account. Balance always starts at zero; only
// the transaction ledger moves it afterwards. Icon and color fall back to
// defaults when unset.
func (s *AccountService) CreateAccount(ctx context.Context, create storage.AccountCreate) (*Account, error) {
	create.Balance = decimal.Zero
	if create.Icon == "" {
		create.Icon = defaultAccountIcon
	}
	if create.Color == "" {
		create.Color = defaultAccountColor
	}

	action := &actions.CreateAccount{Create: create}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	account := accountFromStorage(action.Result)
	return &account, nil
}

// UpdateAccount applies a partial patch. Balance is settable here; this is
// the mechanism the transaction ledger itself uses to post deltas. An absent
// id yields a nil result.
func (s *AccountService) UpdateAccount(ctx context.Context, id uuid.UUID, patch storage.AccountPatch) (*Account, error) {
	action := &actions.UpdateAccount{ID: id, Patch: patch}
	if err := s.operator.Process(ctx, action); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	account := accountFromStorage(action.Result)
	return &account, nil
}

// DeleteAccount removes an account and reports whether a record existed.
// Deletion is refused with storage.ErrAccountInUse while any transaction or
// goal link still references the account.
func (s *AccountService) DeleteAccount(ctx context.Context, id uuid.UUID) (bool, error) {
	action := &actions.DeleteAccount{ID: id}
	if err := s.operator.Process(ctx, action); err != nil {
		return false, err
	}
	return action.Deleted, nil
}

// TotalBalance sums all account balances. Credit accounts represent money
// owed, so their balances contribute negatively.
func (s *AccountService) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	rows, err := s.store.ListAccounts(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, row := range rows {
		if row.Type == storage.AccountTypeCredit {
			total = total.Sub(row.Balance)
		} else {
			total = total.Add(row.Balance)
		}
	}
	return total, nil
}
