package service

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
)

// TransactionService is the transaction ledger. Every mutation couples the
// transaction write, the owning account's balance adjustment, and the
// assignment-set replacement into one atomic unit.
type TransactionService struct {
	store    storage.Store
	operator *operator.OperatorDelegator
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store storage.Store, op *operator.OperatorDelegator) *TransactionService {
	return &TransactionService{store: store, operator: op}
}

// CreateTransaction posts a new transaction and returns it enriched with its
// assignment set. An empty assignment set is stored as a single 100%
// default-assignee record. A nonexistent account yields a nil result.
func (s *TransactionService) CreateTransaction(ctx context.Context, create storage.TransactionCreate, assignments []storage.AssignmentCreate) (*Transaction, error) {
	if !create.Amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	if create.Date.IsZero() {
		return nil, ErrDateMissing
	}
	if err := ValidateAssignments(assignments); err != nil {
		return nil, err
	}

	action := &actions.CreateTransaction{Create: create, Assignments: assignments}
	if err := s.operator.Process(ctx, action); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	result := transactionFromStorage(action.Result, action.ResultAssignments)
	return &result, nil
}

// UpdateTransaction applies a partial patch, netting any balance impact in a
// single adjustment. A non-nil assignments slice wholesale-replaces the
// assignment set; nil leaves it untouched. An absent id yields a nil result.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id uuid.UUID, patch storage.TransactionPatch, assignments *[]storage.AssignmentCreate) (*Transaction, error) {
	if amount, ok := patch.Amount.Get(); ok && !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	if assignments != nil {
		if err := ValidateAssignments(*assignments); err != nil {
			return nil, err
		}
	}

	action := &actions.UpdateTransaction{ID: id, Patch: patch, Assignments: assignments}
	if err := s.operator.Process(ctx, action); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	result := transactionFromStorage(action.Result, action.ResultAssignments)
	return &result, nil
}

// DeleteTransaction reverts the transaction's balance contribution, drops its
// assignments, and deletes it. Reports whether a record existed; deleting a
// nonexistent id alters nothing.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id uuid.UUID) (bool, error) {
	action := &actions.DeleteTransaction{ID: id}
	if err := s.operator.Process(ctx, action); err != nil {
		return false, err
	}
	return action.Deleted, nil
}

// ListTransactions returns transactions most recent first, each enriched with
// its assignment set. Zero limit means no limit.
func (s *TransactionService) ListTransactions(ctx context.Context, limit int) ([]Transaction, error) {
	return s.list(ctx, &storage.TransactionFilter{Limit: limit})
}

// ListTransactionsByAccount returns one account's transactions, most recent
// first, enriched with assignments.
func (s *TransactionService) ListTransactionsByAccount(ctx context.Context, accountID uuid.UUID) ([]Transaction, error) {
	return s.list(ctx, &storage.TransactionFilter{AccountID: &accountID})
}

func (s *TransactionService) list(ctx context.Context, filter *storage.TransactionFilter) ([]Transaction, error) {
	rows, err := s.store.ListTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	assignmentsByID, err := s.store.ListAssignmentsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]Transaction, len(rows))
	for i, row := range rows {
		result[i] = transactionFromStorage(row, assignmentsByID[row.ID])
	}
	return result, nil
}
