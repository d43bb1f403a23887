package memory

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/storage"
)

var errWriterDone = errors.New("write unit already finished")

// writer mutates a cloned copy of the store's tables. The store's write lock
// is held for the writer's whole lifetime.
type writer struct {
	store *Store
	data  *tables
	done  bool
}

var _ storage.Writer = (*writer)(nil)

func (w *writer) Commit() error {
	if w.done {
		return errWriterDone
	}
	w.done = true
	w.store.data = w.data
	w.store.mu.Unlock()
	return nil
}

func (w *writer) Rollback() error {
	if w.done {
		return errWriterDone
	}
	w.done = true
	w.store.mu.Unlock()
	return nil
}

// -- reads inside the unit observe the uncommitted clone --

func (w *writer) FindAccount(_ context.Context, id uuid.UUID) (*storage.Account, error) {
	return w.data.findAccount(id)
}

// FindAccountForUpdate needs no extra locking here; the unit already holds
// the store's write lock.
func (w *writer) FindAccountForUpdate(_ context.Context, id uuid.UUID) (*storage.Account, error) {
	return w.data.findAccount(id)
}

func (w *writer) ListAccounts(_ context.Context) ([]*storage.Account, error) {
	return w.data.listAccounts()
}

func (w *writer) AccountReferenced(_ context.Context, id uuid.UUID) (bool, error) {
	return w.data.accountReferenced(id)
}

func (w *writer) FindTransaction(_ context.Context, id uuid.UUID) (*storage.Transaction, error) {
	return w.data.findTransaction(id)
}

func (w *writer) ListTransactions(_ context.Context, filter *storage.TransactionFilter) ([]*storage.Transaction, error) {
	return w.data.listTransactions(filter)
}

func (w *writer) ListAssignments(_ context.Context, transactionID uuid.UUID) ([]*storage.Assignment, error) {
	return w.data.listAssignments(transactionID)
}

func (w *writer) ListAssignmentsFor(_ context.Context, transactionIDs []uuid.UUID) (map[uuid.UUID][]*storage.Assignment, error) {
	return w.data.listAssignmentsFor(transactionIDs)
}

func (w *writer) FindGoal(_ context.Context, id uuid.UUID) (*storage.Goal, error) {
	return w.data.findGoal(id)
}

func (w *writer) ListGoals(_ context.Context) ([]*storage.Goal, error) {
	return w.data.listGoals()
}

func (w *writer) GoalLinks(_ context.Context, goalID uuid.UUID) ([]uuid.UUID, error) {
	return w.data.linksFor(goalID)
}

// -- mutations --

// guard rejects use of a writer after Commit or Rollback released the lock.
func (w *writer) guard() error {
	if w.done {
		return errWriterDone
	}
	return nil
}

func (w *writer) InsertAccount(_ context.Context, create *storage.AccountCreate) (*storage.Account, error) {
	if err := w.guard(); err != nil {
		return nil, err
	}
	record := &storage.Account{
		ID:          w.store.ids(),
		Name:        create.Name,
		Description: create.Description,
		Type:        create.Type,
		Balance:     create.Balance,
		Icon:        create.Icon,
		Color:       create.Color,
		CreatedAt:   w.store.now(),
	}
	w.data.accounts[record.ID] = record
	cp := *record
	return &cp, nil
}

func (w *writer) UpdateAccount(_ context.Context, id uuid.UUID, patch *storage.AccountPatch) (*storage.Account, error) {
	if err := w.guard(); err != nil {
		return nil, err
	}
	record, ok := w.data.accounts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if v, ok := patch.Name.Get(); ok {
		record.Name = v
	}
	if v, ok := patch.Description.Get(); ok {
		record.Description = v
	}
	if v, ok := patch.Type.Get(); ok {
		record.Type = v
	}
	if v, ok := patch.Balance.Get(); ok {
		record.Balance = v
	}
	if v, ok := patch.Icon.Get(); ok {
		record.Icon = v
	}
	if v, ok := patch.Color.Get(); ok {
		record.Color = v
	}
	cp := *record
	return &cp, nil
}

func (w *writer) DeleteAccount(_ context.Context, id uuid.UUID) (bool, error) {
	if err := w.guard(); err != nil {
		return false, err
	}
	if _, ok := w.data.accounts[id]; !ok {
		return false, nil
	}
	delete(w.data.accounts, id)
	return true, nil
}

func (w *writer) InsertTransaction(_ context.Context, create *storage.TransactionCreate) (*storage.Transaction, error) {
	if err := w.guard(); err != nil {
		return nil, err
	}
	if _, ok := w.data.accounts[create.AccountID]; !ok {
		return nil, storage.ErrNotFound
	}
	record := &storage.Transaction{
		ID:          w.store.ids(),
		AccountID:   create.AccountID,
		Description: create.Description,
		Amount:      create.Amount,
		Date:        create.Date,
		Category:    create.Category,
		Type:        create.Type,
		Icon:        create.Icon,
		CreatedAt:   w.store.now(),
	}
	w.data.transactions[record.ID] = record
	cp := *record
	return &cp, nil
}

func (w *writer) UpdateTransaction(_ context.Context, id uuid.UUID, patch *storage.TransactionPatch) (*storage.Transaction, error) {
	if err := w.guard(); err != nil {
		return nil, err
	}
	record, ok := w.data.transactions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if v, ok := patch.Description.Get(); ok {
		record.Description = v
	}
	if v, ok := patch.Amount.Get(); ok {
		record.Amount = v
	}
	if v, ok := patch.Date.Get(); ok {
		record.Date = v
	}
	if v, ok := patch.Category.Get(); ok {
		record.Category = v
	}
	if v, ok := patch.Type.Get(); ok {
		record.Type = v
	}
	if v, ok := patch.Icon.Get(); ok {
		record.Icon = v
	}
	cp := *record
	return &cp, nil
}

func (w *writer) DeleteTransaction(_ context.Context, id uuid.UUID) (bool, error) {
	if err := w.guard(); err != nil {
		return false, err
	}
	if _, ok := w.data.transactions[id]; !ok {
		return false, nil
	}
	delete(w.data.transactions, id)
	delete(w.data.assignments, id)
	return true, nil
}

func (w *writer) ReplaceAssignments(_ context.Context, transactionID uuid.UUID, set []storage.AssignmentCreate) ([]*storage.Assignment, error) {
	if err := w.guard(); err != nil {
		return nil, err
	}
	if _, ok := w.data.transactions[transactionID]; !ok {
		return nil, storage.ErrNotFound
	}
	records := make([]*storage.Assignment, len(set))
	for i, entry := range set {
		records[i] = &storage.Assignment{
			ID:            w.store.ids(),
			TransactionID: transactionID,
			Assignee:      entry.Assignee,
			SharePercent:  entry.SharePercent,
		}
	}
	if len(records) == 0 {
		delete(w.data.assignments, transactionID)
	} else {
		w.data.assignments[transactionID] = records
	}
	return w.data.listAssignments(transactionID)
}

func (w *writer) InsertGoal(_ context.Context, create *storage.GoalCreate) (*storage.Goal, error) {
	if err := w.guard(); err != nil {
		return nil, err
	}
	record := &storage.Goal{
		ID:            w.store.ids(),
		Name:          create.Name,
		Description:   create.Description,
		TargetAmount:  create.TargetAmount,
		CurrentAmount: create.CurrentAmount,
		TargetDate:    create.TargetDate,
		Status:        create.Status,
		Icon:          create.Icon,
		Color:         create.Color,
		CreatedAt:     w.store.now(),
	}
	w.data.goals[record.ID] = record
	cp := *record
	return &cp, nil
}

func (w *writer) UpdateGoal(_ context.Context, id uuid.UUID, patch *storage.GoalPatch) (*storage.Goal, error) {
	if err := w.guard(); err != nil {
		return nil, err
	}
	record, ok := w.data.goals[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if v, ok := patch.Name.Get(); ok {
		record.Name = v
	}
	if v, ok := patch.Description.Get(); ok {
		record.Description = v
	}
	if v, ok := patch.TargetAmount.Get(); ok {
		record.TargetAmount = v
	}
	if v, ok := patch.CurrentAmount.Get(); ok {
		record.CurrentAmount = v
	}
	if v, ok := patch.TargetDate.Get(); ok {
		record.TargetDate = v
	}
	if v, ok := patch.Status.Get(); ok {
		record.Status = v
	}
	if v, ok := patch.Icon.Get(); ok {
		record.Icon = v
	}
	if v, ok := patch.Color.Get(); ok {
		record.Color = v
	}
	cp := *record
	return &cp, nil
}

func (w *writer) DeleteGoal(_ context.Context, id uuid.UUID) (bool, error) {
	if err := w.guard(); err != nil {
		return false, err
	}
	if _, ok := w.data.goals[id]; !ok {
		return false, nil
	}
	delete(w.data.goals, id)
	delete(w.data.goalLinks, id)
	return true, nil
}

func (w *writer) ReplaceGoalLinks(_ context.Context, goalID uuid.UUID, accountIDs []uuid.UUID) error {
	if err := w.guard(); err != nil {
		return err
	}
	if _, ok := w.data.goals[goalID]; !ok {
		return storage.ErrNotFound
	}
	for _, accountID := range accountIDs {
		if _, ok := w.data.accounts[accountID]; !ok {
			return storage.ErrNotFound
		}
	}
	if len(accountIDs) == 0 {
		delete(w.data.goalLinks, goalID)
		return nil
	}
	w.data.goalLinks[goalID] = append([]uuid.UUID(nil), accountIDs...)
	return nil
}
