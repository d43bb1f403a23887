// Package memory is the process-local storage backend. All records live in
// in-process maps guarded by one RWMutex; a write unit holds the write lock
// from Write until Commit or Rollback, so units are serialized and the
// lost-update interleaving on account balances cannot occur.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/storage"
)

type tables struct {
	accounts     map[uuid.UUID]*storage.Account
	transactions map[uuid.UUID]*storage.Transaction
	assignments  map[uuid.UUID][]*storage.Assignment
	goals        map[uuid.UUID]*storage.Goal
	goalLinks    map[uuid.UUID][]uuid.UUID
}

func newTables() *tables {
	return &tables{
		accounts:     make(map[uuid.UUID]*storage.Account),
		transactions: make(map[uuid.UUID]*storage.Transaction),
		assignments:  make(map[uuid.UUID][]*storage.Assignment),
		goals:        make(map[uuid.UUID]*storage.Goal),
		goalLinks:    make(map[uuid.UUID][]uuid.UUID),
	}
}

// clone deep-copies every record so a write unit never aliases committed state.
func (t *tables) clone() *tables {
	c := newTables()
	for id, a := range t.accounts {
		cp := *a
		c.accounts[id] = &cp
	}
	for id, tx := range t.transactions {
		cp := *tx
		c.transactions[id] = &cp
	}
	for txID, set := range t.assignments {
		cpSet := make([]*storage.Assignment, len(set))
		for i, a := range set {
			cp := *a
			cpSet[i] = &cp
		}
		c.assignments[txID] = cpSet
	}
	for id, g := range t.goals {
		cp := *g
		c.goals[id] = &cp
	}
	for goalID, links := range t.goalLinks {
		c.goalLinks[goalID] = append([]uuid.UUID(nil), links...)
	}
	return c
}

// Store implements storage.Store in memory.
type Store struct {
	mu   sync.RWMutex
	ids  storage.IDGenerator
	now  func() time.Time
	data *tables
}

// NewStore creates an empty in-memory store. A nil ids falls back to random
// UUIDs.
func NewStore(ids storage.IDGenerator) *Store {
	if ids == nil {
		ids = storage.NewRandomID
	}
	return &Store{
		ids:  ids,
		now:  time.Now,
		data: newTables(),
	}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) FindAccount(_ context.Context, id uuid.UUID) (*storage.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.findAccount(id)
}

func (s *Store) ListAccounts(_ context.Context) ([]*storage.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.listAccounts()
}

func (s *Store) AccountReferenced(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.accountReferenced(id)
}

func (s *Store) FindTransaction(_ context.Context, id uuid.UUID) (*storage.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.findTransaction(id)
}

func (s *Store) ListTransactions(_ context.Context, filter *storage.TransactionFilter) ([]*storage.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.listTransactions(filter)
}

func (s *Store) ListAssignments(_ context.Context, transactionID uuid.UUID) ([]*storage.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.listAssignments(transactionID)
}

func (s *Store) ListAssignmentsFor(_ context.Context, transactionIDs []uuid.UUID) (map[uuid.UUID][]*storage.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.listAssignmentsFor(transactionIDs)
}

func (s *Store) FindGoal(_ context.Context, id uuid.UUID) (*storage.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.findGoal(id)
}

func (s *Store) ListGoals(_ context.Context) ([]*storage.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.listGoals()
}

func (s *Store) GoalLinks(_ context.Context, goalID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.linksFor(goalID)
}

// Write locks the store and hands out a writer over a cloned copy of the
// tables. Commit swaps the clone in; Rollback discards it. Either way the
// lock is released exactly once.
func (s *Store) Write(_ context.Context) (storage.Writer, error) {
	s.mu.Lock()
	return &writer{
		store: s,
		data:  s.data.clone(),
	}, nil
}

// -- shared read paths over a tables snapshot --

func (t *tables) findAccount(id uuid.UUID) (*storage.Account, error) {
	a, ok := t.accounts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (t *tables) listAccounts() ([]*storage.Account, error) {
	result := make([]*storage.Account, 0, len(t.accounts))
	for _, a := range t.accounts {
		cp := *a
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, nil
}

func (t *tables) accountReferenced(id uuid.UUID) (bool, error) {
	for _, tx := range t.transactions {
		if tx.AccountID == id {
			return true, nil
		}
	}
	for _, links := range t.goalLinks {
		for _, linked := range links {
			if linked == id {
				return true, nil
			}
		}
	}
	return false, nil
}

func (t *tables) findTransaction(id uuid.UUID) (*storage.Transaction, error) {
	tx, ok := t.transactions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

func (t *tables) listTransactions(filter *storage.TransactionFilter) ([]*storage.Transaction, error) {
	var result []*storage.Transaction
	for _, tx := range t.transactions {
		if filter != nil && filter.AccountID != nil && tx.AccountID != *filter.AccountID {
			continue
		}
		cp := *tx
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	if filter != nil && filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (t *tables) listAssignments(transactionID uuid.UUID) ([]*storage.Assignment, error) {
	set := t.assignments[transactionID]
	result := make([]*storage.Assignment, len(set))
	for i, a := range set {
		cp := *a
		result[i] = &cp
	}
	return result, nil
}

func (t *tables) listAssignmentsFor(transactionIDs []uuid.UUID) (map[uuid.UUID][]*storage.Assignment, error) {
	result := make(map[uuid.UUID][]*storage.Assignment, len(transactionIDs))
	for _, txID := range transactionIDs {
		set, err := t.listAssignments(txID)
		if err != nil {
			return nil, err
		}
		if len(set) > 0 {
			result[txID] = set
		}
	}
	return result, nil
}

func (t *tables) findGoal(id uuid.UUID) (*storage.Goal, error) {
	g, ok := t.goals[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (t *tables) listGoals() ([]*storage.Goal, error) {
	result := make([]*storage.Goal, 0, len(t.goals))
	for _, g := range t.goals {
		cp := *g
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, nil
}

func (t *tables) linksFor(goalID uuid.UUID) ([]uuid.UUID, error) {
	return append([]uuid.UUID(nil), t.goalLinks[goalID]...), nil
}
