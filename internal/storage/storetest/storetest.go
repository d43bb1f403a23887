// Package storetest exercises the storage contract against any backend.
// Both backends run the same suite, so every behavior asserted here is one
// the two implementations must agree on.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/storage"
)

// Factory builds a fresh, empty store for one test.
type Factory func(t *testing.T) storage.Store

// Run executes the conformance suite against the given backend.
func Run(t *testing.T, factory Factory) {
	t.Run("AccountLifecycle", func(t *testing.T) { testAccountLifecycle(t, factory(t)) })
	t.Run("AccountOrdering", func(t *testing.T) { testAccountOrdering(t, factory(t)) })
	t.Run("AccountNotFound", func(t *testing.T) { testAccountNotFound(t, factory(t)) })
	t.Run("TransactionLifecycle", func(t *testing.T) { testTransactionLifecycle(t, factory(t)) })
	t.Run("TransactionOrdering", func(t *testing.T) { testTransactionOrdering(t, factory(t)) })
	t.Run("TransactionRequiresAccount", func(t *testing.T) { testTransactionRequiresAccount(t, factory(t)) })
	t.Run("ReplaceAssignments", func(t *testing.T) { testReplaceAssignments(t, factory(t)) })
	t.Run("AssignmentsBatchLookup", func(t *testing.T) { testAssignmentsBatchLookup(t, factory(t)) })
	t.Run("GoalLifecycle", func(t *testing.T) { testGoalLifecycle(t, factory(t)) })
	t.Run("GoalLinks", func(t *testing.T) { testGoalLinks(t, factory(t)) })
	t.Run("AccountReferenced", func(t *testing.T) { testAccountReferenced(t, factory(t)) })
	t.Run("RollbackDiscards", func(t *testing.T) { testRollbackDiscards(t, factory(t)) })
	t.Run("DeleteIdempotent", func(t *testing.T) { testDeleteIdempotent(t, factory(t)) })
}

func write(t *testing.T, store storage.Store) storage.Writer {
	t.Helper()
	w, err := store.Write(context.Background())
	require.NoError(t, err)
	return w
}

func commit(t *testing.T, w storage.Writer) {
	t.Helper()
	require.NoError(t, w.Commit())
}

func makeAccount(t *testing.T, store storage.Store, name string) *storage.Account {
	t.Helper()
	w := write(t, store)
	account, err := w.InsertAccount(context.Background(), &storage.AccountCreate{
		Name:    name,
		Type:    storage.AccountTypeChecking,
		Balance: decimal.Zero,
		Icon:    "wallet",
		Color:   "#000000",
	})
	require.NoError(t, err)
	commit(t, w)
	return account
}

func makeTransaction(t *testing.T, store storage.Store, accountID uuid.UUID, amount string, day int) *storage.Transaction {
	t.Helper()
	w := write(t, store)
	tx, err := w.InsertTransaction(context.Background(), &storage.TransactionCreate{
		AccountID:   accountID,
		Description: "test",
		Amount:      decimal.RequireFromString(amount),
		Date:        time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC),
		Type:        storage.TransactionTypeExpense,
	})
	require.NoError(t, err)
	commit(t, w)
	return tx
}

func testAccountLifecycle(t *testing.T, store storage.Store) {
	ctx := context.Background()

	created := makeAccount(t, store, "Daily")
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Daily", created.Name)
	assert.True(t, created.Balance.IsZero())

	found, err := store.FindAccount(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Daily", found.Name)

	w := write(t, store)
	updated, err := w.UpdateAccount(ctx, created.ID, &storage.AccountPatch{
		Name:    omit.From("Renamed"),
		Balance: omit.From(decimal.RequireFromString("12.50")),
	})
	require.NoError(t, err)
	commit(t, w)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, updated.Balance.Equal(decimal.RequireFromString("12.50")))

	found, err = store.FindAccount(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", found.Name)
	assert.True(t, found.Balance.Equal(decimal.RequireFromString("12.50")))

	w = write(t, store)
	deleted, err := w.DeleteAccount(ctx, created.ID)
	require.NoError(t, err)
	commit(t, w)
	assert.True(t, deleted)

	_, err = store.FindAccount(ctx, created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testAccountOrdering(t *testing.T, store storage.Store) {
	ctx := context.Background()

	makeAccount(t, store, "Zeta")
	makeAccount(t, store, "Alpha")
	makeAccount(t, store, "Mid")

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "Alpha", accounts[0].Name)
	assert.Equal(t, "Mid", accounts[1].Name)
	assert.Equal(t, "Zeta", accounts[2].Name)
}

func testAccountNotFound(t *testing.T, store storage.Store) {
	ctx := context.Background()

	_, err := store.FindAccount(ctx, uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	w := write(t, store)
	defer func() { _ = w.Rollback() }()

	_, err = w.FindAccountForUpdate(ctx, uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = w.UpdateAccount(ctx, uuid.Must(uuid.NewV4()), &storage.AccountPatch{Name: omit.From("x")})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testTransactionLifecycle(t *testing.T, store storage.Store) {
	ctx := context.Background()
	account := makeAccount(t, store, "Main")

	created := makeTransaction(t, store, account.ID, "45.00", 5)
	assert.Equal(t, account.ID, created.AccountID)
	assert.True(t, created.Amount.Equal(decimal.RequireFromString("45.00")))

	found, err := store.FindTransaction(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	w := write(t, store)
	updated, err := w.UpdateTransaction(ctx, created.ID, &storage.TransactionPatch{
		Amount:      omit.From(decimal.RequireFromString("60.00")),
		Description: omit.From("revised"),
	})
	require.NoError(t, err)
	commit(t, w)
	assert.True(t, updated.Amount.Equal(decimal.RequireFromString("60.00")))
	assert.Equal(t, "revised", updated.Description)
	assert.Equal(t, account.ID, updated.AccountID, "owner never changes")

	w = write(t, store)
	deleted, err := w.DeleteTransaction(ctx, created.ID)
	require.NoError(t, err)
	commit(t, w)
	assert.True(t, deleted)

	_, err = store.FindTransaction(ctx, created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testTransactionOrdering(t *testing.T, store storage.Store) {
	ctx := context.Background()
	first := makeAccount(t, store, "A")
	second := makeAccount(t, store, "B")

	oldest := makeTransaction(t, store, first.ID, "1.00", 1)
	newest := makeTransaction(t, store, second.ID, "2.00", 20)
	middle := makeTransaction(t, store, first.ID, "3.00", 10)

	all, err := store.ListTransactions(ctx, &storage.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, newest.ID, all[0].ID)
	assert.Equal(t, middle.ID, all[1].ID)
	assert.Equal(t, oldest.ID, all[2].ID)

	limited, err := store.ListTransactions(ctx, &storage.TransactionFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, newest.ID, limited[0].ID)

	scoped, err := store.ListTransactions(ctx, &storage.TransactionFilter{AccountID: &first.ID})
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	assert.Equal(t, middle.ID, scoped[0].ID)
	assert.Equal(t, oldest.ID, scoped[1].ID)
}

func testTransactionRequiresAccount(t *testing.T, store storage.Store) {
	ctx := context.Background()

	w := write(t, store)
	defer func() { _ = w.Rollback() }()

	_, err := w.InsertTransaction(ctx, &storage.TransactionCreate{
		AccountID: uuid.Must(uuid.NewV4()),
		Amount:    decimal.RequireFromString("5.00"),
		Date:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Type:      storage.TransactionTypeExpense,
	})
	assert.Error(t, err)
}

func testReplaceAssignments(t *testing.T, store storage.Store) {
	ctx := context.Background()
	account := makeAccount(t, store, "Main")
	tx := makeTransaction(t, store, account.ID, "90.00", 3)

	w := write(t, store)
	inserted, err := w.ReplaceAssignments(ctx, tx.ID, []storage.AssignmentCreate{
		{Assignee: "Me", SharePercent: decimal.RequireFromString("33.33")},
		{Assignee: "Alex", SharePercent: decimal.RequireFromString("33.33")},
		{Assignee: "Sam", SharePercent: decimal.RequireFromString("33.34")},
	})
	require.NoError(t, err)
	commit(t, w)
	require.Len(t, inserted, 3)

	listed, err := store.ListAssignments(ctx, tx.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "Me", listed[0].Assignee)
	assert.Equal(t, "Alex", listed[1].Assignee)
	assert.Equal(t, "Sam", listed[2].Assignee)

	// Replacement is wholesale: the old set vanishes.
	w = write(t, store)
	_, err = w.ReplaceAssignments(ctx, tx.ID, []storage.AssignmentCreate{
		{Assignee: "Solo", SharePercent: decimal.RequireFromString("100")},
	})
	require.NoError(t, err)
	commit(t, w)

	listed, err = store.ListAssignments(ctx, tx.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Solo", listed[0].Assignee)

	// Deleting the transaction drops its assignments.
	w = write(t, store)
	_, err = w.DeleteTransaction(ctx, tx.ID)
	require.NoError(t, err)
	commit(t, w)

	listed, err = store.ListAssignments(ctx, tx.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func testAssignmentsBatchLookup(t *testing.T, store storage.Store) {
	ctx := context.Background()
	account := makeAccount(t, store, "Main")
	first := makeTransaction(t, store, account.ID, "10.00", 1)
	second := makeTransaction(t, store, account.ID, "20.00", 2)
	third := makeTransaction(t, store, account.ID, "30.00", 3)

	w := write(t, store)
	_, err := w.ReplaceAssignments(ctx, first.ID, []storage.AssignmentCreate{
		{Assignee: "Me", SharePercent: decimal.RequireFromString("100")},
	})
	require.NoError(t, err)
	_, err = w.ReplaceAssignments(ctx, second.ID, []storage.AssignmentCreate{
		{Assignee: "A", SharePercent: decimal.RequireFromString("50")},
		{Assignee: "B", SharePercent: decimal.RequireFromString("50")},
	})
	require.NoError(t, err)
	commit(t, w)

	byID, err := store.ListAssignmentsFor(ctx, []uuid.UUID{first.ID, second.ID, third.ID})
	require.NoError(t, err)
	assert.Len(t, byID[first.ID], 1)
	assert.Len(t, byID[second.ID], 2)
	assert.Empty(t, byID[third.ID])
}

func testGoalLifecycle(t *testing.T, store storage.Store) {
	ctx := context.Background()

	w := write(t, store)
	created, err := w.InsertGoal(ctx, &storage.GoalCreate{
		Name:          "Holiday",
		TargetAmount:  decimal.RequireFromString("1000"),
		CurrentAmount: decimal.RequireFromString("250"),
		Status:        storage.GoalStatusInProgress,
		Icon:          "target",
		Color:         "#123456",
	})
	require.NoError(t, err)
	commit(t, w)
	assert.NotEqual(t, uuid.Nil, created.ID)

	found, err := store.FindGoal(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Holiday", found.Name)
	assert.True(t, found.CurrentAmount.Equal(decimal.RequireFromString("250")))

	w = write(t, store)
	updated, err := w.UpdateGoal(ctx, created.ID, &storage.GoalPatch{
		CurrentAmount: omit.From(decimal.RequireFromString("1000")),
		Status:        omit.From(storage.GoalStatusCompleted),
	})
	require.NoError(t, err)
	commit(t, w)
	assert.Equal(t, storage.GoalStatusCompleted, updated.Status)

	goals, err := store.ListGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)

	w = write(t, store)
	deleted, err := w.DeleteGoal(ctx, created.ID)
	require.NoError(t, err)
	commit(t, w)
	assert.True(t, deleted)

	_, err = store.FindGoal(ctx, created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testGoalLinks(t *testing.T, store storage.Store) {
	ctx := context.Background()
	first := makeAccount(t, store, "Savings A")
	second := makeAccount(t, store, "Savings B")

	w := write(t, store)
	goal, err := w.InsertGoal(ctx, &storage.GoalCreate{
		Name:         "House",
		TargetAmount: decimal.RequireFromString("5000"),
	})
	require.NoError(t, err)
	require.NoError(t, w.ReplaceGoalLinks(ctx, goal.ID, []uuid.UUID{second.ID, first.ID}))
	commit(t, w)

	links, err := store.GoalLinks(ctx, goal.ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, second.ID, links[0], "insertion order preserved")
	assert.Equal(t, first.ID, links[1])

	// Wholesale replacement.
	w = write(t, store)
	require.NoError(t, w.ReplaceGoalLinks(ctx, goal.ID, []uuid.UUID{first.ID}))
	commit(t, w)

	links, err = store.GoalLinks(ctx, goal.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, first.ID, links[0])

	// Linking a nonexistent account fails the unit.
	w = write(t, store)
	err = w.ReplaceGoalLinks(ctx, goal.ID, []uuid.UUID{uuid.Must(uuid.NewV4())})
	assert.Error(t, err)
	_ = w.Rollback()

	// Deleting the goal drops its links.
	w = write(t, store)
	_, err = w.DeleteGoal(ctx, goal.ID)
	require.NoError(t, err)
	commit(t, w)

	links, err = store.GoalLinks(ctx, goal.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func testAccountReferenced(t *testing.T, store storage.Store) {
	ctx := context.Background()
	byTransaction := makeAccount(t, store, "With transaction")
	byGoal := makeAccount(t, store, "With goal link")
	unreferenced := makeAccount(t, store, "Free")

	makeTransaction(t, store, byTransaction.ID, "5.00", 1)

	w := write(t, store)
	goal, err := w.InsertGoal(ctx, &storage.GoalCreate{
		Name:         "Linked",
		TargetAmount: decimal.RequireFromString("100"),
	})
	require.NoError(t, err)
	require.NoError(t, w.ReplaceGoalLinks(ctx, goal.ID, []uuid.UUID{byGoal.ID}))
	commit(t, w)

	referenced, err := store.AccountReferenced(ctx, byTransaction.ID)
	require.NoError(t, err)
	assert.True(t, referenced)

	referenced, err = store.AccountReferenced(ctx, byGoal.ID)
	require.NoError(t, err)
	assert.True(t, referenced)

	referenced, err = store.AccountReferenced(ctx, unreferenced.ID)
	require.NoError(t, err)
	assert.False(t, referenced)
}

func testRollbackDiscards(t *testing.T, store storage.Store) {
	ctx := context.Background()
	account := makeAccount(t, store, "Stable")

	w := write(t, store)
	_, err := w.UpdateAccount(ctx, account.ID, &storage.AccountPatch{
		Balance: omit.From(decimal.RequireFromString("999.99")),
	})
	require.NoError(t, err)
	_, err = w.InsertTransaction(ctx, &storage.TransactionCreate{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("999.99"),
		Date:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Type:      storage.TransactionTypeIncome,
	})
	require.NoError(t, err)
	require.NoError(t, w.Rollback())

	found, err := store.FindAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, found.Balance.IsZero(), "rolled-back balance write must not leak")

	transactions, err := store.ListTransactions(ctx, &storage.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func testDeleteIdempotent(t *testing.T, store storage.Store) {
	ctx := context.Background()
	account := makeAccount(t, store, "Main")
	tx := makeTransaction(t, store, account.ID, "5.00", 1)

	w := write(t, store)
	deleted, err := w.DeleteTransaction(ctx, tx.ID)
	require.NoError(t, err)
	commit(t, w)
	assert.True(t, deleted)

	w = write(t, store)
	deleted, err = w.DeleteTransaction(ctx, tx.ID)
	require.NoError(t, err)
	commit(t, w)
	assert.False(t, deleted, "second delete reports nothing to do")

	w = write(t, store)
	deleted, err = w.DeleteGoal(ctx, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)
	commit(t, w)
	assert.False(t, deleted)
}
