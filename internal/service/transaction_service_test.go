package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarondl/opt/omit"

	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
)

// -- CreateTransaction tests --

func TestCreateTransaction_AdjustsBalance(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Main", storage.AccountTypeChecking)

	postTransaction(t, svc, account.ID, storage.TransactionTypeIncome, "100.00")
	postTransaction(t, svc, account.ID, storage.TransactionTypeExpense, "20.00")

	balance := accountBalance(t, svc, account.ID)
	assert.True(t, balance.Equal(decimal.RequireFromString("80.00")), "got %s", balance)
}

func TestCreateTransaction_EmptyAssignmentsNormalized(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Main", storage.AccountTypeChecking)

	tx := postTransaction(t, svc, account.ID, storage.TransactionTypeExpense, "50.00")

	require.Len(t, tx.Assignments, 1)
	assert.Equal(t, actions.DefaultAssignee, tx.Assignments[0].Assignee)
	assert.True(t, tx.Assignments[0].SharePercent.Equal(decimal.NewFromInt(100)))
}

func TestCreateTransaction_SplitAssignments(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Main", storage.AccountTypeChecking)

	tx, err := svc.Transaction.CreateTransaction(context.Background(), storage.TransactionCreate{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("90.00"),
		Date:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Type:      storage.TransactionTypeExpense,
	}, []storage.AssignmentCreate{
		{Assignee: "Me", SharePercent: decimal.RequireFromString("33.33")},
		{Assignee: "Alex", SharePercent: decimal.RequireFromString("33.33")},
		{Assignee: "Sam", SharePercent: decimal.RequireFromString("33.34")},
	})
	require.NoError(t, err)
	require.NotNil(t, tx)

	require.Len(t, tx.Assignments, 3)
	assert.Equal(t, "Me", tx.Assignments[0].Assignee)
	assert.Equal(t, "Alex", tx.Assignments[1].Assignee)
	assert.Equal(t, "Sam", tx.Assignments[2].Assignee)
}

func TestCreateTransaction_InvalidShareSumLeavesStateUntouched(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Main", storage.AccountTypeChecking)

	_, err := svc.Transaction.CreateTransaction(context.Background(), storage.TransactionCreate{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("50.00"),
		Date:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Type:      storage.TransactionTypeExpense,
	}, []storage.AssignmentCreate{
		{Assignee: "Me", SharePercent: decimal.RequireFromString("60")},
		{Assignee: "Alex", SharePercent: decimal.RequireFromString("30")},
	})
	assert.ErrorIs(t, err, ErrShareSumInvalid)

	assert.True(t, accountBalance(t, svc, account.ID).IsZero(), "rejected write must not move the balance")
	transactions, err := svc.Transaction.ListTransactions(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestCreateTransaction_ValidationErrors(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Main", storage.AccountTypeChecking)
	ctx := context.Background()
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Transaction.CreateTransaction(ctx, storage.TransactionCreate{
		AccountID: account.ID,
		Amount:    decimal.Zero,
		Date:      date,
		Type:      storage.TransactionTypeExpense,
	}, nil)
	assert.ErrorIs(t, err, ErrAmountNotPositive)

	_, err = svc.Transaction.CreateTransaction(ctx, storage.TransactionCreate{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("-5"),
		Date:      date,
		Type:      storage.TransactionTypeExpense,
	}, nil)
	assert.ErrorIs(t, err, ErrAmountNotPositive)

	_, err = svc.Transaction.CreateTransaction(ctx, storage.TransactionCreate{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("5"),
		Type:      storage.TransactionTypeExpense,
	}, nil)
	assert.ErrorIs(t, err, ErrDateMissing)

	_, err = svc.Transaction.CreateTransaction(ctx, storage.TransactionCreate{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("5"),
		Date:      date,
		Type:      storage.TransactionTypeExpense,
	}, []storage.AssignmentCreate{
		{Assignee: "  ", SharePercent: decimal.NewFromInt(100)},
	})
	assert.ErrorIs(t, err, ErrAssigneeEmpty)
}

func TestCreateTransaction_UnknownAccount(t *testing.T) {
	svc := newTestService(t)

	tx, err := svc.Transaction.CreateTransaction(context.Background(), storage.TransactionCreate{
		AccountID: uuid.Must(uuid.NewV4()),
		Amount:    decimal.RequireFromString("5"),
		Date:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Type:      storage.TransactionTypeExpense,
	}, nil)
	assert.NoError(t, err)
	assert.Nil(t, tx)
}

// -- UpdateTransaction tests --

func TestUpdateTransaction_NetsBalanceDelta(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Main", storage.AccountTypeChecking)
	tx := postTransaction(t, svc, account.ID, storage.TransactionTypeExpense, "500.00")

	require.True(t, accountBalance(t, svc, account.ID).Equal(decimal.RequireFromString("-500.00")))

	updated, err := svc.Transaction.UpdateTransaction(context.Background(), tx.ID, storage.TransactionPatch{
		Amount: omit.From(decimal.RequireFromString("360.00")),
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.Amount.Equal(decimal.RequireFromString("360.00")))

	balance := accountBalance(t, svc, account.ID)
	assert.True(t, balance.Equal(decimal.RequireFromString("-360.00")), "got %s", balance)
}

func TestUpdateTransaction_TypeFlipAdjustsBalance(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Main", storage.AccountTypeChecking)
	tx := postTransaction(t, svc, account.ID, storage.TransactionTypeExpense, "40.00")

	_, err := svc.Transaction.UpdateTransaction(context.Background(), tx.ID, storage.TransactionPatch{
		Type: omit.From(storage.TransactionTypeIncome),
	}, nil)
	require.NoError(t, err)

	balance := accountBalance(t, svc, account.ID)
	assert.True(t, balance.Equal(decimal.RequireFromString("40.00")), "got %s", balance)
}

func TestUpdateTransaction_NilAssignmentsKeepSet(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Main", storage.AccountTypeChecking)

	tx, err := svc.Transaction.CreateTransaction(context.Background(), storage.TransactionCreate{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("80.00"),
		Date:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Type:      storage.TransactionTypeExpense,
	}, []storage.AssignmentCreate{
		{Assignee: "A", SharePercent: decimal.NewFromInt(50)},
		{Assignee: "B", SharePercent: decimal.NewFromInt(50)},
	})
	require.NoError(t, err)

	updated, err := svc.Transaction.UpdateTransaction(context.Background(), tx.ID, storage.TransactionPatch{
		Description: omit.From("renamed"),
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, updated)

	require.Len(t, updated.Assignments, 2)
	assert.Equal(t, "A", updated.Assignments[0].Assignee)
	assert.Equal(t, "B", updated.Assignments[1].Assignee)
}

func TestUpdateTransaction_ReplacesAssignments(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Main", storage.AccountTypeChecking)
	tx := postTransaction(t, svc, account.ID, storage.TransactionTypeExpense, "80.00")

	replacement := []storage.AssignmentCreate{
		{Assignee: "Alex", SharePercent: decimal.NewFromInt(25)},
		{Assignee: "Sam", SharePercent: decimal.NewFromInt(75)},
	}
	updated, err := svc.Transaction.UpdateTransaction(context.Background(), tx.ID, storage.TransactionPatch{}, &replacement)
	require.NoError(t, err)
	require.NotNil(t, updated)

	require.Len(t, updated.Assignments, 2)
	assert.Equal(t, "Alex", updated.Assignments[0].Assignee)
	assert.Equal(t, "Sam", updated.Assignments[1].Assignee)
}

func TestUpdateTransaction_EmptyReplacementNormalized(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Main", storage.AccountTypeChecking)

	tx, err := svc.Transaction.CreateTransaction(context.Background(), storage.TransactionCreate{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("80.00"),
		Date:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Type:      storage.TransactionTypeExpense,
	}, []storage.AssignmentCreate{
		{Assignee: "A", SharePercent: decimal.NewFromInt(50)},
		{Assignee: "B", SharePercent: decimal.NewFromInt(50)},
	})
	require.NoError(t, err)

	empty := []storage.AssignmentCreate{}
	updated, err := svc.Transaction.UpdateTransaction(context.Background(), tx.ID, storage.TransactionPatch{}, &empty)
	require.NoError(t, err)
	require.NotNil(t, updated)

	require.Len(t, updated.Assignments, 1)
	assert.Equal(t, actions.DefaultAssignee, updated.Assignments[0].Assignee)
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	svc := newTestService(t)

	updated, err := svc.Transaction.UpdateTransaction(context.Background(), uuid.Must(uuid.NewV4()), storage.TransactionPatch{
		Description: omit.From("ghost"),
	}, nil)
	assert.NoError(t, err)
	assert.Nil(t, updated)
}

// -- DeleteTransaction tests --

func TestDeleteTransaction_RevertsBalance(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Main", storage.AccountTypeChecking)
	postTransaction(t, svc, account.ID, storage.TransactionTypeIncome, "100.00")
	tx := postTransaction(t, svc, account.ID, storage.TransactionTypeExpense, "30.00")

	deleted, err := svc.Transaction.DeleteTransaction(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	balance := accountBalance(t, svc, account.ID)
	assert.True(t, balance.Equal(decimal.RequireFromString("100.00")), "got %s", balance)

	// Second delete alters nothing.
	deleted, err = svc.Transaction.DeleteTransaction(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.True(t, accountBalance(t, svc, account.ID).Equal(decimal.RequireFromString("100.00")))
}

// -- List tests --

func TestListTransactions_OrderAndLimit(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Main", storage.AccountTypeChecking)
	ctx := context.Background()

	older, err := svc.Transaction.CreateTransaction(ctx, storage.TransactionCreate{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("1.00"),
		Date:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Type:      storage.TransactionTypeExpense,
	}, nil)
	require.NoError(t, err)
	newer, err := svc.Transaction.CreateTransaction(ctx, storage.TransactionCreate{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("2.00"),
		Date:      time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC),
		Type:      storage.TransactionTypeExpense,
	}, nil)
	require.NoError(t, err)

	all, err := svc.Transaction.ListTransactions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)
	assert.Equal(t, older.ID, all[1].ID)
	assert.Len(t, all[0].Assignments, 1, "lists carry assignment sets")

	limited, err := svc.Transaction.ListTransactions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, newer.ID, limited[0].ID)
}

func TestListTransactionsByAccount(t *testing.T) {
	svc := newTestService(t)
	first := makeTestAccount(t, svc, "First", storage.AccountTypeChecking)
	second := makeTestAccount(t, svc, "Second", storage.AccountTypeChecking)

	postTransaction(t, svc, first.ID, storage.TransactionTypeExpense, "1.00")
	postTransaction(t, svc, second.ID, storage.TransactionTypeExpense, "2.00")

	scoped, err := svc.Transaction.ListTransactionsByAccount(context.Background(), first.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, first.ID, scoped[0].AccountID)
}

// -- Concurrency --

// Concurrent posts against one account must all land; the final balance is
// the full net effect regardless of interleaving.
func TestConcurrentPosting_NoLostUpdates(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Shared", storage.AccountTypeChecking)

	posts := []struct {
		transactionType storage.TransactionType
		amount          string
	}{
		{storage.TransactionTypeIncome, "100.00"},
		{storage.TransactionTypeIncome, "50.00"},
		{storage.TransactionTypeExpense, "20.00"},
	}

	var wg sync.WaitGroup
	wg.Add(len(posts))
	for _, post := range posts {
		go func(transactionType storage.TransactionType, amount string) {
			defer wg.Done()
			_, err := svc.Transaction.CreateTransaction(context.Background(), storage.TransactionCreate{
				AccountID: account.ID,
				Amount:    decimal.RequireFromString(amount),
				Date:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
				Type:      transactionType,
			}, nil)
			assert.NoError(t, err)
		}(post.transactionType, post.amount)
	}
	wg.Wait()

	balance := accountBalance(t, svc, account.ID)
	assert.True(t, balance.Equal(decimal.RequireFromString("130.00")), "got %s", balance)

	transactions, err := svc.Transaction.ListTransactions(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, transactions, 3)
}
