package service

import (
	"context"
	"testing"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/storage"
)

func makeTestGoal(t *testing.T, svc *Service, target string, links *[]uuid.UUID) *Goal {
	t.Helper()
	goal, err := svc.Goal.CreateGoal(context.Background(), storage.GoalCreate{
		Name:         "Goal",
		TargetAmount: decimal.RequireFromString(target),
	}, links, false)
	require.NoError(t, err)
	require.NotNil(t, goal)
	return goal
}

// -- Derivation tests --

func TestCreateGoal_DerivesFromLinkedBalances(t *testing.T) {
	svc := newTestService(t)
	first := makeTestAccount(t, svc, "Savings A", storage.AccountTypeSavings)
	second := makeTestAccount(t, svc, "Savings B", storage.AccountTypeSavings)

	postTransaction(t, svc, first.ID, storage.TransactionTypeIncome, "300.00")
	postTransaction(t, svc, second.ID, storage.TransactionTypeIncome, "200.00")

	goal := makeTestGoal(t, svc, "1000", &[]uuid.UUID{first.ID, second.ID})

	assert.True(t, goal.CurrentAmount.Equal(decimal.RequireFromString("500.00")), "got %s", goal.CurrentAmount)
	assert.Equal(t, storage.GoalStatusInProgress, goal.Status)
	require.Len(t, goal.LinkedAccounts, 2)
}

func TestGoal_CompletedWhenLinkedSumReachesTarget(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Savings", storage.AccountTypeSavings)
	postTransaction(t, svc, account.ID, storage.TransactionTypeIncome, "1000.00")

	goal := makeTestGoal(t, svc, "1000", &[]uuid.UUID{account.ID})
	assert.Equal(t, storage.GoalStatusCompleted, goal.Status)
}

func TestGoal_PendingWithEmptyLinkedBalances(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Savings", storage.AccountTypeSavings)

	goal := makeTestGoal(t, svc, "1000", &[]uuid.UUID{account.ID})
	assert.Equal(t, storage.GoalStatusPending, goal.Status)
	assert.True(t, goal.CurrentAmount.IsZero())
}

// Linked goals re-derive on every read, so ledger activity shows up without
// touching the goal.
func TestGoal_TracksLinkedBalanceChanges(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	account := makeTestAccount(t, svc, "Savings", storage.AccountTypeSavings)
	goal := makeTestGoal(t, svc, "1000", &[]uuid.UUID{account.ID})

	postTransaction(t, svc, account.ID, storage.TransactionTypeIncome, "750.00")

	reread, err := svc.Goal.GetGoal(ctx, goal.ID)
	require.NoError(t, err)
	require.NotNil(t, reread)
	assert.True(t, reread.CurrentAmount.Equal(decimal.RequireFromString("750.00")))
	assert.Equal(t, storage.GoalStatusInProgress, reread.Status)

	postTransaction(t, svc, account.ID, storage.TransactionTypeIncome, "250.00")

	reread, err = svc.Goal.GetGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.GoalStatusCompleted, reread.Status)
}

// -- Explicit status tests --

func TestCreateGoal_ExplicitStatusWinsWhileUnlinked(t *testing.T) {
	svc := newTestService(t)

	goal, err := svc.Goal.CreateGoal(context.Background(), storage.GoalCreate{
		Name:          "Manual",
		TargetAmount:  decimal.RequireFromString("1000"),
		CurrentAmount: decimal.RequireFromString("400"),
		Status:        storage.GoalStatusCompleted,
	}, nil, true)
	require.NoError(t, err)

	assert.Equal(t, storage.GoalStatusCompleted, goal.Status)
}

func TestCreateGoal_StatusDerivedWhenNotExplicit(t *testing.T) {
	svc := newTestService(t)

	goal, err := svc.Goal.CreateGoal(context.Background(), storage.GoalCreate{
		Name:          "Derived",
		TargetAmount:  decimal.RequireFromString("1000"),
		CurrentAmount: decimal.RequireFromString("400"),
	}, nil, false)
	require.NoError(t, err)

	assert.Equal(t, storage.GoalStatusInProgress, goal.Status)
}

func TestUpdateGoal_ExplicitStatusIgnoredWhileLinked(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Savings", storage.AccountTypeSavings)
	postTransaction(t, svc, account.ID, storage.TransactionTypeIncome, "100.00")
	goal := makeTestGoal(t, svc, "1000", &[]uuid.UUID{account.ID})

	updated, err := svc.Goal.UpdateGoal(context.Background(), goal.ID, storage.GoalPatch{
		Status: omit.From(storage.GoalStatusCompleted),
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, storage.GoalStatusInProgress, updated.Status, "linked balances outrank the explicit status")
}

// -- Link management tests --

func TestUpdateGoal_ReplacesLinks(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	first := makeTestAccount(t, svc, "A", storage.AccountTypeSavings)
	second := makeTestAccount(t, svc, "B", storage.AccountTypeSavings)
	postTransaction(t, svc, first.ID, storage.TransactionTypeIncome, "100.00")
	postTransaction(t, svc, second.ID, storage.TransactionTypeIncome, "700.00")

	goal := makeTestGoal(t, svc, "1000", &[]uuid.UUID{first.ID})
	require.True(t, goal.CurrentAmount.Equal(decimal.RequireFromString("100.00")))

	replacement := []uuid.UUID{second.ID}
	updated, err := svc.Goal.UpdateGoal(ctx, goal.ID, storage.GoalPatch{}, &replacement)
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.True(t, updated.CurrentAmount.Equal(decimal.RequireFromString("700.00")))
	require.Len(t, updated.LinkedAccountIDs, 1)
	assert.Equal(t, second.ID, updated.LinkedAccountIDs[0])
}

func TestUpdateGoal_UnlinkRestoresStoredAmount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	account := makeTestAccount(t, svc, "A", storage.AccountTypeSavings)
	postTransaction(t, svc, account.ID, storage.TransactionTypeIncome, "100.00")
	goal := makeTestGoal(t, svc, "1000", &[]uuid.UUID{account.ID})

	empty := []uuid.UUID{}
	updated, err := svc.Goal.UpdateGoal(ctx, goal.ID, storage.GoalPatch{
		CurrentAmount: omit.From(decimal.RequireFromString("250")),
	}, &empty)
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Empty(t, updated.LinkedAccountIDs)
	assert.True(t, updated.CurrentAmount.Equal(decimal.RequireFromString("250")))
}

func TestCreateGoal_UnknownLinkedAccount(t *testing.T) {
	svc := newTestService(t)

	goal, err := svc.Goal.CreateGoal(context.Background(), storage.GoalCreate{
		Name:         "Broken",
		TargetAmount: decimal.RequireFromString("100"),
	}, &[]uuid.UUID{uuid.Must(uuid.NewV4())}, false)
	assert.NoError(t, err)
	assert.Nil(t, goal)
}

func TestDeleteAccount_BlockedByGoalLink(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Linked", storage.AccountTypeSavings)
	makeTestGoal(t, svc, "100", &[]uuid.UUID{account.ID})

	_, err := svc.Account.DeleteAccount(context.Background(), account.ID)
	assert.ErrorIs(t, err, storage.ErrAccountInUse)
}

// -- Delete tests --

func TestDeleteGoal_LeavesAccountsUntouched(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	account := makeTestAccount(t, svc, "Savings", storage.AccountTypeSavings)
	postTransaction(t, svc, account.ID, storage.TransactionTypeIncome, "100.00")
	goal := makeTestGoal(t, svc, "1000", &[]uuid.UUID{account.ID})

	deleted, err := svc.Goal.DeleteGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Goal.DeleteGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	balance := accountBalance(t, svc, account.ID)
	assert.True(t, balance.Equal(decimal.RequireFromString("100.00")))
}

// -- Validation tests --

func TestGoalValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Goal.CreateGoal(ctx, storage.GoalCreate{
		Name:         "Bad target",
		TargetAmount: decimal.Zero,
	}, nil, false)
	assert.ErrorIs(t, err, ErrTargetAmountNotPositive)

	_, err = svc.Goal.CreateGoal(ctx, storage.GoalCreate{
		Name:          "Bad current",
		TargetAmount:  decimal.RequireFromString("100"),
		CurrentAmount: decimal.RequireFromString("-1"),
	}, nil, false)
	assert.ErrorIs(t, err, ErrCurrentAmountNegative)

	goal := makeTestGoal(t, svc, "100", nil)
	_, err = svc.Goal.UpdateGoal(ctx, goal.ID, storage.GoalPatch{
		TargetAmount: omit.From(decimal.Zero),
	}, nil)
	assert.ErrorIs(t, err, ErrTargetAmountNotPositive)
}
