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

// -- CreateAccount tests --

func TestCreateAccount_DefaultsAndZeroBalance(t *testing.T) {
	svc := newTestService(t)

	account, err := svc.Account.CreateAccount(context.Background(), storage.AccountCreate{
		Name: "Daily",
		Type: storage.AccountTypeChecking,
		// Caller-supplied balance is ignored; only the ledger moves it.
		Balance: decimal.RequireFromString("999"),
	})
	require.NoError(t, err)

	assert.True(t, account.Balance.IsZero())
	assert.Equal(t, defaultAccountIcon, account.Icon)
	assert.Equal(t, defaultAccountColor, account.Color)
}

func TestCreateAccount_KeepsExplicitAppearance(t *testing.T) {
	svc := newTestService(t)

	account, err := svc.Account.CreateAccount(context.Background(), storage.AccountCreate{
		Name:  "Travel",
		Type:  storage.AccountTypeSavings,
		Icon:  "plane",
		Color: "#FF0000",
	})
	require.NoError(t, err)

	assert.Equal(t, "plane", account.Icon)
	assert.Equal(t, "#FF0000", account.Color)
}

// -- Get/Update tests --

func TestGetAccount_NotFound(t *testing.T) {
	svc := newTestService(t)

	account, err := svc.Account.GetAccount(context.Background(), uuid.Must(uuid.NewV4()))
	assert.NoError(t, err)
	assert.Nil(t, account)
}

func TestUpdateAccount_PartialPatch(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Old name", storage.AccountTypeChecking)

	updated, err := svc.Account.UpdateAccount(context.Background(), account.ID, storage.AccountPatch{
		Name: omit.From("New name"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, "New name", updated.Name)
	assert.Equal(t, account.Icon, updated.Icon, "untouched fields survive")
}

func TestUpdateAccount_NotFound(t *testing.T) {
	svc := newTestService(t)

	updated, err := svc.Account.UpdateAccount(context.Background(), uuid.Must(uuid.NewV4()), storage.AccountPatch{
		Name: omit.From("ghost"),
	})
	assert.NoError(t, err)
	assert.Nil(t, updated)
}

// -- DeleteAccount tests --

func TestDeleteAccount_BlockedWhileReferenced(t *testing.T) {
	svc := newTestService(t)
	account := makeTestAccount(t, svc, "Main", storage.AccountTypeChecking)
	tx := postTransaction(t, svc, account.ID, storage.TransactionTypeExpense, "5.00")

	_, err := svc.Account.DeleteAccount(context.Background(), account.ID)
	assert.ErrorIs(t, err, storage.ErrAccountInUse)

	// Once the transaction is gone the account can go too.
	deleted, err := svc.Transaction.DeleteTransaction(context.Background(), tx.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = svc.Account.DeleteAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestDeleteAccount_NotFound(t *testing.T) {
	svc := newTestService(t)

	deleted, err := svc.Account.DeleteAccount(context.Background(), uuid.Must(uuid.NewV4()))
	assert.NoError(t, err)
	assert.False(t, deleted)
}

// -- TotalBalance tests --

func TestTotalBalance_CreditContributesNegatively(t *testing.T) {
	svc := newTestService(t)
	checking := makeTestAccount(t, svc, "Checking", storage.AccountTypeChecking)
	credit := makeTestAccount(t, svc, "Card", storage.AccountTypeCredit)

	postTransaction(t, svc, checking.ID, storage.TransactionTypeIncome, "200.00")
	postTransaction(t, svc, credit.ID, storage.TransactionTypeIncome, "50.00")

	total, err := svc.Account.TotalBalance(context.Background())
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("150.00")), "got %s", total)
}
