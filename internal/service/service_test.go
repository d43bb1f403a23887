package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/memory"
)

// The services run against the real in-memory backend here. The two storage
// backends share one conformance suite, so behavior proven over memory holds
// for the durable backend too.
func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(memory.NewStore(nil))
	t.Cleanup(svc.Close)
	return svc
}

func makeTestAccount(t *testing.T, svc *Service, name string, accountType storage.AccountType) *Account {
	t.Helper()
	account, err := svc.Account.CreateAccount(context.Background(), storage.AccountCreate{
		Name: name,
		Type: accountType,
	})
	require.NoError(t, err)
	require.NotNil(t, account)
	return account
}

func postTransaction(t *testing.T, svc *Service, accountID uuid.UUID, transactionType storage.TransactionType, amount string) *Transaction {
	t.Helper()
	tx, err := svc.Transaction.CreateTransaction(context.Background(), storage.TransactionCreate{
		AccountID:   accountID,
		Description: "test",
		Amount:      decimal.RequireFromString(amount),
		Date:        time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Type:        transactionType,
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, tx)
	return tx
}

func accountBalance(t *testing.T, svc *Service, id uuid.UUID) decimal.Decimal {
	t.Helper()
	account, err := svc.Account.GetAccount(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, account)
	return account.Balance
}
