package actions

import (
	"context"
	"errors"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/storage"
)

type DeleteTransaction struct {
	ID uuid.UUID

	// Deleted reports whether a record existed. Deleting a nonexistent id is
	// not an error and touches no balance.
	Deleted bool

	IAction
}

func (d *DeleteTransaction) Perform(ctx context.Context, writer storage.Writer) error {
	existing, err := writer.FindTransaction(ctx, d.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			d.Deleted = false
			return nil
		}
		return err
	}

	account, err := writer.FindAccountForUpdate(ctx, existing.AccountID)
	if err != nil {
		return err
	}

	newBalance := account.Balance.Sub(existing.SignedAmount())
	patch := storage.AccountPatch{Balance: omit.From(newBalance)}
	if _, err := writer.UpdateAccount(ctx, account.ID, &patch); err != nil {
		return err
	}

	// Assignment rows go with the transaction.
	deleted, err := writer.DeleteTransaction(ctx, d.ID)
	if err != nil {
		return err
	}
	d.Deleted = deleted
	return nil
}
