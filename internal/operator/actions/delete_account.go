package actions

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/storage"
)

type DeleteAccount struct {
	ID uuid.UUID

	// Deleted reports whether a record existed.
	Deleted bool

	IAction
}

// Perform refuses to delete an account that is still referenced by a
// transaction or a goal link; no cascade is performed.
func (d *DeleteAccount) Perform(ctx context.Context, writer storage.Writer) error {
	if _, err := writer.FindAccountForUpdate(ctx, d.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			d.Deleted = false
			return nil
		}
		return err
	}

	referenced, err := writer.AccountReferenced(ctx, d.ID)
	if err != nil {
		return err
	}
	if referenced {
		return storage.ErrAccountInUse
	}

	deleted, err := writer.DeleteAccount(ctx, d.ID)
	if err != nil {
		return err
	}
	d.Deleted = deleted
	return nil
}
