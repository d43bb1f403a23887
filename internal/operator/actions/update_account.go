package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/storage"
)

type UpdateAccount struct {
	ID    uuid.UUID
	Patch storage.AccountPatch

	Result *storage.Account

	IAction
}

func (u *UpdateAccount) Perform(ctx context.Context, writer storage.Writer) error {
	record, err := writer.UpdateAccount(ctx, u.ID, &u.Patch)
	if err != nil {
		return err
	}
	u.Result = record
	return nil
}
