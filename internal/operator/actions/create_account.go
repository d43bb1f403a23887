package actions

import (
	"context"

	"github.com/carson-networks/finance-server/internal/storage"
)

type CreateAccount struct {
	Create storage.AccountCreate

	// Result is the stored record, set on success.
	Result *storage.Account

	IAction
}

func (c *CreateAccount) Perform(ctx context.Context, writer storage.Writer) error {
	record, err := writer.InsertAccount(ctx, &c.Create)
	if err != nil {
		return err
	}
	c.Result = record
	return nil
}
