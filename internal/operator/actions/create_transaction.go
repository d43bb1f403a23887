package actions

import (
	"context"

	"github.com/aarondl/opt/omit"

	"github.com/carson-networks/finance-server/internal/storage"
)

type CreateTransaction struct {
	Create storage.TransactionCreate
	// Assignments is the full assignment set; an empty set is normalized to a
	// single 100% default-assignee record.
	Assignments []storage.AssignmentCreate

	Result            *storage.Transaction
	ResultAssignments []*storage.Assignment

	IAction
}

// Perform inserts the transaction, posts its signed amount to the owning
// account's balance, and replaces the assignment set, all in one unit.
func (c *CreateTransaction) Perform(ctx context.Context, writer storage.Writer) error {
	account, err := writer.FindAccountForUpdate(ctx, c.Create.AccountID)
	if err != nil {
		return err
	}

	record, err := writer.InsertTransaction(ctx, &c.Create)
	if err != nil {
		return err
	}

	newBalance := account.Balance.Add(record.SignedAmount())
	patch := storage.AccountPatch{Balance: omit.From(newBalance)}
	if _, err := writer.UpdateAccount(ctx, account.ID, &patch); err != nil {
		return err
	}

	assignments, err := writer.ReplaceAssignments(ctx, record.ID, NormalizeAssignments(c.Assignments))
	if err != nil {
		return err
	}

	c.Result = record
	c.ResultAssignments = assignments
	return nil
}
