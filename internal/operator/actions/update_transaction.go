package actions

import (
	"context"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/storage"
)

type UpdateTransaction struct {
	ID    uuid.UUID
	Patch storage.TransactionPatch
	// Assignments, when non-nil, wholesale-replaces the assignment set; nil
	// leaves the existing set untouched.
	Assignments *[]storage.AssignmentCreate

	Result            *storage.Transaction
	ResultAssignments []*storage.Assignment

	IAction
}

// Perform nets the balance adjustment in a single step: revert the old
// contribution, apply the new one. This handles amount edits and
// income/expense flips without replaying history.
func (u *UpdateTransaction) Perform(ctx context.Context, writer storage.Writer) error {
	existing, err := writer.FindTransaction(ctx, u.ID)
	if err != nil {
		return err
	}

	account, err := writer.FindAccountForUpdate(ctx, existing.AccountID)
	if err != nil {
		return err
	}

	oldDelta := existing.SignedAmount()

	record, err := writer.UpdateTransaction(ctx, u.ID, &u.Patch)
	if err != nil {
		return err
	}

	newDelta := record.SignedAmount()
	if !newDelta.Equal(oldDelta) {
		newBalance := account.Balance.Sub(oldDelta).Add(newDelta)
		patch := storage.AccountPatch{Balance: omit.From(newBalance)}
		if _, err := writer.UpdateAccount(ctx, account.ID, &patch); err != nil {
			return err
		}
	}

	if u.Assignments != nil {
		assignments, err := writer.ReplaceAssignments(ctx, record.ID, NormalizeAssignments(*u.Assignments))
		if err != nil {
			return err
		}
		u.ResultAssignments = assignments
	} else {
		assignments, err := writer.ListAssignments(ctx, record.ID)
		if err != nil {
			return err
		}
		u.ResultAssignments = assignments
	}

	u.Result = record
	return nil
}
