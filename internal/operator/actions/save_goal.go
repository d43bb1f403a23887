package actions

import (
	"context"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/storage"
)

type CreateGoal struct {
	Create storage.GoalCreate
	// Links, when non-nil, is the full linked-account set for the new goal.
	Links *[]uuid.UUID
	// ExplicitStatus marks Create.Status as caller-supplied. It wins over
	// derivation only while the goal has no linked accounts.
	ExplicitStatus bool

	Result *storage.Goal

	IAction
}

func (c *CreateGoal) Perform(ctx context.Context, writer storage.Writer) error {
	record, err := writer.InsertGoal(ctx, &c.Create)
	if err != nil {
		return err
	}
	if c.Links != nil {
		if err := writer.ReplaceGoalLinks(ctx, record.ID, *c.Links); err != nil {
			return err
		}
	}
	record, err = syncDerivedGoalState(ctx, writer, record, c.ExplicitStatus)
	if err != nil {
		return err
	}
	c.Result = record
	return nil
}

type UpdateGoal struct {
	ID    uuid.UUID
	Patch storage.GoalPatch
	// Links, when non-nil, wholesale-replaces the linked-account set; nil
	// leaves the existing set untouched.
	Links *[]uuid.UUID

	Result *storage.Goal

	IAction
}

func (u *UpdateGoal) Perform(ctx context.Context, writer storage.Writer) error {
	record, err := writer.UpdateGoal(ctx, u.ID, &u.Patch)
	if err != nil {
		return err
	}
	if u.Links != nil {
		if err := writer.ReplaceGoalLinks(ctx, u.ID, *u.Links); err != nil {
			return err
		}
	}
	record, err = syncDerivedGoalState(ctx, writer, record, u.Patch.Status.IsValue())
	if err != nil {
		return err
	}
	u.Result = record
	return nil
}

type DeleteGoal struct {
	ID uuid.UUID

	Deleted bool

	IAction
}

// Perform removes the goal and its links; linked accounts are untouched.
func (d *DeleteGoal) Perform(ctx context.Context, writer storage.Writer) error {
	deleted, err := writer.DeleteGoal(ctx, d.ID)
	if err != nil {
		return err
	}
	d.Deleted = deleted
	return nil
}

// syncDerivedGoalState reconciles a goal's cached fields after a write. With
// linked accounts the linked-balance sum is authoritative for both
// currentAmount and status; without links the status is derived from the
// stored currentAmount unless the caller supplied one explicitly.
func syncDerivedGoalState(ctx context.Context, writer storage.Writer, goal *storage.Goal, explicitStatus bool) (*storage.Goal, error) {
	links, err := writer.GoalLinks(ctx, goal.ID)
	if err != nil {
		return nil, err
	}

	if len(links) > 0 {
		sum := decimal.Zero
		for _, accountID := range links {
			account, err := writer.FindAccount(ctx, accountID)
			if err != nil {
				return nil, err
			}
			sum = sum.Add(account.Balance)
		}
		sum = sum.Round(2)
		patch := storage.GoalPatch{
			CurrentAmount: omit.From(sum),
			Status:        omit.From(storage.DeriveGoalStatus(sum, goal.TargetAmount)),
		}
		return writer.UpdateGoal(ctx, goal.ID, &patch)
	}

	if explicitStatus {
		return goal, nil
	}
	derived := storage.DeriveGoalStatus(goal.CurrentAmount, goal.TargetAmount)
	if derived == goal.Status {
		return goal, nil
	}
	patch := storage.GoalPatch{Status: omit.From(derived)}
	return writer.UpdateGoal(ctx, goal.ID, &patch)
}
