package service

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
)

const (
	defaultGoalIcon  = "target"
	defaultGoalColor = "#7C3AED"
)

// GoalService tracks financial goals. A goal linked to accounts derives its
// current amount and status from the linked balances on every read; stored
// values only hold for unlinked goals.
type GoalService struct {
	store    storage.Store
	operator *operator.OperatorDelegator
}

// NewGoalService creates a new GoalService.
func NewGoalService(store storage.Store, op *operator.OperatorDelegator) *GoalService {
	return &GoalService{store: store, operator: op}
}

// ListGoals returns all goals, hydrated with linked-account data.
func (s *GoalService) ListGoals(ctx context.Context) ([]Goal, error) {
	rows, err := s.store.ListGoals(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]Goal, len(rows))
	for i, row := range rows {
		goal, err := s.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		result[i] = goal
	}
	return result, nil
}

// GetGoal retrieves one goal, hydrated. An absent id yields a nil result.
func (s *GoalService) GetGoal(ctx context.Context, id uuid.UUID) (*Goal, error) {
	row, err := s.store.FindGoal(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	goal, err := s.hydrate(ctx, row)
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// CreateGoal creates a goal. A non-nil links slice is the goal's full
// linked-account set. explicitStatus marks create.Status as caller-supplied;
// otherwise status is derived. A link to a nonexistent account yields a nil
// result.
func (s *GoalService) CreateGoal(ctx context.Context, create storage.GoalCreate, links *[]uuid.UUID, explicitStatus bool) (*Goal, error) {
	if !create.TargetAmount.IsPositive() {
		return nil, ErrTargetAmountNotPositive
	}
	if create.CurrentAmount.IsNegative() {
		return nil, ErrCurrentAmountNegative
	}
	if create.Icon == "" {
		create.Icon = defaultGoalIcon
	}
	if create.Color == "" {
		create.Color = defaultGoalColor
	}

	action := &actions.CreateGoal{Create: create, Links: links, ExplicitStatus: explicitStatus}
	if err := s.operator.Process(ctx, action); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.GetGoal(ctx, action.Result.ID)
}

// UpdateGoal applies a partial patch; a non-nil links slice wholesale-
// replaces the linked-account set. An explicit status in the patch wins over
// derivation only while the goal stays unlinked. An absent id yields a nil
// result.
func (s *GoalService) UpdateGoal(ctx context.Context, id uuid.UUID, patch storage.GoalPatch, links *[]uuid.UUID) (*Goal, error) {
	if target, ok := patch.TargetAmount.Get(); ok && !target.IsPositive() {
		return nil, ErrTargetAmountNotPositive
	}
	if current, ok := patch.CurrentAmount.Get(); ok && current.IsNegative() {
		return nil, ErrCurrentAmountNegative
	}

	action := &actions.UpdateGoal{ID: id, Patch: patch, Links: links}
	if err := s.operator.Process(ctx, action); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.GetGoal(ctx, id)
}

// DeleteGoal removes a goal and its account links; the linked accounts
// themselves are untouched. Reports whether a record existed.
func (s *GoalService) DeleteGoal(ctx context.Context, id uuid.UUID) (bool, error) {
	action := &actions.DeleteGoal{ID: id}
	if err := s.operator.Process(ctx, action); err != nil {
		return false, err
	}
	return action.Deleted, nil
}

// hydrate attaches linked-account data to a stored goal. With links, the sum
// of the linked balances overwrites the stored current amount and the status
// is re-derived from it.
func (s *GoalService) hydrate(ctx context.Context, row *storage.Goal) (Goal, error) {
	goal := goalFromStorage(row)

	links, err := s.store.GoalLinks(ctx, row.ID)
	if err != nil {
		return Goal{}, err
	}
	if len(links) == 0 {
		return goal, nil
	}

	goal.LinkedAccountIDs = links
	goal.LinkedAccounts = make([]Account, 0, len(links))
	sum := decimal.Zero
	for _, accountID := range links {
		account, err := s.store.FindAccount(ctx, accountID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				// Link left behind by a backend without enforced references;
				// skip rather than fail the read.
				continue
			}
			return Goal{}, err
		}
		goal.LinkedAccounts = append(goal.LinkedAccounts, accountFromStorage(account))
		sum = sum.Add(account.Balance)
	}

	goal.CurrentAmount = sum.Round(2)
	goal.Status = storage.DeriveGoalStatus(goal.CurrentAmount, goal.TargetAmount)
	return goal, nil
}
