package storage

import (
	"context"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// IDGenerator issues record identities. Both backends generate ids through the
// injected generator so the two produce comparable snapshots under test.
type IDGenerator func() uuid.UUID

// NewRandomID is the default IDGenerator.
func NewRandomID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// AccountCreate is the input for creating a new account.
type AccountCreate struct {
	Name        string
	Description string
	Type        AccountType
	Balance     decimal.Decimal
	Icon        string
	Color       string
}

// AccountPatch is a partial update of an account. Unset fields are untouched.
// Balance is settable directly; the transaction ledger posts deltas through it.
type AccountPatch struct {
	Name        omit.Val[string]
	Description omit.Val[string]
	Type        omit.Val[AccountType]
	Balance     omit.Val[decimal.Decimal]
	Icon        omit.Val[string]
	Color       omit.Val[string]
}

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
	AccountID   uuid.UUID
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Category    string
	Type        TransactionType
	Icon        string
}

// TransactionPatch is a partial update of a transaction. The owning account
// cannot change; a transaction belongs to exactly one account for life.
type TransactionPatch struct {
	Description omit.Val[string]
	Amount      omit.Val[decimal.Decimal]
	Date        omit.Val[time.Time]
	Category    omit.Val[string]
	Type        omit.Val[TransactionType]
	Icon        omit.Val[string]
}

// AssignmentCreate is one entry of a wholesale assignment-set replacement.
type AssignmentCreate struct {
	Assignee     string
	SharePercent decimal.Decimal
}

// GoalCreate is the input for creating a new goal.
type GoalCreate struct {
	Name          string
	Description   string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	TargetDate    time.Time
	Status        GoalStatus
	Icon          string
	Color         string
}

// GoalPatch is a partial update of a goal.
type GoalPatch struct {
	Name          omit.Val[string]
	Description   omit.Val[string]
	TargetAmount  omit.Val[decimal.Decimal]
	CurrentAmount omit.Val[decimal.Decimal]
	TargetDate    omit.Val[time.Time]
	Status        omit.Val[GoalStatus]
	Icon          omit.Val[string]
	Color         omit.Val[string]
}

// TransactionFilter restricts ListTransactions. Zero Limit means no limit.
type TransactionFilter struct {
	AccountID *uuid.UUID
	Limit     int
}

// Reader is the read side of the contract, shared by Store and Writer.
type Reader interface {
	FindAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	ListAccounts(ctx context.Context) ([]*Account, error)
	// AccountReferenced reports whether any transaction or goal link points at
	// the account.
	AccountReferenced(ctx context.Context, id uuid.UUID) (bool, error)

	FindTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	// ListTransactions returns transactions ordered by date descending, most
	// recent first.
	ListTransactions(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)

	ListAssignments(ctx context.Context, transactionID uuid.UUID) ([]*Assignment, error)
	// ListAssignmentsFor batches assignment lookup for a set of transactions.
	ListAssignmentsFor(ctx context.Context, transactionIDs []uuid.UUID) (map[uuid.UUID][]*Assignment, error)

	FindGoal(ctx context.Context, id uuid.UUID) (*Goal, error)
	ListGoals(ctx context.Context) ([]*Goal, error)
	GoalLinks(ctx context.Context, goalID uuid.UUID) ([]uuid.UUID, error)
}

// Store is the backend contract. Both the Postgres backend and the in-memory
// backend implement it and must be observably equivalent.
type Store interface {
	Reader

	// Write opens an all-or-nothing unit of work. Every multi-record mutation
	// (transaction create/update/delete with its balance adjustment, goal save
	// with link replacement) runs inside exactly one unit.
	Write(ctx context.Context) (Writer, error)
}

// Writer is a single atomicity unit. Reads through a Writer observe the
// unit's own uncommitted mutations.
type Writer interface {
	Reader

	// FindAccountForUpdate reads an account and locks it against concurrent
	// balance read-modify-writes until the unit ends.
	FindAccountForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)

	InsertAccount(ctx context.Context, create *AccountCreate) (*Account, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, patch *AccountPatch) (*Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) (bool, error)

	InsertTransaction(ctx context.Context, create *TransactionCreate) (*Transaction, error)
	UpdateTransaction(ctx context.Context, id uuid.UUID, patch *TransactionPatch) (*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) (bool, error)

	// ReplaceAssignments swaps the full assignment set of a transaction.
	ReplaceAssignments(ctx context.Context, transactionID uuid.UUID, set []AssignmentCreate) ([]*Assignment, error)

	InsertGoal(ctx context.Context, create *GoalCreate) (*Goal, error)
	UpdateGoal(ctx context.Context, id uuid.UUID, patch *GoalPatch) (*Goal, error)
	DeleteGoal(ctx context.Context, id uuid.UUID) (bool, error)

	// ReplaceGoalLinks swaps the full linked-account set of a goal.
	ReplaceGoalLinks(ctx context.Context, goalID uuid.UUID, accountIDs []uuid.UUID) error

	Commit() error
	Rollback() error
}
