// Package postgres is the durable storage backend. Queries are built with
// bob's psql dialect and scanned with scan.StructMapper; every write unit is
// one database transaction, and balance read-modify-writes take a row lock
// via SELECT ... FOR UPDATE.
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-server/internal/storage"
)

var accountColumns = []any{"id", "name", "description", "type", "balance", "icon", "color", "created_at"}

var transactionColumns = []any{"id", "account_id", "description", "amount", "transaction_date", "category", "type", "icon", "created_at"}

var assignmentColumns = []any{"id", "transaction_id", "assignee", "share_percent"}

var goalColumns = []any{"id", "name", "description", "target_amount", "current_amount", "target_date", "status", "icon", "color", "created_at"}

// queries holds the read paths shared by the store and its write units.
type queries struct {
	exec bob.Executor
}

// Store implements storage.Store on Postgres.
type Store struct {
	queries
	db  bob.DB
	ids storage.IDGenerator
}

// NewStore wraps an open database handle. A nil ids falls back to random
// UUIDs.
func NewStore(sqlDB *sql.DB, ids storage.IDGenerator) *Store {
	if ids == nil {
		ids = storage.NewRandomID
	}
	db := bob.NewDB(sqlDB)
	return &Store{
		queries: queries{exec: db},
		db:      db,
		ids:     ids,
	}
}

var _ storage.Store = (*Store)(nil)

// Write begins a database transaction; the returned writer's Commit and
// Rollback end it.
func (s *Store) Write(ctx context.Context) (storage.Writer, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &writer{
		queries: queries{exec: tx},
		tx:      tx,
		ids:     s.ids,
	}, nil
}

// notFound translates the driver's empty-result error into the storage
// sentinel.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

func (q *queries) FindAccount(ctx context.Context, id uuid.UUID) (*storage.Account, error) {
	query := psql.Select(
		sm.Columns(accountColumns...),
		sm.From("accounts"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, q.exec, query, scan.StructMapper[*storage.Account]())
	if err != nil {
		return nil, notFound(err)
	}
	return row, nil
}

func (q *queries) ListAccounts(ctx context.Context) ([]*storage.Account, error) {
	query := psql.Select(
		sm.Columns(accountColumns...),
		sm.From("accounts"),
		sm.OrderBy("name").Asc(),
		sm.OrderBy("id").Asc(),
	)
	return bob.All(ctx, q.exec, query, scan.StructMapper[*storage.Account]())
}

func (q *queries) AccountReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	byTransaction := psql.Select(
		sm.Columns("id"),
		sm.From("transactions"),
		sm.Where(psql.Quote("account_id").EQ(psql.Arg(id))),
		sm.Limit(1),
	)
	_, err := bob.One(ctx, q.exec, byTransaction, scan.SingleColumnMapper[uuid.UUID])
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	byGoalLink := psql.Select(
		sm.Columns("goal_id"),
		sm.From("goal_accounts"),
		sm.Where(psql.Quote("account_id").EQ(psql.Arg(id))),
		sm.Limit(1),
	)
	_, err = bob.One(ctx, q.exec, byGoalLink, scan.SingleColumnMapper[uuid.UUID])
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	return false, nil
}

func (q *queries) FindTransaction(ctx context.Context, id uuid.UUID) (*storage.Transaction, error) {
	query := psql.Select(
		sm.Columns(transactionColumns...),
		sm.From("transactions"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, q.exec, query, scan.StructMapper[*storage.Transaction]())
	if err != nil {
		return nil, notFound(err)
	}
	return row, nil
}

func (q *queries) ListTransactions(ctx context.Context, filter *storage.TransactionFilter) ([]*storage.Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(transactionColumns...),
		sm.From("transactions"),
	}
	if filter != nil && filter.AccountID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("account_id").EQ(psql.Arg(*filter.AccountID))))
	}
	queryMods = append(queryMods,
		sm.OrderBy("transaction_date").Desc(),
		sm.OrderBy("created_at").Desc(),
		sm.OrderBy("id").Asc(),
	)
	if filter != nil && filter.Limit > 0 {
		queryMods = append(queryMods, sm.Limit(filter.Limit))
	}
	return bob.All(ctx, q.exec, psql.Select(queryMods...), scan.StructMapper[*storage.Transaction]())
}

func (q *queries) ListAssignments(ctx context.Context, transactionID uuid.UUID) ([]*storage.Assignment, error) {
	query := psql.Select(
		sm.Columns(assignmentColumns...),
		sm.From("transaction_assignments"),
		sm.Where(psql.Quote("transaction_id").EQ(psql.Arg(transactionID))),
		sm.OrderBy("position").Asc(),
	)
	return bob.All(ctx, q.exec, query, scan.StructMapper[*storage.Assignment]())
}

func (q *queries) ListAssignmentsFor(ctx context.Context, transactionIDs []uuid.UUID) (map[uuid.UUID][]*storage.Assignment, error) {
	result := make(map[uuid.UUID][]*storage.Assignment, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return result, nil
	}
	args := make([]any, len(transactionIDs))
	for i, id := range transactionIDs {
		args[i] = id
	}
	query := psql.Select(
		sm.Columns(assignmentColumns...),
		sm.From("transaction_assignments"),
		sm.Where(psql.Quote("transaction_id").In(psql.Arg(args...))),
		sm.OrderBy("transaction_id").Asc(),
		sm.OrderBy("position").Asc(),
	)
	rows, err := bob.All(ctx, q.exec, query, scan.StructMapper[*storage.Assignment]())
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.TransactionID] = append(result[row.TransactionID], row)
	}
	return result, nil
}

func (q *queries) FindGoal(ctx context.Context, id uuid.UUID) (*storage.Goal, error) {
	query := psql.Select(
		sm.Columns(goalColumns...),
		sm.From("financial_goals"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, q.exec, query, scan.StructMapper[*storage.Goal]())
	if err != nil {
		return nil, notFound(err)
	}
	return row, nil
}

func (q *queries) ListGoals(ctx context.Context) ([]*storage.Goal, error) {
	query := psql.Select(
		sm.Columns(goalColumns...),
		sm.From("financial_goals"),
		sm.OrderBy("created_at").Asc(),
		sm.OrderBy("id").Asc(),
	)
	return bob.All(ctx, q.exec, query, scan.StructMapper[*storage.Goal]())
}

func (q *queries) GoalLinks(ctx context.Context, goalID uuid.UUID) ([]uuid.UUID, error) {
	query := psql.Select(
		sm.Columns("account_id"),
		sm.From("goal_accounts"),
		sm.Where(psql.Quote("goal_id").EQ(psql.Arg(goalID))),
		sm.OrderBy("position").Asc(),
	)
	return bob.All(ctx, q.exec, query, scan.SingleColumnMapper[uuid.UUID])
}
