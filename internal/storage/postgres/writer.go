package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-server/internal/storage"
)

// writer runs all of its statements on one bob.Tx.
type writer struct {
	queries
	tx  bob.Tx
	ids storage.IDGenerator
}

var _ storage.Writer = (*writer)(nil)

func (w *writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}

// FindAccountForUpdate locks the account row for the rest of the unit so the
// balance read-modify-write cannot race a concurrent posting.
func (w *writer) FindAccountForUpdate(ctx context.Context, id uuid.UUID) (*storage.Account, error) {
	query := psql.Select(
		sm.Columns(accountColumns...),
		sm.From("accounts"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.ForUpdate(),
	)
	row, err := bob.One(ctx, w.tx, query, scan.StructMapper[*storage.Account]())
	if err != nil {
		return nil, notFound(err)
	}
	return row, nil
}

func (w *writer) InsertAccount(ctx context.Context, create *storage.AccountCreate) (*storage.Account, error) {
	query := psql.Insert(
		im.Into("accounts", "id", "name", "description", "type", "balance", "icon", "color"),
		im.Values(psql.Arg(w.ids(), create.Name, create.Description, int16(create.Type), create.Balance, create.Icon, create.Color)),
		im.Returning(accountColumns...),
	)
	return bob.One(ctx, w.tx, query, scan.StructMapper[*storage.Account]())
}

func (w *writer) UpdateAccount(ctx context.Context, id uuid.UUID, patch *storage.AccountPatch) (*storage.Account, error) {
	queryMods := []bob.Mod[*dialect.UpdateQuery]{um.Table("accounts")}
	if v, ok := patch.Name.Get(); ok {
		queryMods = append(queryMods, um.SetCol("name").ToArg(v))
	}
	if v, ok := patch.Description.Get(); ok {
		queryMods = append(queryMods, um.SetCol("description").ToArg(v))
	}
	if v, ok := patch.Type.Get(); ok {
		queryMods = append(queryMods, um.SetCol("type").ToArg(int16(v)))
	}
	if v, ok := patch.Balance.Get(); ok {
		queryMods = append(queryMods, um.SetCol("balance").ToArg(v))
	}
	if v, ok := patch.Icon.Get(); ok {
		queryMods = append(queryMods, um.SetCol("icon").ToArg(v))
	}
	if v, ok := patch.Color.Get(); ok {
		queryMods = append(queryMods, um.SetCol("color").ToArg(v))
	}
	if len(queryMods) == 1 {
		return w.FindAccount(ctx, id)
	}
	queryMods = append(queryMods,
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning(accountColumns...),
	)
	row, err := bob.One(ctx, w.tx, psql.Update(queryMods...), scan.StructMapper[*storage.Account]())
	if err != nil {
		return nil, notFound(err)
	}
	return row, nil
}

func (w *writer) DeleteAccount(ctx context.Context, id uuid.UUID) (bool, error) {
	query := psql.Delete(
		dm.From("accounts"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return w.execExists(ctx, query)
}

func (w *writer) InsertTransaction(ctx context.Context, create *storage.TransactionCreate) (*storage.Transaction, error) {
	query := psql.Insert(
		im.Into("transactions", "id", "account_id", "description", "amount", "transaction_date", "category", "type", "icon"),
		im.Values(psql.Arg(w.ids(), create.AccountID, create.Description, create.Amount, create.Date, create.Category, int16(create.Type), create.Icon)),
		im.Returning(transactionColumns...),
	)
	return bob.One(ctx, w.tx, query, scan.StructMapper[*storage.Transaction]())
}

func (w *writer) UpdateTransaction(ctx context.Context, id uuid.UUID, patch *storage.TransactionPatch) (*storage.Transaction, error) {
	queryMods := []bob.Mod[*dialect.UpdateQuery]{um.Table("transactions")}
	if v, ok := patch.Description.Get(); ok {
		queryMods = append(queryMods, um.SetCol("description").ToArg(v))
	}
	if v, ok := patch.Amount.Get(); ok {
		queryMods = append(queryMods, um.SetCol("amount").ToArg(v))
	}
	if v, ok := patch.Date.Get(); ok {
		queryMods = append(queryMods, um.SetCol("transaction_date").ToArg(v))
	}
	if v, ok := patch.Category.Get(); ok {
		queryMods = append(queryMods, um.SetCol("category").ToArg(v))
	}
	if v, ok := patch.Type.Get(); ok {
		queryMods = append(queryMods, um.SetCol("type").ToArg(int16(v)))
	}
	if v, ok := patch.Icon.Get(); ok {
		queryMods = append(queryMods, um.SetCol("icon").ToArg(v))
	}
	if len(queryMods) == 1 {
		return w.FindTransaction(ctx, id)
	}
	queryMods = append(queryMods,
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning(transactionColumns...),
	)
	row, err := bob.One(ctx, w.tx, psql.Update(queryMods...), scan.StructMapper[*storage.Transaction]())
	if err != nil {
		return nil, notFound(err)
	}
	return row, nil
}

// DeleteTransaction relies on the assignment table's ON DELETE CASCADE to
// drop the transaction's assignment set with it.
func (w *writer) DeleteTransaction(ctx context.Context, id uuid.UUID) (bool, error) {
	query := psql.Delete(
		dm.From("transactions"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return w.execExists(ctx, query)
}

func (w *writer) ReplaceAssignments(ctx context.Context, transactionID uuid.UUID, set []storage.AssignmentCreate) ([]*storage.Assignment, error) {
	if _, err := w.FindTransaction(ctx, transactionID); err != nil {
		return nil, err
	}
	clear := psql.Delete(
		dm.From("transaction_assignments"),
		dm.Where(psql.Quote("transaction_id").EQ(psql.Arg(transactionID))),
	)
	if _, err := bob.Exec(ctx, w.tx, clear); err != nil {
		return nil, err
	}
	for position, entry := range set {
		insert := psql.Insert(
			im.Into("transaction_assignments", "id", "transaction_id", "assignee", "share_percent", "position"),
			im.Values(psql.Arg(w.ids(), transactionID, entry.Assignee, entry.SharePercent, position)),
		)
		if _, err := bob.Exec(ctx, w.tx, insert); err != nil {
			return nil, err
		}
	}
	return w.ListAssignments(ctx, transactionID)
}

func (w *writer) InsertGoal(ctx context.Context, create *storage.GoalCreate) (*storage.Goal, error) {
	query := psql.Insert(
		im.Into("financial_goals", "id", "name", "description", "target_amount", "current_amount", "target_date", "status", "icon", "color"),
		im.Values(psql.Arg(w.ids(), create.Name, create.Description, create.TargetAmount, create.CurrentAmount, create.TargetDate, int16(create.Status), create.Icon, create.Color)),
		im.Returning(goalColumns...),
	)
	return bob.One(ctx, w.tx, query, scan.StructMapper[*storage.Goal]())
}

func (w *writer) UpdateGoal(ctx context.Context, id uuid.UUID, patch *storage.GoalPatch) (*storage.Goal, error) {
	queryMods := []bob.Mod[*dialect.UpdateQuery]{um.Table("financial_goals")}
	if v, ok := patch.Name.Get(); ok {
		queryMods = append(queryMods, um.SetCol("name").ToArg(v))
	}
	if v, ok := patch.Description.Get(); ok {
		queryMods = append(queryMods, um.SetCol("description").ToArg(v))
	}
	if v, ok := patch.TargetAmount.Get(); ok {
		queryMods = append(queryMods, um.SetCol("target_amount").ToArg(v))
	}
	if v, ok := patch.CurrentAmount.Get(); ok {
		queryMods = append(queryMods, um.SetCol("current_amount").ToArg(v))
	}
	if v, ok := patch.TargetDate.Get(); ok {
		queryMods = append(queryMods, um.SetCol("target_date").ToArg(v))
	}
	if v, ok := patch.Status.Get(); ok {
		queryMods = append(queryMods, um.SetCol("status").ToArg(int16(v)))
	}
	if v, ok := patch.Icon.Get(); ok {
		queryMods = append(queryMods, um.SetCol("icon").ToArg(v))
	}
	if v, ok := patch.Color.Get(); ok {
		queryMods = append(queryMods, um.SetCol("color").ToArg(v))
	}
	if len(queryMods) == 1 {
		return w.FindGoal(ctx, id)
	}
	queryMods = append(queryMods,
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning(goalColumns...),
	)
	row, err := bob.One(ctx, w.tx, psql.Update(queryMods...), scan.StructMapper[*storage.Goal]())
	if err != nil {
		return nil, notFound(err)
	}
	return row, nil
}

// DeleteGoal unlinks via the join table's ON DELETE CASCADE; linked accounts
// are untouched.
func (w *writer) DeleteGoal(ctx context.Context, id uuid.UUID) (bool, error) {
	query := psql.Delete(
		dm.From("financial_goals"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	return w.execExists(ctx, query)
}

func (w *writer) ReplaceGoalLinks(ctx context.Context, goalID uuid.UUID, accountIDs []uuid.UUID) error {
	if _, err := w.FindGoal(ctx, goalID); err != nil {
		return err
	}
	clear := psql.Delete(
		dm.From("goal_accounts"),
		dm.Where(psql.Quote("goal_id").EQ(psql.Arg(goalID))),
	)
	if _, err := bob.Exec(ctx, w.tx, clear); err != nil {
		return err
	}
	for position, accountID := range accountIDs {
		if _, err := w.FindAccount(ctx, accountID); err != nil {
			return err
		}
		insert := psql.Insert(
			im.Into("goal_accounts", "goal_id", "account_id", "position"),
			im.Values(psql.Arg(goalID, accountID, position)),
		)
		if _, err := bob.Exec(ctx, w.tx, insert); err != nil {
			return err
		}
	}
	return nil
}

// execExists runs a statement and reports whether it touched a row.
func (w *writer) execExists(ctx context.Context, query bob.Query) (bool, error) {
	result, err := bob.Exec(ctx, w.tx, query)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
