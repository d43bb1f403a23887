package actions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/storage"
)

var hundredPercent = decimal.NewFromInt(100)

type IAction interface {
	Perform(ctx context.Context, writer storage.Writer) error
}

// DefaultAssignee is the implicit owner of a transaction with no assignment
// set: such a transaction is treated as 100% attributed to it.
const DefaultAssignee = "Me"

// NormalizeAssignments turns an empty assignment set into the single
// 100%-default-assignee record the ledger stores in its place.
func NormalizeAssignments(set []storage.AssignmentCreate) []storage.AssignmentCreate {
	if len(set) > 0 {
		return set
	}
	return []storage.AssignmentCreate{
		{Assignee: DefaultAssignee, SharePercent: hundredPercent},
	}
}
