package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/storage"
)

var (
	hundredPercent = decimal.NewFromInt(100)
	shareTolerance = decimal.RequireFromString("0.01")
)

// ValidateAssignments checks an assignment set against the ledger's split
// invariant: every assignee labelled, every share in (0, 100], and the shares
// summing to 100 within a 0.01 tolerance. An empty set is valid; it is
// normalized to a single default-assignee record at write time.
func ValidateAssignments(set []storage.AssignmentCreate) error {
	if len(set) == 0 {
		return nil
	}

	total := decimal.Zero
	for _, entry := range set {
		if strings.TrimSpace(entry.Assignee) == "" {
			return ErrAssigneeEmpty
		}
		if !entry.SharePercent.IsPositive() || entry.SharePercent.GreaterThan(hundredPercent) {
			return ErrShareOutOfRange
		}
		total = total.Add(entry.SharePercent)
	}

	if total.Sub(hundredPercent).Abs().GreaterThan(shareTolerance) {
		return ErrShareSumInvalid
	}
	return nil
}
