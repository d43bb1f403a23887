package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/finance-server/internal/storage"
)

func share(assignee, percent string) storage.AssignmentCreate {
	return storage.AssignmentCreate{
		Assignee:     assignee,
		SharePercent: decimal.RequireFromString(percent),
	}
}

func TestValidateAssignments(t *testing.T) {
	cases := []struct {
		name string
		set  []storage.AssignmentCreate
		want error
	}{
		{"empty set is valid", nil, nil},
		{"single full share", []storage.AssignmentCreate{share("Me", "100")}, nil},
		{"even split", []storage.AssignmentCreate{share("Me", "50"), share("Alex", "50")}, nil},
		{"three-way split within tolerance", []storage.AssignmentCreate{
			share("Me", "33.33"), share("Alex", "33.33"), share("Sam", "33.33"),
		}, nil},
		{"sum just inside tolerance high", []storage.AssignmentCreate{
			share("Me", "50"), share("Alex", "50.01"),
		}, nil},
		{"blank assignee", []storage.AssignmentCreate{share("   ", "100")}, ErrAssigneeEmpty},
		{"zero share", []storage.AssignmentCreate{share("Me", "0"), share("Alex", "100")}, ErrShareOutOfRange},
		{"negative share", []storage.AssignmentCreate{share("Me", "-10"), share("Alex", "110")}, ErrShareOutOfRange},
		{"share above hundred", []storage.AssignmentCreate{share("Me", "100.5")}, ErrShareOutOfRange},
		{"sum too low", []storage.AssignmentCreate{share("Me", "60"), share("Alex", "30")}, ErrShareSumInvalid},
		{"sum too high", []storage.AssignmentCreate{share("Me", "60"), share("Alex", "60")}, ErrShareSumInvalid},
		{"sum outside tolerance", []storage.AssignmentCreate{
			share("Me", "50"), share("Alex", "50.02"),
		}, ErrShareSumInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAssignments(tc.set)
			if tc.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}
