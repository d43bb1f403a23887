package service

import "errors"

// Validation errors. All of them are raised before any mutation is enqueued,
// so a rejected request leaves stored state untouched.
var (
	// ErrAmountNotPositive rejects a zero or negative transaction amount.
	ErrAmountNotPositive = errors.New("transaction amount must be positive")

	// ErrDateMissing rejects a transaction without a date.
	ErrDateMissing = errors.New("transaction date is required")

	// ErrAssigneeEmpty rejects an assignment with a blank assignee label.
	ErrAssigneeEmpty = errors.New("assignment assignee must not be empty")

	// ErrShareOutOfRange rejects a share percent outside (0, 100].
	ErrShareOutOfRange = errors.New("assignment share percent must be in (0, 100]")

	// ErrShareSumInvalid rejects an assignment set whose share percents do
	// not sum to 100 within a 0.01 tolerance.
	ErrShareSumInvalid = errors.New("assignment share percents must sum to 100")

	// ErrTargetAmountNotPositive rejects a zero or negative goal target.
	ErrTargetAmountNotPositive = errors.New("goal target amount must be positive")

	// ErrCurrentAmountNegative rejects a negative goal current amount.
	ErrCurrentAmountNegative = errors.New("goal current amount must not be negative")
)
