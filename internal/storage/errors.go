package storage

import "errors"

var (
	// ErrNotFound is returned when an operation references a nonexistent id.
	ErrNotFound = errors.New("record not found")

	// ErrAccountInUse is returned when deleting an account that is still
	// referenced by a transaction or a goal link. The check runs inside the
	// delete's write unit so it cannot race a concurrent posting.
	ErrAccountInUse = errors.New("account is referenced by transactions or goal links")
)
