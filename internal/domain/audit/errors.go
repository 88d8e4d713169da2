package audit

import "errors"

var (
	// ErrStaleTail signals that another writer appended to the same
	// employee's chain between reading the tail and inserting.
	ErrStaleTail = errors.New("audit chain tail changed concurrently")
)
