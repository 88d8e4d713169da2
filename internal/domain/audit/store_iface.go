package audit

import "context"

type StoreAPI interface {
	// Tail returns the chain tail's hash and sequence number, or
	// (GenesisHash, 0) for an employee with no events yet.
	Tail(ctx context.Context, employeeID string) (string, int, error)
	// Insert appends an event; ErrStaleTail when (employee, seq) is
	// already taken.
	Insert(ctx context.Context, event Event) error
	ListByEmployee(ctx context.Context, employeeID string) ([]Event, error)
}
