package payroll

import (
	"context"
	"time"
)

type StoreAPI interface {
	// ClaimCycle atomically registers the cycle id. False means the
	// cycle was already processed (or is being processed): the caller
	// must not touch any employee rows.
	ClaimCycle(ctx context.Context, cycle Cycle) (bool, error)
	CompleteCycle(ctx context.Context, cycleID string, paid, held, failed int) error
	GetCycle(ctx context.Context, cycleID string) (Cycle, error)
	InsertRecord(ctx context.Context, record Record) error
	ListRecords(ctx context.Context, cycleID string) ([]Record, error)

	// Decision inputs, evaluated per employee.
	OpenManagerRequest(ctx context.Context, employeeID string) (string, int, bool, error)
	RecentHighScoreApproval(ctx context.Context, employeeID string, minScore int, since time.Time) (string, int, bool, error)
	DepositBurst(ctx context.Context, employeeID string, minScore int, since time.Time) (int, int, error)
}
