package risk

import (
	"context"
	"time"
)

type StoreAPI interface {
	Insert(ctx context.Context, event Event) error
	ListByEmployee(ctx context.Context, employeeID string, limit int) ([]Event, error)
	CountAttemptsSince(ctx context.Context, employeeID string, since time.Time) (int, error)
	CountHighScoreSince(ctx context.Context, employeeID string, threshold int, since time.Time) (int, error)
	CountRoutingAdoptersSince(ctx context.Context, routing, excludeEmployeeID string, since time.Time) (int, error)
	AverageScoreSince(ctx context.Context, employeeID string, since time.Time) (float64, error)
}
