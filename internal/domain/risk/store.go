package risk

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, event Event) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO risk_events (id, employee_id, action, score, codes, ip, device_id, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, event.ID, event.EmployeeID, event.Action, event.Score, event.Codes, event.IP, event.DeviceID, event.CreatedAt)
	return err
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]Event, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, action, score, codes, ip, device_id, created_at
    FROM risk_events
    WHERE employee_id = $1
    ORDER BY created_at DESC
    LIMIT $2
  `, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var event Event
		if err := rows.Scan(&event.ID, &event.EmployeeID, &event.Action, &event.Score, &event.Codes, &event.IP, &event.DeviceID, &event.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

func (s *Store) CountAttemptsSince(ctx context.Context, employeeID string, since time.Time) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM risk_events WHERE employee_id = $1 AND created_at >= $2
  `, employeeID, since).Scan(&count)
	return count, err
}

func (s *Store) CountHighScoreSince(ctx context.Context, employeeID string, threshold int, since time.Time) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM risk_events WHERE employee_id = $1 AND score > $2 AND created_at >= $3
  `, employeeID, threshold, since).Scan(&count)
	return count, err
}

func (s *Store) CountRoutingAdoptersSince(ctx context.Context, routing, excludeEmployeeID string, since time.Time) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(DISTINCT employee_id)
    FROM change_requests
    WHERE proposed_routing = $1 AND employee_id <> $2 AND created_at >= $3
  `, routing, excludeEmployeeID, since).Scan(&count)
	return count, err
}

func (s *Store) AverageScoreSince(ctx context.Context, employeeID string, since time.Time) (float64, error) {
	var avg float64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(AVG(score), 0) FROM risk_events WHERE employee_id = $1 AND created_at >= $2
  `, employeeID, since).Scan(&avg)
	return avg, err
}
