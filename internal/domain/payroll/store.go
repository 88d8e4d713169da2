package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ClaimCycle(ctx context.Context, cycle Cycle) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO payroll_cycles (id, period_start, period_end, started_at)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (id) DO NOTHING
  `, cycle.ID, cycle.PeriodStart, cycle.PeriodEnd, cycle.StartedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) CompleteCycle(ctx context.Context, cycleID string, paid, held, failed int) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE payroll_cycles
    SET paid = $2, held = $3, failed = $4, completed_at = now()
    WHERE id = $1
  `, cycleID, paid, held, failed)
	return err
}

func (s *Store) GetCycle(ctx context.Context, cycleID string) (Cycle, error) {
	var cycle Cycle
	err := s.DB.QueryRow(ctx, `
    SELECT id, period_start, period_end, started_at, completed_at, paid, held, failed
    FROM payroll_cycles
    WHERE id = $1
  `, cycleID).Scan(&cycle.ID, &cycle.PeriodStart, &cycle.PeriodEnd, &cycle.StartedAt, &cycle.CompletedAt, &cycle.Paid, &cycle.Held, &cycle.Failed)
	if errors.Is(err, pgx.ErrNoRows) {
		return Cycle{}, ErrCycleNotFound
	}
	return cycle, err
}

func (s *Store) InsertRecord(ctx context.Context, record Record) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO pay_records (
      id, cycle_id, employee_id, routing_number, account_number, amount,
      period_start, period_end, status, hold_reason, risk_score, change_request_id, created_at
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NULLIF($12,''),$13)
  `, record.ID, record.CycleID, record.EmployeeID, record.RoutingNumber, record.AccountNumber, record.Amount,
		record.PeriodStart, record.PeriodEnd, record.Status, record.HoldReason, record.RiskScore, record.ChangeRequestID, record.CreatedAt)
	return err
}

func (s *Store) ListRecords(ctx context.Context, cycleID string) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, cycle_id, employee_id, routing_number, account_number, amount,
           period_start, period_end, status, COALESCE(hold_reason, ''), risk_score,
           COALESCE(change_request_id::text, ''), created_at
    FROM pay_records
    WHERE cycle_id = $1
    ORDER BY created_at
  `, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var record Record
		if err := rows.Scan(&record.ID, &record.CycleID, &record.EmployeeID, &record.RoutingNumber, &record.AccountNumber, &record.Amount,
			&record.PeriodStart, &record.PeriodEnd, &record.Status, &record.HoldReason, &record.RiskScore,
			&record.ChangeRequestID, &record.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *Store) OpenManagerRequest(ctx context.Context, employeeID string) (string, int, bool, error) {
	var id string
	var score int
	err := s.DB.QueryRow(ctx, `
    SELECT id, score
    FROM change_requests
    WHERE employee_id = $1 AND status = 'pending_manager'
    ORDER BY created_at DESC
    LIMIT 1
  `, employeeID).Scan(&id, &score)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, err
	}
	return id, score, true, nil
}

func (s *Store) RecentHighScoreApproval(ctx context.Context, employeeID string, minScore int, since time.Time) (string, int, bool, error) {
	var id string
	var score int
	err := s.DB.QueryRow(ctx, `
    SELECT id, score
    FROM change_requests
    WHERE employee_id = $1 AND status = 'approved' AND score > $2 AND resolved_at >= $3
    ORDER BY resolved_at DESC
    LIMIT 1
  `, employeeID, minScore, since).Scan(&id, &score)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, err
	}
	return id, score, true, nil
}

func (s *Store) DepositBurst(ctx context.Context, employeeID string, minScore int, since time.Time) (int, int, error) {
	var count, maxScore int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1), COALESCE(MAX(score), 0)
    FROM risk_events
    WHERE employee_id = $1 AND action = 'deposit_change' AND score > $2 AND created_at >= $3
  `, employeeID, minScore, since).Scan(&count, &maxScore)
	return count, maxScore, err
}
