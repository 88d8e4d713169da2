package audit

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Tail(ctx context.Context, employeeID string) (string, int, error) {
	var hash string
	var seq int
	err := s.DB.QueryRow(ctx, `
    SELECT curr_hash, seq
    FROM audit_events
    WHERE employee_id = $1
    ORDER BY seq DESC
    LIMIT 1
  `, employeeID).Scan(&hash, &seq)
	if errors.Is(err, pgx.ErrNoRows) {
		return GenesisHash, 0, nil
	}
	if err != nil {
		return "", 0, err
	}
	return hash, seq, nil
}

func (s *Store) Insert(ctx context.Context, event Event) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (id, employee_id, seq, action, decision, reason_codes, device_id, ip, prev_hash, curr_hash, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
  `, event.ID, event.EmployeeID, event.Seq, event.Action, event.Decision, event.ReasonCodes,
		event.DeviceID, event.IP, event.PrevHash, event.CurrHash, event.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrStaleTail
	}
	return err
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Event, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, seq, action, decision, reason_codes, device_id, ip, prev_hash, curr_hash, created_at
    FROM audit_events
    WHERE employee_id = $1
    ORDER BY seq ASC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var event Event
		if err := rows.Scan(&event.ID, &event.EmployeeID, &event.Seq, &event.Action, &event.Decision, &event.ReasonCodes,
			&event.DeviceID, &event.IP, &event.PrevHash, &event.CurrHash, &event.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, rows.Err()
}
