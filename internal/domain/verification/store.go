package verification

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, req ChangeRequest) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO change_requests (
      id, employee_id, change_type, proposed_routing, proposed_account,
      proposed_street, proposed_city, proposed_region, proposed_country,
      ip, device_id, status, score, code_hash, code_expires_at,
      failed_attempts, created_at, updated_at
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
  `, req.ID, req.EmployeeID, req.ChangeType, req.ProposedRouting, req.ProposedAccount,
		req.ProposedAddress.Street, req.ProposedAddress.City, req.ProposedAddress.Region, req.ProposedAddress.Country,
		req.IP, req.DeviceID, req.Status, req.Score, nullIfEmpty(req.CodeHash), req.CodeExpiresAt,
		req.FailedAttempts, req.CreatedAt, req.UpdatedAt)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (ChangeRequest, error) {
	var req ChangeRequest
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, change_type, proposed_routing, proposed_account,
           proposed_street, proposed_city, proposed_region, proposed_country,
           ip, device_id, status, score, COALESCE(code_hash, ''), code_expires_at,
           failed_attempts, COALESCE(approver_id, ''), COALESCE(approver_note, ''),
           resolved_at, created_at, updated_at
    FROM change_requests
    WHERE id = $1
  `, id).Scan(
		&req.ID, &req.EmployeeID, &req.ChangeType, &req.ProposedRouting, &req.ProposedAccount,
		&req.ProposedAddress.Street, &req.ProposedAddress.City, &req.ProposedAddress.Region, &req.ProposedAddress.Country,
		&req.IP, &req.DeviceID, &req.Status, &req.Score, &req.CodeHash, &req.CodeExpiresAt,
		&req.FailedAttempts, &req.ApproverID, &req.ApproverNote,
		&req.ResolvedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ChangeRequest{}, ErrRequestNotFound
	}
	return req, err
}

func (s *Store) Resolve(ctx context.Context, id, fromStatus, toStatus, approverID, note string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE change_requests
    SET status = $3, approver_id = NULLIF($4, ''), approver_note = NULLIF($5, ''),
        code_hash = NULL, resolved_at = now(), updated_at = now()
    WHERE id = $1 AND status = $2
  `, id, fromStatus, toStatus, approverID, note)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) Escalate(ctx context.Context, id, fromStatus, toStatus string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE change_requests
    SET status = $3, code_hash = NULL, code_expires_at = NULL, updated_at = now()
    WHERE id = $1 AND status = $2
  `, id, fromStatus, toStatus)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) IncrementFailedAttempts(ctx context.Context, id string) (int, error) {
	var attempts int
	err := s.DB.QueryRow(ctx, `
    UPDATE change_requests
    SET failed_attempts = failed_attempts + 1, updated_at = now()
    WHERE id = $1
    RETURNING failed_attempts
  `, id).Scan(&attempts)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrRequestNotFound
	}
	return attempts, err
}

func (s *Store) CreateCase(ctx context.Context, c Case) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO cases (id, change_request_id, employee_id, reason, opened_by, created_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, c.ID, c.ChangeRequestID, c.EmployeeID, c.Reason, c.OpenedBy, c.CreatedAt)
	return err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
