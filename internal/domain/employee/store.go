package employee

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

const employeeColumns = `
  id, first_name, last_name, email, known_ips, known_devices,
  baseline_routing, baseline_account, routing_number, account_number,
  address_street, address_city, address_region, address_country,
  frozen, COALESCE(frozen_reason, ''), status, created_at, updated_at`

func (s *Store) Create(ctx context.Context, emp Employee) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employees (
      id, first_name, last_name, email, known_ips, known_devices,
      baseline_routing, baseline_account, routing_number, account_number,
      address_street, address_city, address_region, address_country,
      frozen, frozen_reason, status, created_at, updated_at
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
  `, emp.ID, emp.FirstName, emp.LastName, emp.Email, emp.KnownIPs, emp.KnownDevices,
		emp.BaselineRouting, emp.BaselineAccount, emp.RoutingNumber, emp.AccountNumber,
		emp.Address.Street, emp.Address.City, emp.Address.Region, emp.Address.Country,
		emp.Frozen, emp.FrozenReason, emp.Status, emp.CreatedAt, emp.UpdatedAt)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	emp, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func (s *Store) UpdateBankAccount(ctx context.Context, id, routing, account string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET routing_number = $2, account_number = $3, updated_at = now()
    WHERE id = $1
  `, id, routing, account)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateAddress(ctx context.Context, id string, addr Address) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET address_street = $2, address_city = $3, address_region = $4, address_country = $5, updated_at = now()
    WHERE id = $1
  `, id, addr.Street, addr.City, addr.Region, addr.Country)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) PromoteTrust(ctx context.Context, id, ip, deviceID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET known_ips = CASE WHEN $2 = '' OR $2 = ANY(known_ips) THEN known_ips ELSE array_append(known_ips, $2) END,
        known_devices = CASE WHEN $3 = '' OR $3 = $4 OR $3 = ANY(known_devices) THEN known_devices ELSE array_append(known_devices, $3) END,
        updated_at = now()
    WHERE id = $1
  `, id, ip, deviceID, UnknownDevice)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetFrozen(ctx context.Context, id string, frozen bool, reason string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET frozen = $2, frozen_reason = $3, updated_at = now()
    WHERE id = $1
  `, id, frozen, reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListActive(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+employeeColumns+` FROM employees WHERE status = $1 ORDER BY created_at`, StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.KnownIPs, &emp.KnownDevices,
		&emp.BaselineRouting, &emp.BaselineAccount, &emp.RoutingNumber, &emp.AccountNumber,
		&emp.Address.Street, &emp.Address.City, &emp.Address.Region, &emp.Address.Country,
		&emp.Frozen, &emp.FrozenReason, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}
