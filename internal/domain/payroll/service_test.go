package payroll

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"payguard/internal/domain/employee"
)

type memStore struct {
	mu      sync.Mutex
	cycles  map[string]Cycle
	records map[string][]Record

	managerRequests map[string]string // employeeID -> open request id
	managerScores   map[string]int
	recentApprovals map[string]int // employeeID -> approved score
	bursts          map[string]int // employeeID -> high-risk deposit changes

	failInsertFor string
}

func newMemStore() *memStore {
	return &memStore{
		cycles:          map[string]Cycle{},
		records:         map[string][]Record{},
		managerRequests: map[string]string{},
		managerScores:   map[string]int{},
		recentApprovals: map[string]int{},
		bursts:          map[string]int{},
	}
}

func (m *memStore) ClaimCycle(ctx context.Context, cycle Cycle) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cycles[cycle.ID]; ok {
		return false, nil
	}
	m.cycles[cycle.ID] = cycle
	return true, nil
}

func (m *memStore) CompleteCycle(ctx context.Context, cycleID string, paid, held, failed int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cycle := m.cycles[cycleID]
	now := time.Now().UTC()
	cycle.CompletedAt = &now
	cycle.Paid, cycle.Held, cycle.Failed = paid, held, failed
	m.cycles[cycleID] = cycle
	return nil
}

func (m *memStore) GetCycle(ctx context.Context, cycleID string) (Cycle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cycle, ok := m.cycles[cycleID]
	if !ok {
		return Cycle{}, ErrCycleNotFound
	}
	return cycle, nil
}

func (m *memStore) InsertRecord(ctx context.Context, record Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record.EmployeeID == m.failInsertFor {
		return errors.New("connection reset")
	}
	m.records[record.CycleID] = append(m.records[record.CycleID], record)
	return nil
}

func (m *memStore) ListRecords(ctx context.Context, cycleID string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[cycleID], nil
}

func (m *memStore) OpenManagerRequest(ctx context.Context, employeeID string) (string, int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.managerRequests[employeeID]
	if !ok {
		return "", 0, false, nil
	}
	return id, m.managerScores[employeeID], true, nil
}

func (m *memStore) RecentHighScoreApproval(ctx context.Context, employeeID string, minScore int, since time.Time) (string, int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	score, ok := m.recentApprovals[employeeID]
	if !ok || score <= minScore {
		return "", 0, false, nil
	}
	return "cr-" + employeeID, score, true, nil
}

func (m *memStore) DepositBurst(ctx context.Context, employeeID string, minScore int, since time.Time) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := m.bursts[employeeID]
	if count == 0 {
		return 0, 0, nil
	}
	return count, 85, nil
}

type memEmployees struct {
	list []employee.Employee
}

func (m *memEmployees) Create(ctx context.Context, emp employee.Employee) error { return nil }
func (m *memEmployees) Get(ctx context.Context, id string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrNotFound
}
func (m *memEmployees) UpdateBankAccount(ctx context.Context, id, routing, account string) error {
	return nil
}
func (m *memEmployees) UpdateAddress(ctx context.Context, id string, addr employee.Address) error {
	return nil
}
func (m *memEmployees) PromoteTrust(ctx context.Context, id, ip, deviceID string) error { return nil }
func (m *memEmployees) SetFrozen(ctx context.Context, id string, frozen bool, reason string) error {
	return nil
}
func (m *memEmployees) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return m.list, nil
}

func staff(ids ...string) *memEmployees {
	var list []employee.Employee
	for _, id := range ids {
		list = append(list, employee.Employee{
			ID:            id,
			RoutingNumber: "021000021",
			AccountNumber: "000" + id,
			Status:        employee.StatusActive,
		})
	}
	return &memEmployees{list: list}
}

var (
	periodStart = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
)

func TestRunCyclePaysEveryone(t *testing.T) {
	store := newMemStore()
	service := NewService(store, staff("e1", "e2", "e3"), Settings{Workers: 2})

	summary, err := service.RunCycle(context.Background(), "2026-03-a", periodStart, periodEnd, 2500)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.Skipped {
		t.Fatal("fresh cycle must not be skipped")
	}
	if summary.Paid != 3 || summary.Held != 0 || summary.Failed != 0 {
		t.Fatalf("summary = %+v, want 3 paid", summary)
	}
	for i, record := range summary.Records {
		if record.Status != RecordStatusPaid {
			t.Fatalf("record %d status = %s, want paid", i, record.Status)
		}
		if record.Amount != 2500 {
			t.Fatalf("record %d amount = %v, want 2500", i, record.Amount)
		}
	}
	// Records come back ordered by employee for stable reporting.
	if summary.Records[0].EmployeeID != "e1" || summary.Records[2].EmployeeID != "e3" {
		t.Fatalf("records out of order: %+v", summary.Records)
	}
}

func TestRunCycleIsIdempotent(t *testing.T) {
	store := newMemStore()
	service := NewService(store, staff("e1", "e2"), Settings{})

	first, err := service.RunCycle(context.Background(), "2026-03-a", periodStart, periodEnd, 2500)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	second, err := service.RunCycle(context.Background(), "2026-03-a", periodStart, periodEnd, 2500)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}

	if !second.Skipped {
		t.Fatal("rerun of a processed cycle must be skipped")
	}
	if second.Paid != 0 || len(second.Records) != 0 {
		t.Fatalf("skipped summary must be empty, got %+v", second)
	}

	records, _ := store.ListRecords(context.Background(), "2026-03-a")
	if len(records) != first.Paid {
		t.Fatalf("rerun wrote records: %d, want %d", len(records), first.Paid)
	}
}

func TestRunCycleRejectsBadInput(t *testing.T) {
	service := NewService(newMemStore(), staff("e1"), Settings{})
	ctx := context.Background()

	if _, err := service.RunCycle(ctx, "", periodStart, periodEnd, 2500); err == nil {
		t.Fatal("expected error for empty cycle id")
	}
	if _, err := service.RunCycle(ctx, "c1", periodEnd, periodStart, 2500); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("err = %v, want ErrInvalidPeriod", err)
	}
	if _, err := service.RunCycle(ctx, "c1", periodStart, periodEnd, 0); err == nil {
		t.Fatal("expected error for non-positive amount")
	}
}

func TestRunCycleHoldsOnOpenManagerRequest(t *testing.T) {
	store := newMemStore()
	store.managerRequests["e2"] = "cr-42"
	store.managerScores["e2"] = 88
	service := NewService(store, staff("e1", "e2"), Settings{})

	summary, err := service.RunCycle(context.Background(), "c1", periodStart, periodEnd, 2500)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.Paid != 1 || summary.Held != 1 {
		t.Fatalf("summary = %+v, want 1 paid 1 held", summary)
	}
	held := summary.Records[1]
	if held.EmployeeID != "e2" || held.Status != RecordStatusHeld {
		t.Fatalf("held record = %+v", held)
	}
	if !strings.Contains(held.HoldReason, "cr-42") {
		t.Fatalf("hold reason %q should name the blocking request", held.HoldReason)
	}
	if held.ChangeRequestID != "cr-42" || held.RiskScore != 88 {
		t.Fatalf("held record = %+v, want request link and score", held)
	}
}

func TestRunCycleHoldsDuringCoolingOff(t *testing.T) {
	store := newMemStore()
	store.recentApprovals["e1"] = 75
	service := NewService(store, staff("e1"), Settings{CoolingOff: 24 * time.Hour})

	summary, err := service.RunCycle(context.Background(), "c1", periodStart, periodEnd, 2500)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Held != 1 {
		t.Fatalf("summary = %+v, want 1 held", summary)
	}
	if !strings.Contains(summary.Records[0].HoldReason, "cooling-off") {
		t.Fatalf("hold reason = %q", summary.Records[0].HoldReason)
	}
}

func TestRunCycleIgnoresLowScoreApprovals(t *testing.T) {
	store := newMemStore()
	store.recentApprovals["e1"] = 40
	service := NewService(store, staff("e1"), Settings{})

	summary, err := service.RunCycle(context.Background(), "c1", periodStart, periodEnd, 2500)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Paid != 1 || summary.Held != 0 {
		t.Fatalf("summary = %+v, want low-score approval paid normally", summary)
	}
}

func TestRunCycleHoldsOnDepositBurst(t *testing.T) {
	store := newMemStore()
	store.bursts["e1"] = 3
	service := NewService(store, staff("e1"), Settings{})

	summary, err := service.RunCycle(context.Background(), "c1", periodStart, periodEnd, 2500)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Held != 1 {
		t.Fatalf("summary = %+v, want 1 held", summary)
	}
	record := summary.Records[0]
	if !strings.Contains(record.HoldReason, "3 high-risk deposit changes") {
		t.Fatalf("hold reason = %q", record.HoldReason)
	}
	if record.RiskScore != 85 {
		t.Fatalf("risk score = %d, want the burst maximum", record.RiskScore)
	}
}

func TestRunCycleManagerHoldWinsOverBurst(t *testing.T) {
	store := newMemStore()
	store.managerRequests["e1"] = "cr-9"
	store.bursts["e1"] = 5
	service := NewService(store, staff("e1"), Settings{})

	summary, err := service.RunCycle(context.Background(), "c1", periodStart, periodEnd, 2500)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(summary.Records[0].HoldReason, "cr-9") {
		t.Fatalf("hold reason = %q, want the manager rule to win", summary.Records[0].HoldReason)
	}
}

func TestRunCycleIsolatesEmployeeFailures(t *testing.T) {
	store := newMemStore()
	store.failInsertFor = "e2"
	service := NewService(store, staff("e1", "e2", "e3"), Settings{Workers: 1})

	summary, err := service.RunCycle(context.Background(), "c1", periodStart, periodEnd, 2500)
	if err != nil {
		t.Fatalf("one bad employee must not fail the cycle: %v", err)
	}

	if summary.Paid != 2 || summary.Failed != 1 {
		t.Fatalf("summary = %+v, want 2 paid 1 failed", summary)
	}

	cycle, _ := store.GetCycle(context.Background(), "c1")
	if cycle.CompletedAt == nil {
		t.Fatal("cycle must still complete")
	}
	if cycle.Failed != 1 {
		t.Fatalf("cycle failed count = %d, want 1", cycle.Failed)
	}
}

func TestListRecordsUnknownCycle(t *testing.T) {
	service := NewService(newMemStore(), staff(), Settings{})
	if _, err := service.ListRecords(context.Background(), "nope"); !errors.Is(err, ErrCycleNotFound) {
		t.Fatalf("err = %v, want ErrCycleNotFound", err)
	}
}
