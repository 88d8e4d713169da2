package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"payguard/internal/domain/employee"
)

type Settings struct {
	CoolingOff time.Duration
	Workers    int
}

// Service runs one pay-or-hold pass over all active employees per
// cycle. The cycle id is claimed atomically before any employee row is
// written, so re-running a processed cycle is a no-op.
type Service struct {
	store     StoreAPI
	employees employee.StoreAPI
	settings  Settings
}

func NewService(store StoreAPI, employees employee.StoreAPI, settings Settings) *Service {
	if settings.Workers < 1 {
		settings.Workers = 1
	}
	if settings.CoolingOff <= 0 {
		settings.CoolingOff = 24 * time.Hour
	}
	return &Service{store: store, employees: employees, settings: settings}
}

func (s *Service) RunCycle(ctx context.Context, cycleID string, periodStart, periodEnd time.Time, defaultAmount float64) (Summary, error) {
	if cycleID == "" {
		return Summary{}, fmt.Errorf("cycle id is required")
	}
	if !periodEnd.After(periodStart) {
		return Summary{}, ErrInvalidPeriod
	}
	if defaultAmount <= 0 {
		return Summary{}, fmt.Errorf("default amount must be positive")
	}

	claimed, err := s.store.ClaimCycle(ctx, Cycle{
		ID:          cycleID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		StartedAt:   time.Now().UTC(),
	})
	if err != nil {
		return Summary{}, err
	}
	if !claimed {
		slog.Info("payroll cycle already processed, skipping", "cycleId", cycleID)
		return Summary{CycleID: cycleID, Skipped: true}, nil
	}

	emps, err := s.employees.ListActive(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{CycleID: cycleID}
	var mu sync.Mutex
	var wg sync.WaitGroup
	work := make(chan employee.Employee)

	for i := 0; i < s.settings.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for emp := range work {
				record, err := s.processEmployee(ctx, cycleID, emp, periodStart, periodEnd, defaultAmount)
				mu.Lock()
				if err != nil {
					summary.Failed++
					slog.Error("payroll decision failed", "cycleId", cycleID, "employeeId", emp.ID, "err", err)
				} else {
					if record.Status == RecordStatusHeld {
						summary.Held++
					} else {
						summary.Paid++
					}
					summary.Records = append(summary.Records, record)
				}
				mu.Unlock()
			}
		}()
	}

	for _, emp := range emps {
		work <- emp
	}
	close(work)
	wg.Wait()

	sort.Slice(summary.Records, func(i, j int) bool {
		return summary.Records[i].EmployeeID < summary.Records[j].EmployeeID
	})

	if err := s.store.CompleteCycle(ctx, cycleID, summary.Paid, summary.Held, summary.Failed); err != nil {
		return Summary{}, err
	}
	slog.Info("payroll cycle complete", "cycleId", cycleID, "paid", summary.Paid, "held", summary.Held, "failed", summary.Failed)
	return summary, nil
}

// processEmployee applies the hold rules in order; the first match
// wins and later rules are not consulted.
func (s *Service) processEmployee(ctx context.Context, cycleID string, emp employee.Employee, periodStart, periodEnd time.Time, amount float64) (Record, error) {
	record := NewRecord(cycleID, emp.ID, emp.RoutingNumber, emp.AccountNumber, amount, periodStart, periodEnd)
	now := time.Now().UTC()

	requestID, score, found, err := s.store.OpenManagerRequest(ctx, emp.ID)
	if err != nil {
		return Record{}, err
	}
	if found {
		record.Status = RecordStatusHeld
		record.HoldReason = fmt.Sprintf("disbursement blocked pending manager approval of change request %s", requestID)
		record.RiskScore = score
		record.ChangeRequestID = requestID
		return record, s.store.InsertRecord(ctx, record)
	}

	requestID, score, found, err = s.store.RecentHighScoreApproval(ctx, emp.ID, coolingOffScoreFloor, now.Add(-s.settings.CoolingOff))
	if err != nil {
		return Record{}, err
	}
	if found {
		record.Status = RecordStatusHeld
		record.HoldReason = fmt.Sprintf("cooling-off after change approved with risk score %d", score)
		record.RiskScore = score
		record.ChangeRequestID = requestID
		return record, s.store.InsertRecord(ctx, record)
	}

	count, maxScore, err := s.store.DepositBurst(ctx, emp.ID, burstScoreFloor, now.Add(-burstWindow))
	if err != nil {
		return Record{}, err
	}
	if count >= burstThreshold {
		record.Status = RecordStatusHeld
		record.HoldReason = fmt.Sprintf("%d high-risk deposit changes in the last hour", count)
		record.RiskScore = maxScore
		return record, s.store.InsertRecord(ctx, record)
	}

	return record, s.store.InsertRecord(ctx, record)
}

func (s *Service) GetCycle(ctx context.Context, cycleID string) (Cycle, error) {
	return s.store.GetCycle(ctx, cycleID)
}

func (s *Service) ListRecords(ctx context.Context, cycleID string) ([]Record, error) {
	if _, err := s.store.GetCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	return s.store.ListRecords(ctx, cycleID)
}
