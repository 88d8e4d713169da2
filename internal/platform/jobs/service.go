package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"payguard/internal/domain/payroll"
	"payguard/internal/platform/config"
)

const JobPayrollCycle = "payroll_cycle"

// Service triggers scheduled payroll cycles. The cycle id is derived
// from the period start, so a restarted scheduler re-running the same
// period hits the engine's idempotency guard and becomes a no-op.
type Service struct {
	payroll *payroll.Service
	cfg     config.Config
}

func New(payrollSvc *payroll.Service, cfg config.Config) *Service {
	return &Service{payroll: payrollSvc, cfg: cfg}
}

func (s *Service) Start(ctx context.Context) {
	if s.cfg.PayrollCycleInterval <= 0 || s.cfg.DefaultPayAmount <= 0 {
		slog.Info("payroll scheduler disabled")
		return
	}
	go s.loop(ctx)
}

func (s *Service) loop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PayrollCycleInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runScheduled(ctx)
		}
	}
}

func (s *Service) runScheduled(ctx context.Context) {
	periodEnd := time.Now().UTC().Truncate(s.cfg.PayrollCycleInterval)
	periodStart := periodEnd.Add(-s.cfg.PayrollCycleInterval)
	cycleID := fmt.Sprintf("auto-%s", periodStart.Format("2006-01-02T15-04"))

	summary, err := s.payroll.RunCycle(ctx, cycleID, periodStart, periodEnd, s.cfg.DefaultPayAmount)
	if err != nil {
		slog.Error("scheduled payroll cycle failed", "job", JobPayrollCycle, "cycleId", cycleID, "err", err)
		return
	}
	if summary.Skipped {
		return
	}
	slog.Info("scheduled payroll cycle finished", "job", JobPayrollCycle, "cycleId", cycleID, "paid", summary.Paid, "held", summary.Held)
}
