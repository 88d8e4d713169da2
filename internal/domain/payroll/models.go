package payroll

import (
	"time"

	"github.com/google/uuid"
)

type Cycle struct {
	ID          string     `json:"id"`
	PeriodStart time.Time  `json:"periodStart"`
	PeriodEnd   time.Time  `json:"periodEnd"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Paid        int        `json:"paid"`
	Held        int        `json:"held"`
	Failed      int        `json:"failed"`
}

// Record is the pay-or-hold outcome for one employee in one cycle. It
// snapshots the bank account actually used so later account changes
// cannot rewrite history.
type Record struct {
	ID              string    `json:"id"`
	CycleID         string    `json:"cycleId"`
	EmployeeID      string    `json:"employeeId"`
	RoutingNumber   string    `json:"routingNumber"`
	AccountNumber   string    `json:"accountNumber"`
	Amount          float64   `json:"amount"`
	PeriodStart     time.Time `json:"periodStart"`
	PeriodEnd       time.Time `json:"periodEnd"`
	Status          string    `json:"status"`
	HoldReason      string    `json:"holdReason,omitempty"`
	RiskScore       int       `json:"riskScore"`
	ChangeRequestID string    `json:"changeRequestId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func NewRecord(cycleID, employeeID, routing, account string, amount float64, periodStart, periodEnd time.Time) Record {
	return Record{
		ID:            uuid.NewString(),
		CycleID:       cycleID,
		EmployeeID:    employeeID,
		RoutingNumber: routing,
		AccountNumber: account,
		Amount:        amount,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		Status:        RecordStatusPaid,
		CreatedAt:     time.Now().UTC(),
	}
}

type Summary struct {
	CycleID string   `json:"cycleId"`
	Skipped bool     `json:"skipped"`
	Paid    int      `json:"paid"`
	Held    int      `json:"held"`
	Failed  int      `json:"failed"`
	Records []Record `json:"records"`
}
