package audit

import "time"

const (
	DecisionAllow     = "allow"
	DecisionChallenge = "challenge"
	DecisionBlock     = "block"

	// GenesisHash is the sentinel previous-hash of the first event in
	// an employee's chain.
	GenesisHash = "GENESIS"
)

// Event is one hash-chained ledger entry. Events are immutable once
// written; CurrHash covers every field including PrevHash, so editing
// any of them is detectable.
type Event struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	Seq         int       `json:"seq"`
	Action      string    `json:"action"`
	Decision    string    `json:"decision"`
	ReasonCodes []string  `json:"reasonCodes"`
	DeviceID    string    `json:"deviceId"`
	IP          string    `json:"ip"`
	PrevHash    string    `json:"prevHash"`
	CurrHash    string    `json:"currHash"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Report is the outcome of walking one employee's chain.
type Report struct {
	Intact      bool   `json:"intact"`
	BrokenIndex *int   `json:"brokenIndex,omitempty"`
	BrokenEvent *Event `json:"brokenEvent,omitempty"`
}
