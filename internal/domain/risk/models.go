package risk

import (
	"time"

	"github.com/google/uuid"

	"payguard/internal/domain/employee"
)

const (
	ActionDepositChange = "deposit_change"
	ActionAddressChange = "address_change"
)

// Event is the immutable record of one scoring attempt. Events are
// insert-only; later evaluations read them back as aggregate signals.
type Event struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Action     string    `json:"action"`
	Score      int       `json:"score"`
	Codes      []string  `json:"codes"`
	IP         string    `json:"ip"`
	DeviceID   string    `json:"deviceId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewEvent(employeeID, action string, score int, codes []string, ip, deviceID string, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Action:     action,
		Score:      score,
		Codes:      codes,
		IP:         ip,
		DeviceID:   deviceID,
		CreatedAt:  at,
	}
}

// Context carries everything the caller knows about one attempt.
type Context struct {
	IP              string            `json:"ip"`
	DeviceID        string            `json:"deviceId"`
	Action          string            `json:"action"`
	ProposedRouting string            `json:"proposedRouting,omitempty"`
	ProposedAccount string            `json:"proposedAccount,omitempty"`
	ProposedAddress *employee.Address `json:"proposedAddress,omitempty"`
	LastLoginAt     *time.Time        `json:"lastLoginAt,omitempty"`
	At              time.Time         `json:"-"`
}

type Assessment struct {
	Score int      `json:"score"`
	Codes []string `json:"codes"`
}
