package verification

import (
	"time"

	"github.com/google/uuid"

	"payguard/internal/domain/employee"
)

type ChangeRequest struct {
	ID              string           `json:"id"`
	EmployeeID      string           `json:"employeeId"`
	ChangeType      string           `json:"changeType"`
	ProposedRouting string           `json:"proposedRouting,omitempty"`
	ProposedAccount string           `json:"proposedAccount,omitempty"`
	ProposedAddress employee.Address `json:"proposedAddress"`
	IP              string           `json:"ip"`
	DeviceID        string           `json:"deviceId"`
	Status          string           `json:"status"`
	Score           int              `json:"score"`
	CodeHash        string           `json:"-"`
	CodeExpiresAt   *time.Time       `json:"codeExpiresAt,omitempty"`
	FailedAttempts  int              `json:"failedAttempts"`
	ApproverID      string           `json:"approverId,omitempty"`
	ApproverNote    string           `json:"approverNote,omitempty"`
	ResolvedAt      *time.Time       `json:"resolvedAt,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// NewChangeRequest computes derived fields (id, timestamps) up front so
// the entity is complete before it is ever persisted.
func NewChangeRequest(employeeID, changeType, status string, score int, proposedRouting, proposedAccount string, proposedAddress employee.Address, ip, deviceID string) ChangeRequest {
	now := time.Now().UTC()
	return ChangeRequest{
		ID:              uuid.NewString(),
		EmployeeID:      employeeID,
		ChangeType:      changeType,
		ProposedRouting: proposedRouting,
		ProposedAccount: proposedAccount,
		ProposedAddress: proposedAddress,
		IP:              ip,
		DeviceID:        deviceID,
		Status:          status,
		Score:           score,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (r ChangeRequest) Terminal() bool {
	switch r.Status {
	case StatusApproved, StatusDenied, StatusExpired:
		return true
	}
	return false
}

// Case is opened when a multi-party review denies a change, handing the
// incident to investigators.
type Case struct {
	ID              string    `json:"id"`
	ChangeRequestID string    `json:"changeRequestId"`
	EmployeeID      string    `json:"employeeId"`
	Reason          string    `json:"reason"`
	OpenedBy        string    `json:"openedBy"`
	CreatedAt       time.Time `json:"createdAt"`
}

func NewCase(changeRequestID, employeeID, reason, openedBy string) Case {
	return Case{
		ID:              uuid.NewString(),
		ChangeRequestID: changeRequestID,
		EmployeeID:      employeeID,
		Reason:          reason,
		OpenedBy:        openedBy,
		CreatedAt:       time.Now().UTC(),
	}
}

type EvaluateResult struct {
	Score           int      `json:"score"`
	Codes           []string `json:"codes"`
	Path            string   `json:"path"`
	ChangeRequestID string   `json:"changeRequestId,omitempty"`
}

type VerifyResult struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason"`
}
