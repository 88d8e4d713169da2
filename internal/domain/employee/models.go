package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	// UnknownDevice is the sentinel callers send when no device
	// identifier was captured for an attempt.
	UnknownDevice = "unknown"
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

type Employee struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	KnownIPs        []string  `json:"knownIps"`
	KnownDevices    []string  `json:"knownDevices"`
	BaselineRouting string    `json:"baselineRouting"`
	BaselineAccount string    `json:"baselineAccount"`
	RoutingNumber   string    `json:"routingNumber"`
	AccountNumber   string    `json:"accountNumber"`
	Address         Address   `json:"address"`
	Frozen          bool      `json:"frozen"`
	FrozenReason    string    `json:"frozenReason,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// New builds an employee whose onboarding bank account doubles as the
// trust baseline later scoring compares against.
func New(firstName, lastName, email, routing, account string, addr Address) Employee {
	now := time.Now().UTC()
	return Employee{
		ID:              uuid.NewString(),
		FirstName:       firstName,
		LastName:        lastName,
		Email:           email,
		KnownIPs:        []string{},
		KnownDevices:    []string{},
		BaselineRouting: routing,
		BaselineAccount: account,
		RoutingNumber:   routing,
		AccountNumber:   account,
		Address:         addr,
		Status:          StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (e Employee) RecognizesIP(ip string) bool {
	for _, known := range e.KnownIPs {
		if known == ip {
			return true
		}
	}
	return false
}

func (e Employee) RecognizesDevice(deviceID string) bool {
	for _, known := range e.KnownDevices {
		if known == deviceID {
			return true
		}
	}
	return false
}

func (e Employee) AccountAge(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}
