package employee

import (
	"testing"
	"time"
)

func TestNewSetsBaselineFromOnboarding(t *testing.T) {
	emp := New("Ada", "Osei", "ada@example.com", "021000021", "000123456", Address{Country: "US"})

	if emp.BaselineRouting != "021000021" || emp.BaselineAccount != "000123456" {
		t.Fatalf("baseline = %s/%s, want onboarding bank details", emp.BaselineRouting, emp.BaselineAccount)
	}
	if emp.RoutingNumber != emp.BaselineRouting || emp.AccountNumber != emp.BaselineAccount {
		t.Fatal("current account must start at the baseline")
	}
	if emp.Status != StatusActive {
		t.Fatalf("status = %s, want active", emp.Status)
	}
	if emp.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestRecognizesIPAndDevice(t *testing.T) {
	emp := New("Ada", "Osei", "ada@example.com", "021000021", "000123456", Address{})
	emp.KnownIPs = []string{"10.0.0.1"}
	emp.KnownDevices = []string{"laptop-1"}

	if !emp.RecognizesIP("10.0.0.1") || emp.RecognizesIP("203.0.113.9") {
		t.Fatal("ip recognition mismatch")
	}
	if !emp.RecognizesDevice("laptop-1") || emp.RecognizesDevice("tablet-9") {
		t.Fatal("device recognition mismatch")
	}
}

func TestAccountAge(t *testing.T) {
	emp := New("Ada", "Osei", "ada@example.com", "021000021", "000123456", Address{})
	emp.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	now := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	if got := emp.AccountAge(now); got != 30*24*time.Hour {
		t.Fatalf("age = %v, want 720h", got)
	}
}
