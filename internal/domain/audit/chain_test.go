package audit

import (
	"testing"
	"time"
)

func buildChain(t *testing.T, employeeID string, n int) []Event {
	t.Helper()
	events := make([]Event, 0, n)
	prev := GenesisHash
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		event := NewEvent(employeeID, "deposit_change", DecisionAllow, []string{"UNKNOWN_IP"}, "laptop-1", "10.0.0.1", prev, i+1, at.Add(time.Duration(i)*time.Minute))
		events = append(events, event)
		prev = event.CurrHash
	}
	return events
}

func TestVerifyChainIntact(t *testing.T) {
	report := VerifyChain(buildChain(t, "e1", 5))
	if !report.Intact {
		t.Fatalf("expected intact chain, got %+v", report)
	}
	if report.BrokenIndex != nil || report.BrokenEvent != nil {
		t.Fatalf("intact report must carry no broken entry: %+v", report)
	}
}

func TestVerifyChainEmpty(t *testing.T) {
	if report := VerifyChain(nil); !report.Intact {
		t.Fatalf("empty chain must verify, got %+v", report)
	}
}

func TestVerifyChainDetectsContentTamper(t *testing.T) {
	events := buildChain(t, "e1", 5)
	events[2].Decision = DecisionBlock

	report := VerifyChain(events)
	if report.Intact {
		t.Fatal("tampered chain must not verify")
	}
	if report.BrokenIndex == nil || *report.BrokenIndex != 2 {
		t.Fatalf("broken index = %v, want 2", report.BrokenIndex)
	}
	if report.BrokenEvent == nil || report.BrokenEvent.ID != events[2].ID {
		t.Fatalf("broken event = %+v, want the tampered entry", report.BrokenEvent)
	}
}

func TestVerifyChainDetectsBrokenLink(t *testing.T) {
	events := buildChain(t, "e1", 4)
	// Recompute event 2 consistently with forged content but keep the
	// rest of the chain untouched: the successor's link now dangles.
	forged := NewEvent(events[2].EmployeeID, events[2].Action, DecisionBlock, events[2].ReasonCodes, events[2].DeviceID, events[2].IP, events[2].PrevHash, events[2].Seq, events[2].CreatedAt)
	events[2] = forged

	report := VerifyChain(events)
	if report.Intact {
		t.Fatal("chain with a dangling link must not verify")
	}
	if report.BrokenIndex == nil || *report.BrokenIndex != 3 {
		t.Fatalf("broken index = %v, want 3", report.BrokenIndex)
	}
}

func TestVerifyChainDetectsRemovedEvent(t *testing.T) {
	events := buildChain(t, "e1", 4)
	truncated := append([]Event{}, events[0], events[1], events[3])

	report := VerifyChain(truncated)
	if report.Intact {
		t.Fatal("chain with a removed event must not verify")
	}
	if report.BrokenIndex == nil || *report.BrokenIndex != 2 {
		t.Fatalf("broken index = %v, want 2", report.BrokenIndex)
	}
}

func TestHashEventCoversPrevHash(t *testing.T) {
	event := buildChain(t, "e1", 1)[0]
	event.PrevHash = "forged"
	if HashEvent(event) == event.CurrHash {
		t.Fatal("hash must change when prev_hash changes")
	}
}

func TestReceiptRoundTrip(t *testing.T) {
	receipt := NewReceipt("cr-1", "e1", "approved", 55, time.Now())
	if !VerifyReceipt(receipt) {
		t.Fatal("fresh receipt must verify")
	}

	tampered := receipt
	tampered.Status = "denied"
	if VerifyReceipt(tampered) {
		t.Fatal("receipt with altered status must fail")
	}

	tampered = receipt
	tampered.RiskScore = 10
	if VerifyReceipt(tampered) {
		t.Fatal("receipt with altered score must fail")
	}
}

func TestReceiptIndependentOfChain(t *testing.T) {
	// Two receipts for the same change differ only if their fields do;
	// nothing about the employee's ledger flows into the hash.
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	first := NewReceipt("cr-1", "e1", "approved", 55, at)
	second := NewReceipt("cr-1", "e1", "approved", 55, at)
	if first.Hash != second.Hash {
		t.Fatal("identical receipt inputs must hash identically")
	}
}
