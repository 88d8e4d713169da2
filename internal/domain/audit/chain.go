package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewEvent builds a chain entry with its hash computed up front, before
// anything is persisted. prevHash must be the current tail's CurrHash,
// or GenesisHash for an empty chain.
func NewEvent(employeeID, action, decision string, codes []string, deviceID, ip, prevHash string, seq int, at time.Time) Event {
	event := Event{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		Seq:         seq,
		Action:      action,
		Decision:    decision,
		ReasonCodes: codes,
		DeviceID:    deviceID,
		IP:          ip,
		PrevHash:    prevHash,
		CreatedAt:   at.UTC(),
	}
	event.CurrHash = HashEvent(event)
	return event
}

// HashEvent computes the canonical hash of an event from its stored
// fields. The same canonicalization is used on append and on verify.
func HashEvent(event Event) string {
	canonical := strings.Join([]string{
		event.EmployeeID,
		event.Action,
		event.Decision,
		strings.Join(event.ReasonCodes, ","),
		event.DeviceID,
		event.IP,
		event.PrevHash,
		event.CreatedAt.UTC().Format(time.RFC3339Nano),
	}, "|")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// VerifyChain walks events oldest to newest, checking both the link to
// the predecessor and the recomputed content hash. The first offending
// index wins; the chain is never repaired.
func VerifyChain(events []Event) Report {
	prev := GenesisHash
	for i := range events {
		event := events[i]
		if event.PrevHash != prev {
			return broken(i, event)
		}
		if HashEvent(event) != event.CurrHash {
			return broken(i, event)
		}
		prev = event.CurrHash
	}
	return Report{Intact: true}
}

func broken(index int, event Event) Report {
	return Report{Intact: false, BrokenIndex: &index, BrokenEvent: &event}
}
