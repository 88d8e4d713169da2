package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// receiptSentinel anchors the single-link receipt scheme. Receipts are
// externally shareable proofs over a change request's resolution and
// are deliberately independent of the per-employee chain.
const receiptSentinel = "RECEIPT-V1"

type Receipt struct {
	ChangeID   string    `json:"changeId"`
	EmployeeID string    `json:"employeeId"`
	Status     string    `json:"status"`
	RiskScore  int       `json:"riskScore"`
	CreatedAt  time.Time `json:"createdAt"`
	Hash       string    `json:"hash"`
}

func NewReceipt(changeID, employeeID, status string, riskScore int, createdAt time.Time) Receipt {
	receipt := Receipt{
		ChangeID:   changeID,
		EmployeeID: employeeID,
		Status:     status,
		RiskScore:  riskScore,
		CreatedAt:  createdAt.UTC(),
	}
	receipt.Hash = ReceiptHash(receipt)
	return receipt
}

func ReceiptHash(receipt Receipt) string {
	canonical := strings.Join([]string{
		receiptSentinel,
		receipt.ChangeID,
		receipt.EmployeeID,
		receipt.Status,
		strconv.Itoa(receipt.RiskScore),
		receipt.CreatedAt.UTC().Format(time.RFC3339Nano),
	}, "|")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

func VerifyReceipt(receipt Receipt) bool {
	return ReceiptHash(receipt) == receipt.Hash
}
