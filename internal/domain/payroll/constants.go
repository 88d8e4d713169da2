package payroll

import "time"

const (
	RecordStatusPaid      = "paid"
	RecordStatusHeld      = "held"
	RecordStatusPending   = "pending"
	RecordStatusCancelled = "cancelled"
)

const (
	burstWindow          = time.Hour
	burstThreshold       = 3
	burstScoreFloor      = 70
	coolingOffScoreFloor = 60
)
