package verification

// Verification paths produced by the router.
const (
	PathAutoApprove     = "AUTO_APPROVE"
	PathOTPRequired     = "OTP_REQUIRED"
	PathManagerRequired = "MANAGER_REQUIRED"
	PathBlock           = "BLOCK"
)

// Change-request statuses. Transitions are monotonic: a terminal
// status (approved, denied, expired) rejects every further action.
const (
	StatusPendingOTP           = "pending_otp"
	StatusPendingManager       = "pending_manager"
	StatusPendingMultiApproval = "pending_multi_approval"
	StatusApproved             = "approved"
	StatusDenied               = "denied"
	StatusExpired              = "expired"
)

const (
	ChangeTypeDeposit = "deposit"
	ChangeTypeAddress = "address"
)

// Router thresholds: <30 auto-approves, 30..70 challenges with a code,
// >70 escalates to a manager.
const (
	autoApproveBelow = 30
	managerAbove     = 70
)
