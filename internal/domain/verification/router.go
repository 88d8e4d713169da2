package verification

import "payguard/internal/platform/verdict"

// Route maps a risk score and an optional external verdict to a
// verification path. A "block" verdict overrides unconditionally; any
// other verdict value, recognized or not, leaves routing to the score.
func Route(score int, externalVerdict string) string {
	if externalVerdict == verdict.VerdictBlock {
		return PathBlock
	}
	switch {
	case score < autoApproveBelow:
		return PathAutoApprove
	case score <= managerAbove:
		return PathOTPRequired
	default:
		return PathManagerRequired
	}
}
