package verification

import "context"

type StoreAPI interface {
	Create(ctx context.Context, req ChangeRequest) error
	Get(ctx context.Context, id string) (ChangeRequest, error)
	// Resolve conditionally moves a request from an expected pending
	// status to a terminal one, clearing the code hash and stamping
	// the approver. Returns false when the request was not in the
	// expected status (lost race or invalid transition).
	Resolve(ctx context.Context, id, fromStatus, toStatus, approverID, note string) (bool, error)
	// Escalate conditionally moves a request between pending states,
	// clearing any stored code hash.
	Escalate(ctx context.Context, id, fromStatus, toStatus string) (bool, error)
	IncrementFailedAttempts(ctx context.Context, id string) (int, error)
	CreateCase(ctx context.Context, c Case) error
}
