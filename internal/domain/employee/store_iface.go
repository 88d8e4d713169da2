package employee

import "context"

type StoreAPI interface {
	Create(ctx context.Context, emp Employee) error
	Get(ctx context.Context, id string) (Employee, error)
	UpdateBankAccount(ctx context.Context, id, routing, account string) error
	UpdateAddress(ctx context.Context, id string, addr Address) error
	PromoteTrust(ctx context.Context, id, ip, deviceID string) error
	SetFrozen(ctx context.Context, id string, frozen bool, reason string) error
	ListActive(ctx context.Context) ([]Employee, error)
}
