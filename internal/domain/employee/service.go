package employee

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, firstName, lastName, email, routing, account string, addr Address) (Employee, error) {
	if strings.TrimSpace(email) == "" {
		return Employee{}, fmt.Errorf("email is required")
	}
	if strings.TrimSpace(routing) == "" || strings.TrimSpace(account) == "" {
		return Employee{}, fmt.Errorf("onboarding bank details are required")
	}
	emp := New(firstName, lastName, email, routing, account, addr)
	if err := s.store.Create(ctx, emp); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Freeze(ctx context.Context, id, reason string) error {
	return s.store.SetFrozen(ctx, id, true, reason)
}

func (s *Service) Unfreeze(ctx context.Context, id string) error {
	return s.store.SetFrozen(ctx, id, false, "")
}
