package audit

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"
)

const appendRetries = 3

// Service appends to and verifies per-employee hash chains. Appends for
// one employee must see the real tail, so the service serializes them
// through striped in-process locks; the unique (employee, seq)
// constraint backs this across processes, surfacing ErrStaleTail which
// is retried against the fresh tail.
type Service struct {
	store   StoreAPI
	stripes [64]sync.Mutex
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Append(ctx context.Context, employeeID, action, decision string, codes []string, deviceID, ip string) (Event, error) {
	stripe := s.stripe(employeeID)
	stripe.Lock()
	defer stripe.Unlock()

	var lastErr error
	for attempt := 0; attempt < appendRetries; attempt++ {
		prevHash, seq, err := s.store.Tail(ctx, employeeID)
		if err != nil {
			return Event{}, err
		}
		event := NewEvent(employeeID, action, decision, codes, deviceID, ip, prevHash, seq+1, time.Now())
		err = s.store.Insert(ctx, event)
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, ErrStaleTail) {
			return Event{}, err
		}
		lastErr = err
	}
	return Event{}, lastErr
}

func (s *Service) Verify(ctx context.Context, employeeID string) (Report, error) {
	events, err := s.store.ListByEmployee(ctx, employeeID)
	if err != nil {
		return Report{}, err
	}
	return VerifyChain(events), nil
}

func (s *Service) List(ctx context.Context, employeeID string) ([]Event, error) {
	return s.store.ListByEmployee(ctx, employeeID)
}

func (s *Service) stripe(employeeID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(employeeID))
	return &s.stripes[h.Sum32()%uint32(len(s.stripes))]
}
