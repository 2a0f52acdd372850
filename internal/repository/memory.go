package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
)

// MemoryStore keeps the catalog and ledger in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	order  []string
	events map[string]*model.Event
	regs   map[string][]model.Registration
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events: make(map[string]*model.Event),
		regs:   make(map[string][]model.Registration),
	}
}

// Seed appends the events that are not present yet, keeping their order.
func (s *MemoryStore) Seed(_ context.Context, events []model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		if _, dup := s.events[e.ID]; dup {
			continue
		}
		ev := e
		s.events[e.ID] = &ev
		s.order = append(s.order, e.ID)
	}
	return nil
}

// List returns all events in catalog order.
func (s *MemoryStore) List(_ context.Context) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]model.Event, 0, len(s.order))
	for _, id := range s.order {
		events = append(events, *s.events[id])
	}
	return events, nil
}

// GetByID returns a copy of a single event or ErrNotFound.
func (s *MemoryStore) GetByID(_ context.Context, id string) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	ev := *e
	return &ev, nil
}

// Book adds seats to the event's registered count and appends reg to the
// ledger, as one step under the store lock. It refuses with ErrSoldOut when
// the seats or reg's tickets exceed what remains.
func (s *MemoryStore) Book(_ context.Context, reg model.Registration, seats int) (*model.Event, error) {
	if seats < 1 {
		return nil, ErrInvalidSeats
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[reg.EventID]
	if !ok {
		return nil, ErrNotFound
	}
	if e.Registered+roomNeeded(reg, seats) > e.Capacity {
		return nil, ErrSoldOut
	}
	e.Registered += seats
	s.regs[reg.EventID] = append(s.regs[reg.EventID], reg)

	ev := *e
	return &ev, nil
}

// ListRegistrations returns the ledger of one event, oldest first.
func (s *MemoryStore) ListRegistrations(_ context.Context, eventID string) ([]model.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.events[eventID]; !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(s.regs[eventID]), nil
}

// Close is a no-op; it lets MemoryStore stand in for the SQL stores.
func (s *MemoryStore) Close() error {
	return nil
}
