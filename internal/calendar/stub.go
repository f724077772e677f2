package calendar

import (
	"context"
	"fmt"
	"sync"

	"github.com/pulsefit/gymchat/internal/session"
)

// StubService records calendar operations in memory. Used when calendar sync
// is disabled and in tests.
type StubService struct {
	mu      sync.Mutex
	nextID  int
	Created []*session.Draft
	Updated map[string]*session.Draft
	Deleted []string

	// Err, when set, is returned from every call.
	Err error
}

// NewStubService builds an empty stub.
func NewStubService() *StubService {
	return &StubService{Updated: make(map[string]*session.Draft)}
}

func (s *StubService) CreateEvent(_ context.Context, booking *session.Draft) (*EventRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	cp := *booking
	s.Created = append(s.Created, &cp)
	s.nextID++
	id := fmt.Sprintf("stub-event-%d", s.nextID)
	return &EventRef{ID: id, Link: "https://calendar.example.com/" + id}, nil
}

func (s *StubService) UpdateEvent(_ context.Context, eventID string, booking *session.Draft) (*EventRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	cp := *booking
	s.Updated[eventID] = &cp
	return &EventRef{ID: eventID, Link: "https://calendar.example.com/" + eventID}, nil
}

func (s *StubService) CancelEvent(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Deleted = append(s.Deleted, eventID)
	return nil
}
