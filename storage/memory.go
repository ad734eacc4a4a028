package storage

import (
	"context"
	"sync"
	"time"

	"csifest/models"
)

// MemoryStore is an in-process Store used by tests and by the submission
// client's local-dev fallback. It enforces the same registration-number
// uniqueness constraint as the MySQL schema. It deliberately does not
// implement TxStore, so pipelines running on it exercise the
// insert-then-compensate path.
type MemoryStore struct {
	mu            sync.Mutex
	events        []models.Event
	registrations map[uint32]models.Registration
	participants  map[uint32][]models.Participant
	numbers       map[string]uint32

	nextRegID  uint32
	nextPartID uint32
}

func NewMemoryStore(events ...models.Event) *MemoryStore {
	s := &MemoryStore{
		registrations: make(map[uint32]models.Registration),
		participants:  make(map[uint32][]models.Participant),
		numbers:       make(map[string]uint32),
	}
	for i, ev := range events {
		if ev.ID == 0 {
			ev.ID = uint32(i + 1)
		}
		s.events = append(s.events, ev)
	}
	return s
}

func (s *MemoryStore) ResolveEvent(_ context.Context, slug string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if ev.Slug == slug {
			out := ev
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListEvents(_ context.Context) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	return out, nil
}

func (s *MemoryStore) CreateRegistration(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.numbers[reg.RegistrationNumber]; taken {
		return ErrDuplicateKey
	}
	s.nextRegID++
	reg.ID = s.nextRegID
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now()
	}
	s.registrations[reg.ID] = *reg
	s.numbers[reg.RegistrationNumber] = reg.ID
	return nil
}

func (s *MemoryStore) CreateParticipants(_ context.Context, parts []models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range parts {
		s.nextPartID++
		parts[i].ID = s.nextPartID
		if parts[i].CreatedAt.IsZero() {
			parts[i].CreatedAt = time.Now()
		}
		regID := parts[i].RegistrationID
		s.participants[regID] = append(s.participants[regID], parts[i])
	}
	return nil
}

func (s *MemoryStore) DeleteParticipantsByRegistration(_ context.Context, registrationID uint32) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.participants[registrationID]))
	delete(s.participants, registrationID)
	return n, nil
}

func (s *MemoryStore) DeleteRegistration(_ context.Context, registrationID uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reg, ok := s.registrations[registrationID]; ok {
		delete(s.numbers, reg.RegistrationNumber)
		delete(s.registrations, registrationID)
	}
	return nil
}

func (s *MemoryStore) FetchRegistrationView(_ context.Context, registrationID uint32) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.registrations[registrationID]
	if !ok {
		return nil, ErrNotFound
	}
	for _, ev := range s.events {
		if ev.ID == reg.EventID {
			reg.Event = ev
			break
		}
	}
	// Participants were inserted leader-first, so insertion order already
	// matches the leader-first contract of the view.
	reg.Participants = append([]models.Participant(nil), s.participants[registrationID]...)
	return &reg, nil
}

func (s *MemoryStore) CountRegistrations(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.registrations)), nil
}
