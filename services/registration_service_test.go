package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"csifest/dto"
	"csifest/models"
	"csifest/storage"
)

func testStore() *storage.MemoryStore {
	return storage.NewMemoryStore(
		models.Event{Slug: "pick-speak", Name: "Pick & Speak", RequiresTeam: false},
		models.Event{Slug: "ideathon", Name: "Ideathon", RequiresTeam: true},
	)
}

func soloReq() dto.RegisterReq {
	return dto.RegisterReq{
		EventSlug: "pick-speak",
		Leader: &dto.PersonReq{
			FullName:   "Asha Rao",
			USN:        "1CS22CS001A",
			Department: "CSE",
			Semester:   "3rd Sem",
			Phone:      "9876543210",
		},
	}
}

func teamReq() dto.RegisterReq {
	return dto.RegisterReq{
		EventSlug: "ideathon",
		TeamName:  "Bit Benders",
		Leader: &dto.PersonReq{
			FullName: "Asha Rao",
			USN:      "1CS22CS001A",
			Phone:    "9876543210",
			Email:    "asha@example.com",
		},
		Members: []dto.PersonReq{
			{FullName: "Ravi Kumar", USN: "1CS22IS002B"},
			{FullName: "Meera Shetty", USN: "1CS22AI003C"},
		},
	}
}

// failingParticipantsStore makes the participant batch insert fail so the
// compensation path runs.
type failingParticipantsStore struct {
	*storage.MemoryStore
}

func (s *failingParticipantsStore) CreateParticipants(context.Context, []models.Participant) error {
	return errors.New("simulated participant insert failure")
}

// failingViewStore makes the consolidated read fail after a good write.
type failingViewStore struct {
	*storage.MemoryStore
}

func (s *failingViewStore) FetchRegistrationView(context.Context, uint32) (*models.Registration, error) {
	return nil, errors.New("simulated view failure")
}

// txStore wraps the memory store with a trivial WithinTx so the service
// takes the transactional path.
type txStore struct {
	*storage.MemoryStore
	txCalls int
}

func (s *txStore) WithinTx(_ context.Context, fn func(storage.Store) error) error {
	s.txCalls++
	return fn(s.MemoryStore)
}

func TestRegister_Solo(t *testing.T) {
	store := testStore()
	svc := NewRegistrationService(store, time.Second)

	result, err := svc.Register(context.Background(), soloReq())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !strings.HasPrefix(result.RegistrationNumber, "CSI-") {
		t.Errorf("unexpected registration number %q", result.RegistrationNumber)
	}
	if result.Registration == nil {
		t.Fatal("expected the full view on success")
	}
	if got := len(result.Registration.Participants); got != 1 {
		t.Fatalf("solo registration should have exactly 1 participant, got %d", got)
	}
	if !result.Registration.Participants[0].IsLeader {
		t.Error("the sole participant must be the leader")
	}
	if result.Registration.Event.Slug != "pick-speak" {
		t.Errorf("view carries wrong event %q", result.Registration.Event.Slug)
	}
}

func TestRegister_TeamHasExactlyOneLeader(t *testing.T) {
	store := testStore()
	svc := NewRegistrationService(store, time.Second)

	result, err := svc.Register(context.Background(), teamReq())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	parts := result.Registration.Participants
	if len(parts) != 3 {
		t.Fatalf("expected 1 leader + 2 members = 3 participants, got %d", len(parts))
	}
	leaders := 0
	for _, p := range parts {
		if p.IsLeader {
			leaders++
		}
	}
	if leaders != 1 {
		t.Errorf("expected exactly one leader, got %d", leaders)
	}
	if !parts[0].IsLeader {
		t.Error("leader must come first in the view")
	}
}

func TestRegister_ShapeCheck(t *testing.T) {
	svc := NewRegistrationService(testStore(), time.Second)

	cases := map[string]dto.RegisterReq{
		"no event slug":     {Leader: &dto.PersonReq{FullName: "Asha Rao"}},
		"no leader":         {EventSlug: "pick-speak"},
		"empty leader name": {EventSlug: "pick-speak", Leader: &dto.PersonReq{FullName: "   "}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), req)
			if !errors.Is(err, ErrMissingFields) {
				t.Errorf("expected ErrMissingFields, got %v", err)
			}
		})
	}
}

func TestRegister_InvalidEvent(t *testing.T) {
	store := testStore()
	svc := NewRegistrationService(store, time.Second)

	req := soloReq()
	req.EventSlug = "no-such-event"
	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
	if n, _ := store.CountRegistrations(context.Background()); n != 0 {
		t.Errorf("no registration may exist after an invalid event, found %d", n)
	}
}

func TestRegister_RollbackOnParticipantFailure(t *testing.T) {
	inner := testStore()
	store := &failingParticipantsStore{MemoryStore: inner}
	svc := NewRegistrationService(store, time.Second)

	_, err := svc.Register(context.Background(), teamReq())
	if !errors.Is(err, ErrInsertParticipants) {
		t.Fatalf("expected ErrInsertParticipants, got %v", err)
	}

	// The registration row must be gone: no orphans survive the rollback.
	if n, _ := inner.CountRegistrations(context.Background()); n != 0 {
		t.Errorf("expected 0 registrations after rollback, got %d", n)
	}
	if _, err := inner.FetchRegistrationView(context.Background(), 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected not-found after rollback, got %v", err)
	}
}

func TestRegister_DegradedViewStillSucceeds(t *testing.T) {
	inner := testStore()
	store := &failingViewStore{MemoryStore: inner}
	svc := NewRegistrationService(store, time.Second)

	result, err := svc.Register(context.Background(), soloReq())
	if err != nil {
		t.Fatalf("a failed view read must not fail the submission: %v", err)
	}
	if result.Registration != nil {
		t.Error("expected a reduced result without the view")
	}
	if result.RegistrationNumber == "" || result.RegistrationID == 0 {
		t.Errorf("reduced result must carry number and id, got %+v", result)
	}
	if n, _ := inner.CountRegistrations(context.Background()); n != 1 {
		t.Errorf("the write must survive a degraded view, count=%d", n)
	}
}

func TestRegister_RegeneratesNumberOnDuplicate(t *testing.T) {
	store := testStore()
	svc := NewRegistrationService(store, time.Second)

	// Occupy a number, then force the generator to collide with it first.
	taken := &models.Registration{EventID: 1, RegistrationNumber: "CSI-AAAA-DEADBEEF"}
	if err := store.CreateRegistration(context.Background(), taken); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	calls := 0
	svc.genNumber = func() string {
		calls++
		if calls == 1 {
			return "CSI-AAAA-DEADBEEF"
		}
		return fmt.Sprintf("CSI-AAAA-%08X", calls)
	}

	result, err := svc.Register(context.Background(), soloReq())
	if err != nil {
		t.Fatalf("expected success after regeneration, got %v", err)
	}
	if result.RegistrationNumber == "CSI-AAAA-DEADBEEF" {
		t.Error("duplicate number was not regenerated")
	}
	if calls != 2 {
		t.Errorf("expected 2 generator calls, got %d", calls)
	}
}

func TestRegister_GivesUpAfterBoundedAttempts(t *testing.T) {
	store := testStore()
	svc := NewRegistrationService(store, time.Second)

	taken := &models.Registration{EventID: 1, RegistrationNumber: "CSI-AAAA-DEADBEEF"}
	if err := store.CreateRegistration(context.Background(), taken); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	calls := 0
	svc.genNumber = func() string {
		calls++
		return "CSI-AAAA-DEADBEEF"
	}

	_, err := svc.Register(context.Background(), soloReq())
	if !errors.Is(err, ErrCreateRegistration) {
		t.Fatalf("expected ErrCreateRegistration, got %v", err)
	}
	if calls != maxNumberAttempts {
		t.Errorf("expected %d attempts, got %d", maxNumberAttempts, calls)
	}
}

func TestRegister_NotIdempotent(t *testing.T) {
	store := testStore()
	svc := NewRegistrationService(store, time.Second)

	first, err := svc.Register(context.Background(), teamReq())
	if err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	second, err := svc.Register(context.Background(), teamReq())
	if err != nil {
		t.Fatalf("second submission failed: %v", err)
	}

	if first.RegistrationID == second.RegistrationID {
		t.Error("identical payloads must create distinct registrations")
	}
	if first.RegistrationNumber == second.RegistrationNumber {
		t.Error("identical payloads must get distinct registration numbers")
	}
	if n, _ := store.CountRegistrations(context.Background()); n != 2 {
		t.Errorf("expected 2 registrations, got %d", n)
	}
}

func TestRegister_UsesTransactionWhenAvailable(t *testing.T) {
	store := &txStore{MemoryStore: testStore()}
	svc := NewRegistrationService(store, time.Second)

	if _, err := svc.Register(context.Background(), soloReq()); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if store.txCalls != 1 {
		t.Errorf("expected the write to run inside one transaction, txCalls=%d", store.txCalls)
	}
}
