package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"csifest/dto"
	"csifest/models"
	"csifest/storage"
)

var testEvents = []dto.EventInfo{
	{Slug: "pick-speak", Name: "Pick & Speak", RequiresTeam: false},
	{Slug: "ideathon", Name: "Ideathon", RequiresTeam: true},
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

// testServer serves the catalog and delegates /api/register to register.
func testServer(t *testing.T, registerHits *int64, register http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/events", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"events": testEvents})
	})
	mux.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		if registerHits != nil {
			atomic.AddInt64(registerHits, 1)
		}
		register(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSubmit_Success(t *testing.T) {
	srv := testServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"registration": dto.RegistrationView{
				ID:                 7,
				RegistrationNumber: "CSI-AAAA-0BADF00D",
				EventSlug:          "pick-speak",
				Participants: []dto.ParticipantView{
					{IsLeader: true, FullName: "Asha Rao"},
				},
			},
		})
	})

	c := New(srv.URL)
	outcome, err := c.Submit(context.Background(), soloReq())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if outcome.RegistrationNumber != "CSI-AAAA-0BADF00D" || outcome.RegistrationID != 7 {
		t.Errorf("unexpected outcome %+v", outcome)
	}
	if outcome.Registration == nil || len(outcome.Registration.Participants) != 1 {
		t.Errorf("expected the full view, got %+v", outcome.Registration)
	}
}

func TestSubmit_DegradedResponse(t *testing.T) {
	srv := testServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"registration_number": "CSI-AAAA-0BADF00D",
			"id":                  9,
		})
	})

	outcome, err := New(srv.URL).Submit(context.Background(), soloReq())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if outcome.Registration != nil {
		t.Error("expected a reduced outcome")
	}
	if outcome.RegistrationNumber != "CSI-AAAA-0BADF00D" || outcome.RegistrationID != 9 {
		t.Errorf("unexpected outcome %+v", outcome)
	}
}

func TestSubmit_InvalidSubmissionNeverCallsEndpoint(t *testing.T) {
	var hits int64
	srv := testServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := soloReq()
	req.Leader.Phone = "12345"

	_, err := New(srv.URL).Submit(context.Background(), req)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Fields["phoneNumber"] == "" {
		t.Errorf("expected a phoneNumber error, got %v", vErr.Fields)
	}
	if atomic.LoadInt64(&hits) != 0 {
		t.Errorf("endpoint must not be called for an invalid submission, hits=%d", hits)
	}
}

func TestSubmit_SoftFailureSurfacesServerMessage(t *testing.T) {
	srv := testServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to create registration"})
	})

	_, err := New(srv.URL).Submit(context.Background(), soloReq())
	var sErr *ServerError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if sErr.Status != http.StatusInternalServerError || sErr.Message != "Failed to create registration" {
		t.Errorf("unexpected server error %+v", sErr)
	}
}

func TestSubmit_HardFailureWithoutFallback(t *testing.T) {
	// A closed port: the dial fails immediately.
	c := New("http://127.0.0.1:1")
	_, err := c.Submit(context.Background(), soloReq())
	if err == nil {
		t.Fatal("expected a transport error")
	}
	var sErr *ServerError
	if errors.As(err, &sErr) {
		t.Errorf("a transport error is not a server rejection: %v", err)
	}
}

func TestSubmit_HardFailureFallsBackToDirectStore(t *testing.T) {
	store := storage.NewMemoryStore(
		models.Event{Slug: "pick-speak", Name: "Pick & Speak"},
		models.Event{Slug: "ideathon", Name: "Ideathon", RequiresTeam: true},
	)

	c := New("http://127.0.0.1:1", WithDirectStore(store, time.Second))
	outcome, err := c.Submit(context.Background(), soloReq())
	if err != nil {
		t.Fatalf("expected fallback success, got %v", err)
	}
	if outcome.RegistrationNumber == "" {
		t.Error("fallback outcome must carry a registration number")
	}
	if n, _ := store.CountRegistrations(context.Background()); n != 1 {
		t.Errorf("expected the fallback to write 1 registration, got %d", n)
	}
}

func TestSubmit_SingleInFlight(t *testing.T) {
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	srv := testServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"registration_number": "CSI-AAAA-00000001",
			"id":                  1,
		})
	})

	c := New(srv.URL)
	// Warm the catalog so the blocked request is the register call itself.
	if _, err := c.Events(context.Background()); err != nil {
		t.Fatalf("catalog fetch failed: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	firstErr := make(chan error, 1)
	go func() {
		defer wg.Done()
		_, err := c.Submit(context.Background(), soloReq())
		firstErr <- err
	}()

	// Once the server has the request, the first submission holds the slot.
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first submission never reached the server")
	}

	if _, err := c.Submit(context.Background(), soloReq()); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}

	close(release)
	wg.Wait()
	if err := <-firstErr; err != nil {
		t.Fatalf("first submission should have succeeded: %v", err)
	}

	// The slot is free again after the terminal outcome.
	if _, err := c.Submit(context.Background(), soloReq()); err != nil {
		t.Fatalf("expected a fresh submission to work, got %v", err)
	}
}
