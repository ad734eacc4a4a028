// Package storage defines the data-store adapter the registration pipeline
// writes through, plus its two implementations: a gorm/MySQL store for
// production and an in-memory store for tests and local development.
package storage

import (
	"context"
	"errors"

	"csifest/models"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when an insert trips a unique constraint,
	// in particular the index on registration_number.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Store is the set of primitives the pipeline needs. Implementations must
// guarantee that CreateRegistration fails atomically with ErrDuplicateKey on
// a duplicate registration number (no partial write).
type Store interface {
	ResolveEvent(ctx context.Context, slug string) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)

	CreateRegistration(ctx context.Context, reg *models.Registration) error
	CreateParticipants(ctx context.Context, parts []models.Participant) error

	DeleteParticipantsByRegistration(ctx context.Context, registrationID uint32) (int64, error)
	DeleteRegistration(ctx context.Context, registrationID uint32) error

	// FetchRegistrationView returns the registration joined with its event
	// and participants, leader first.
	FetchRegistrationView(ctx context.Context, registrationID uint32) (*models.Registration, error)

	CountRegistrations(ctx context.Context) (int64, error)
}

// TxStore is implemented by stores that can run several writes atomically.
// When the pipeline's store supports it, registration and participant
// creation run in one transaction and no compensation is ever needed.
type TxStore interface {
	Store
	WithinTx(ctx context.Context, fn func(Store) error) error
}
