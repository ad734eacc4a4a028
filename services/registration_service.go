package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/logger"
	"github.com/google/uuid"

	"csifest/dto"
	"csifest/mappers"
	"csifest/models"
	"csifest/storage"
	"csifest/utils"
)

// Sentinel errors for the controller's status mapping.
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidEvent       = errors.New("invalid event")
	ErrCreateRegistration = errors.New("failed to create registration")
	ErrInsertParticipants = errors.New("failed to insert participants")
)

// maxNumberAttempts bounds how many times a fresh registration number is
// generated after a duplicate-key insert. The unique index stays the real
// correctness mechanism; this only smooths over the rare collision.
const maxNumberAttempts = 5

// RegistrationResult is what a successful pipeline run yields. Registration
// is nil when the consolidated view fetch degraded; the number and id are
// always present.
type RegistrationResult struct {
	RegistrationID     uint32
	RegistrationNumber string
	Registration       *models.Registration
}

// RegistrationService runs the write pipeline for one submission:
// shape check, event resolution, registration creation, participant batch
// insert, consolidated view fetch. When the store supports transactions the
// two writes run in one; otherwise a failed participant insert is compensated
// by deleting what the forward steps wrote, in reverse order.
type RegistrationService struct {
	store   storage.Store
	timeout time.Duration

	// genNumber is swappable in tests.
	genNumber func() string
}

func NewRegistrationService(store storage.Store, timeout time.Duration) *RegistrationService {
	return &RegistrationService{
		store:     store,
		timeout:   timeout,
		genNumber: utils.GenerateRegistrationNumber,
	}
}

func (s *RegistrationService) Register(ctx context.Context, req dto.RegisterReq) (*RegistrationResult, error) {
	reqID := uuid.NewString()[:8]

	// The server never trusts client-side validation: the shape check runs
	// on every request, even ones that bypassed the submission client.
	if req.EventSlug == "" || req.Leader == nil || strings.TrimSpace(req.Leader.FullName) == "" {
		logger.Warningf("[register %s] rejected: missing required fields", reqID)
		return nil, ErrMissingFields
	}

	ev, err := s.resolveEvent(ctx, req.EventSlug)
	if err != nil {
		logger.Warningf("[register %s] event lookup failed slug=%s: %v", reqID, req.EventSlug, err)
		return nil, fmt.Errorf("%w: %s", ErrInvalidEvent, req.EventSlug)
	}
	logger.Infof("[register %s] event resolved slug=%s id=%d", reqID, ev.Slug, ev.ID)

	reg := mappers.MapRegisterReqToRegistration(req, ev.ID)

	if tx, ok := s.store.(storage.TxStore); ok {
		err = tx.WithinTx(ctx, func(st storage.Store) error {
			return s.writeRegistration(ctx, st, reg, req)
		})
	} else {
		err = s.writeWithCompensation(ctx, reqID, reg, req)
	}
	if err != nil {
		logger.Errorf("[register %s] write failed: %v", reqID, err)
		return nil, err
	}
	logger.Infof("[register %s] registration created id=%d number=%s participants=%d",
		reqID, reg.ID, reg.RegistrationNumber, 1+len(req.Members))

	result := &RegistrationResult{
		RegistrationID:     reg.ID,
		RegistrationNumber: reg.RegistrationNumber,
	}

	// The write already succeeded; a failed view read degrades the response
	// instead of rolling anything back.
	vctx, cancel := s.storeCtx(ctx)
	saved, err := s.store.FetchRegistrationView(vctx, reg.ID)
	cancel()
	if err != nil {
		logger.Warningf("[register %s] view fetch failed, returning reduced payload: %v", reqID, err)
		return result, nil
	}
	result.Registration = saved
	return result, nil
}

// writeRegistration performs the two forward writes against st. It is used
// both inside a transaction and on the compensation path.
func (s *RegistrationService) writeRegistration(ctx context.Context, st storage.Store, reg *models.Registration, req dto.RegisterReq) error {
	if err := s.createWithFreshNumber(ctx, st, reg); err != nil {
		return fmt.Errorf("%w: %v", ErrCreateRegistration, err)
	}
	parts := mappers.MapRegisterReqToParticipants(req, reg.ID)
	pctx, cancel := s.storeCtx(ctx)
	err := st.CreateParticipants(pctx, parts)
	cancel()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInsertParticipants, err)
	}
	return nil
}

func (s *RegistrationService) writeWithCompensation(ctx context.Context, reqID string, reg *models.Registration, req dto.RegisterReq) error {
	if err := s.createWithFreshNumber(ctx, s.store, reg); err != nil {
		return fmt.Errorf("%w: %v", ErrCreateRegistration, err)
	}
	parts := mappers.MapRegisterReqToParticipants(req, reg.ID)
	pctx, cancel := s.storeCtx(ctx)
	err := s.store.CreateParticipants(pctx, parts)
	cancel()
	if err != nil {
		s.rollback(ctx, reqID, reg.ID)
		return fmt.Errorf("%w: %v", ErrInsertParticipants, err)
	}
	return nil
}

// createWithFreshNumber inserts reg, regenerating its registration number
// whenever the store reports a duplicate, up to maxNumberAttempts.
func (s *RegistrationService) createWithFreshNumber(ctx context.Context, st storage.Store, reg *models.Registration) error {
	var err error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		reg.ID = 0
		reg.RegistrationNumber = s.genNumber()
		cctx, cancel := s.storeCtx(ctx)
		err = st.CreateRegistration(cctx, reg)
		cancel()
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrDuplicateKey) {
			return err
		}
	}
	return fmt.Errorf("no unique registration number after %d attempts: %w", maxNumberAttempts, err)
}

// rollback deletes the partial state of a failed submission: participants
// first (tolerating none), then the registration row. Failures here are
// logged only; the caller still reports the original insertion error.
func (s *RegistrationService) rollback(ctx context.Context, reqID string, registrationID uint32) {
	// Detach from the request context so a canceled request cannot also
	// cancel its own cleanup.
	base := context.WithoutCancel(ctx)

	dctx, cancel := context.WithTimeout(base, s.timeout)
	n, err := s.store.DeleteParticipantsByRegistration(dctx, registrationID)
	cancel()
	if err != nil {
		logger.Errorf("[register %s] rollback: participant delete failed for registration %d: %v", reqID, registrationID, err)
	} else if n > 0 {
		logger.Infof("[register %s] rollback: removed %d participants", reqID, n)
	}

	dctx, cancel = context.WithTimeout(base, s.timeout)
	err = s.store.DeleteRegistration(dctx, registrationID)
	cancel()
	if err != nil {
		logger.Errorf("[register %s] rollback: registration delete failed for %d: %v", reqID, registrationID, err)
	}
}

func (s *RegistrationService) resolveEvent(ctx context.Context, slug string) (*models.Event, error) {
	ectx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.store.ResolveEvent(ectx, slug)
}

func (s *RegistrationService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
