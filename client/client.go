// Package client is the submission side of the registration flow: it
// validates a submission locally, posts it to the registration endpoint and
// classifies the outcome. A local-dev fallback can write through the store
// directly, but only when explicitly enabled.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"csifest/dto"
	"csifest/mappers"
	"csifest/services"
	"csifest/storage"
	"csifest/validation"
)

// ErrSubmissionInFlight is returned when Submit is called while another
// submission on the same Client has not finished. Mirrors the disabled
// submit button: one in-flight request per form instance.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// ValidationError carries the field-keyed error map from the validation
// engine. The endpoint is never called when this is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("submission failed validation (%d fields)", len(e.Fields))
}

// ServerError is a soft failure: the endpoint was reachable and rejected the
// submission. Message is the server-provided error string.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server rejected submission (%d): %s", e.Status, e.Message)
}

// Outcome is a successful submission. Registration is nil when the server
// degraded to the reduced payload; the number and id are always set.
type Outcome struct {
	RegistrationID     uint32
	RegistrationNumber string
	Registration       *dto.RegistrationView
}

type Client struct {
	baseURL string
	http    *http.Client

	mu   sync.Mutex
	busy bool

	catalogMu sync.Mutex
	catalog   []dto.EventInfo

	// Local-dev fallback, nil unless WithDirectStore was passed.
	directStore storage.Store
	fallback    *services.RegistrationService
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithDirectStore enables the local-development escape hatch: when the
// endpoint is unreachable, the client runs the same write pipeline directly
// against the given store. Never enable this in production; it exists so the
// form keeps working while the API process is down locally.
func WithDirectStore(store storage.Store, timeout time.Duration) Option {
	return func(c *Client) {
		c.directStore = store
		c.fallback = services.NewRegistrationService(store, timeout)
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit validates req and posts it to the registration endpoint. There is
// no automatic retry on any failure path; resubmitting is the caller's call.
func (c *Client) Submit(ctx context.Context, req dto.RegisterReq) (*Outcome, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	c.busy = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	req.Normalize()

	catalog, err := c.eventCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load event catalog: %w", err)
	}

	if errs := validation.Validate(req, catalog); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	outcome, err := c.post(ctx, req)
	if err == nil {
		return outcome, nil
	}
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		// Soft failure: surface the server's message as-is.
		return nil, err
	}
	// Hard failure: endpoint unreachable.
	if c.fallback != nil {
		return c.submitDirect(ctx, req)
	}
	return nil, err
}

// Events returns the event catalog, fetched once and cached for the
// lifetime of the client.
func (c *Client) Events(ctx context.Context) ([]dto.EventInfo, error) {
	return c.eventCatalog(ctx)
}

func (c *Client) eventCatalog(ctx context.Context) ([]dto.EventInfo, error) {
	c.catalogMu.Lock()
	defer c.catalogMu.Unlock()
	if c.catalog != nil {
		return c.catalog, nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/events", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		if c.directStore != nil {
			return c.catalogFromStore(ctx)
		}
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &ServerError{Status: resp.StatusCode, Message: "failed to list events"}
	}

	var body struct {
		Events []dto.EventInfo `json:"events"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	c.catalog = body.Events
	return c.catalog, nil
}

func (c *Client) catalogFromStore(ctx context.Context) ([]dto.EventInfo, error) {
	events, err := c.directStore.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]dto.EventInfo, 0, len(events))
	for _, ev := range events {
		infos = append(infos, mappers.MapEventToInfo(ev))
	}
	c.catalog = infos
	return c.catalog, nil
}

func (c *Client) post(ctx context.Context, req dto.RegisterReq) (*Outcome, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/register", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Error == "" {
			errBody.Error = http.StatusText(resp.StatusCode)
		}
		return nil, &ServerError{Status: resp.StatusCode, Message: errBody.Error}
	}

	var body struct {
		Registration       *dto.RegistrationView `json:"registration"`
		RegistrationNumber string                `json:"registration_number"`
		ID                 uint32                `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	outcome := &Outcome{Registration: body.Registration}
	if body.Registration != nil {
		outcome.RegistrationID = body.Registration.ID
		outcome.RegistrationNumber = body.Registration.RegistrationNumber
	} else {
		outcome.RegistrationID = body.ID
		outcome.RegistrationNumber = body.RegistrationNumber
	}
	return outcome, nil
}

// submitDirect runs the write pipeline in-process against the direct store.
func (c *Client) submitDirect(ctx context.Context, req dto.RegisterReq) (*Outcome, error) {
	result, err := c.fallback.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("direct-store submission failed: %w", err)
	}
	outcome := &Outcome{
		RegistrationID:     result.RegistrationID,
		RegistrationNumber: result.RegistrationNumber,
	}
	if result.Registration != nil {
		view := mappers.MapRegistrationToView(result.Registration)
		outcome.Registration = &view
	}
	return outcome, nil
}
