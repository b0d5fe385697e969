// Package enroller drives the destination enrollment form through a headless
// browser sidecar. The sidecar owns the page automation; this package owns
// sessions and payloads.
package enroller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/vaxup/internal/model"
)

// ErrNoConfirmation is returned by Cancel for an appointment that was never
// enrolled.
var ErrNoConfirmation = errors.New("appointment has no confirmation id")

// APIError is a non-2xx response from the sidecar.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("enroller: sidecar returned %d: %s", e.StatusCode, e.Message)
}

// FormError means the sidecar reached the form but could not complete it.
type FormError struct {
	Stage   string
	Message string
}

func (e *FormError) Error() string {
	if e.Stage == "" {
		return "enroller: " + e.Message
	}
	return fmt.Sprintf("enroller: %s: %s", e.Stage, e.Message)
}

// Client talks to the browser sidecar on behalf of one operator account.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a sidecar client. Page loads are slow, so the default
// timeout is generous.
func NewClient(baseURL, username, password string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health checks that the sidecar has a browser ready.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var h HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return nil, fmt.Errorf("enroller: health: %w", err)
	}
	if !h.BrowserReady {
		return &h, fmt.Errorf("enroller: browser not ready (status %s)", h.Status)
	}
	return &h, nil
}

// Session is an authenticated form session bound to one location. It is not
// safe for concurrent use; the destination is a single interactive page.
type Session struct {
	client   *Client
	id       string
	location model.Location
}

// OpenSession logs in and selects loc. Every location needs its own session.
func (c *Client) OpenSession(ctx context.Context, loc model.Location) (*Session, error) {
	req := c.credentials(loc)
	var resp sessionResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/sessions", req, &resp); err != nil {
		return nil, fmt.Errorf("enroller: open session for %s: %w", loc, err)
	}
	if resp.SessionID == "" {
		return nil, fmt.Errorf("enroller: open session for %s: %s", loc, orDefault(resp.Error, "no session id returned"))
	}
	c.log.Info().Str("location", loc.String()).Str("session_id", resp.SessionID).Msg("enrollment session opened")
	return &Session{client: c, id: resp.SessionID, location: loc}, nil
}

// ID returns the sidecar session id.
func (s *Session) ID() string { return s.id }

// Location returns the location the session is bound to.
func (s *Session) Location() model.Location { return s.location }

// Submit fills and submits the form for a. In dry-run mode the sidecar stops
// before the final submit and the confirmation id may be empty.
func (s *Session) Submit(ctx context.Context, a *model.Appointment, dryRun bool) (string, error) {
	if a.Location != s.location {
		return "", fmt.Errorf("enroller: appointment %d is at %s, session is for %s", a.ID, a.Location, s.location)
	}
	path := fmt.Sprintf("/api/v1/sessions/%s/enrollments", url.PathEscape(s.id))
	var resp SubmitResponse
	if err := s.client.doJSON(ctx, http.MethodPost, path, NewEnrollment(a, dryRun), &resp); err != nil {
		return "", fmt.Errorf("enroller: submit %d: %w", a.ID, err)
	}
	if !resp.Success {
		return "", &FormError{Stage: resp.Stage, Message: orDefault(resp.Error, "submission failed")}
	}
	if !dryRun && resp.ConfirmationID == "" {
		return "", &FormError{Stage: "confirmation", Message: "no appointment number on confirmation page"}
	}
	return resp.ConfirmationID, nil
}

// Close logs out and releases the browser context.
func (s *Session) Close(ctx context.Context) error {
	path := fmt.Sprintf("/api/v1/sessions/%s", url.PathEscape(s.id))
	if err := s.client.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("enroller: close session %s: %w", s.id, err)
	}
	return nil
}

// Cancel unenrolls a previously confirmed appointment.
func (c *Client) Cancel(ctx context.Context, a *model.Appointment) error {
	if a.ConfirmationID == nil || *a.ConfirmationID == "" {
		return ErrNoConfirmation
	}
	req := cancelRequest{sessionRequest: c.credentials(a.Location), ConfirmationID: *a.ConfirmationID}
	var resp cancelResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/cancellations", req, &resp); err != nil {
		return fmt.Errorf("enroller: cancel %s: %w", *a.ConfirmationID, err)
	}
	if !resp.Success {
		return &FormError{Stage: "cancel", Message: orDefault(resp.Error, "cancellation failed")}
	}
	c.log.Info().Int64("appointment_id", a.ID).Str("confirmation_id", *a.ConfirmationID).Msg("enrollment canceled")
	return nil
}

func (c *Client) credentials(loc model.Location) sessionRequest {
	return sessionRequest{Username: c.username, Password: c.password, LocationID: loc.SiteID()}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(respBody))
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
