// Package acuity is the source-system client for the Acuity Scheduling API.
package acuity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/vaxup/internal/model"
)

const (
	DefaultBaseURL  = "https://acuityscheduling.com/api/v1"
	defaultTimeout  = 30 * time.Second
	maxAppointments = 2000
)

// APIError is a non-2xx response from Acuity.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("acuity API returned %d: %s", e.StatusCode, e.Body)
}

// Client reads and edits appointments. It holds no state between calls.
type Client struct {
	baseURL    string
	userID     string
	apiKey     string
	schema     Schema
	httpClient *http.Client
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if strings.TrimSpace(u) != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithSchema replaces the default field schema.
func WithSchema(s Schema) Option {
	return func(c *Client) { c.schema = s }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates an Acuity client using basic auth credentials.
func NewClient(userID, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		userID:     userID,
		apiKey:     apiKey,
		schema:     DefaultSchema(),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Schema returns the field schema in use.
func (c *Client) Schema() Schema { return c.schema }

// GetAppointments lists the appointments on date (YYYY-MM-DD). Canceled
// appointments are included only when includeCanceled is set.
func (c *Client) GetAppointments(ctx context.Context, date string, includeCanceled bool) ([]model.RawRecord, error) {
	q := url.Values{}
	q.Set("max", strconv.Itoa(maxAppointments))
	q.Set("minDate", date+"T00:00")
	q.Set("maxDate", date+"T23:59")
	if includeCanceled {
		q.Set("showall", "true")
	}

	var appts []Appointment
	if err := c.doJSON(ctx, http.MethodGet, "/appointments?"+q.Encode(), nil, &appts); err != nil {
		return nil, fmt.Errorf("get appointments for %s: %w", date, err)
	}

	records := make([]model.RawRecord, 0, len(appts))
	for _, a := range appts {
		records = append(records, c.record(a))
	}
	c.log.Debug().Str("date", date).Int("count", len(records)).Msg("appointments fetched")
	return records, nil
}

// GetAppointment fetches a single appointment.
func (c *Client) GetAppointment(ctx context.Context, id int64) (model.RawRecord, error) {
	var a Appointment
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/appointments/%d", id), nil, &a); err != nil {
		return nil, fmt.Errorf("get appointment %d: %w", id, err)
	}
	return c.record(a), nil
}

// GetAppointmentJSON returns the untransformed appointment resource.
func (c *Client) GetAppointmentJSON(ctx context.Context, id int64) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/appointments/%d", id), nil, &raw); err != nil {
		return nil, fmt.Errorf("get appointment %d: %w", id, err)
	}
	return raw, nil
}

// EditAppointment updates the named canonical fields of one appointment and
// returns the record as stored afterwards. Only the given fields change.
func (c *Client) EditAppointment(ctx context.Context, id int64, fields map[string]string) (model.RawRecord, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("edit appointment %d: no fields", id)
	}
	body, err := c.schema.update(fields)
	if err != nil {
		return nil, fmt.Errorf("edit appointment %d: %w", id, err)
	}

	var a Appointment
	path := fmt.Sprintf("/appointments/%d?admin=true", id)
	if err := c.doJSON(ctx, http.MethodPut, path, body, &a); err != nil {
		return nil, fmt.Errorf("edit appointment %d: %w", id, err)
	}
	c.log.Info().Int64("appointment_id", id).Int("fields", len(fields)).Msg("appointment updated")
	return c.record(a), nil
}

// GetForms lists intake form definitions.
func (c *Client) GetForms(ctx context.Context) ([]IntakeForm, error) {
	var forms []IntakeForm
	if err := c.doJSON(ctx, http.MethodGet, "/forms", nil, &forms); err != nil {
		return nil, fmt.Errorf("get forms: %w", err)
	}
	return forms, nil
}

// CheckSchema verifies the live intake form against the schema.
func (c *Client) CheckSchema(ctx context.Context) error {
	forms, err := c.GetForms(ctx)
	if err != nil {
		return err
	}
	return c.schema.CheckForms(forms)
}

func (c *Client) record(a Appointment) model.RawRecord {
	r, ok := c.schema.Record(a)
	if !ok {
		c.log.Warn().Int64("appointment_id", a.ID).Int64("form_id", c.schema.FormID).Msg("intake form missing from appointment")
	}
	return r
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
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.userID, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("acuity API non-2xx response")
		return &APIError{StatusCode: resp.StatusCode, Body: msg}
	}

	if len(respBody) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
