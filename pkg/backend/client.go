// Package backend is the HTTP client for the shade control service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/oauth2"

	"github.com/urmzd/gaposa/pkg/model"
	"github.com/urmzd/gaposa/pkg/schema"
)

// DefaultServerURL is the production control service.
const DefaultServerURL = "https://gaposa-prod.ew.r.appspot.com"

const maxResponseBytes = 1 << 20

// Client issues typed requests against the control service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	validator  *schema.Validator
	log        logr.Logger
}

// NewClient creates a client authenticating with tokens. An empty baseURL
// selects DefaultServerURL.
func NewClient(baseURL string, tokens oauth2.TokenSource, validator *schema.Validator, log logr.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultServerURL
	}
	if validator == nil {
		validator = schema.NewValidator()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokens:     tokens,
		validator:  validator,
		log:        log.WithName("backend"),
	}
}

// Login lists the clients and devices of the signed-in account.
func (c *Client) Login(ctx context.Context) (*model.LoginResponse, error) {
	var out model.LoginResponse
	if err := c.do(ctx, http.MethodGet, "/v1/login", model.ClientAuth{}, nil, schema.Login, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users returns the profile of the signed-in user as seen by a client.
func (c *Client) Users(ctx context.Context, auth model.ClientAuth) (*model.UsersResponse, error) {
	var out model.UsersResponse
	if err := c.do(ctx, http.MethodGet, "/v1/users", auth, nil, schema.Users, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Control sends a motor or group command.
func (c *Client) Control(ctx context.Context, auth model.ClientAuth, req model.ControlRequest) (*model.ControlResponse, error) {
	if (req.Channel == "") == (req.Group == "") {
		return nil, fmt.Errorf("%w: control request must address exactly one channel or group", ErrBadRequest)
	}
	var out model.ControlResponse
	if err := c.do(ctx, http.MethodPost, "/control", auth, req, schema.Control, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddSchedule creates a schedule. update.ID must be empty.
func (c *Client) AddSchedule(ctx context.Context, auth model.ClientAuth, serial string, update model.ScheduleUpdate) (*model.ScheduleResponse, error) {
	return c.putSchedule(ctx, auth, serial, update)
}

// UpdateSchedule changes the fields set in update. update.ID selects the
// schedule.
func (c *Client) UpdateSchedule(ctx context.Context, auth model.ClientAuth, serial string, update model.ScheduleUpdate) (*model.ScheduleResponse, error) {
	if update.ID == "" {
		return nil, fmt.Errorf("%w: schedule update without Id", ErrBadRequest)
	}
	return c.putSchedule(ctx, auth, serial, update)
}

func (c *Client) putSchedule(ctx context.Context, auth model.ClientAuth, serial string, update model.ScheduleUpdate) (*model.ScheduleResponse, error) {
	var out model.ScheduleResponse
	payload := model.ScheduleRequest{Serial: serial, Schedule: update}
	if err := c.do(ctx, http.MethodPut, "/v1/schedules", auth, payload, schema.Schedule, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSchedule removes a schedule and its events.
func (c *Client) DeleteSchedule(ctx context.Context, auth model.ClientAuth, serial, id string) (*model.ScheduleResponse, error) {
	var out model.ScheduleResponse
	payload := model.ScheduleRequest{Serial: serial, Schedule: model.ScheduleUpdate{ID: id}}
	if err := c.do(ctx, http.MethodDelete, "/v1/schedules", auth, payload, schema.Schedule, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddScheduleEvent writes an event slot of a schedule.
func (c *Client) AddScheduleEvent(ctx context.Context, auth model.ClientAuth, serial, id string, slot model.EventSlot, event model.ScheduleEvent) (*model.ScheduleEventResponse, error) {
	payload := model.ScheduleEventRequest{
		Serial:   serial,
		Schedule: model.ScheduleEventSelector{ID: id, Mode: slot},
		Event:    &event,
	}
	var out model.ScheduleEventResponse
	if err := c.do(ctx, http.MethodPut, "/v1/schedules/event", auth, payload, schema.ScheduleEventResponse, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateScheduleEvent overwrites an event slot of a schedule.
func (c *Client) UpdateScheduleEvent(ctx context.Context, auth model.ClientAuth, serial, id string, slot model.EventSlot, event model.ScheduleEvent) (*model.ScheduleEventResponse, error) {
	return c.AddScheduleEvent(ctx, auth, serial, id, slot, event)
}

// DeleteScheduleEvent clears an event slot of a schedule.
func (c *Client) DeleteScheduleEvent(ctx context.Context, auth model.ClientAuth, serial, id string, slot model.EventSlot) (*model.ScheduleEventResponse, error) {
	payload := model.ScheduleEventRequest{
		Serial:   serial,
		Schedule: model.ScheduleEventSelector{ID: id, Mode: slot},
	}
	var out model.ScheduleEventResponse
	if err := c.do(ctx, http.MethodDelete, "/v1/schedules/event", auth, payload, schema.ScheduleEventResponse, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, auth model.ClientAuth, payload any, schemaName string, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(model.Envelope{Payload: payload})
		if err != nil {
			return fmt.Errorf("encoding %s payload: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("obtaining token: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	if !auth.IsZero() {
		header, err := json.Marshal(auth)
		if err != nil {
			return fmt.Errorf("encoding auth header: %w", err)
		}
		req.Header.Set("Auth", string(header))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading %s response: %w", path, err)
	}
	c.log.V(1).Info("request", "method", method, "path", path, "status", resp.StatusCode, "latency", time.Since(start))

	if err := statusError(method, path, resp.StatusCode, raw); err != nil {
		return err
	}

	if err := c.validator.ValidateJSON(schemaName, raw); err != nil {
		return &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: string(raw), Err: fmt.Errorf("%w: %w", ErrBadResponse, err)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: string(raw), Err: fmt.Errorf("%w: %w", ErrBadResponse, err)}
	}
	return nil
}

func statusError(method, path string, status int, body []byte) error {
	var kind error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = ErrForbidden
	case status >= 500:
		kind = ErrServer
	case status >= 400:
		kind = ErrBadRequest
	default:
		return nil
	}
	return &APIError{Method: method, Path: path, Status: status, Body: string(body), Err: kind}
}
