package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/eventhub/internal/client/models"
	"github.com/dmitrijs2005/eventhub/internal/logging"
)

// maxResponseBody caps how much of a response we are willing to buffer.
const maxResponseBody = 4 << 20

// envelope is the backend's uniform response shape.
type envelope struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	Data         json.RawMessage `json:"data"`
	ErrorSources []ErrorSource   `json:"errorSources,omitempty"`
}

// HTTPClient implements Client over plain HTTP/JSON.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	creds   CredentialSource
	logger  logging.Logger
}

// NewHTTPClient builds a client for the given API base URL (e.g.
// "http://localhost:6000/api/v1"). creds may be nil for anonymous use.
func NewHTTPClient(baseURL string, creds CredentialSource, timeout time.Duration, logger logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		creds:   creds,
		logger:  logger.With("component", "api"),
	}
}

// do executes one request/response cycle. body (if non-nil) is marshalled to
// JSON; on 2xx the envelope's data field is unmarshalled into out (if
// non-nil). Non-2xx responses return *Error; transport failures wrap
// ErrUnavailable. Nothing is ever retried here.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.creds != nil {
		if token := c.creds.Credential(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "request failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("%w: read body: %s", ErrUnavailable, err)
	}

	var env envelope
	if len(raw) > 0 {
		// A malformed body still yields a usable *Error via the status code.
		_ = json.Unmarshal(raw, &env)
	}

	c.logger.Debug(ctx, "request finished",
		"method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Status:       resp.StatusCode,
			Message:      env.Message,
			ErrorSources: env.ErrorSources,
		}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	in := map[string]string{"email": email, "password": password}
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Register(ctx context.Context, in models.RegisterInput) (*AuthResult, error) {
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout notifies the server; callers treat it as best-effort.
func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/users/profile", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Events(ctx context.Context, f models.EventFilters) (*models.EventPage, error) {
	var page models.EventPage
	if err := c.do(ctx, http.MethodGet, "/events", f.Query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) Event(ctx context.Context, id string) (*models.Event, error) {
	var e models.Event
	if err := c.do(ctx, http.MethodGet, "/events/"+url.PathEscape(id), nil, nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *HTTPClient) CreateEvent(ctx context.Context, in models.CreateEventInput) (*models.Event, error) {
	var e models.Event
	if err := c.do(ctx, http.MethodPost, "/events/create", nil, in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *HTTPClient) UpdateEvent(ctx context.Context, id string, in models.UpdateEventInput) (*models.Event, error) {
	var e models.Event
	if err := c.do(ctx, http.MethodPatch, "/events/"+url.PathEscape(id)+"/update", nil, in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *HTTPClient) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+url.PathEscape(id)+"/delete", nil, nil, nil)
}

func (c *HTTPClient) RSVP(ctx context.Context, id string, status models.RSVPStatus) (*models.Event, error) {
	in := map[string]models.RSVPStatus{"rsvpStatus": status}
	var e models.Event
	if err := c.do(ctx, http.MethodPost, "/events/"+url.PathEscape(id)+"/rsvp", nil, in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *HTTPClient) MyEvents(ctx context.Context, f models.EventFilters) (*models.EventPage, error) {
	var page models.EventPage
	if err := c.do(ctx, http.MethodGet, "/events/user/my-events", f.Query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}
