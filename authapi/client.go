package authapi

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

	"github.com/MrEthical07/goConsole/session"
	"github.com/hashicorp/go-cleanhttp"
)

const (
	DefaultBaseURL   = "https://mpe-backend-server.onrender.com"
	DefaultLoginPath = "/api/auth/admin-login"
	DefaultTimeout   = 15 * time.Second

	// DefaultErrorMessage is shown when the upstream error carries no message.
	DefaultErrorMessage = "Something went wrong. Please try again."

	maxResponseSize = 1 << 20
)

var (
	// ErrLoginRejected matches every non-2xx login response.
	ErrLoginRejected = errors.New("login rejected")
	// ErrInvalidResponse is returned when a 2xx body is not a session record.
	ErrInvalidResponse = errors.New("invalid login response")
	// ErrUnavailable is returned when the upstream could not be reached.
	ErrUnavailable = errors.New("auth service unavailable")
)

// APIError is a non-2xx answer from the upstream.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Is makes every *APIError match [ErrLoginRejected].
func (e *APIError) Is(target error) bool {
	return target == ErrLoginRejected
}

// Config locates the upstream. Empty fields take the package defaults.
type Config struct {
	BaseURL   string
	LoginPath string
	Timeout   time.Duration

	// HTTPClient replaces the pooled cleanhttp client; Timeout is not applied to it.
	HTTPClient *http.Client
}

// Client performs the admin-login exchange.
type Client struct {
	http     *http.Client
	loginURL string
}

// NewClient validates cfg and builds a [Client].
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = DefaultLoginPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be an absolute http(s) url", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = cleanhttp.DefaultPooledClient()
		hc.Timeout = cfg.Timeout
	}

	return &Client{
		http:     hc,
		loginURL: base.String() + "/" + strings.TrimLeft(cfg.LoginPath, "/"),
	}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// Login posts the credentials and decodes the response body as a session record.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Record, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}

	rec, err := session.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return rec, nil
}

func errorMessage(data []byte) string {
	var p errorPayload
	if err := json.Unmarshal(data, &p); err != nil || strings.TrimSpace(p.Message) == "" {
		return DefaultErrorMessage
	}
	return p.Message
}

// Message returns what an operator should see for err: the upstream message for
// rejected logins, the default text otherwise.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return DefaultErrorMessage
}
