// Package client is a typed HTTP client for the beacon API.
//
// Every failure, whether the server rejected the call or the request never
// reached it, is returned as an *Error carrying a message fit for display.
package client

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
	"sync"
	"time"
)

const (
	defaultTimeout = 15 * time.Second

	// TransportMessage is reported whenever the server could not be reached.
	TransportMessage = "Unable to reach the server, please try again later"
	// UnexpectedMessage is reported when the server answered with something other than the API envelope.
	UnexpectedMessage = "Unexpected response from the server"
)

// CredentialProvider holds the admin bearer token between calls.
type CredentialProvider interface {
	Get() string
	Set(token string)
	Clear()
}

// MemoryCredentials keeps the token in process memory.
type MemoryCredentials struct {
	mu    sync.RWMutex
	token string
}

func (m *MemoryCredentials) Get() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *MemoryCredentials) Set(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *MemoryCredentials) Clear() {
	m.Set("")
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the uniform failure of every call.
// Status is zero when no HTTP response was received.
type Error struct {
	Status  int
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Fields  []FieldError    `json:"fields"`
}

type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials CredentialProvider

	Blog    *Resource[Post, PostInput]
	Courses *Resource[Course, CourseInput]
	Jobs    *Resource[Job, JobInput]
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithCredentials(p CredentialProvider) Option {
	return func(c *Client) { c.credentials = p }
}

// New returns a client for the API rooted at baseURL, e.g. "https://example.com".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: defaultTimeout},
		credentials: &MemoryCredentials{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Blog = &Resource[Post, PostInput]{client: c, path: "blog"}
	c.Courses = &Resource[Course, CourseInput]{client: c, path: "courses"}
	c.Jobs = &Resource[Job, JobInput]{client: c, path: "jobs"}
	return c
}

func (c *Client) Credentials() CredentialProvider {
	return c.credentials
}

// do sends one request and decodes the envelope's data into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: UnexpectedMessage, Err: fmt.Errorf("failed to marshal request body: %w", err)}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &Error{Message: TransportMessage, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.credentials.Get(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: TransportMessage, Err: fmt.Errorf("failed to make request: %w", err)}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &Error{
			Status:  resp.StatusCode,
			Message: UnexpectedMessage,
			Err:     fmt.Errorf("failed to decode response: %w", err),
		}
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		if resp.StatusCode == http.StatusUnauthorized {
			c.credentials.Clear()
		}
		message := env.Message
		if message == "" {
			message = UnexpectedMessage
		}
		return &Error{Status: resp.StatusCode, Message: message, Fields: env.Fields}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{
				Status:  resp.StatusCode,
				Message: UnexpectedMessage,
				Err:     fmt.Errorf("failed to decode response data: %w", err),
			}
		}
	}
	return nil
}

// AsError returns err as an *Error. Errors not produced by this package are treated as transport failures.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Message: TransportMessage, Err: err}
}
