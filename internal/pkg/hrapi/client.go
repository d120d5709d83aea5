package hrapi

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

	"github.com/cmlabs-hris/planilla-portal-go/internal/domain/session"
	"golang.org/x/oauth2"
)

// Error taxonomy of the upstream API. Every *APIError unwraps to one of these.
var (
	ErrNetwork       = errors.New("network error")
	ErrValidation    = errors.New("validation error")
	ErrStateConflict = errors.New("state conflict")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrUpstream      = errors.New("upstream error")
)

// GenericNetworkMessage is shown when the server gave no message of its own.
const GenericNetworkMessage = "Could not reach the HR service. Please try again."

const maxErrorBody = 1 << 20

// APIError is a failed upstream call. Message is user-presentable.
type APIError struct {
	StatusCode int
	Kind       error
	Message    string
	cause      error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Kind, e.cause}
	}
	return []error{e.Kind}
}

// Client calls the upstream HR REST API on behalf of the session in the
// request context.
type Client struct {
	baseURL   *url.URL
	transport http.RoundTripper
	timeout   time.Duration
}

type Option func(*Client)

// WithTransport replaces the base round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid upstream base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid upstream base url %q", baseURL)
	}

	c := &Client{
		baseURL:   u,
		transport: http.DefaultTransport,
		timeout:   timeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// httpClient returns a client that attaches the caller's bearer token.
func (c *Client) httpClient(ctx context.Context) (*http.Client, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Timeout: c.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: sess.Token,
				TokenType:   "Bearer",
			}),
			Base: c.transport,
		},
	}, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends one request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	hc, err := c.httpClient(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return &APIError{Kind: ErrNetwork, Message: GenericNetworkMessage, cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Kind:       ErrUpstream,
			Message:    "The HR service returned an unreadable response.",
			cause:      err,
		}
	}
	return nil
}

// errorBody accepts both {"message": "..."} and {"error": {"message": "..."}}.
type errorBody struct {
	Message string `json:"message"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Kind:       kindFor(resp.StatusCode),
		Message:    GenericNetworkMessage,
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}
	switch {
	case body.Message != "":
		apiErr.Message = body.Message
	case body.Error != nil && body.Error.Message != "":
		apiErr.Message = body.Error.Message
	}
	return apiErr
}

func kindFor(status int) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusConflict:
		return ErrStateConflict
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return ErrUpstream
	}
}
