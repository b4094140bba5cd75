package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/jwtclient/internal/common"
	"github.com/dmitrijs2005/jwtclient/internal/logging"
	"github.com/google/uuid"
)

// DefaultTimeout bounds a single exchange when no timeout is configured.
const DefaultTimeout = 10 * time.Second

const userAgent = "jwtclient/1.0"

// Outcome labels passed to a RequestObserver.
const (
	OutcomeSuccess        = "success"
	OutcomeHTTPError      = "http_error"
	OutcomeTransportError = "transport_error"
)

// Request describes one exchange. It is built per call and never stored.
type Request struct {
	Method string
	Path   string
	Body   []byte // nil means no body
	Token  string // empty means no Authorization header
}

// Doer performs a single request/response exchange and returns the raw body
// of a 2xx response.
type Doer interface {
	Do(ctx context.Context, req Request) ([]byte, error)
}

// RequestObserver receives the outcome of every exchange.
type RequestObserver interface {
	ObserveRequest(method, path, outcome string, elapsed time.Duration)
}

// HTTPTransport is a Doer over net/http. It holds no session state.
type HTTPTransport struct {
	baseURL  atomic.Pointer[string]
	http     *http.Client
	timeout  time.Duration
	logger   logging.Logger
	observer RequestObserver
}

// Option customises an HTTPTransport.
type Option func(*HTTPTransport)

// WithTimeout sets the per-request timeout. Values <= 0 are ignored.
func WithTimeout(d time.Duration) Option {
	return func(t *HTTPTransport) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *HTTPTransport) { t.http = c }
}

func WithLogger(l logging.Logger) Option {
	return func(t *HTTPTransport) { t.logger = l.With("module", "transport") }
}

func WithObserver(o RequestObserver) Option {
	return func(t *HTTPTransport) { t.observer = o }
}

// NewHTTPTransport returns a transport sending requests to baseURL.
func NewHTTPTransport(baseURL string, opts ...Option) *HTTPTransport {
	t := &HTTPTransport{
		http:    &http.Client{},
		timeout: DefaultTimeout,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.SetBaseURL(baseURL)
	return t
}

// SetBaseURL switches the target server. Requests already in flight keep
// the address they started with.
func (t *HTTPTransport) SetBaseURL(baseURL string) {
	u := strings.TrimRight(baseURL, "/")
	t.baseURL.Store(&u)
}

func (t *HTTPTransport) BaseURL() string {
	return *t.baseURL.Load()
}

// Do sends req and reads the full response body whatever the status class.
// A 2xx status yields the body; any other status yields *HTTPError; faults
// before a status is received yield *TransportError.
func (t *HTTPTransport) Do(ctx context.Context, req Request) ([]byte, error) {
	op := req.Method + " " + req.Path
	start := time.Now()

	body, err := t.do(ctx, req)

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeHTTPError
		if _, ok := err.(*TransportError); ok {
			outcome = OutcomeTransportError
		}
	}
	if t.observer != nil {
		t.observer.ObserveRequest(req.Method, req.Path, outcome, time.Since(start))
	}
	t.logger.Debug(ctx, "request finished", "op", op, "outcome", outcome, "elapsed", time.Since(start))

	return body, err
}

func (t *HTTPTransport) do(ctx context.Context, req Request) ([]byte, error) {
	op := req.Method + " " + req.Path

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var payload io.Reader
	if req.Body != nil {
		payload = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, t.BaseURL()+req.Path, payload)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}

	httpReq.Header.Set("Content-Type", common.ContentTypeJSON)
	httpReq.Header.Set("Accept", common.ContentTypeJSON)
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if req.Token != "" {
		httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+req.Token)
	}

	resp, err := t.http.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
