package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"
)

// RetryPolicy controls the read-path retry behaviour. Submissions bypass it
// entirely: a submit that fails on the wire is surfaced, never replayed.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     float64
}

// DefaultRetryPolicy implements a conservative retry strategy
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 3,
	BaseDelay:  250 * time.Millisecond,
	MaxDelay:   2 * time.Second,
	Jitter:     0.25,
}

type Config struct {
	URL         string
	RetryPolicy RetryPolicy

	// RequestsPerSecond caps outbound request rate, 0 disables limiting
	RequestsPerSecond float64

	// HTTPClient overrides the default transport
	HTTPClient *http.Client

	Metrics *Metrics
}

// Client is a JSON-RPC 2.0 client over HTTP POST
type Client struct {
	logger  hclog.Logger
	url     string
	http    *http.Client
	policy  RetryPolicy
	limiter *rate.Limiter
	metrics *Metrics
}

type requestOut struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      string        `json:"id"`
}

type responseIn struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      interface{}     `json:"id"`
}

func NewClient(logger hclog.Logger, config *Config) (*Client, error) {
	if config == nil || strings.TrimSpace(config.URL) == "" {
		return nil, errors.New("rpcclient: endpoint url is required")
	}

	policy := config.RetryPolicy
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}

	if policy.BaseDelay <= 0 {
		policy.BaseDelay = DefaultRetryPolicy.BaseDelay
	}

	if policy.MaxDelay <= 0 {
		policy.MaxDelay = DefaultRetryPolicy.MaxDelay
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), int(config.RequestsPerSecond)+1)
	}

	return &Client{
		logger:  logger.Named("rpcclient"),
		url:     config.URL,
		http:    httpClient,
		policy:  policy,
		limiter: limiter,
		metrics: config.Metrics,
	}, nil
}

// Call performs an idempotent read request, retrying transient failures
// with bounded backoff
func (c *Client) Call(ctx context.Context, method string, out interface{}, params ...interface{}) error {
	backoff := NewBackoff(c.policy.BaseDelay, c.policy.MaxDelay, c.policy.Jitter)

	var lastErr error

	for attempt := 0; ; attempt++ {
		lastErr = c.call(ctx, method, out, params)
		if lastErr == nil {
			return nil
		}

		if attempt >= c.policy.MaxRetries || !isRetryable(lastErr) {
			c.metrics.FailureInc()

			return lastErr
		}

		c.metrics.RetryInc()
		c.logger.Debug("retrying read", "method", method, "attempt", attempt, "err", lastErr)

		if err := Sleep(ctx, backoff.ForAttempt(attempt)); err != nil {
			return err
		}
	}
}

// CallOnce performs a single attempt and never retries. Every submission
// goes through here: a transport error leaves the chain state unknown and
// only the caller may decide to resubmit.
func (c *Client) CallOnce(ctx context.Context, method string, out interface{}, params ...interface{}) error {
	if err := c.call(ctx, method, out, params); err != nil {
		c.metrics.FailureInc()

		return err
	}

	return nil
}

func (c *Client) call(ctx context.Context, method string, out interface{}, params []interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	if params == nil {
		params = []interface{}{}
	}

	reqID := uuid.New().String()

	body, err := json.Marshal(&requestOut{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      reqID,
	})
	if err != nil {
		return fmt.Errorf("rpcclient: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", reqID)

	c.metrics.RequestInc()

	res, err := c.http.Do(req)
	if err != nil {
		return &transportError{err: err}
	}

	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, res.Body)

		return &transportError{status: res.StatusCode, err: fmt.Errorf("http status %d", res.StatusCode)}
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return &transportError{err: err}
	}

	var resp responseIn
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("rpcclient: decode response: %w", err)
	}

	if resp.Error != nil {
		return resp.Error
	}

	if out == nil {
		return nil
	}

	if len(resp.Result) == 0 {
		return errors.New("rpcclient: empty result")
	}

	return json.Unmarshal(resp.Result, out)
}

// transportError wraps network level failures so they are distinguishable
// from endpoint rejections
type transportError struct {
	status int
	err    error
}

func (t *transportError) Error() string {
	return fmt.Sprintf("rpc transport error: %s", t.err)
}

func (t *transportError) Unwrap() error {
	return t.err
}

// IsTransportError reports whether the error never reached the endpoint's
// request handler, meaning the request may or may not have been processed
func IsTransportError(err error) bool {
	var te *transportError

	return errors.As(err, &te)
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var te *transportError
	if errors.As(err, &te) {
		if te.status == http.StatusTooManyRequests || te.status == http.StatusRequestTimeout {
			return true
		}

		if te.status >= 500 && te.status <= 599 {
			return true
		}

		if te.status != 0 {
			return false
		}

		var netErr net.Error
		if errors.As(te.err, &netErr) {
			return true
		}

		return true
	}

	// endpoint rejections are authoritative, not transient
	return false
}
