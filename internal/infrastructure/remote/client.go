package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"brcargo_quotes/internal/events"
)

// Operation describes one request against the remote quotation service.
type Operation struct {
	Method  string
	Path    string
	Payload any

	// IdempotencyKey identifies retries of the same logical operation. Only
	// operations marked Idempotent may be re-attempted on the fallback
	// endpoint; everything else fails fast after the primary retry budget to
	// avoid duplicate side effects.
	IdempotencyKey string
	Idempotent     bool

	// ExpectedVersion is sent on mutating requests so the remote boundary can
	// reject stale writers with a 409.
	ExpectedVersion int64

	// CacheKey enables cached-read fallback for idempotent GETs.
	CacheKey string
}

// ClientOptions configures the resilient transport client.
type ClientOptions struct {
	PrimaryURL  string
	FallbackURL string
	HTTPClient  *http.Client
	MaxRetries  uint64
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Cache       ReadCache
	Bus         *events.Bus
}

// Client issues requests against the primary endpoint with exponential
// backoff plus jitter, falls back to the secondary endpoint (and, for reads,
// to the last-known-good cache) once the primary budget is exhausted, and
// publishes transport-status events whenever its health changes.
type Client struct {
	primaryURL  string
	fallbackURL string
	httpClient  *http.Client
	maxRetries  uint64
	baseDelay   time.Duration
	maxDelay    time.Duration
	cache       ReadCache
	bus         *events.Bus

	mu     sync.Mutex
	health events.TransportHealth
}

func NewClient(opts ClientOptions) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}
	baseDelay := opts.BaseDelay
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}
	maxDelay := opts.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 2 * time.Second
	}
	cache := opts.Cache
	if cache == nil {
		cache = NewMemoryReadCache(0)
	}
	return &Client{
		primaryURL:  strings.TrimRight(strings.TrimSpace(opts.PrimaryURL), "/"),
		fallbackURL: strings.TrimRight(strings.TrimSpace(opts.FallbackURL), "/"),
		httpClient:  httpClient,
		maxRetries:  maxRetries,
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
		cache:       cache,
		bus:         opts.Bus,
		health:      events.TransportHealthy,
	}
}

// Status returns the current transport health for dashboard display.
func (c *Client) Status() events.TransportHealth {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.health
}

// Do runs the operation with the full retry/fallback discipline and returns
// the raw response payload.
func (c *Client) Do(ctx context.Context, op Operation) (json.RawMessage, error) {
	body, err := marshalPayload(op.Payload)
	if err != nil {
		return nil, err
	}

	payload, err := c.attemptWithRetry(ctx, c.primaryURL, op, body)
	if err == nil {
		c.setHealth(events.TransportHealthy, "")
		c.cacheSet(ctx, op, payload)
		return payload, nil
	}

	// Semantic rejections surface verbatim: no fallback, no silent retry.
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		return nil, err
	}

	if !op.Idempotent {
		log.Printf("[remote][client] primary exhausted, op not idempotent op=%s %s err=%v", op.Method, op.Path, err)
		return nil, err
	}

	if c.fallbackURL != "" {
		payload, fbErr := c.attempt(ctx, c.fallbackURL, op, body)
		if fbErr == nil {
			log.Printf("[remote][client] served via fallback endpoint op=%s %s", op.Method, op.Path)
			c.setHealth(events.TransportFallback, "serving via fallback endpoint")
			c.cacheSet(ctx, op, payload)
			return payload, nil
		}
		if !errors.As(fbErr, &netErr) {
			return nil, fbErr
		}
		err = fbErr
	}

	if op.Method == http.MethodGet && op.CacheKey != "" {
		if payload, ok := c.cache.Get(ctx, op.CacheKey); ok {
			log.Printf("[remote][client] served from read cache key=%s", op.CacheKey)
			c.setHealth(events.TransportFallback, "serving cached reads")
			return payload, nil
		}
	}
	return nil, err
}

// attemptWithRetry runs the operation against one base URL, retrying
// transient failures with exponential backoff plus jitter up to the
// configured budget. Version conflicts and other remote rejections are
// permanent.
func (c *Client) attemptWithRetry(ctx context.Context, baseURL string, op Operation, body []byte) (json.RawMessage, error) {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.baseDelay
	expo.MaxInterval = c.maxDelay
	expo.MaxElapsedTime = 0

	var payload json.RawMessage
	run := func() error {
		p, err := c.attempt(ctx, baseURL, op, body)
		if err != nil {
			var netErr *NetworkError
			if errors.As(err, &netErr) {
				c.setHealth(events.TransportDegraded, "primary endpoint failing")
				return err
			}
			return backoff.Permanent(err)
		}
		payload = p
		return nil
	}
	if err := backoff.Retry(run, backoff.WithContext(backoff.WithMaxRetries(expo, c.maxRetries), ctx)); err != nil {
		return nil, err
	}
	return payload, nil
}

// attempt issues exactly one HTTP request and classifies the outcome.
func (c *Client) attempt(ctx context.Context, baseURL string, op Operation, body []byte) (json.RawMessage, error) {
	url := baseURL + op.Path

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, op.Method, url, reader)
	if err != nil {
		return nil, err
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	if op.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", op.IdempotencyKey)
	}
	if op.ExpectedVersion > 0 {
		req.Header.Set("X-Expected-Version", strconv.FormatInt(op.ExpectedVersion, 10))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts are treated identically to connection failures.
		return nil, &NetworkError{Op: op.Method, URL: url, Err: err}
	}
	respBody, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, &NetworkError{Op: op.Method, URL: url, Err: readErr}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return respBody, nil
	case resp.StatusCode == http.StatusConflict:
		return nil, &VersionConflictError{
			Path:            op.Path,
			ExpectedVersion: op.ExpectedVersion,
			Message:         remoteMessage(respBody),
		}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &NetworkError{Op: op.Method, URL: url, Err: fmt.Errorf("status %d", resp.StatusCode)}
	default:
		code, message := remoteErrorBody(respBody)
		return nil, &RemoteError{StatusCode: resp.StatusCode, Code: code, Message: message}
	}
}

func (c *Client) setHealth(health events.TransportHealth, detail string) {
	c.mu.Lock()
	changed := c.health != health
	c.health = health
	c.mu.Unlock()

	if !changed {
		return
	}
	log.Printf("[remote][client] transport status %s detail=%q", health, detail)
	if c.bus != nil {
		c.bus.Publish(events.TopicTransportStatus, events.TransportStatusChanged{
			Status: health,
			Detail: detail,
			At:     time.Now().UTC(),
		})
	}
}

func (c *Client) cacheSet(ctx context.Context, op Operation, payload json.RawMessage) {
	if op.Method == http.MethodGet && op.CacheKey != "" && len(payload) > 0 {
		c.cache.Set(ctx, op.CacheKey, payload)
	}
}

func marshalPayload(payload any) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}
	if raw, ok := payload.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(payload)
}

func remoteMessage(body []byte) string {
	_, message := remoteErrorBody(body)
	return message
}

func remoteErrorBody(body []byte) (code, message string) {
	message = strings.TrimSpace(string(body))
	var parsed map[string]any
	if json.Unmarshal(body, &parsed) == nil {
		if v, ok := parsed["code"].(string); ok {
			code = v
		}
		if v, ok := parsed["message"].(string); ok && strings.TrimSpace(v) != "" {
			message = v
		}
	}
	return code, message
}
