package facts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"

	"spinnertip/logger"
)

const (
	defaultTimeout  = 5 * time.Second
	defaultPreload  = 5
	defaultCacheTTL = 5 * time.Minute
	tripAfter       = 3
	breakerCooldown = 30 * time.Second
)

var ErrEmptyFact = errors.New("empty fact in response")

// StatusError reports a non-2xx answer from the fact endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

type factResponse struct {
	Fact   string `json:"fact"`
	Status string `json:"status,omitempty"`
}

// Client fetches facts from a remote endpoint. Preloaded lists are cached,
// concurrent loads for the same endpoint share one request sequence, and
// repeated failures open a breaker so callers fall back without waiting on
// the network.
type Client struct {
	endpoint string
	http     *http.Client
	clock    clockwork.Clock
	log      *logger.Logger
	breaker  *gobreaker.CircuitBreaker
	group    singleflight.Group
	preload  int
	ttl      time.Duration

	mu       sync.Mutex
	cached   []string
	cachedAt time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithPreload sets how many facts Facts tries to collect per load.
func WithPreload(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.preload = n
		}
	}
}

// WithCacheTTL sets how long a loaded list is reused. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.ttl = ttl }
}

func NewClient(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: defaultTimeout},
		clock:    clockwork.NewRealClock(),
		log:      logger.Discard(),
		preload:  defaultPreload,
		ttl:      defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "facts " + c.endpoint,
		Timeout: breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Info("%s breaker: %s -> %s", name, from, to)
		},
	})
	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// BreakerState reports the breaker guarding the endpoint.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// Fetch retrieves a single fact. A request abandoned because ctx ended says
// nothing about the endpoint and is not counted against the breaker.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	var abandoned error
	v, err := c.breaker.Execute(func() (interface{}, error) {
		fact, err := c.fetch(ctx)
		if err != nil && ctx.Err() != nil {
			abandoned = err
			return "", nil
		}
		return fact, err
	})
	if abandoned != nil {
		return "", abandoned
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build fact request: %w", err)
	}
	req.Header.Set("X-Requested-With", "fetch")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch fact: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode}
	}

	var body factResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode fact: %w", err)
	}
	fact := strings.TrimSpace(body.Fact)
	if fact == "" {
		return "", ErrEmptyFact
	}
	return fact, nil
}

// Facts returns up to the preload count of distinct facts. A partial list is
// returned when a later request fails; an error only when nothing loaded.
func (c *Client) Facts(ctx context.Context) ([]string, error) {
	if cached := c.fromCache(); cached != nil {
		return cached, nil
	}

	// The shared load outlives any single caller; each caller only stops
	// waiting when its own ctx ends.
	ch := c.group.DoChan(c.endpoint, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout())
		defer cancel()
		return c.load(loadCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		list := res.Val.([]string)
		out := make([]string, len(list))
		copy(out, list)
		return out, nil
	}
}

func (c *Client) loadTimeout() time.Duration {
	return time.Duration(c.preload) * defaultTimeout
}

func (c *Client) load(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool, c.preload)
	var list []string
	var lastErr error

	for i := 0; i < c.preload; i++ {
		fact, err := c.Fetch(ctx)
		if err != nil {
			lastErr = err
			break
		}
		if !seen[fact] {
			seen[fact] = true
			list = append(list, fact)
		}
	}

	if len(list) == 0 {
		if lastErr == nil {
			lastErr = ErrNoFacts
		}
		return nil, lastErr
	}
	if lastErr != nil {
		c.log.WarnErr(lastErr, "preload from %s stopped after %d facts", c.endpoint, len(list))
	}

	c.mu.Lock()
	c.cached = list
	c.cachedAt = c.clock.Now()
	c.mu.Unlock()

	return list, nil
}

func (c *Client) fromCache() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl <= 0 || c.cached == nil {
		return nil
	}
	if c.clock.Since(c.cachedAt) >= c.ttl {
		c.cached = nil
		return nil
	}
	out := make([]string, len(c.cached))
	copy(out, c.cached)
	return out
}

// Invalidate drops the cached list.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}
