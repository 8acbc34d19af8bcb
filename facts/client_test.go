package facts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spinnertip/logger"
)

func factServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchSendsHeadersAndDecodes(t *testing.T) {
	srv := factServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "fetch", r.Header.Get("X-Requested-With"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"fact": "  Musk is a base note.  ", "status": "success"}`)
	})

	c := NewClient(srv.URL)
	fact, err := c.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Musk is a base note.", fact)
}

func TestClient_FetchRejectsNon2xx(t *testing.T) {
	srv := factServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"fact": "ignored"}`)
	})

	_, err := NewClient(srv.URL).Fetch(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
}

func TestClient_FetchRejectsBadJSONAndEmptyFact(t *testing.T) {
	bad := factServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	})
	empty := factServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"fact": ""}`)
	})

	_, err := NewClient(bad.URL).Fetch(context.Background())
	assert.Error(t, err)

	_, err = NewClient(empty.URL).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrEmptyFact)
}

func TestClient_FetchTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := factServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	c := NewClient(srv.URL, WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))
	_, err := c.Fetch(context.Background())

	assert.Error(t, err)
}

func TestClient_FactsPreloadsDistinct(t *testing.T) {
	var calls atomic.Int32
	srv := factServer(t, func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		fmt.Fprintf(w, `{"fact": "fact %d"}`, n%3)
	})

	c := NewClient(srv.URL, WithPreload(5))
	list, err := c.Facts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(5), calls.Load())
	assert.Equal(t, []string{"fact 1", "fact 2", "fact 0"}, list)
}

func TestClient_FactsReturnsPartialListOnLaterFailure(t *testing.T) {
	var calls atomic.Int32
	srv := factServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) > 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, `{"fact": "fact %d"}`, calls.Load())
	})
	log := logger.Discard()

	c := NewClient(srv.URL, WithPreload(5), WithLogger(log))
	list, err := c.Facts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"fact 1", "fact 2"}, list)
	assert.Equal(t, 1, log.Count(logger.LevelWarn))
}

func TestClient_FactsFailsWhenNothingLoads(t *testing.T) {
	srv := factServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := NewClient(srv.URL).Facts(context.Background())

	var statusErr *StatusError
	assert.ErrorAs(t, err, &statusErr)
}

func TestClient_FactsCachedUntilTTL(t *testing.T) {
	var calls atomic.Int32
	srv := factServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"fact": "cached"}`)
	})
	clock := clockwork.NewFakeClock()

	c := NewClient(srv.URL, WithPreload(1), WithClock(clock), WithCacheTTL(time.Minute))

	_, err := c.Facts(context.Background())
	require.NoError(t, err)
	_, err = c.Facts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	clock.Advance(time.Minute)
	_, err = c.Facts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())

	c.Invalidate()
	_, err = c.Facts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_FactsReturnsCopy(t *testing.T) {
	srv := factServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"fact": "original"}`)
	})
	c := NewClient(srv.URL, WithPreload(1))

	list, err := c.Facts(context.Background())
	require.NoError(t, err)
	list[0] = "mutated"

	again, err := c.Facts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "original", again[0])
}

func TestClient_ConcurrentFactsShareRequests(t *testing.T) {
	var calls atomic.Int32
	gate := make(chan struct{})
	srv := factServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-gate
		fmt.Fprint(w, `{"fact": "shared"}`)
	})
	c := NewClient(srv.URL, WithPreload(1), WithCacheTTL(0))

	var wg sync.WaitGroup
	results := make([][]string, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Facts(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		if r != nil {
			assert.Equal(t, []string{"shared"}, r)
		}
	}
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	srv := factServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	c := NewClient(srv.URL)

	for i := 0; i < tripAfter; i++ {
		_, err := c.Fetch(context.Background())
		require.Error(t, err)
	}
	require.Equal(t, gobreaker.StateOpen, c.BreakerState())

	_, err := c.Fetch(context.Background())
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, int32(tripAfter), calls.Load())
}

func TestStatic_ReturnsCopy(t *testing.T) {
	s := Static{"a", "b"}
	list, err := s.Facts(context.Background())
	require.NoError(t, err)
	list[0] = "z"
	assert.Equal(t, "a", s[0])

	_, err = Static(nil).Facts(context.Background())
	assert.ErrorIs(t, err, ErrNoFacts)
}

func TestNewClient_DefaultEndpoint(t *testing.T) {
	assert.Equal(t, DefaultEndpoint, NewClient("").Endpoint())
}

func TestClient_CancelledFetchesDoNotTripBreaker(t *testing.T) {
	srv := factServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"fact": "healthy"}`)
	})
	c := NewClient(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < tripAfter*2; i++ {
		_, err := c.Fetch(ctx)
		require.ErrorIs(t, err, context.Canceled)
	}
	require.Equal(t, gobreaker.StateClosed, c.BreakerState())

	fact, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", fact)
}

func TestClient_ShortLivedCallersDoNotTripBreaker(t *testing.T) {
	srv := factServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(30 * time.Millisecond)
		fmt.Fprint(w, `{"fact": "slow but fine"}`)
	})
	c := NewClient(srv.URL, WithPreload(1), WithCacheTTL(0))

	for i := 0; i < tripAfter; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		_, err := c.Facts(ctx)
		cancel()
		require.ErrorIs(t, err, context.DeadlineExceeded)
	}

	list, err := c.Facts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"slow but fine"}, list)
	assert.Equal(t, gobreaker.StateClosed, c.BreakerState())
}

func TestClient_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	var calls atomic.Int32
	gate := make(chan struct{})
	release := sync.OnceFunc(func() { close(gate) })
	defer release()
	srv := factServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-gate
		fmt.Fprint(w, `{"fact": "shared"}`)
	})
	c := NewClient(srv.URL, WithPreload(1), WithCacheTTL(0))

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Facts(first)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, 5*time.Millisecond)

	second := make(chan []string, 1)
	go func() {
		list, err := c.Facts(context.Background())
		assert.NoError(t, err)
		second <- list
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	release()
	assert.Equal(t, []string{"shared"}, <-second)
}
