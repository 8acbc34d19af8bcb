package overlay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"spinnertip/facts"
	"spinnertip/logger"
)

var (
	ErrAlreadyVisible = errors.New("overlay is already visible")
	ErrMissingElement = errors.New("overlay element not found")
)

// View renders overlay state. Mount is called once per Show before the task
// runs and fails when the overlay cannot be rendered. Apply receives every
// later snapshot in order, ending with one whose Visible is false.
type View interface {
	Mount(State) error
	Apply(State)
}

// Task is the long-running work wrapped by an overlay.
type Task func(ctx context.Context) error

type Controller struct {
	id     string
	base   Config
	view   View
	source facts.Source
	clock  clockwork.Clock
	log    *logger.Logger

	mu      sync.Mutex
	visible bool
	state   State
	current *run
	clients map[string]*facts.Client
}

type ControllerOption func(*Controller)

// WithID sets the overlay identity. New assigns a random one otherwise.
func WithID(id string) ControllerOption {
	return func(c *Controller) { c.id = id }
}

// WithSource replaces the endpoint-backed fact source.
func WithSource(src facts.Source) ControllerOption {
	return func(c *Controller) { c.source = src }
}

func WithClock(clock clockwork.Clock) ControllerOption {
	return func(c *Controller) { c.clock = clock }
}

func WithLogger(l *logger.Logger) ControllerOption {
	return func(c *Controller) { c.log = l }
}

// WithDefaults sets the base configuration every Show starts from.
func WithDefaults(opts ...Option) ControllerOption {
	return func(c *Controller) { c.base = c.base.apply(opts) }
}

// New returns an independent controller rendering into view.
func New(view View, opts ...ControllerOption) *Controller {
	c := &Controller{
		base:    DefaultConfig(),
		view:    view,
		clock:   clockwork.NewRealClock(),
		log:     logger.Default(),
		clients: make(map[string]*facts.Client),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	return c
}

func (c *Controller) ID() string {
	return c.id
}

func (c *Controller) Config() Config {
	return c.base.apply(nil)
}

func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Show displays the overlay while task runs and hides it once task returns,
// fails or panics. The task's error is returned unchanged. Options override
// the controller's defaults for this call only.
func (c *Controller) Show(ctx context.Context, task Task, opts ...Option) error {
	cfg := c.base.apply(opts)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("overlay %s: %w", c.id, err)
	}

	r, err := c.begin(ctx, cfg)
	if err != nil {
		return err
	}
	defer r.finish()

	return task(ctx)
}

// Do is Show for tasks that produce a value.
func Do[T any](ctx context.Context, c *Controller, fn func(context.Context) (T, error), opts ...Option) (T, error) {
	var out T
	err := c.Show(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		out = v
		return err
	}, opts...)
	return out, err
}

// Hide stops a running overlay early. The wrapped task keeps running.
func (c *Controller) Hide() {
	c.mu.Lock()
	r := c.current
	c.mu.Unlock()
	if r != nil {
		r.finish()
	}
}

type run struct {
	c      *Controller
	cfg    Config
	start  time.Time
	done   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
	facts  []string
}

func (c *Controller) begin(ctx context.Context, cfg Config) (*run, error) {
	c.mu.Lock()
	if c.visible {
		c.mu.Unlock()
		c.log.Warn("overlay %s is already visible", c.id)
		return nil, ErrAlreadyVisible
	}

	loadCtx, cancel := context.WithCancel(ctx)
	r := &run{
		c:      c,
		cfg:    cfg,
		start:  c.clock.Now(),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	c.visible = true
	c.current = r
	c.state = State{
		ID:           c.id,
		Visible:      true,
		Status:       cfg.LoadingText,
		LoadingText:  cfg.LoadingText,
		Position:     cfg.Position,
		Theme:        cfg.Theme,
		AutoHide:     cfg.AutoHide,
		ShowProgress: cfg.ShowProgress,
		ShowStatus:   cfg.ShowStatus,
	}
	if err := c.view.Mount(c.state); err != nil {
		c.visible = false
		c.current = nil
		c.state = State{ID: c.id}
		c.mu.Unlock()
		cancel()
		return nil, fmt.Errorf("mount overlay %s: %w", c.id, err)
	}

	factTicker := c.clock.NewTicker(cfg.FactChangeInterval)
	var progressTicker clockwork.Ticker
	if cfg.ShowProgress {
		progressTicker = c.clock.NewTicker(ProgressTick)
	}
	var reveal clockwork.Timer
	if cfg.ShowDelay > 0 {
		reveal = c.clock.NewTimer(cfg.ShowDelay)
	}
	r.wg.Add(1)
	if progressTicker != nil {
		r.wg.Add(1)
	}
	c.mu.Unlock()

	go r.rotateFacts(loadCtx, factTicker, reveal)
	if progressTicker != nil {
		go r.animateProgress(progressTicker)
	}
	return r, nil
}

// update applies fn to the live state and hands the result to the view.
// The view is called under the lock so snapshots arrive in order.
func (c *Controller) update(r *run, fn func(*State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != r {
		return
	}
	fn(&c.state)
	c.view.Apply(c.state)
}

func (r *run) rotateFacts(ctx context.Context, ticker clockwork.Ticker, reveal clockwork.Timer) {
	defer r.wg.Done()
	defer ticker.Stop()

	var revealC <-chan time.Time
	if reveal != nil {
		defer reveal.Stop()
		revealC = reveal.Chan()
	}

	list := r.c.loadFacts(ctx, r.cfg)
	if list == nil {
		return
	}
	r.facts = list
	r.c.update(r, func(s *State) {
		s.FactIndex = FactIndexAt(r.c.clock.Since(r.start), r.cfg.FactChangeInterval, len(r.facts))
		s.Fact = r.facts[s.FactIndex]
		if revealC == nil {
			s.FactVisible = true
		}
	})

	for {
		select {
		case <-r.done:
			return
		case <-revealC:
			revealC = nil
			r.c.update(r, func(s *State) { s.FactVisible = true })
		case <-ticker.Chan():
			r.c.update(r, func(s *State) {
				s.FactIndex = FactIndexAt(r.c.clock.Since(r.start), r.cfg.FactChangeInterval, len(r.facts))
				s.Fact = r.facts[s.FactIndex]
			})
		}
	}
}

func (r *run) animateProgress(ticker clockwork.Ticker) {
	defer r.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.Chan():
			p := ProgressAt(r.c.clock.Since(r.start), r.cfg.ProgressDuration)
			r.c.update(r, func(s *State) {
				if p > s.Progress {
					s.Progress = p
				}
				s.Status = StatusFor(s.Progress)
			})
			if p >= 100 {
				return
			}
		}
	}
}

func (c *Controller) loadFacts(ctx context.Context, cfg Config) []string {
	list, err := c.sourceFor(cfg).Facts(ctx)
	if ctx.Err() != nil {
		return nil
	}
	if err == nil && len(list) > 0 {
		return list
	}
	if err == nil {
		err = facts.ErrNoFacts
	}
	c.log.WarnErr(err, "overlay %s: fact fetch from %s failed, using fallback", c.id, cfg.Endpoint)
	return append([]string(nil), cfg.FallbackFacts...)
}

func (c *Controller) sourceFor(cfg Config) facts.Source {
	if c.source != nil {
		return c.source
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	client, ok := c.clients[cfg.Endpoint]
	if !ok {
		client = facts.NewClient(cfg.Endpoint, facts.WithClock(c.clock), facts.WithLogger(c.log))
		c.clients[cfg.Endpoint] = client
	}
	return client
}

// finish stops both timers, waits for them and hides the overlay.
func (r *run) finish() {
	r.once.Do(func() {
		close(r.done)
		r.cancel()
		r.wg.Wait()

		c := r.c
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.current != r {
			return
		}
		final := State{
			ID:       c.id,
			Position: r.cfg.Position,
			Theme:    r.cfg.Theme,
			AutoHide: r.cfg.AutoHide,
		}
		if !r.cfg.AutoHide {
			final = c.state
			final.Visible = false
		}
		c.visible = false
		c.current = nil
		c.state = State{ID: c.id}
		c.view.Apply(final)
	})
}
