package overlay

import (
	"fmt"
	"time"

	"spinnertip/facts"
)

type Position string

const (
	PositionCenter Position = "center"
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
)

type Theme string

const (
	ThemeDefault Theme = "default"
	ThemeDark    Theme = "dark"
	ThemeMinimal Theme = "minimal"
)

// ProgressTick is how often the progress indicator advances.
const ProgressTick = 100 * time.Millisecond

const (
	DefaultFactChangeInterval = 3 * time.Second
	DefaultProgressDuration   = 30 * time.Second
	DefaultShowDelay          = time.Second
	DefaultLoadingText        = "Loading..."
)

// Config describes one overlay. Zero values are replaced by defaults in
// Defaults; Validate rejects what cannot be rendered.
type Config struct {
	Endpoint           string
	Position           Position
	Theme              Theme
	FactChangeInterval time.Duration
	ProgressDuration   time.Duration
	ShowDelay          time.Duration
	AutoHide           bool

	ShowProgress  bool
	ShowStatus    bool
	LoadingText   string
	FallbackFacts []string
}

func DefaultConfig() Config {
	return Config{
		Endpoint:           facts.DefaultEndpoint,
		Position:           PositionCenter,
		Theme:              ThemeDefault,
		FactChangeInterval: DefaultFactChangeInterval,
		ProgressDuration:   DefaultProgressDuration,
		ShowDelay:          DefaultShowDelay,
		AutoHide:           true,
		ShowProgress:       true,
		ShowStatus:         true,
		LoadingText:        DefaultLoadingText,
		FallbackFacts:      facts.Default,
	}
}

func (c Config) Validate() error {
	switch c.Position {
	case PositionCenter, PositionTop, PositionBottom:
	default:
		return fmt.Errorf("invalid position %q", c.Position)
	}
	switch c.Theme {
	case ThemeDefault, ThemeDark, ThemeMinimal:
	default:
		return fmt.Errorf("invalid theme %q", c.Theme)
	}
	if c.FactChangeInterval <= 0 {
		return fmt.Errorf("fact change interval must be positive, got %s", c.FactChangeInterval)
	}
	if c.ProgressDuration <= 0 {
		return fmt.Errorf("progress duration must be positive, got %s", c.ProgressDuration)
	}
	if c.ShowDelay < 0 {
		return fmt.Errorf("show delay must not be negative, got %s", c.ShowDelay)
	}
	if len(c.FallbackFacts) == 0 {
		return fmt.Errorf("at least one fallback fact is required")
	}
	return nil
}

type Option func(*Config)

func WithEndpoint(url string) Option {
	return func(c *Config) { c.Endpoint = url }
}

func WithPosition(p Position) Option {
	return func(c *Config) { c.Position = p }
}

func WithTheme(t Theme) Option {
	return func(c *Config) { c.Theme = t }
}

func WithFactChangeInterval(d time.Duration) Option {
	return func(c *Config) { c.FactChangeInterval = d }
}

func WithProgressDuration(d time.Duration) Option {
	return func(c *Config) { c.ProgressDuration = d }
}

func WithShowDelay(d time.Duration) Option {
	return func(c *Config) { c.ShowDelay = d }
}

func WithAutoHide(on bool) Option {
	return func(c *Config) { c.AutoHide = on }
}

func WithProgress(on bool) Option {
	return func(c *Config) { c.ShowProgress = on }
}

func WithStatus(on bool) Option {
	return func(c *Config) { c.ShowStatus = on }
}

func WithLoadingText(text string) Option {
	return func(c *Config) { c.LoadingText = text }
}

func WithFallbackFacts(list ...string) Option {
	return func(c *Config) {
		c.FallbackFacts = append([]string(nil), list...)
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}

// LLM is tuned for waiting on a language model: a slower progress bar and
// facts that stay up a little longer.
func LLM() Option {
	return func(c *Config) {
		c.ProgressDuration = 30 * time.Second
		c.FactChangeInterval = 4 * time.Second
	}
}

func (c Config) apply(opts []Option) Config {
	c.FallbackFacts = append([]string(nil), c.FallbackFacts...)
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
