package facts

import (
	"context"
	"errors"
)

// DefaultEndpoint is where the fact service is mounted by the backend.
const DefaultEndpoint = "/spinner-tip/fact/"

// Fallback is shown whenever no fact could be fetched.
const Fallback = "A perfume's longevity depends not only on its concentration but also on skin type and temperature."

// Default is the built-in list used when the endpoint is unreachable.
var Default = []string{
	"A perfume's first impression is the top note, then the middle note, and finally the base note.",
	Fallback,
	"When testing a scent, spray it on your wrist and check how it blends with your own skin.",
	"Store perfume in a cool, dark place away from sunlight and heat.",
	"Smelling more than three or four perfumes in a row dulls your sense of smell.",
}

var ErrNoFacts = errors.New("no facts available")

// Source yields the facts an overlay rotates through.
type Source interface {
	Facts(ctx context.Context) ([]string, error)
}

// Static is a fixed in-memory list.
type Static []string

func (s Static) Facts(ctx context.Context) ([]string, error) {
	if len(s) == 0 {
		return nil, ErrNoFacts
	}
	out := make([]string, len(s))
	copy(out, s)
	return out, nil
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context) ([]string, error)

func (f SourceFunc) Facts(ctx context.Context) ([]string, error) {
	return f(ctx)
}
