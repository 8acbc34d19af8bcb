package overlay

import (
	"math"
	"time"
)

// State is a snapshot of one overlay invocation as handed to a View.
type State struct {
	ID          string
	Visible     bool
	FactIndex   int
	Fact        string
	FactVisible bool
	Progress    float64
	Status      string
	LoadingText string

	Position     Position
	Theme        Theme
	AutoHide     bool
	ShowProgress bool
	ShowStatus   bool
}

const (
	StatusProcessing = "Processing request..."
	StatusAnalyzing  = "Analyzing data..."
	StatusGenerating = "Generating response..."
	StatusFinishing  = "Finishing up..."
	StatusDone       = "Done!"
)

// StatusFor maps a progress percentage to its stage message.
func StatusFor(percent float64) string {
	switch {
	case percent < 25:
		return StatusProcessing
	case percent < 50:
		return StatusAnalyzing
	case percent < 75:
		return StatusGenerating
	case percent < 100:
		return StatusFinishing
	default:
		return StatusDone
	}
}

// ProgressAt returns the percentage reached after elapsed of duration,
// clamped to [0, 100].
func ProgressAt(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 100
	}
	if elapsed <= 0 {
		return 0
	}
	return math.Min(float64(elapsed)/float64(duration)*100, 100)
}

// FactIndexAt returns which of n facts is displayed after elapsed when
// rotating every interval. Rotation is a deterministic cycle starting at 0.
func FactIndexAt(elapsed, interval time.Duration, n int) int {
	if n <= 0 || interval <= 0 || elapsed <= 0 {
		return 0
	}
	return int(elapsed/interval) % n
}
