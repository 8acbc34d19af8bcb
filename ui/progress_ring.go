package ui

import (
	"fmt"
	"math"

	"github.com/maxence-charriere/go-app/v9/pkg/app"
)

type ProgressRing struct {
	app.Compo
	Percent float64
}

func (r *ProgressRing) Render() app.UI {
	p := clampPercent(r.Percent)

	return app.Div().Class("progress-container").Body(
		app.Div().Class("progress-ring").Style("background", ringBackground(p)),
		app.Div().Class("progress-icon").Text(factIcon),
		app.Div().Class("progress-text").Text(percentLabel(p)),
	)
}

func clampPercent(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	return math.Min(p, 100)
}

func percentLabel(p float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(clampPercent(p))))
}

// ringBackground draws the filled arc as a conic gradient.
func ringBackground(p float64) string {
	return fmt.Sprintf("conic-gradient(var(--spinner-tip-accent, #667eea) %.1f%%, var(--spinner-tip-track, #e0e0e0) 0)", clampPercent(p))
}
