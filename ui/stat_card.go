package ui

import (
	"github.com/maxence-charriere/go-app/v9/pkg/app"
)

// StatCard shows one field of the status returned by the wrapped request.
type StatCard struct {
	app.Compo
	Title string
	Value string
	Hint  string
	Icon  string
}

func (c *StatCard) Render() app.UI {
	value := c.Value
	if value == "" {
		value = "-"
	}

	return app.Div().Class("stat-card").Body(
		app.Div().Class("stat-card-icon").Body(
			app.Span().Class("material-symbols-rounded").Text(c.Icon),
		),
		app.Div().Class("stat-label").Text(c.Title),
		app.Div().Class("stat-value").Text(value),
		app.If(c.Hint != "",
			app.Div().Class("stat-sub").Text(c.Hint),
		),
	)
}
