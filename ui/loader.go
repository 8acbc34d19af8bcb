package ui

import "github.com/maxence-charriere/go-app/v9/pkg/app"

// Loader is the lightweight markup a ContainerView binds to: a hidden box
// holding .loader-icon and .loader-text.
type Loader struct {
	app.Compo
	ID   string
	Text string
}

func (l *Loader) Render() app.UI {
	text := l.Text
	if text == "" {
		text = "Loading..."
	}

	return app.Div().ID(l.ID).Class("loader-container").Style("display", "none").Body(
		app.Div().Class("spinner").Body(
			app.Div().Class("double-bounce1"),
			app.Div().Class("double-bounce2"),
		),
		app.Span().Class("loader-icon"),
		app.Div().Class("loader-text").Text(text),
	)
}
