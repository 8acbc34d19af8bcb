package ui

import (
	"github.com/maxence-charriere/go-app/v9/pkg/app"

	"spinnertip/overlay"
)

var (
	themeChoices    = []overlay.Theme{overlay.ThemeDefault, overlay.ThemeDark, overlay.ThemeMinimal}
	positionChoices = []overlay.Position{overlay.PositionCenter, overlay.PositionTop, overlay.PositionBottom}
)

// Sidebar lets the demo page pick how the overlay looks.
type Sidebar struct {
	app.Compo
	Theme      overlay.Theme
	Position   overlay.Position
	Uptime     string
	IsOpen     bool
	OnTheme    func(app.Context, overlay.Theme)
	OnPosition func(app.Context, overlay.Position)
}

func (s *Sidebar) Render() app.UI {
	sidebarClass := "sidebar"
	if s.IsOpen {
		sidebarClass += " open"
	}

	return app.Aside().Class(sidebarClass).Body(
		app.Div().Class("sidebar-header").Body(
			app.Div().Class("brand").Body(
				app.Text("Spinner Tip"),
			),
		),

		app.Div().Class("repo-list-container").Body(
			app.Div().Class("section-label").Text("Theme"),
			app.Ul().Class("repo-list").Body(
				app.Range(themeChoices).Slice(func(i int) app.UI {
					theme := themeChoices[i]
					return app.Li().Class(choiceClass(s.Theme == theme)).
						OnClick(func(ctx app.Context, e app.Event) {
							if s.OnTheme != nil {
								s.OnTheme(ctx, theme)
							}
						}).
						Body(
							app.Span().Class("material-symbols-rounded").Text(themeIcon(theme)),
							app.Span().Class("path").Text(string(theme)),
						)
				}),
			),

			app.Div().Class("section-label").Text("Position"),
			app.Ul().Class("repo-list").Body(
				app.Range(positionChoices).Slice(func(i int) app.UI {
					pos := positionChoices[i]
					return app.Li().Class(choiceClass(s.Position == pos)).
						OnClick(func(ctx app.Context, e app.Event) {
							if s.OnPosition != nil {
								s.OnPosition(ctx, pos)
							}
						}).
						Body(
							app.Span().Class("material-symbols-rounded").Text(positionIcon(pos)),
							app.Span().Class("path").Text(string(pos)),
						)
				}),
			),
		),

		app.If(s.Uptime != "",
			app.Div().Class("sidebar-footer").Body(
				app.Div().Class("sys-stat").Body(
					app.Div().Class("sys-stat-label").Body(
						app.Span().Class("material-symbols-rounded").Text("dns"),
						app.Text("Server uptime"),
					),
					app.Div().Style("font-weight", "500").Text(s.Uptime),
				),
			),
		),
	)
}

func choiceClass(active bool) string {
	if active {
		return "repo-item active"
	}
	return "repo-item"
}

func themeIcon(t overlay.Theme) string {
	switch t {
	case overlay.ThemeDark:
		return "dark_mode"
	case overlay.ThemeMinimal:
		return "crop_square"
	default:
		return "light_mode"
	}
}

func positionIcon(p overlay.Position) string {
	switch p {
	case overlay.PositionTop:
		return "vertical_align_top"
	case overlay.PositionBottom:
		return "vertical_align_bottom"
	default:
		return "vertical_align_center"
	}
}
