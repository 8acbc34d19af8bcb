package ui

import (
	"github.com/maxence-charriere/go-app/v9/pkg/app"

	"spinnertip/logger"
)

// LogTable lists recent client-side log entries, e.g. fact fetch warnings.
type LogTable struct {
	app.Compo
	Logs []logger.LogEntry
}

func (t *LogTable) Render() app.UI {
	return app.Div().Class("repo-panel").Style("margin-top", "24px").Body(
		app.H2().Class("panel-title").Text("Recent activity"),
		app.If(len(t.Logs) == 0,
			app.Div().Style("padding", "20px").Text("Nothing logged yet."),
		).Else(
			app.Table().Body(
				app.THead().Body(
					app.Tr().Body(
						app.Th().Style("width", "180px").Text("Time"),
						app.Th().Style("width", "80px").Text("Level"),
						app.Th().Text("Message"),
						app.Th().Style("width", "20%").Text("Details"),
					),
				),
				app.TBody().Body(
					app.Range(t.Logs).Slice(func(i int) app.UI {
						l := t.Logs[i]
						return app.Tr().Class("table-row").Style("display", "table-row").Body(
							app.Td().Text(l.CreatedAt.Format("2006-01-02 15:04:05")),
							app.Td().Style("color", levelColor(l.Level)).Style("font-weight", "500").Text(l.Level),
							app.Td().Text(l.Message),
							app.Td().Style("font-family", "monospace").Style("font-size", "12px").Text(l.Details),
						)
					}),
				),
			),
		),
	)
}

func levelColor(level string) string {
	switch level {
	case "ERROR":
		return "var(--md-sys-color-error)"
	case "WARN":
		return "#FBC02D"
	default:
		return "var(--md-sys-color-on-surface)"
	}
}
