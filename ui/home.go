package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/maxence-charriere/go-app/v9/pkg/app"

	"spinnertip/checker"
	"spinnertip/logger"
	"spinnertip/overlay"
)

const (
	overlayID   = "spinner-tip-overlay"
	inlineBoxID = "spinner-tip-box"
	statusPath  = "/api/status"
	themeKey    = "overlay-theme"
	positionKey = "overlay-position"
)

// Home is the demo page: it wraps a slow status request in the overlay, or
// in the inline loader box, and shows what came back.
type Home struct {
	app.Compo
	Theme         overlay.Theme
	Position      overlay.Position
	Delay         string
	Status        checker.SystemStatus
	Error         string
	Running       bool
	InlineRunning bool
	SidebarOpen   bool
	Logs          []logger.LogEntry

	view       *Overlay
	ctrl       *overlay.Controller
	inlineCtrl *overlay.Controller
	log        *logger.Logger
}

func (h *Home) init() {
	if h.view != nil {
		return
	}
	h.log = logger.New(logWriter{}, logger.LevelDebug)
	h.view = &Overlay{ID: overlayID}
	h.ctrl = overlay.New(h.view,
		overlay.WithID(overlayID),
		overlay.WithLogger(h.log),
		overlay.WithDefaults(overlay.LLM()),
	)
	h.inlineCtrl = overlay.New(NewContainerView(inlineBoxID),
		overlay.WithID(inlineBoxID),
		overlay.WithLogger(h.log),
		overlay.WithDefaults(overlay.WithProgress(false)),
	)
	if h.Theme == "" {
		h.Theme = overlay.ThemeDefault
	}
	if h.Position == "" {
		h.Position = overlay.PositionCenter
	}
	if h.Delay == "" {
		h.Delay = "5s"
	}
}

func (h *Home) OnMount(ctx app.Context) {
	h.init()

	var theme, position string
	ctx.LocalStorage().Get(themeKey, &theme)
	ctx.LocalStorage().Get(positionKey, &position)
	if theme != "" {
		h.Theme = overlay.Theme(theme)
	}
	if position != "" {
		h.Position = overlay.Position(position)
	}
	h.applyBodyTheme()
}

func (h *Home) applyBodyTheme() {
	classList := app.Window().Get("document").Get("body").Get("classList")
	if h.Theme == overlay.ThemeDark {
		classList.Call("add", "dark-theme")
	} else {
		classList.Call("remove", "dark-theme")
	}
}

func (h *Home) selectTheme(ctx app.Context, t overlay.Theme) {
	h.Theme = t
	ctx.LocalStorage().Set(themeKey, string(t))
	h.applyBodyTheme()
	h.Update()
}

func (h *Home) selectPosition(ctx app.Context, p overlay.Position) {
	h.Position = p
	ctx.LocalStorage().Set(positionKey, string(p))
	h.Update()
}

func (h *Home) onDelayChange(ctx app.Context, e app.Event) {
	h.Delay = ctx.JSSrc().Get("value").String()
}

func (h *Home) toggleSidebar(ctx app.Context, e app.Event) {
	h.SidebarOpen = !h.SidebarOpen
	h.Update()
}

func (h *Home) runOverlay(ctx app.Context, e app.Event) {
	if h.Running {
		return
	}
	h.Running = true
	h.Error = ""
	h.Update()

	theme, position, delay := h.Theme, h.Position, h.Delay
	go func() {
		status, err := overlay.Do(context.Background(), h.ctrl, func(c context.Context) (checker.SystemStatus, error) {
			return fetchStatus(c, delay)
		}, overlay.WithTheme(theme), overlay.WithPosition(position))

		ctx.Dispatch(func(ctx app.Context) {
			h.Running = false
			h.finish(status, err)
		})
	}()
}

func (h *Home) runInline(ctx app.Context, e app.Event) {
	if h.InlineRunning {
		return
	}
	h.InlineRunning = true
	h.Error = ""
	h.Update()

	delay := h.Delay
	go func() {
		status, err := overlay.Do(context.Background(), h.inlineCtrl, func(c context.Context) (checker.SystemStatus, error) {
			return fetchStatus(c, delay)
		})

		ctx.Dispatch(func(ctx app.Context) {
			h.InlineRunning = false
			h.finish(status, err)
		})
	}()
}

func (h *Home) finish(status checker.SystemStatus, err error) {
	if err != nil {
		app.Log("Status request failed:", err)
		h.log.Error("Status request failed: %v", err)
		h.Error = err.Error()
	} else {
		h.Status = status
	}
	h.Logs = h.log.GetLogs(20)
	h.Update()
}

func fetchStatus(ctx context.Context, delay string) (checker.SystemStatus, error) {
	var status checker.SystemStatus

	u := statusPath + "?delay=" + url.QueryEscape(delay)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return status, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return status, fmt.Errorf("status request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return status, fmt.Errorf("status request: HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return status, fmt.Errorf("decode status: %w", err)
	}
	return status, nil
}

func (h *Home) Render() app.UI {
	h.init()

	return app.Div().Class("app-layout").Body(
		&Sidebar{
			Theme:      h.Theme,
			Position:   h.Position,
			Uptime:     h.Status.UptimeString,
			IsOpen:     h.SidebarOpen,
			OnTheme:    h.selectTheme,
			OnPosition: h.selectPosition,
		},

		app.Main().Class("main-content").Body(
			app.Header().Class("top-bar").Body(
				app.Div().Style("display", "flex").Style("align-items", "center").Style("gap", "12px").Body(
					app.Button().
						Class("btn-icon mobile-menu-btn").
						OnClick(h.toggleSidebar).
						Body(
							app.Span().Class("material-symbols-rounded").Text("menu"),
						),
					app.Div().Body(
						app.H1().Class("page-title").Text("Facts while you wait"),
						app.Span().Class("page-subtitle").Text("Wrap a slow request in a loading overlay"),
					),
				),
			),

			app.Div().Class("repo-panel").Body(
				app.Label().Class("stat-label").For("delay").Text("Server delay"),
				app.Input().
					ID("delay").
					Class("text-input").
					Value(h.Delay).
					OnChange(h.onDelayChange),
				app.Div().Class("actions").Style("display", "flex").Style("gap", "12px").Style("margin-top", "16px").Body(
					app.Button().
						Class("btn").
						Disabled(h.Running).
						OnClick(h.runOverlay).
						Text("Run with overlay"),
					app.Button().
						Class("btn btn-secondary").
						Disabled(h.InlineRunning).
						OnClick(h.runInline).
						Text("Run with inline loader"),
				),
				&Loader{ID: inlineBoxID},
			),

			app.If(h.Error != "",
				app.Div().Class("status-error").Text(h.Error),
			),

			app.If(h.Status.Hostname != "",
				app.Div().Class("stats-grid").Body(
					&StatCard{Title: "Host", Value: h.Status.Hostname, Hint: h.Status.Platform, Icon: "dns"},
					&StatCard{Title: "Uptime", Value: h.Status.UptimeString, Icon: "schedule"},
					&StatCard{Title: "Memory", Value: h.Status.MemoryUsed, Hint: "of " + h.Status.MemoryTotal, Icon: "memory"},
					&StatCard{Title: "Waited", Value: h.Status.Delay, Icon: "hourglass_empty"},
				),
			),

			&LogTable{Logs: h.Logs},
		),

		h.view,
	)
}

// logWriter sends logger output to the browser console.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	app.Log(string(p))
	return len(p), nil
}
