package ui

import (
	"fmt"
	"strings"

	"github.com/maxence-charriere/go-app/v9/pkg/app"

	"spinnertip/overlay"
)

const factIcon = "💡"

// Overlay is the fixed-position loading overlay. It implements overlay.View,
// so a controller can drive it directly once it is mounted in the page.
type Overlay struct {
	app.Compo
	ID    string
	State overlay.State

	ctx app.Context
}

var _ overlay.View = (*Overlay)(nil)

func (o *Overlay) OnMount(ctx app.Context) {
	o.ctx = ctx
}

func (o *Overlay) OnDismount() {
	o.ctx = nil
}

// Mount fails when the component is not part of the page yet.
func (o *Overlay) Mount(s overlay.State) error {
	if o.ctx == nil || !o.Mounted() {
		return fmt.Errorf("%w: overlay component #%s is not mounted", overlay.ErrMissingElement, o.ID)
	}
	o.Apply(s)
	return nil
}

// Apply hands s to the UI goroutine. The DOM reflects it on that goroutine's
// next turn, so the hide issued when Show returns lands before any update the
// caller dispatches afterwards.
func (o *Overlay) Apply(s overlay.State) {
	ctx := o.ctx
	if ctx == nil {
		return
	}
	ctx.Dispatch(func(ctx app.Context) {
		o.State = s
		o.Update()
	})
}

func (o *Overlay) Render() app.UI {
	s := o.State

	return app.Div().
		ID(o.ID).
		Class(overlayClass(s)).
		Style("display", displayValue(s.Visible)).
		Body(
			app.If(s.Visible || !s.AutoHide,
				app.Div().Class("loader-content").Body(
					app.If(s.ShowProgress,
						&ProgressRing{Percent: s.Progress},
					),
					app.Div().Class("loading-status").Body(
						app.If(s.ShowStatus,
							app.Div().Class("status-text").Text(s.Status),
						),
						app.Div().Class("knowledge-text").Body(
							app.If(s.FactVisible,
								app.Span().Class("loader-icon").Text(factIcon),
							),
							app.Span().Class("loader-text").Text(factText(s)),
						),
					),
				),
			),
		)
}

func overlayClass(s overlay.State) string {
	classes := []string{"spinner-tip-overlay", string(s.Theme), string(s.Position)}
	if s.Visible {
		classes = append(classes, "fade-in")
	}
	return strings.Join(classes, " ")
}

func displayValue(visible bool) string {
	if visible {
		return "block"
	}
	return "none"
}

// factText is what the text slot shows: the fact once revealed, otherwise
// the loading label.
func factText(s overlay.State) string {
	if s.FactVisible && s.Fact != "" {
		return s.Fact
	}
	if s.LoadingText != "" {
		return s.LoadingText
	}
	return overlay.DefaultLoadingText
}
