package ui

import (
	"fmt"

	"github.com/maxence-charriere/go-app/v9/pkg/app"

	"spinnertip/overlay"
)

// ContainerView drives an element already present in the page instead of
// rendering its own overlay. The element must contain a .loader-text child;
// a .loader-icon child is optional.
type ContainerView struct {
	BoxID string

	box  app.Value
	text app.Value
	icon app.Value
}

var _ overlay.View = (*ContainerView)(nil)

func NewContainerView(boxID string) *ContainerView {
	return &ContainerView{BoxID: boxID}
}

func (v *ContainerView) Mount(s overlay.State) error {
	box := app.Window().GetElementByID(v.BoxID)
	if !box.Truthy() {
		return fmt.Errorf("%w: loader box #%s", overlay.ErrMissingElement, v.BoxID)
	}
	text := box.Call("querySelector", ".loader-text")
	if !text.Truthy() {
		return fmt.Errorf("%w: loader text element in #%s", overlay.ErrMissingElement, v.BoxID)
	}

	v.box = box
	v.text = text
	v.icon = box.Call("querySelector", ".loader-icon")
	v.Apply(s)
	return nil
}

func (v *ContainerView) Apply(s overlay.State) {
	if v.box == nil {
		return
	}

	v.box.Get("style").Set("display", displayValue(s.Visible))
	if !s.Visible {
		return
	}

	v.text.Set("textContent", factText(s))
	if v.icon.Truthy() && s.FactVisible {
		v.icon.Set("textContent", factIcon)
		v.icon.Get("style").Set("animation", "pulse 2s infinite")
	}
}
