package main

import (
	"spinnertip/ui"

	"github.com/maxence-charriere/go-app/v9/pkg/app"
)

func main() {
	app.Route("/", &ui.Home{})

	app.RunWhenOnBrowser()
}
