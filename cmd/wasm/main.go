package main

import (
	"flag"
	"os"

	"github.com/janpfeifer/GoMemory/internal/frontend"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

func main() {
	// Initialize klog for WASM, forcing logs to stderr (console)
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	fs.Set("logtostderr", "true")
	klog.SetOutput(os.Stderr)
	klog.Infof("WASM started!")

	// Home page: pick a board size or a custom game
	app.Route("/", func() app.Composer { return &frontend.Home{} })

	// Publish a custom game made of the user's pictures
	app.Route("/create", func() app.Composer { return &frontend.Create{} })

	// Board page, with the game in the query: /play?size=... or /play?game=...
	app.RouteWithRegexp("^/play.*", func() app.Composer { return &frontend.Play{} })

	// Initialize the global app state manager
	frontend.InitState()

	// When building for WEB (GOOS=js GOARCH=wasm), app.Run() executes the frontend logic
	app.RunWhenOnBrowser()
}
