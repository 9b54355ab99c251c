package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"DrawableCanvas/internal/background"
	"DrawableCanvas/internal/bridge"
	"DrawableCanvas/internal/export"
	cnet "DrawableCanvas/internal/net"
	"DrawableCanvas/internal/scene"
	"DrawableCanvas/internal/surface"
	"DrawableCanvas/internal/ui"

	"fyne.io/fyne/v2"
)

const (
	Port  = 8888
	Title = "Drawable Canvas"

	// publishDelay batches realtime updates from a fast stroke.
	publishDelay = 100 * time.Millisecond
)

// Inbound message types.
const (
	argsMessage = "args"
	syncMessage = "sync"
)

// usage: drawablecanvas [args.json [page-url]] | drawablecanvas discover
func main() {
	args := os.Args
	if len(args) > 1 && args[1] == "discover" {
		runDiscover()
		return
	}

	cfg := bridge.DefaultArgs()
	if len(args) > 1 {
		var err error
		if cfg, err = bridge.LoadArgs(args[1]); err != nil {
			log.Fatalf("Failed to load args: %v", err)
		}
	}
	base := ""
	if len(args) > 2 {
		if b, ok := background.BaseURL(args[2]); ok {
			base = b
		} else {
			log.Printf("No %s parameter in %s; background images resolve as given", background.BaseURLParam, args[2])
		}
	}
	runSurface(cfg, base)
}

func runSurface(cfg bridge.Args, base string) {
	log.Println("Starting drawing surface")
	hub := cnet.NewHub()
	publisher := bridge.NewPublisher(hub, export.PNGDataURL, publishDelay)
	defer publisher.Close()

	loader := background.NewLoader(nil, base, fyne.Do)
	s := surface.New(scene.NewCanvas(cfg.CanvasWidth, cfg.CanvasHeight), publisher, loader)

	hub.OnMessage = func(msgType string, payload json.RawMessage) {
		switch msgType {
		case argsMessage:
			a, err := bridge.DecodeArgs(payload)
			if err != nil {
				log.Printf("[HUB] rejecting args: %v", err)
				return
			}
			fyne.Do(func() { s.Configure(a) })
		case syncMessage:
			fyne.Do(s.ForceSync)
		default:
			log.Printf("[HUB] ignoring unknown message type %q", msgType)
		}
	}
	// A newly connected host gets the current value straight away.
	hub.OnConnect = func() {
		fyne.Do(s.ForceSync)
	}

	onStarted := func() {
		go func() {
			if err := hub.ListenAndServe(Port); err != nil {
				log.Fatalf("Failed to start hub: %v", err)
			}
		}()
		log.Printf("Hosts can connect at ws://%s:%d%s", cnet.OutgoingIP(), Port, cnet.HubPath)
	}

	if server, err := cnet.Advertise(Port); err != nil {
		log.Printf("mDNS advertisement unavailable: %v", err)
	} else {
		defer server.Shutdown()
	}
	ui.RunApp(Title, s, cfg, onStarted)
}

func runDiscover() {
	log.Println("Looking for drawing surfaces on the local network")
	n := 0
	err := cnet.Browse(func(addr string) {
		n++
		fmt.Println(addr)
	})
	if err != nil {
		log.Fatalf("Discovery failed: %v", err)
	}
	if n == 0 {
		log.Println("No drawing surfaces found")
	}
}
