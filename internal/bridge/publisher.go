package bridge

import (
	"log"
	"sync"
	"time"

	"DrawableCanvas/internal/export"
	"DrawableCanvas/internal/scene"
)

// ValueMessage is the message type used for outbound values.
const ValueMessage = "value"

// Value is what the host receives.
type Value struct {
	JSON   scene.Snapshot `json:"json"`
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Image  string         `json:"image,omitempty"`
}

// Sink delivers a typed message to the host.
type Sink interface {
	Broadcast(msgType string, payload any) error
}

// Rasterizer turns a frame into the image string sent with each value.
type Rasterizer func(export.Frame) (string, error)

// Publisher sends frames to the sink. Forced publishes go out at once;
// realtime publishes are debounced so a burst of edits sends one value.
type Publisher struct {
	sink   Sink
	raster Rasterizer
	delay  time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *export.Frame
	sent    int
}

// NewPublisher returns a publisher. A nil raster sends values without an
// image; a zero delay disables debouncing.
func NewPublisher(sink Sink, raster Rasterizer, delay time.Duration) *Publisher {
	return &Publisher{sink: sink, raster: raster, delay: delay}
}

// Publish queues f, or sends it immediately when force is set.
func (p *Publisher) Publish(f export.Frame, force bool) {
	p.mu.Lock()
	if force || p.delay <= 0 {
		p.stopLocked()
		p.mu.Unlock()
		p.send(f)
		return
	}
	p.pending = &f
	if p.timer == nil {
		p.timer = time.AfterFunc(p.delay, p.Flush)
	} else {
		p.timer.Reset(p.delay)
	}
	p.mu.Unlock()
}

// Flush sends the pending frame, if any.
func (p *Publisher) Flush() {
	p.mu.Lock()
	f := p.pending
	p.stopLocked()
	p.mu.Unlock()
	if f != nil {
		p.send(*f)
	}
}

// Close drops anything pending.
func (p *Publisher) Close() {
	p.mu.Lock()
	p.stopLocked()
	p.mu.Unlock()
}

// Sent reports how many values have reached the sink.
func (p *Publisher) Sent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sent
}

func (p *Publisher) stopLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.pending = nil
}

func (p *Publisher) send(f export.Frame) {
	v := Value{JSON: f.Scene, Width: f.Width, Height: f.Height}
	if p.raster != nil {
		img, err := p.raster(f)
		if err != nil {
			log.Printf("[BRIDGE] rasterizing value: %v", err)
		}
		v.Image = img
	}
	if err := p.sink.Broadcast(ValueMessage, v); err != nil {
		log.Printf("[BRIDGE] publishing value: %v", err)
		return
	}
	p.mu.Lock()
	p.sent++
	p.mu.Unlock()
	log.Printf("[BRIDGE] published %d objects", len(f.Scene.Objects))
}
