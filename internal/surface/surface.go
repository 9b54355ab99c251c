// Package surface wires pointer input, the active tool, the viewport and the
// undo history into one drawing surface.
package surface

import (
	"log"

	"DrawableCanvas/internal/background"
	"DrawableCanvas/internal/bridge"
	"DrawableCanvas/internal/export"
	"DrawableCanvas/internal/history"
	"DrawableCanvas/internal/scene"
	"DrawableCanvas/internal/tools"
	"DrawableCanvas/internal/viewport"
)

// Publisher sends the drawing to the host.
type Publisher interface {
	Publish(f export.Frame, force bool)
}

// BackgroundLoader fetches background images off the event thread.
type BackgroundLoader interface {
	Request(ref string, done func(background.Result))
	Cancel()
}

// Input is one raw pointer event in screen coordinates. Modifier is true
// while the pan key is held.
type Input struct {
	Position scene.Point
	Button   int
	Modifier bool
}

type gesture int

const (
	gestureNone gesture = iota
	gestureDraw
	gesturePan
)

// Controller owns the canvas, the current tool and the history. Every
// method must be called from the event thread.
type Controller struct {
	canvas    *scene.Canvas
	history   *history.History
	viewport  *viewport.Controller
	publisher Publisher
	loader    BackgroundLoader

	args     bridge.Args
	mounted  bool
	teardown func()
	gesture  gesture

	// OnChange is called after anything the toolbar shows may have changed.
	OnChange func()
}

// New returns an unmounted controller. publisher and loader may be nil.
func New(canvas *scene.Canvas, publisher Publisher, loader BackgroundLoader) *Controller {
	c := &Controller{
		canvas:    canvas,
		history:   history.New(scene.EmptySnapshot("")),
		publisher: publisher,
		loader:    loader,
	}
	c.viewport = viewport.New(canvas, viewport.Size{Width: canvas.Width(), Height: canvas.Height()})
	return c
}

func (c *Controller) Canvas() *scene.Canvas { return c.canvas }
func (c *Controller) History() *history.History { return c.history }
func (c *Controller) Viewport() *viewport.Controller { return c.viewport }
func (c *Controller) Args() bridge.Args { return c.args }
func (c *Controller) CanUndo() bool { return c.history.CanUndo() }
func (c *Controller) CanRedo() bool { return c.history.CanRedo() }
func (c *Controller) ToolbarVisible() bool { return c.args.DisplayToolbar }

// Mount applies the first configuration: it loads the initial drawing,
// resets history to it and configures the tool.
func (c *Controller) Mount(a bridge.Args) {
	c.mounted = false
	c.Configure(a)
}

// Configure applies a new set of host args. Only what changed is redone:
// a different initial drawing reloads the scene and resets history; a new
// mode, style or initial drawing rebuilds the tool; a new background
// reference restarts the image load.
func (c *Controller) Configure(a bridge.Args) {
	prev := c.args
	c.args = a
	first := !c.mounted
	c.mounted = true

	if first || a.CanvasWidth != prev.CanvasWidth || a.CanvasHeight != prev.CanvasHeight {
		c.canvas.SetDimensions(a.CanvasWidth, a.CanvasHeight)
		c.viewport.SetContentSize(viewport.Size{Width: a.CanvasWidth, Height: a.CanvasHeight})
	}

	initialChanged := false
	if initial, err := a.Initial(); err != nil {
		log.Printf("[SURFACE] ignoring initial drawing: %v", err)
	} else if first || !initial.Equal(c.history.Initial()) {
		err := c.canvas.Load(initial, func() {
			c.history.Reset(initial)
			initialChanged = true
		})
		if err != nil {
			log.Printf("[SURFACE] could not load initial drawing: %v", err)
		}
	}

	if first || initialChanged || a.DrawingMode != prev.DrawingMode || a.Style() != prev.Style() {
		c.retool()
	}
	if first || a.BackgroundImageURL != prev.BackgroundImageURL {
		c.requestBackground(a.BackgroundImageURL)
	}
	if initialChanged {
		c.changed()
	} else {
		c.notify()
	}
	c.drain()
}

// retool tears the current tool down completely before building the next
// one, so two tools are never live at once. Teardown can finish or drop a
// shape still in progress, so the result is saved.
func (c *Controller) retool() {
	if c.teardown != nil {
		c.teardown()
		c.teardown = nil
		c.save()
	}
	tool, err := tools.New(c.args.DrawingMode, c.canvas)
	if err != nil {
		log.Printf("[SURFACE] %v; drawing disabled", err)
		return
	}
	toolTeardown := tool.ConfigureCanvas(c.args.Style())
	ids := []scene.HandlerID{
		c.canvas.On(scene.MouseUp, c.onMouseUp),
		c.canvas.On(scene.DoubleClick, c.onDoubleClick),
	}
	c.teardown = func() {
		toolTeardown()
		c.canvas.Off(ids...)
	}
}

func (c *Controller) onMouseUp(e *scene.Event) {
	c.save()
	if e.Button == scene.ButtonSecondary {
		c.history.ForceSync()
	}
}

func (c *Controller) onDoubleClick(*scene.Event) {
	c.save()
}

func (c *Controller) save() {
	before := c.history.Cursor()
	c.history.Save(c.canvas.ToJSON())
	if c.history.Cursor() != before {
		c.changed()
	}
}

// PointerDown starts a gesture. Holding the modifier with the primary
// button pans; anything else goes to the tool until release.
func (c *Controller) PointerDown(in Input) {
	if in.Modifier && in.Button == scene.ButtonPrimary {
		c.gesture = gesturePan
		c.viewport.PanBegin(in.Position)
		return
	}
	c.gesture = gestureDraw
	c.canvas.Fire(scene.MouseDown, &scene.Event{Screen: in.Position, Button: in.Button})
	c.drain()
}

// PointerMove pans during a pan gesture and otherwise feeds the tool,
// including hover moves with no button down.
func (c *Controller) PointerMove(in Input) {
	if c.gesture == gesturePan {
		c.viewport.PanMove(in.Position, in.Modifier)
		return
	}
	c.canvas.Fire(scene.MouseMove, &scene.Event{Screen: in.Position, Button: in.Button})
}

// PointerUp ends the gesture. The pan state is always cleared.
func (c *Controller) PointerUp(in Input) {
	g := c.gesture
	c.gesture = gestureNone
	c.viewport.PanEnd()
	if g == gesturePan {
		return
	}
	c.canvas.Fire(scene.MouseUp, &scene.Event{Screen: in.Position, Button: in.Button})
	c.drain()
}

func (c *Controller) DoubleClick(in Input) {
	c.canvas.Fire(scene.DoubleClick, &scene.Event{Screen: in.Position, Button: in.Button})
	c.drain()
}

// Wheel zooms around the pointer.
func (c *Controller) Wheel(in Input, delta float64) {
	c.viewport.Zoom(in.Position, delta)
}

// Resize records the visible size of the surface.
func (c *Controller) Resize(width, height float64) {
	c.viewport.SetViewportSize(viewport.Size{Width: width, Height: height})
}

func (c *Controller) Undo() {
	c.history.Undo()
	c.drain()
}

func (c *Controller) Redo() {
	c.history.Redo()
	c.drain()
}

// Reset returns to the last initial drawing the host supplied.
func (c *Controller) Reset() {
	c.history.Reset(c.history.Initial())
	c.reload()
	c.changed()
}

// ForceSync publishes the current drawing now, whatever the realtime
// setting.
func (c *Controller) ForceSync() {
	c.history.ForceSync()
	c.drain()
}

// drain acts on the one-shot history actions. TakeActions clears them, so
// each request has at most one effect.
func (c *Controller) drain() {
	a := c.history.TakeActions()
	if a.ReloadCanvas {
		c.reload()
		c.changed()
	}
	if a.ForceSync {
		c.publish(true)
	}
}

// reload shows the entry at the history cursor and reapplies the tool so
// the reloaded objects get the mode's interaction flags.
func (c *Controller) reload() {
	err := c.canvas.Load(c.history.Current(), c.retool)
	if err != nil {
		log.Printf("[SURFACE] reload failed: %v", err)
	}
}

func (c *Controller) changed() {
	if c.args.RealtimeUpdate {
		c.publish(false)
	}
	c.notify()
}

func (c *Controller) notify() {
	if c.OnChange != nil {
		c.OnChange()
	}
}

func (c *Controller) publish(force bool) {
	if c.publisher == nil {
		return
	}
	c.publisher.Publish(c.Frame(), force)
}

// Frame is the current history entry ready for export.
func (c *Controller) Frame() export.Frame {
	return export.Frame{
		Scene:      c.history.Current(),
		Background: c.canvas.BackgroundImage(),
		Width:      int(c.args.CanvasWidth),
		Height:     int(c.args.CanvasHeight),
	}
}

func (c *Controller) requestBackground(ref string) {
	if c.loader == nil {
		return
	}
	if ref == "" {
		c.loader.Cancel()
		c.clearBackground()
		return
	}
	c.loader.Request(ref, func(r background.Result) {
		if r.Err != nil {
			log.Printf("[SURFACE] background image unavailable: %v", r.Err)
			c.clearBackground()
			return
		}
		size := r.Size()
		c.canvas.SetBackgroundImage(r.Image)
		c.viewport.SetBackgroundSize(viewport.Size{Width: float64(size.X), Height: float64(size.Y)})
	})
}

func (c *Controller) clearBackground() {
	c.canvas.SetBackgroundImage(nil)
	c.viewport.ClearBackground()
}
