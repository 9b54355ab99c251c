// Package viewport owns the pan/zoom transform of the drawing surface and
// keeps the user inside the working area.
package viewport

import (
	"math"

	"DrawableCanvas/internal/scene"
)

const (
	MinZoom = 1.01
	MaxZoom = 20.0

	// zoomBase^delta is the zoom factor for one wheel event.
	zoomBase = 0.9996
)

// View receives every transform the controller settles on.
type View interface {
	SetViewportTransform(scene.Transform)
}

type Size struct {
	Width, Height float64
}

// PointerState is the pan gesture bookkeeping. Only the Controller reads or
// writes it.
type PointerState struct {
	Panning bool
	Last    scene.Point
}

// Controller holds the view transform. Tools never touch it.
type Controller struct {
	view       View
	t          scene.Transform
	viewport   Size
	content    Size
	background *Size
	pointer    PointerState
}

// New returns a controller at identity for a surface of the given size.
func New(view View, content Size) *Controller {
	c := &Controller{view: view, t: scene.Identity(), content: content}
	c.push()
	return c
}

func (c *Controller) Transform() scene.Transform { return c.t }

func (c *Controller) Pointer() PointerState { return c.pointer }

// Reset returns to identity.
func (c *Controller) Reset() {
	c.t = scene.Identity()
	c.pointer = PointerState{}
	c.push()
}

// SetViewportSize records the visible area of the surface.
func (c *Controller) SetViewportSize(s Size) {
	c.viewport = s
	c.ClampToBounds()
}

// SetContentSize records the nominal surface size.
func (c *Controller) SetContentSize(s Size) {
	c.content = s
	c.ClampToBounds()
}

// SetBackgroundSize records the natural size of a loaded background image;
// it takes precedence over the content size.
func (c *Controller) SetBackgroundSize(s Size) {
	c.background = &s
	c.ClampToBounds()
}

func (c *Controller) ClearBackground() {
	c.background = nil
	c.ClampToBounds()
}

// Zoom scales the view by zoomBase^delta around p, which stays fixed on
// screen. The result is held within [MinZoom, MaxZoom].
func (c *Controller) Zoom(p scene.Point, delta float64) {
	old := c.t.Scale
	zoom := math.Min(MaxZoom, math.Max(MinZoom, old*math.Pow(zoomBase, delta)))
	ratio := zoom / old
	c.t = scene.Transform{
		Scale: zoom,
		TX:    p.X - (p.X-c.t.TX)*ratio,
		TY:    p.Y - (p.Y-c.t.TY)*ratio,
	}
	c.ClampToBounds()
}

// PanBegin anchors a pan at screen position p.
func (c *Controller) PanBegin(p scene.Point) {
	c.pointer = PointerState{Panning: true, Last: p}
}

// PanMove shifts the view by the pointer travel since the last call. It only
// acts while a pan is in progress and the pan modifier is still held, and
// reports whether it moved the view.
func (c *Controller) PanMove(p scene.Point, modifier bool) bool {
	if !c.pointer.Panning || !modifier {
		return false
	}
	c.t.TX += p.X - c.pointer.Last.X
	c.t.TY += p.Y - c.pointer.Last.Y
	c.pointer.Last = p
	c.ClampToBounds()
	return true
}

// PanEnd clears the pan state. Pointer release always calls it, whatever
// the modifier state.
func (c *Controller) PanEnd() {
	c.pointer = PointerState{}
}

func (c *Controller) Panning() bool { return c.pointer.Panning }

// Boundary is the area the scaled content must keep covered: the background
// image's natural size when one is loaded, otherwise the surface size,
// inflated to 2*content-viewport on an axis where the viewport is smaller
// than the content.
func (c *Controller) Boundary() Size {
	content := c.content
	if c.background != nil {
		content = *c.background
	}
	return Size{
		Width:  inflate(content.Width, c.viewport.Width),
		Height: inflate(content.Height, c.viewport.Height),
	}
}

func inflate(content, viewport float64) float64 {
	if viewport > 0 && viewport < content {
		return 2*content - viewport
	}
	return content
}

// ClampToBounds nudges the translation so the scaled content box never
// leaves the boundary: its top-left stays at or above zero and its
// bottom-right at or past the boundary. On an axis where the scaled content
// is smaller than the boundary both constraints cannot hold, and the
// translation is pinned to the origin.
func (c *Controller) ClampToBounds() {
	b := c.Boundary()
	c.t.TX = clampAxis(c.t.TX, c.t.Scale, b.Width)
	c.t.TY = clampAxis(c.t.TY, c.t.Scale, b.Height)
	c.push()
}

func clampAxis(t, scale, boundary float64) float64 {
	extent := boundary * scale
	switch {
	case extent < boundary:
		return 0
	case t > 0:
		return 0
	case t+extent < boundary:
		return boundary - extent
	}
	return t
}

func (c *Controller) push() {
	if c.view != nil {
		c.view.SetViewportTransform(c.t)
	}
}
