package scene

import (
	"image"
	"log"
	"math"
)

// EventType names a pointer event the canvas dispatches.
type EventType string

const (
	MouseDown   EventType = "mouse:down"
	MouseMove   EventType = "mouse:move"
	MouseUp     EventType = "mouse:up"
	DoubleClick EventType = "mouse:dblclick"
)

// Pointer buttons, numbered the way browsers report "which".
const (
	ButtonPrimary   = 1
	ButtonMiddle    = 2
	ButtonSecondary = 3
)

// handleSize is the side, in screen pixels, of the resize grip drawn at the
// bottom-right corner of the active object.
const handleSize = 8

// Event is passed to every handler. Pointer and Target are filled in by Fire.
type Event struct {
	Screen  Point
	Pointer Point
	Button  int
	Target  *Object
}

type Handler func(*Event)

// HandlerID identifies one registration made with On.
type HandlerID uint64

type registration struct {
	id HandlerID
	fn Handler
}

// Transform maps scene coordinates to screen coordinates.
type Transform struct {
	Scale  float64
	TX, TY float64
}

func Identity() Transform {
	return Transform{Scale: 1}
}

// Apply maps a scene point to the screen.
func (t Transform) Apply(p Point) Point {
	return Point{X: p.X*t.Scale + t.TX, Y: p.Y*t.Scale + t.TY}
}

// Invert maps a screen point back into the scene.
func (t Transform) Invert(p Point) Point {
	return Point{X: (p.X - t.TX) / t.Scale, Y: (p.Y - t.TY) / t.Scale}
}

type dragState struct {
	active   bool
	resizing bool
	last     Point
}

// Canvas is the retained scene: objects, selection, event handlers and the
// view transform used to map pointers. It is not safe for concurrent use;
// all calls happen on the event thread.
type Canvas struct {
	width, height float64
	version       string
	background    string
	bgImage       image.Image

	objects   []*Object
	active    *Object
	selection bool
	drag      dragState

	vpt      Transform
	handlers map[EventType][]registration
	nextID   HandlerID

	// OnRender is called whenever the scene asks to be redrawn.
	OnRender func()
}

func NewCanvas(width, height float64) *Canvas {
	return &Canvas{
		width:    width,
		height:   height,
		vpt:      Identity(),
		handlers: make(map[EventType][]registration),
	}
}

func (c *Canvas) Width() float64  { return c.width }
func (c *Canvas) Height() float64 { return c.height }

func (c *Canvas) SetDimensions(width, height float64) {
	c.width, c.height = width, height
	c.RequestRender()
}

func (c *Canvas) Background() string { return c.background }

func (c *Canvas) SetBackground(color string) {
	c.background = color
	c.RequestRender()
}

func (c *Canvas) BackgroundImage() image.Image { return c.bgImage }

// SetBackgroundImage replaces the background image; nil removes it.
func (c *Canvas) SetBackgroundImage(img image.Image) {
	c.bgImage = img
	c.RequestRender()
}

// Add appends objects on top of the stack.
func (c *Canvas) Add(objs ...*Object) {
	c.objects = append(c.objects, objs...)
	c.RequestRender()
}

// Remove deletes obj from the scene and returns false if it was not present.
func (c *Canvas) Remove(obj *Object) bool {
	for i, o := range c.objects {
		if o == obj {
			c.objects = append(c.objects[:i], c.objects[i+1:]...)
			if c.active == obj {
				c.active = nil
			}
			c.RequestRender()
			return true
		}
	}
	return false
}

// Objects returns the live objects, bottom first.
func (c *Canvas) Objects() []*Object {
	return c.objects
}

func (c *Canvas) ForEachObject(fn func(*Object)) {
	for _, o := range c.objects {
		fn(o)
	}
}

func (c *Canvas) Clear() {
	c.objects = nil
	c.active = nil
	c.RequestRender()
}

func (c *Canvas) ActiveObject() *Object { return c.active }

func (c *Canvas) SetActiveObject(o *Object) {
	c.active = o
	c.RequestRender()
}

// Selection reports whether pointer presses select and drag objects.
func (c *Canvas) Selection() bool { return c.selection }

func (c *Canvas) SetSelection(enabled bool) {
	c.selection = enabled
	if !enabled {
		c.active = nil
		c.drag = dragState{}
	}
}

func (c *Canvas) ViewportTransform() Transform { return c.vpt }

func (c *Canvas) SetViewportTransform(t Transform) {
	c.vpt = t
	c.RequestRender()
}

func (c *Canvas) Zoom() float64 { return c.vpt.Scale }

// Pointer maps a screen position into scene coordinates.
func (c *Canvas) Pointer(screen Point) Point {
	return c.vpt.Invert(screen)
}

// FindTarget returns the topmost evented object under p, or nil.
func (c *Canvas) FindTarget(p Point) *Object {
	for i := len(c.objects) - 1; i >= 0; i-- {
		if o := c.objects[i]; o.Evented && o.Contains(p) {
			return o
		}
	}
	return nil
}

// ToJSON serializes the scene.
func (c *Canvas) ToJSON() Snapshot {
	s := EmptySnapshot(c.background)
	if c.version != "" {
		s.Version = c.version
	}
	for _, o := range c.objects {
		s.Objects = append(s.Objects, *o.Clone())
	}
	return s
}

// Load replaces the scene with s and calls done once it is in place. A
// snapshot that fails validation leaves the scene untouched and done is
// never called.
func (c *Canvas) Load(s Snapshot, done func()) error {
	if err := s.Validate(); err != nil {
		logf("load rejected: %v", err)
		return err
	}
	objs := make([]*Object, 0, len(s.Objects))
	for i := range s.Objects {
		o := s.Objects[i].Clone()
		o.Selectable, o.Evented = true, true
		objs = append(objs, o)
	}
	c.objects = objs
	c.version = s.Version
	c.background = s.Background
	c.active = nil
	c.drag = dragState{}
	c.RequestRender()
	if done != nil {
		done()
	}
	return nil
}

// LoadFromJSON decodes data and loads it like Load.
func (c *Canvas) LoadFromJSON(data []byte, done func()) error {
	s, err := ParseSnapshot(data)
	if err != nil {
		return err
	}
	return c.Load(s, done)
}

// On registers fn for ev and returns the id needed to remove it.
func (c *Canvas) On(ev EventType, fn Handler) HandlerID {
	c.nextID++
	c.handlers[ev] = append(c.handlers[ev], registration{id: c.nextID, fn: fn})
	return c.nextID
}

// Off removes the handlers with the given ids. Unknown ids are ignored.
func (c *Canvas) Off(ids ...HandlerID) {
	for _, id := range ids {
		for ev, regs := range c.handlers {
			for i, r := range regs {
				if r.id == id {
					c.handlers[ev] = append(regs[:i:i], regs[i+1:]...)
					break
				}
			}
		}
	}
}

// HandlerCount returns how many handlers are attached to ev.
func (c *Canvas) HandlerCount(ev EventType) int {
	return len(c.handlers[ev])
}

// Fire runs the built-in selection behaviour for ev and then every handler
// registered for it, in registration order.
func (c *Canvas) Fire(ev EventType, e *Event) {
	e.Pointer = c.Pointer(e.Screen)
	e.Target = c.FindTarget(e.Pointer)
	if c.selection {
		c.interact(ev, e)
	}
	regs := append([]registration(nil), c.handlers[ev]...)
	for _, r := range regs {
		r.fn(e)
	}
}

func (c *Canvas) interact(ev EventType, e *Event) {
	switch ev {
	case MouseDown:
		if e.Button != ButtonPrimary {
			return
		}
		if c.active != nil && c.onHandle(e.Pointer) {
			c.drag = dragState{active: true, resizing: true, last: e.Pointer}
			return
		}
		if e.Target != nil && e.Target.Selectable {
			c.active = e.Target
			c.drag = dragState{active: true, last: e.Pointer}
		} else {
			c.active = nil
		}
		c.RequestRender()
	case MouseMove:
		if !c.drag.active || c.active == nil {
			return
		}
		if c.drag.resizing {
			c.active.Resize(e.Pointer.X-c.active.Left, e.Pointer.Y-c.active.Top)
		} else {
			c.active.Move(e.Pointer.X-c.drag.last.X, e.Pointer.Y-c.drag.last.Y)
		}
		c.drag.last = e.Pointer
		c.RequestRender()
	case MouseUp:
		c.drag = dragState{}
	}
}

func (c *Canvas) onHandle(p Point) bool {
	corner := Point{X: c.active.Left + c.active.Width, Y: c.active.Top + c.active.Height}
	tol := handleSize / c.vpt.Scale
	return math.Abs(p.X-corner.X) <= tol && math.Abs(p.Y-corner.Y) <= tol
}

// RequestRender asks the owner to redraw.
func (c *Canvas) RequestRender() {
	if c.OnRender != nil {
		c.OnRender()
	}
}

// logf keeps scene diagnostics on one prefix.
func logf(format string, args ...any) {
	log.Printf("[SCENE] "+format, args...)
}
