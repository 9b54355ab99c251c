// Package tools maps a drawing mode onto pointer behaviour over a scene.
package tools

import (
	"errors"
	"fmt"
	"sort"

	"DrawableCanvas/internal/scene"
)

// ErrUnknownMode is returned by New for a mode with no registered tool.
var ErrUnknownMode = errors.New("unknown drawing mode")

// Style is the drawing configuration handed to a tool when it is configured.
type Style struct {
	FillColor     string
	StrokeWidth   float64
	StrokeColor   string
	DisplayRadius float64
}

// Tool attaches the pointer handlers one drawing mode needs. The returned
// teardown detaches exactly those handlers.
type Tool interface {
	ConfigureCanvas(style Style) (teardown func())
}

// Mode names a drawing mode.
type Mode string

const (
	ModeFreedraw  Mode = "freedraw"
	ModeTransform Mode = "transform"
	ModeLine      Mode = "line"
	ModeRect      Mode = "rect"
	ModeCircle    Mode = "circle"
	ModePolygon   Mode = "polygon"
	ModePoint     Mode = "point"
)

var registry = map[Mode]func(*scene.Canvas) Tool{
	ModeFreedraw:  func(c *scene.Canvas) Tool { return &freedrawTool{canvas: c} },
	ModeTransform: func(c *scene.Canvas) Tool { return &transformTool{canvas: c} },
	ModeLine:      func(c *scene.Canvas) Tool { return &lineTool{canvas: c} },
	ModeRect:      func(c *scene.Canvas) Tool { return &rectTool{canvas: c} },
	ModeCircle:    func(c *scene.Canvas) Tool { return &circleTool{canvas: c} },
	ModePolygon:   func(c *scene.Canvas) Tool { return &polygonTool{canvas: c} },
	ModePoint:     func(c *scene.Canvas) Tool { return &pointTool{canvas: c} },
}

// New builds the tool for mode over canvas.
func New(mode Mode, canvas *scene.Canvas) (Tool, error) {
	ctor, ok := registry[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return ctor(canvas), nil
}

// Modes lists every registered mode in name order.
func Modes() []Mode {
	modes := make([]Mode, 0, len(registry))
	for m := range registry {
		modes = append(modes, m)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}

// listeners records the handlers a tool attaches so teardown can remove
// them and nothing else.
type listeners struct {
	canvas *scene.Canvas
	ids    []scene.HandlerID
}

func (l *listeners) on(ev scene.EventType, fn scene.Handler) {
	l.ids = append(l.ids, l.canvas.On(ev, fn))
}

func (l *listeners) teardown(extra func()) func() {
	ids := l.ids
	return func() {
		l.canvas.Off(ids...)
		if extra != nil {
			extra()
		}
	}
}

// lockObjects turns free selection off and makes existing objects inert, as
// every drawing mode does.
func lockObjects(c *scene.Canvas) {
	c.SetSelection(false)
	c.ForEachObject(func(o *scene.Object) {
		o.Selectable, o.Evented = false, false
	})
}

// styled applies st to a newly created object and makes it inert.
func styled(o *scene.Object, st Style, filled bool) *scene.Object {
	if filled {
		o.Fill = st.FillColor
	}
	o.Stroke = st.StrokeColor
	o.StrokeWidth = st.StrokeWidth
	o.Selectable, o.Evented = false, false
	return o
}
