package tools

import (
	"math"

	"DrawableCanvas/internal/scene"
)

// dragShape is the press, drag, release lifecycle shared by the shape tools.
// begin creates the object at the press point, update reshapes it for the
// current pointer, and degenerate reports objects that should be dropped on
// release.
type dragShape struct {
	canvas     *scene.Canvas
	begin      func(origin scene.Point) *scene.Object
	update     func(o *scene.Object, origin, p scene.Point)
	degenerate func(o *scene.Object) bool
}

func (d dragShape) attach(l *listeners) {
	var (
		cur    *scene.Object
		origin scene.Point
	)
	l.on(scene.MouseDown, func(e *scene.Event) {
		if e.Button != scene.ButtonPrimary {
			return
		}
		origin = e.Pointer
		cur = d.begin(origin)
		d.canvas.Add(cur)
	})
	l.on(scene.MouseMove, func(e *scene.Event) {
		if cur == nil {
			return
		}
		d.update(cur, origin, e.Pointer)
		d.canvas.RequestRender()
	})
	l.on(scene.MouseUp, func(e *scene.Event) {
		if cur == nil {
			return
		}
		d.update(cur, origin, e.Pointer)
		if d.degenerate != nil && d.degenerate(cur) {
			d.canvas.Remove(cur)
		}
		cur = nil
		d.canvas.RequestRender()
	})
}

type rectTool struct {
	canvas *scene.Canvas
}

func (t *rectTool) ConfigureCanvas(st Style) func() {
	lockObjects(t.canvas)
	l := listeners{canvas: t.canvas}
	dragShape{
		canvas: t.canvas,
		begin: func(p scene.Point) *scene.Object {
			return styled(scene.NewRect(p.X, p.Y, 0, 0), st, true)
		},
		update: func(o *scene.Object, origin, p scene.Point) {
			o.Left, o.Top = math.Min(origin.X, p.X), math.Min(origin.Y, p.Y)
			o.Width, o.Height = math.Abs(p.X-origin.X), math.Abs(p.Y-origin.Y)
		},
		degenerate: func(o *scene.Object) bool { return o.Width == 0 && o.Height == 0 },
	}.attach(&l)
	return l.teardown(nil)
}

type circleTool struct {
	canvas *scene.Canvas
}

func (t *circleTool) ConfigureCanvas(st Style) func() {
	lockObjects(t.canvas)
	l := listeners{canvas: t.canvas}
	dragShape{
		canvas: t.canvas,
		begin: func(p scene.Point) *scene.Object {
			return styled(scene.NewCircle(p, 0), st, true)
		},
		update: func(o *scene.Object, origin, p scene.Point) {
			o.SetCircle(origin, math.Hypot(p.X-origin.X, p.Y-origin.Y))
		},
		degenerate: func(o *scene.Object) bool { return o.Radius == 0 },
	}.attach(&l)
	return l.teardown(nil)
}

type lineTool struct {
	canvas *scene.Canvas
}

func (t *lineTool) ConfigureCanvas(st Style) func() {
	lockObjects(t.canvas)
	l := listeners{canvas: t.canvas}
	dragShape{
		canvas: t.canvas,
		begin: func(p scene.Point) *scene.Object {
			return styled(scene.NewPolyline(scene.TypeLine, p, p), st, false)
		},
		update: func(o *scene.Object, _, p scene.Point) {
			o.Points[1] = p
			o.UpdateBounds()
		},
		degenerate: func(o *scene.Object) bool { return o.Points[0] == o.Points[1] },
	}.attach(&l)
	return l.teardown(nil)
}

// freedrawTool records the pointer trail as a path. A press without any
// movement still leaves a one-point dot.
type freedrawTool struct {
	canvas *scene.Canvas
}

func (t *freedrawTool) ConfigureCanvas(st Style) func() {
	lockObjects(t.canvas)
	l := listeners{canvas: t.canvas}
	dragShape{
		canvas: t.canvas,
		begin: func(p scene.Point) *scene.Object {
			return styled(scene.NewPolyline(scene.TypePath, p), st, false)
		},
		update: func(o *scene.Object, _, p scene.Point) {
			if o.Points[len(o.Points)-1] == p {
				return
			}
			o.Points = append(o.Points, p)
			o.UpdateBounds()
		},
	}.attach(&l)
	return l.teardown(nil)
}

// pointTool drops a filled marker of the display radius on every press.
type pointTool struct {
	canvas *scene.Canvas
}

func (t *pointTool) ConfigureCanvas(st Style) func() {
	lockObjects(t.canvas)
	l := listeners{canvas: t.canvas}
	l.on(scene.MouseDown, func(e *scene.Event) {
		if e.Button != scene.ButtonPrimary {
			return
		}
		t.canvas.Add(styled(scene.NewCircle(e.Pointer, st.DisplayRadius), st, true))
	})
	return l.teardown(nil)
}
