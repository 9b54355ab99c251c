package tools

import "DrawableCanvas/internal/scene"

// polygonTool adds a vertex on every primary press. The last vertex follows
// the pointer until the next press, and a double-click closes the shape.
type polygonTool struct {
	canvas *scene.Canvas
	cur    *scene.Object
}

func (t *polygonTool) ConfigureCanvas(st Style) func() {
	c := t.canvas
	lockObjects(c)
	l := listeners{canvas: c}
	l.on(scene.MouseDown, func(e *scene.Event) {
		if e.Button != scene.ButtonPrimary {
			return
		}
		if t.cur == nil {
			t.cur = styled(scene.NewPolyline(scene.TypePolygon, e.Pointer, e.Pointer), st, true)
			c.Add(t.cur)
			return
		}
		t.cur.Points[len(t.cur.Points)-1] = e.Pointer
		t.cur.Points = append(t.cur.Points, e.Pointer)
		t.cur.UpdateBounds()
		c.RequestRender()
	})
	l.on(scene.MouseMove, func(e *scene.Event) {
		if t.cur == nil {
			return
		}
		t.cur.Points[len(t.cur.Points)-1] = e.Pointer
		t.cur.UpdateBounds()
		c.RequestRender()
	})
	l.on(scene.DoubleClick, func(*scene.Event) {
		t.finish()
	})
	return l.teardown(t.finish)
}

// finish closes the polygon in progress. Consecutive duplicate vertices left
// by the clicks of a double-click are dropped, and a shape with fewer than
// three vertices is discarded.
func (t *polygonTool) finish() {
	if t.cur == nil {
		return
	}
	pts := t.cur.Points[:1]
	for _, p := range t.cur.Points[1:] {
		if p != pts[len(pts)-1] {
			pts = append(pts, p)
		}
	}
	t.cur.Points = pts
	t.cur.UpdateBounds()
	if len(pts) < 3 {
		t.canvas.Remove(t.cur)
	}
	t.cur = nil
	t.canvas.RequestRender()
}
