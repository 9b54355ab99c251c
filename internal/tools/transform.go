package tools

import "DrawableCanvas/internal/scene"

// transformTool lets the user select, move and resize existing objects.
// Double-clicking while something is selected deletes it.
type transformTool struct {
	canvas *scene.Canvas
}

func (t *transformTool) ConfigureCanvas(Style) func() {
	c := t.canvas
	c.SetSelection(true)
	c.ForEachObject(func(o *scene.Object) {
		o.Selectable, o.Evented = true, true
	})

	l := listeners{canvas: c}
	l.on(scene.DoubleClick, func(*scene.Event) {
		if obj := c.ActiveObject(); obj != nil {
			c.Remove(obj)
		}
	})
	return l.teardown(nil)
}
