package tools

import (
	"testing"

	"DrawableCanvas/internal/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStyle = Style{FillColor: "rgba(255, 165, 0, 0.3)", StrokeWidth: 3, StrokeColor: "#000", DisplayRadius: 4}

var allEvents = []scene.EventType{scene.MouseDown, scene.MouseMove, scene.MouseUp, scene.DoubleClick}

func press(c *scene.Canvas, ev scene.EventType, x, y float64) {
	c.Fire(ev, &scene.Event{Screen: scene.Point{X: x, Y: y}, Button: scene.ButtonPrimary})
}

func configure(t *testing.T, mode Mode, c *scene.Canvas) func() {
	t.Helper()
	tool, err := New(mode, c)
	require.NoError(t, err)
	return tool.ConfigureCanvas(testStyle)
}

func handlerCounts(c *scene.Canvas) map[scene.EventType]int {
	counts := make(map[scene.EventType]int)
	for _, ev := range allEvents {
		counts[ev] = c.HandlerCount(ev)
	}
	return counts
}

func TestNewUnknownMode(t *testing.T) {
	_, err := New("spray", scene.NewCanvas(10, 10))
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestModesAreAllConstructible(t *testing.T) {
	modes := Modes()
	assert.Len(t, modes, 7)
	for _, m := range modes {
		c := scene.NewCanvas(10, 10)
		teardown := configure(t, m, c)
		teardown()
		for _, ev := range allEvents {
			assert.Zero(t, c.HandlerCount(ev), "%s left a %s handler", m, ev)
		}
	}
}

func TestSwitchingToolsLeavesNoStaleHandlers(t *testing.T) {
	c := scene.NewCanvas(100, 100)

	teardown := configure(t, ModeTransform, c)
	transformOnly := handlerCounts(c)
	teardown()

	teardown = configure(t, ModeRect, c)
	teardown()
	teardown = configure(t, ModeTransform, c)
	assert.Equal(t, transformOnly, handlerCounts(c))
	teardown()

	teardown = configure(t, ModePolygon, c)
	polygonOnly := handlerCounts(c)
	teardown()
	teardown = configure(t, ModeTransform, c)
	teardown()
	teardown = configure(t, ModePolygon, c)
	assert.Equal(t, polygonOnly, handlerCounts(c))
	teardown()
}

func TestTeardownLeavesForeignHandlers(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	c.On(scene.MouseUp, func(*scene.Event) {})

	teardown := configure(t, ModeFreedraw, c)
	teardown()
	teardown()

	assert.Equal(t, 1, c.HandlerCount(scene.MouseUp))
}

func TestRectTool(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	defer configure(t, ModeRect, c)()

	press(c, scene.MouseDown, 50, 50)
	press(c, scene.MouseMove, 30, 40)
	press(c, scene.MouseUp, 10, 10)

	require.Len(t, c.Objects(), 1)
	r := c.Objects()[0]
	assert.Equal(t, scene.TypeRect, r.Type)
	assert.Equal(t, scene.Rect{X: 10, Y: 10, Width: 40, Height: 40}, r.Bounds())
	assert.Equal(t, testStyle.FillColor, r.Fill)
	assert.Equal(t, testStyle.StrokeColor, r.Stroke)
	assert.Equal(t, testStyle.StrokeWidth, r.StrokeWidth)
	assert.False(t, r.Selectable)
	assert.False(t, r.Evented)
}

func TestRectToolDropsClicks(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	defer configure(t, ModeRect, c)()

	press(c, scene.MouseDown, 5, 5)
	press(c, scene.MouseUp, 5, 5)
	assert.Empty(t, c.Objects())
}

func TestSecondaryButtonDoesNotDraw(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	defer configure(t, ModeCircle, c)()

	c.Fire(scene.MouseDown, &scene.Event{Screen: scene.Point{X: 5, Y: 5}, Button: scene.ButtonSecondary})
	c.Fire(scene.MouseUp, &scene.Event{Screen: scene.Point{X: 25, Y: 5}, Button: scene.ButtonSecondary})
	assert.Empty(t, c.Objects())
}

func TestCircleTool(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	defer configure(t, ModeCircle, c)()

	press(c, scene.MouseDown, 20, 20)
	press(c, scene.MouseUp, 23, 24)

	require.Len(t, c.Objects(), 1)
	o := c.Objects()[0]
	assert.Equal(t, 5.0, o.Radius)
	assert.Equal(t, scene.Point{X: 20, Y: 20}, o.Center())
}

func TestLineTool(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	defer configure(t, ModeLine, c)()

	press(c, scene.MouseDown, 1, 2)
	press(c, scene.MouseMove, 5, 5)
	press(c, scene.MouseUp, 8, 9)

	require.Len(t, c.Objects(), 1)
	o := c.Objects()[0]
	assert.Equal(t, []scene.Point{{X: 1, Y: 2}, {X: 8, Y: 9}}, o.Points)
	assert.Empty(t, o.Fill)
}

func TestFreedrawTool(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	defer configure(t, ModeFreedraw, c)()

	press(c, scene.MouseDown, 0, 0)
	press(c, scene.MouseMove, 1, 1)
	press(c, scene.MouseMove, 1, 1)
	press(c, scene.MouseMove, 2, 3)
	press(c, scene.MouseUp, 2, 3)

	require.Len(t, c.Objects(), 1)
	o := c.Objects()[0]
	assert.Equal(t, scene.TypePath, o.Type)
	assert.Len(t, o.Points, 3)
	assert.Equal(t, scene.Rect{Width: 2, Height: 3}, o.Bounds())
}

func TestPointTool(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	defer configure(t, ModePoint, c)()

	press(c, scene.MouseDown, 10, 10)
	press(c, scene.MouseUp, 10, 10)
	press(c, scene.MouseDown, 30, 30)

	require.Len(t, c.Objects(), 2)
	assert.Equal(t, testStyle.DisplayRadius, c.Objects()[0].Radius)
}

func TestPolygonTool(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	defer configure(t, ModePolygon, c)()

	press(c, scene.MouseDown, 0, 0)
	press(c, scene.MouseMove, 5, 5)
	press(c, scene.MouseDown, 10, 0)
	press(c, scene.MouseDown, 10, 10)
	press(c, scene.MouseDown, 10, 10)
	press(c, scene.DoubleClick, 10, 10)

	require.Len(t, c.Objects(), 1)
	o := c.Objects()[0]
	assert.Equal(t, []scene.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}, o.Points)

	// A new polygon starts after closing.
	press(c, scene.MouseDown, 50, 50)
	assert.Len(t, c.Objects(), 2)
}

func TestPolygonTooSmallIsDiscarded(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	teardown := configure(t, ModePolygon, c)

	press(c, scene.MouseDown, 0, 0)
	press(c, scene.MouseDown, 10, 0)
	teardown()

	assert.Empty(t, c.Objects())
}

func TestDrawingModeLocksExistingObjects(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	r := scene.NewRect(0, 0, 10, 10)
	c.Add(r)
	c.SetSelection(true)

	defer configure(t, ModeLine, c)()
	assert.False(t, c.Selection())
	assert.False(t, r.Selectable)
	assert.False(t, r.Evented)
}

func TestTransformToolSelectsAndDeletes(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	r := scene.NewRect(10, 10, 20, 20)
	r.Selectable, r.Evented = false, false
	c.Add(r)

	defer configure(t, ModeTransform, c)()
	assert.True(t, c.Selection())
	assert.True(t, r.Selectable)

	// Double-click on empty space with nothing selected removes nothing.
	press(c, scene.MouseDown, 90, 90)
	press(c, scene.DoubleClick, 90, 90)
	require.Len(t, c.Objects(), 1)

	press(c, scene.MouseDown, 15, 15)
	press(c, scene.MouseUp, 15, 15)
	require.Same(t, r, c.ActiveObject())
	press(c, scene.DoubleClick, 15, 15)
	assert.Empty(t, c.Objects())
}

func TestTransformToolDoesNotCreate(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	defer configure(t, ModeTransform, c)()

	press(c, scene.MouseDown, 5, 5)
	press(c, scene.MouseMove, 50, 50)
	press(c, scene.MouseUp, 50, 50)
	assert.Empty(t, c.Objects())
}
