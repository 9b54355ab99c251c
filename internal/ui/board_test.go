package ui

import (
	"testing"

	"DrawableCanvas/internal/bridge"
	"DrawableCanvas/internal/scene"
	"DrawableCanvas/internal/surface"
	"DrawableCanvas/internal/tools"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoard(t *testing.T) (*BoardWidget, *surface.Controller) {
	t.Helper()
	test.NewTempApp(t)
	a := bridge.DefaultArgs()
	a.DrawingMode = tools.ModeRect
	a.RealtimeUpdate = false
	s := surface.New(scene.NewCanvas(a.CanvasWidth, a.CanvasHeight), nil, nil)
	b := NewBoardWidget(s)
	s.Mount(a)
	return b, s
}

func mouse(x, y float32, mod fyne.KeyModifier) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
		Modifier:   mod,
	}
}

func TestPanModifierComesFromKeysOnly(t *testing.T) {
	b, s := newBoard(t)

	// Alt on the mouse event alone does not start a pan.
	b.MouseMoved(mouse(5, 5, fyne.KeyModifierAlt))
	b.MouseDown(mouse(10, 10, fyne.KeyModifierAlt))
	assert.False(t, s.Viewport().Pointer().Panning)
	b.MouseUp(mouse(40, 40, fyne.KeyModifierAlt))
	require.Len(t, s.Canvas().Objects(), 1)

	b.SetModifier(true)
	b.MouseMoved(mouse(5, 5, 0))
	b.MouseDown(mouse(60, 60, 0))
	assert.True(t, s.Viewport().Pointer().Panning)
	b.MouseUp(mouse(70, 70, 0))
	assert.Len(t, s.Canvas().Objects(), 1)
	assert.False(t, s.Viewport().Pointer().Panning)
}

func TestRendererDrawsSceneObjects(t *testing.T) {
	b, s := newBoard(t)
	b.MouseDown(mouse(10, 10, 0))
	b.MouseUp(mouse(40, 40, 0))
	require.Len(t, s.Canvas().Objects(), 1)

	objs := test.WidgetRenderer(b).Objects()
	require.Len(t, objs, 2, "background and one rectangle")
	assert.Equal(t, fyne.NewPos(10, 10), objs[1].Position())
	assert.Equal(t, fyne.NewSize(30, 30), objs[1].Size())
}
