package ui

import (
	"image/color"
	"log"

	"DrawableCanvas/internal/scene"
	"DrawableCanvas/internal/surface"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// wheelScale converts a Fyne scroll delta into the wheel units the zoom
// curve is tuned for.
const wheelScale = 10

// BoardWidget shows the surface and feeds it pointer input.
type BoardWidget struct {
	widget.BaseWidget
	surface *surface.Controller

	pressed int  // scene button held since MouseDown, 0 when none
	alt     bool // pan modifier, tracked from key events
	last    fyne.Position
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ fyne.DoubleTappable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(s *surface.Controller) *BoardWidget {
	b := &BoardWidget{surface: s}
	b.ExtendBaseWidget(b)
	s.Canvas().OnRender = b.Refresh
	return b
}

// SetModifier records whether the pan key is down. The window's key events
// are the only source of this state.
func (b *BoardWidget) SetModifier(down bool) {
	b.alt = down
}

func sceneButton(btn desktop.MouseButton) int {
	switch btn {
	case desktop.MouseButtonPrimary:
		return scene.ButtonPrimary
	case desktop.MouseButtonTertiary:
		return scene.ButtonMiddle
	case desktop.MouseButtonSecondary:
		return scene.ButtonSecondary
	}
	return 0
}

func toScene(p fyne.Position) scene.Point {
	return scene.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (b *BoardWidget) input(p fyne.Position, button int) surface.Input {
	return surface.Input{Position: toScene(p), Button: button, Modifier: b.alt}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	b.pressed = sceneButton(e.Button)
	b.last = e.Position
	b.surface.PointerDown(b.input(e.Position, b.pressed))
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	b.pressed = 0
	b.surface.PointerUp(b.input(e.Position, sceneButton(e.Button)))
}

// Dragged stands in for pointer moves while a button is held.
func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.last = e.Position
	b.surface.PointerMove(b.input(e.Position, b.pressed))
}

// DragEnd covers releases that happen outside the widget, where MouseUp is
// never delivered.
func (b *BoardWidget) DragEnd() {
	if b.pressed == 0 {
		return
	}
	btn := b.pressed
	b.pressed = 0
	b.surface.PointerUp(b.input(b.last, btn))
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}
func (b *BoardWidget) MouseOut() {}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.surface.PointerMove(b.input(e.Position, 0))
}

func (b *BoardWidget) DoubleTapped(e *fyne.PointEvent) {
	b.surface.DoubleClick(b.input(e.Position, scene.ButtonPrimary))
}

func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	b.surface.Wheel(b.input(e.Position, 0), -float64(e.Scrolled.DY)*wheelScale)
}

// Resize passes the visible size on to the viewport.
func (b *BoardWidget) Resize(size fyne.Size) {
	b.BaseWidget.Resize(size)
	b.surface.Resize(float64(size.Width), float64(size.Height))
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b, background: canvas.NewRectangle(color.White)}
	r.Refresh()
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Refresh rebuilds the drawable list from the scene under the current view
// transform.
func (r *boardWidgetRenderer) Refresh() {
	c := r.board.surface.Canvas()
	t := c.ViewportTransform()

	r.background.FillColor = fyneColor(c.Background())
	if r.background.FillColor == color.Transparent {
		r.background.FillColor = color.White
	}
	objects := []fyne.CanvasObject{r.background}

	if img := c.BackgroundImage(); img != nil {
		bg := canvas.NewImageFromImage(img)
		bg.FillMode = canvas.ImageFillStretch
		place(bg, t, scene.Rect{Width: c.Width(), Height: c.Height()})
		objects = append(objects, bg)
	}

	c.ForEachObject(func(o *scene.Object) {
		objects = append(objects, drawable(o, t)...)
	})
	if active := c.ActiveObject(); active != nil {
		objects = append(objects, selectionOutline(active, t)...)
	}

	r.objects = objects
	r.background.Refresh()
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Destroy() {}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	c := r.board.surface.Canvas()
	return fyne.NewSize(float32(c.Width()), float32(c.Height()))
}

// fyneColor parses a scene colour, treating anything unreadable as
// transparent.
func fyneColor(s string) color.Color {
	c, err := scene.ParseColor(s)
	if err != nil {
		log.Printf("[UI] %v", err)
		return color.Transparent
	}
	if c.A == 0 {
		return color.Transparent
	}
	return c
}

func screenPos(t scene.Transform, p scene.Point) fyne.Position {
	s := t.Apply(p)
	return fyne.NewPos(float32(s.X), float32(s.Y))
}

func place(o fyne.CanvasObject, t scene.Transform, r scene.Rect) {
	o.Move(screenPos(t, scene.Point{X: r.X, Y: r.Y}))
	o.Resize(fyne.NewSize(float32(r.Width*t.Scale), float32(r.Height*t.Scale)))
}

// drawable converts one scene object into Fyne primitives.
func drawable(o *scene.Object, t scene.Transform) []fyne.CanvasObject {
	fill, stroke := fyneColor(o.Fill), fyneColor(o.Stroke)
	width := float32(o.StrokeWidth * t.Scale)

	switch o.Type {
	case scene.TypeRect:
		rect := canvas.NewRectangle(fill)
		rect.StrokeColor, rect.StrokeWidth = stroke, width
		place(rect, t, o.Bounds())
		return []fyne.CanvasObject{rect}
	case scene.TypeCircle:
		circle := canvas.NewCircle(fill)
		circle.StrokeColor, circle.StrokeWidth = stroke, width
		b := o.Bounds()
		circle.Position1 = screenPos(t, scene.Point{X: b.X, Y: b.Y})
		circle.Position2 = screenPos(t, scene.Point{X: b.X + b.Width, Y: b.Y + b.Height})
		return []fyne.CanvasObject{circle}
	}

	if len(o.Points) == 1 {
		dot := canvas.NewCircle(stroke)
		p := screenPos(t, o.Points[0])
		r := width / 2
		dot.Position1 = fyne.NewPos(p.X-r, p.Y-r)
		dot.Position2 = fyne.NewPos(p.X+r, p.Y+r)
		return []fyne.CanvasObject{dot}
	}
	pts := o.Points
	if o.Type == scene.TypePolygon && len(pts) > 2 {
		pts = append(pts[:len(pts):len(pts)], pts[0])
	}
	segments := make([]fyne.CanvasObject, 0, len(pts))
	for i := 0; i+1 < len(pts); i++ {
		seg := canvas.NewLine(stroke)
		seg.StrokeWidth = width
		seg.Position1 = screenPos(t, pts[i])
		seg.Position2 = screenPos(t, pts[i+1])
		segments = append(segments, seg)
	}
	return segments
}

var selectionColor = color.NRGBA{R: 0x33, G: 0x99, B: 0xff, A: 0xff}

// selectionOutline frames the active object and marks its resize corner.
func selectionOutline(o *scene.Object, t scene.Transform) []fyne.CanvasObject {
	b := o.Bounds()
	frame := canvas.NewRectangle(color.Transparent)
	frame.StrokeColor, frame.StrokeWidth = selectionColor, 1
	place(frame, t, b)

	corner := screenPos(t, scene.Point{X: b.X + b.Width, Y: b.Y + b.Height})
	handle := canvas.NewRectangle(selectionColor)
	handle.Move(fyne.NewPos(corner.X-4, corner.Y-4))
	handle.Resize(fyne.NewSize(8, 8))
	return []fyne.CanvasObject{frame, handle}
}
