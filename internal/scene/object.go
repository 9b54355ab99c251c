package scene

import (
	"math"

	"github.com/google/uuid"
)

// ObjectType names the kind of drawable an Object is.
type ObjectType string

const (
	TypeRect    ObjectType = "rect"
	TypeCircle  ObjectType = "circle"
	TypeLine    ObjectType = "line"
	TypePath    ObjectType = "path"
	TypePolygon ObjectType = "polygon"
)

// Point is a position in scene coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Inset grows (or shrinks, for negative d) the rect on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Object is a single drawable in the scene.
// Rects and circles are described by Left/Top/Width/Height (plus Radius for
// circles). Lines, paths and polygons carry absolute Points and keep their
// bounding box in Left/Top/Width/Height.
type Object struct {
	ID          string     `json:"id"`
	Type        ObjectType `json:"type"`
	Left        float64    `json:"left"`
	Top         float64    `json:"top"`
	Width       float64    `json:"width"`
	Height      float64    `json:"height"`
	Radius      float64    `json:"radius,omitempty"`
	Points      []Point    `json:"points,omitempty"`
	Fill        string     `json:"fill"`
	Stroke      string     `json:"stroke"`
	StrokeWidth float64    `json:"strokeWidth"`

	// Interaction flags are runtime state, not part of a snapshot.
	Selectable bool `json:"-"`
	Evented    bool `json:"-"`
}

func newID() string {
	return uuid.NewString()
}

// NewRect creates a rectangle with its top-left corner at (left, top).
func NewRect(left, top, width, height float64) *Object {
	return &Object{ID: newID(), Type: TypeRect, Left: left, Top: top, Width: width, Height: height, Selectable: true, Evented: true}
}

// NewCircle creates a circle centred on c.
func NewCircle(c Point, radius float64) *Object {
	o := &Object{ID: newID(), Type: TypeCircle, Selectable: true, Evented: true}
	o.SetCircle(c, radius)
	return o
}

// NewPolyline creates a line, path or polygon from absolute points.
func NewPolyline(t ObjectType, points ...Point) *Object {
	o := &Object{ID: newID(), Type: t, Points: append([]Point(nil), points...), Selectable: true, Evented: true}
	o.UpdateBounds()
	return o
}

// SetCircle places the circle at centre c with radius r.
func (o *Object) SetCircle(c Point, r float64) {
	o.Radius = r
	o.Left, o.Top = c.X-r, c.Y-r
	o.Width, o.Height = 2*r, 2*r
}

// Center returns the middle of the object's bounding box.
func (o *Object) Center() Point {
	return Point{X: o.Left + o.Width/2, Y: o.Top + o.Height/2}
}

// IsPolyline reports whether the object's geometry lives in Points.
func (o *Object) IsPolyline() bool {
	return o.Type == TypeLine || o.Type == TypePath || o.Type == TypePolygon
}

// UpdateBounds recomputes the bounding box from Points.
func (o *Object) UpdateBounds() {
	if !o.IsPolyline() || len(o.Points) == 0 {
		return
	}
	minX, minY := o.Points[0].X, o.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range o.Points[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	o.Left, o.Top = minX, minY
	o.Width, o.Height = maxX-minX, maxY-minY
}

// Bounds returns the object's bounding box.
func (o *Object) Bounds() Rect {
	return Rect{X: o.Left, Y: o.Top, Width: o.Width, Height: o.Height}
}

// Contains reports whether p hits the object, allowing for the stroke.
func (o *Object) Contains(p Point) bool {
	pad := o.StrokeWidth/2 + 2
	if o.Type == TypeCircle {
		c := o.Center()
		return math.Hypot(p.X-c.X, p.Y-c.Y) <= o.Radius+pad
	}
	return o.Bounds().Inset(pad).Contains(p)
}

// Move translates the object by (dx, dy).
func (o *Object) Move(dx, dy float64) {
	o.Left += dx
	o.Top += dy
	for i := range o.Points {
		o.Points[i].X += dx
		o.Points[i].Y += dy
	}
}

// Resize scales the object so its bounding box becomes width x height,
// keeping the top-left corner fixed.
func (o *Object) Resize(width, height float64) {
	width, height = math.Max(width, 1), math.Max(height, 1)
	switch {
	case o.Type == TypeCircle:
		r := math.Min(width, height) / 2
		o.SetCircle(Point{X: o.Left + r, Y: o.Top + r}, r)
	case o.IsPolyline():
		sx, sy := 1.0, 1.0
		if o.Width > 0 {
			sx = width / o.Width
		}
		if o.Height > 0 {
			sy = height / o.Height
		}
		for i, p := range o.Points {
			o.Points[i] = Point{X: o.Left + (p.X-o.Left)*sx, Y: o.Top + (p.Y-o.Top)*sy}
		}
		o.UpdateBounds()
	default:
		o.Width, o.Height = width, height
	}
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	c := *o
	c.Points = append([]Point(nil), o.Points...)
	return &c
}

// equal compares serialized fields only.
func (o *Object) equal(other *Object) bool {
	if o.ID != other.ID || o.Type != other.Type ||
		o.Left != other.Left || o.Top != other.Top ||
		o.Width != other.Width || o.Height != other.Height ||
		o.Radius != other.Radius || o.Fill != other.Fill ||
		o.Stroke != other.Stroke || o.StrokeWidth != other.StrokeWidth ||
		len(o.Points) != len(other.Points) {
		return false
	}
	for i := range o.Points {
		if o.Points[i] != other.Points[i] {
			return false
		}
	}
	return true
}
