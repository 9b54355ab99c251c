// Package export rasterizes a scene for the host.
package export

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"

	"DrawableCanvas/internal/scene"

	"github.com/anthonynsimon/bild/transform"
	"github.com/fogleman/gg"
)

// Frame is everything needed to draw the surface at native scale.
type Frame struct {
	Scene      scene.Snapshot
	Background image.Image
	Width      int
	Height     int
}

// Rasterize draws the frame: background colour, then the background image
// stretched to the surface, then every object bottom first.
func Rasterize(f Frame) image.Image {
	f.Width, f.Height = max(f.Width, 1), max(f.Height, 1)
	dc := gg.NewContext(f.Width, f.Height)
	if c, ok := paint(f.Scene.Background); ok {
		dc.SetColor(c)
		dc.Clear()
	}
	if f.Background != nil {
		size := f.Background.Bounds().Size()
		if size.X > 0 && size.Y > 0 {
			bg := f.Background
			if size.X != f.Width || size.Y != f.Height {
				bg = transform.Resize(bg, f.Width, f.Height, transform.Linear)
			}
			dc.DrawImage(bg, 0, 0)
		}
	}

	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	for i := range f.Scene.Objects {
		drawObject(dc, &f.Scene.Objects[i])
	}
	return dc.Image()
}

func drawObject(dc *gg.Context, o *scene.Object) {
	switch o.Type {
	case scene.TypeRect:
		dc.DrawRectangle(o.Left, o.Top, o.Width, o.Height)
	case scene.TypeCircle:
		c := o.Center()
		dc.DrawCircle(c.X, c.Y, o.Radius)
	case scene.TypeLine, scene.TypePath, scene.TypePolygon:
		for i, p := range o.Points {
			if i == 0 {
				dc.MoveTo(p.X, p.Y)
			} else {
				dc.LineTo(p.X, p.Y)
			}
		}
		if len(o.Points) == 1 {
			// A single-point path is a dot as wide as the stroke.
			dc.ClearPath()
			if c, ok := paint(o.Stroke); ok {
				dc.DrawCircle(o.Points[0].X, o.Points[0].Y, o.StrokeWidth/2)
				dc.SetColor(c)
				dc.Fill()
			}
			return
		}
		if o.Type == scene.TypePolygon {
			dc.ClosePath()
		}
	default:
		log.Printf("[EXPORT] skipping object %s of unknown type %q", o.ID, o.Type)
		return
	}

	fill, hasFill := paint(o.Fill)
	stroke, hasStroke := paint(o.Stroke)
	hasStroke = hasStroke && o.StrokeWidth > 0
	if hasFill && o.Type != scene.TypeLine && o.Type != scene.TypePath {
		dc.SetColor(fill)
		if hasStroke {
			dc.FillPreserve()
		} else {
			dc.Fill()
		}
	}
	if hasStroke {
		dc.SetColor(stroke)
		dc.SetLineWidth(o.StrokeWidth)
		dc.Stroke()
	}
	dc.ClearPath()
}

// paint parses a colour and reports whether it would draw anything.
func paint(s string) (color.Color, bool) {
	c, err := scene.ParseColor(s)
	if err != nil {
		log.Printf("[EXPORT] %v", err)
		return nil, false
	}
	return c, c.A > 0
}

// PNG writes the rasterized frame to w.
func PNG(w io.Writer, f Frame) error {
	return png.Encode(w, Rasterize(f))
}

// PNGDataURL returns the rasterized frame as a data URL.
func PNGDataURL(f Frame) (string, error) {
	var buf bytes.Buffer
	if err := PNG(&buf, f); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
