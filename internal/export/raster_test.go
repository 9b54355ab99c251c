package export

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"DrawableCanvas/internal/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rgba(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func TestRasterizeDrawsBackgroundAndShapes(t *testing.T) {
	s := scene.EmptySnapshot("#ffffff")
	r := scene.NewRect(10, 10, 20, 20)
	r.Fill = "#ff0000"
	s.Objects = append(s.Objects, *r)

	img := Rasterize(Frame{Scene: s, Width: 50, Height: 40})

	assert.Equal(t, image.Pt(50, 40), img.Bounds().Size())
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, rgba(img.At(2, 2)))
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, rgba(img.At(20, 20)))
}

func TestRasterizeStretchesBackgroundImage(t *testing.T) {
	bg := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			bg.Set(x, y, color.NRGBA{B: 255, A: 255})
		}
	}
	img := Rasterize(Frame{Scene: scene.EmptySnapshot(""), Background: bg, Width: 20, Height: 20})

	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, rgba(img.At(10, 10)))
}

func TestRasterizeStrokesPaths(t *testing.T) {
	s := scene.EmptySnapshot("")
	p := scene.NewPolyline(scene.TypePath, scene.Point{X: 0, Y: 10}, scene.Point{X: 40, Y: 10})
	p.Stroke = "black"
	p.StrokeWidth = 4
	s.Objects = append(s.Objects, *p)

	img := Rasterize(Frame{Scene: s, Width: 40, Height: 20})

	assert.Equal(t, uint8(255), rgba(img.At(20, 10)).A)
	assert.Equal(t, uint8(0), rgba(img.At(20, 18)).A)
}

func TestPNGDataURL(t *testing.T) {
	url, err := PNGDataURL(Frame{Scene: scene.EmptySnapshot("white"), Width: 4, Height: 3})
	require.NoError(t, err)

	const prefix = "data:image/png;base64,"
	require.True(t, strings.HasPrefix(url, prefix))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(4, 3), img.Bounds().Size())
}
