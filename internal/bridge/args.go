// Package bridge decodes the host's configuration and decides when the
// drawing is published back to it.
package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"DrawableCanvas/internal/scene"
	"DrawableCanvas/internal/tools"
)

// Args is the configuration the host sends on every render cycle.
type Args struct {
	FillColor          string          `json:"fillColor"`
	StrokeWidth        float64         `json:"strokeWidth"`
	StrokeColor        string          `json:"strokeColor"`
	BackgroundColor    string          `json:"backgroundColor"`
	BackgroundImageURL string          `json:"backgroundImageURL"`
	RealtimeUpdate     bool            `json:"realtimeUpdate"`
	CanvasWidth        float64         `json:"canvasWidth"`
	CanvasHeight       float64         `json:"canvasHeight"`
	DrawingMode        tools.Mode      `json:"drawingMode"`
	InitialDrawing     json.RawMessage `json:"initialDrawing,omitempty"`
	DisplayToolbar     bool            `json:"displayToolbar"`
	DisplayRadius      float64         `json:"displayRadius"`
}

// DefaultArgs mirrors what a host sends when the user sets nothing.
func DefaultArgs() Args {
	return Args{
		FillColor:       "#eee",
		StrokeWidth:     20,
		StrokeColor:     "black",
		BackgroundColor: "",
		RealtimeUpdate:  true,
		CanvasWidth:     600,
		CanvasHeight:    400,
		DrawingMode:     tools.ModeFreedraw,
		DisplayToolbar:  true,
		DisplayRadius:   3,
	}
}

// DecodeArgs reads args over the defaults, so a host may send only the
// fields it cares about.
func DecodeArgs(data []byte) (Args, error) {
	a := DefaultArgs()
	if len(bytes.TrimSpace(data)) == 0 {
		return a, nil
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return Args{}, fmt.Errorf("decoding args: %w", err)
	}
	if a.CanvasWidth <= 0 || a.CanvasHeight <= 0 {
		return Args{}, fmt.Errorf("decoding args: canvas size %vx%v must be positive", a.CanvasWidth, a.CanvasHeight)
	}
	return a, nil
}

// LoadArgs decodes args from a JSON file.
func LoadArgs(path string) (Args, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Args{}, fmt.Errorf("reading args: %w", err)
	}
	return DecodeArgs(data)
}

// Style is the tool configuration carried by the args.
func (a Args) Style() tools.Style {
	return tools.Style{
		FillColor:     a.FillColor,
		StrokeWidth:   a.StrokeWidth,
		StrokeColor:   a.StrokeColor,
		DisplayRadius: a.DisplayRadius,
	}
}

// Initial returns the initial drawing. Without one, the scene starts empty
// on the background colour.
func (a Args) Initial() (scene.Snapshot, error) {
	raw := bytes.TrimSpace(a.InitialDrawing)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return scene.EmptySnapshot(a.BackgroundColor), nil
	}
	return scene.ParseSnapshot(raw)
}
