package ui

import (
	"fmt"
	"io"
	"log"

	"DrawableCanvas/internal/bridge"
	"DrawableCanvas/internal/export"
	"DrawableCanvas/internal/scene"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

func (t *Toolbar) SetStatus(text string) {
	fyne.Do(func() { t.status.SetText(text) })
}

func (t *Toolbar) showExport() {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			log.Printf("SaveToFile: dialog error: %v", err)
			return
		}
		if w != nil {
			t.SaveToFile(w)
		}
	}, t.window)
	d.SetFileName("drawing.png")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	d.Show()
}

func (t *Toolbar) showOpen() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			log.Printf("LoadFromFile: dialog error: %v", err)
			return
		}
		if r != nil {
			t.LoadFromFile(r)
		}
	}, t.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

// SaveToFile writes the current history entry as a PNG.
func (t *Toolbar) SaveToFile(writer fyne.URIWriteCloser) {
	defer func() {
		if err := writer.Close(); err != nil {
			log.Printf("Error closing writer: %v", err)
		}
	}()

	frame := t.surface.Frame()
	if err := export.PNG(writer, frame); err != nil {
		log.Printf("SaveToFile: Error writing: %v", err)
		t.SetStatus("Error writing file")
		return
	}
	t.SetStatus(fmt.Sprintf("Saved %d objects", len(frame.Scene.Objects)))
	log.Printf("SaveToFile: saved %d objects to %s", len(frame.Scene.Objects), writer.URI())
}

// LoadFromFile reads a drawing and makes it the new initial drawing, which
// resets history the same way a host-supplied one does.
func (t *Toolbar) LoadFromFile(reader fyne.URIReadCloser) {
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("Error closing reader: %v", err)
		}
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		log.Printf("LoadFromFile: Error reading file: %v", err)
		t.SetStatus("Error reading file")
		return
	}

	if _, err := scene.ParseSnapshot(data); err != nil {
		log.Printf("LoadFromFile: %v", err)
		t.SetStatus("Error parsing file - invalid format")
		return
	}
	t.reconfigure(func(a *bridge.Args) { a.InitialDrawing = data })
	t.board.Refresh()
	t.SetStatus(fmt.Sprintf("Loaded %d objects", len(t.surface.Canvas().Objects())))
}
