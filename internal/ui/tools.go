package ui

import (
	"image/color"

	"DrawableCanvas/internal/bridge"
	"DrawableCanvas/internal/surface"
	"DrawableCanvas/internal/tools"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Name     string
	Color    color.Color
	OnTapped func(name string)
}

func newColorSwatch(name string, c color.Color, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Name: name, Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Name)
	}
}

// Toolbar holds the history buttons and the local style controls. Its
// buttons follow the surface's undo and redo availability.
type Toolbar struct {
	surface *surface.Controller
	board   *BoardWidget
	window  fyne.Window

	undo, redo *widget.Button
	mode       *widget.Select
	root       *fyne.Container
	status     *widget.Label
}

// reconfigure applies an edit to the current args, as if the host sent them.
func (t *Toolbar) reconfigure(edit func(a *bridge.Args)) {
	a := t.surface.Args()
	edit(&a)
	t.surface.Configure(a)
}

// Update syncs the buttons and visibility with the surface.
func (t *Toolbar) Update() {
	setEnabled(t.undo, t.surface.CanUndo())
	setEnabled(t.redo, t.surface.CanRedo())
	if mode := string(t.surface.Args().DrawingMode); t.mode.Selected != mode {
		t.mode.SetSelected(mode)
	}
	if t.surface.ToolbarVisible() {
		t.root.Show()
	} else {
		t.root.Hide()
	}
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

// --- The Main Toolbar ---
func NewToolbar(s *surface.Controller, board *BoardWidget, w fyne.Window) *Toolbar {
	t := &Toolbar{surface: s, board: board, window: w, status: widget.NewLabel("Ready")}

	t.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), s.Undo)
	t.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), s.Redo)
	reset := widget.NewButtonWithIcon("", theme.DeleteIcon(), s.Reset)
	send := widget.NewButtonWithIcon("", theme.MailSendIcon(), s.ForceSync)
	save := widget.NewButtonWithIcon("", theme.DocumentSaveIcon(), t.showExport)
	open := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), t.showOpen)

	// --- Drawing mode ---
	names := make([]string, 0, len(tools.Modes()))
	for _, m := range tools.Modes() {
		names = append(names, string(m))
	}
	t.mode = widget.NewSelect(names, func(m string) {
		if tools.Mode(m) == s.Args().DrawingMode {
			return
		}
		t.reconfigure(func(a *bridge.Args) { a.DrawingMode = tools.Mode(m) })
	})

	// --- Color Palette ---
	onColorTapped := func(name string) {
		t.reconfigure(func(a *bridge.Args) { a.StrokeColor = name })
	}
	colorBox := container.NewHBox(
		newColorSwatch("black", color.Black, onColorTapped),
		newColorSwatch("red", color.NRGBA{R: 255, A: 255}, onColorTapped),
		newColorSwatch("green", color.NRGBA{G: 128, A: 255}, onColorTapped),
		newColorSwatch("blue", color.NRGBA{B: 255, A: 255}, onColorTapped),
		newColorSwatch("yellow", color.NRGBA{R: 255, G: 255, A: 255}, onColorTapped),
	)

	// --- Stroke Width Slider ---
	strokeSlider := widget.NewSlider(1.0, 50.0)
	strokeSlider.SetValue(s.Args().StrokeWidth)
	strokeSlider.OnChangeEnded = func(val float64) {
		t.reconfigure(func(a *bridge.Args) { a.StrokeWidth = val })
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), strokeSlider)

	t.root = container.NewHBox(
		t.undo, t.redo, reset, send,
		widget.NewSeparator(),
		save, open,
		widget.NewSeparator(),
		widget.NewLabel("Tool:"),
		t.mode,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		layout.NewSpacer(),
	)
	t.Update()
	return t
}

// Object is the toolbar's root container.
func (t *Toolbar) Object() fyne.CanvasObject { return t.root }
