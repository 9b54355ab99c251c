package ui

import (
	"DrawableCanvas/internal/bridge"
	"DrawableCanvas/internal/surface"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// RunApp mounts the surface with args, shows it and blocks until the window
// closes. onStarted runs once the event loop is up, so anything posting to
// it with fyne.Do is safe to start there.
func RunApp(title string, s *surface.Controller, args bridge.Args, onStarted func()) {
	myApp := app.New()
	myWindow := myApp.NewWindow(title)
	myWindow.Resize(fyne.NewSize(1024, 768))

	board := NewBoardWidget(s)
	s.Mount(args)
	toolbar := NewToolbar(s, board, myWindow)
	s.OnChange = toolbar.Update

	// Alt pans; key state is only visible at the window level.
	if dc, ok := myWindow.Canvas().(desktop.Canvas); ok {
		isAlt := func(k *fyne.KeyEvent) bool {
			return k.Name == desktop.KeyAltLeft || k.Name == desktop.KeyAltRight
		}
		dc.SetOnKeyDown(func(k *fyne.KeyEvent) {
			if isAlt(k) {
				board.SetModifier(true)
			}
		})
		dc.SetOnKeyUp(func(k *fyne.KeyEvent) {
			if isAlt(k) {
				board.SetModifier(false)
			}
		})
	}

	statusBar := container.NewHBox(widget.NewLabel("Alt+drag to pan, wheel to zoom."), toolbar.status)
	content := container.NewBorder(toolbar.Object(), statusBar, nil, nil, board)
	myWindow.SetContent(content)

	if onStarted != nil {
		myApp.Lifecycle().SetOnStarted(onStarted)
	}
	myWindow.ShowAndRun()
}
