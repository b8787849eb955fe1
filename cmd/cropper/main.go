package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ConserveLee/adventure-loop/internal/constants"
	"github.com/ConserveLee/adventure-loop/internal/cropper"
)

func main() {
	a := app.NewWithID("com.conservelee.adventure-loop.cropper")
	w := a.NewWindow("Template Cropper")
	w.Resize(fyne.NewSize(360, 320))

	w.SetContent(cropper.NewPanel(w, constants.AssetsDir))
	w.ShowAndRun()
}
