package cropper

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/kbinani/screenshot"

	"github.com/ConserveLee/adventure-loop/internal/engine"
	"github.com/ConserveLee/adventure-loop/internal/engine/screen"
)

const allDisplays = "All displays"

// NewPanel creates the capture panel. Crops are saved as registry
// template files under assetsDir.
func NewPanel(win fyne.Window, assetsDir string) fyne.CanvasObject {
	options := []string{allDisplays}
	for i := 0; i < screenshot.NumActiveDisplays(); i++ {
		b := screenshot.GetDisplayBounds(i)
		options = append(options, fmt.Sprintf("Display %d (%dx%d)", i, b.Dx(), b.Dy()))
	}

	selected := -1
	displaySelect := widget.NewSelect(options, func(s string) {
		selected = -1
		var id int
		if _, err := fmt.Sscanf(s, "Display %d", &id); err == nil {
			selected = id
		}
	})
	displaySelect.SetSelected(allDisplays)

	info := widget.NewLabel("1. Pick a display\n2. Capture & Crop\n3. Drag around the button\n4. Save it as a template")
	info.Alignment = fyne.TextAlignCenter

	cropBtn := widget.NewButton("Capture & Crop", func() {
		img, err := capture(selected)
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		showCropperWindow(img, assetsDir)
	})
	cropBtn.Importance = widget.HighImportance

	openDirBtn := widget.NewButton("Open Assets", func() {
		if err := openDir(assetsDir); err != nil {
			dialog.ShowError(err, win)
		}
	})

	return container.NewVBox(
		widget.NewLabel("Display:"),
		displaySelect,
		widget.NewSeparator(),
		info,
		cropBtn,
		widget.NewSeparator(),
		openDirBtn,
	)
}

// capture grabs one display, or the whole virtual desktop for a negative id.
func capture(display int) (image.Image, error) {
	if display < 0 {
		frame, err := screen.NewSearcher().CaptureScreen()
		if err != nil {
			return nil, err
		}
		return frame.Image, nil
	}
	return screenshot.CaptureRect(screenshot.GetDisplayBounds(display))
}

// openDir shows path in the platform file browser. The browser is started,
// not waited on.
func openDir(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := exec.Command(fileBrowser(runtime.GOOS), abs).Start(); err != nil {
		return fmt.Errorf("open %s: %w", abs, err)
	}
	return nil
}

func fileBrowser(goos string) string {
	switch goos {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

func showCropperWindow(full image.Image, assetsDir string) {
	w := fyne.CurrentApp().NewWindow("Crop Template")
	w.Resize(fyne.NewSize(800, 600))

	lbl := widget.NewLabel("Drag a box around the target...")
	lbl.Alignment = fyne.TextAlignCenter

	saveBtn := widget.NewButton("Save selection", nil)
	saveBtn.Disable()

	var selection image.Rectangle
	cropper := New(full, func(rect image.Rectangle) {
		selection = rect
		lbl.SetText(fmt.Sprintf("Selected %v", rect))
		saveBtn.Enable()
	})

	saveBtn.OnTapped = func() {
		sub, ok := full.(interface {
			SubImage(r image.Rectangle) image.Image
		})
		if !ok {
			dialog.ShowError(fmt.Errorf("image type %T does not support cropping", full), w)
			return
		}
		showSaveForm(w, sub.SubImage(selection), assetsDir)
	}

	w.SetContent(container.NewBorder(nil, container.NewVBox(lbl, saveBtn), nil, nil, cropper))
	w.Show()
}

func showSaveForm(win fyne.Window, img image.Image, assetsDir string) {
	preview := canvas.NewImageFromImage(img)
	preview.FillMode = canvas.ImageFillContain
	preview.SetMinSize(fyne.NewSize(100, 100))

	var names []string
	for _, key := range engine.TemplateKeys() {
		names = append(names, key.String())
	}
	keySelect := widget.NewSelect(names, nil)
	keySelect.SetSelected(names[0])

	content := container.NewVBox(
		container.NewCenter(preview),
		widget.NewLabel("Template:"),
		keySelect,
	)

	dialog.ShowCustomConfirm("Save template", "Save", "Cancel", content, func(confirm bool) {
		if !confirm {
			return
		}
		key, err := engine.ParseTemplateKey(keySelect.Selected)
		if err != nil {
			dialog.ShowError(err, win)
			return
		}

		path := key.Path(assetsDir)
		save := func() {
			if err := savePNG(path, img); err != nil {
				dialog.ShowError(err, win)
				return
			}
			dialog.ShowInformation("Saved", fmt.Sprintf("%s saved to %s", key, path), win)
		}

		if _, err := os.Stat(path); err == nil {
			dialog.ShowConfirm("Overwrite", fmt.Sprintf("%s already exists. Replace it?", path), func(ok bool) {
				if ok {
					save()
				}
			}, win)
			return
		}
		save()
	}, win)
}

func savePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
