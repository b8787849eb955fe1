// Package cropper is a fyne widget for cutting template images out of a
// desktop capture.
package cropper

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// Widget displays an image and lets the user drag a rectangular selection.
type Widget struct {
	widget.BaseWidget

	img        image.Image
	startPos   fyne.Position
	currentPos fyne.Position
	dragging   bool

	raster    *canvas.Image
	selection *canvas.Rectangle

	// OnSelected receives the selection in image pixel coordinates
	OnSelected func(rect image.Rectangle)
}

// New creates a cropper over img
func New(img image.Image, onSelected func(image.Rectangle)) *Widget {
	c := &Widget{
		img:        img,
		OnSelected: onSelected,
	}
	c.ExtendBaseWidget(c)

	c.raster = canvas.NewImageFromImage(img)
	c.raster.ScaleMode = canvas.ImageScalePixels // templates must keep exact pixels
	c.raster.FillMode = canvas.ImageFillContain

	c.selection = canvas.NewRectangle(color.RGBA{R: 255, A: 60})
	c.selection.StrokeColor = color.RGBA{R: 255, A: 255}
	c.selection.StrokeWidth = 2
	c.selection.Hide()

	return c
}

func (c *Widget) CreateRenderer() fyne.WidgetRenderer {
	return &renderer{
		cropper: c,
		objects: []fyne.CanvasObject{c.raster, c.selection},
	}
}

// Dragged grows the selection. The first event of a drag already carries
// the distance moved, so the anchor is recovered from it.
func (c *Widget) Dragged(e *fyne.DragEvent) {
	if !c.dragging {
		c.dragging = true
		c.startPos = e.Position.Subtract(e.Dragged)
		c.selection.Show()
	}
	c.currentPos = e.Position
	c.Refresh()
}

// DragEnd reports the selection in image pixels. A selection that misses
// the image is cleared instead of reported.
func (c *Widget) DragEnd() {
	if !c.dragging {
		return
	}
	c.dragging = false

	rect, ok := MapSelection(c.Size(), c.img.Bounds(), c.startPos, c.currentPos)
	if !ok {
		c.clear(c.currentPos)
		return
	}
	c.Refresh()
	if c.OnSelected != nil {
		c.OnSelected(rect)
	}
}

// Tapped clears the selection
func (c *Widget) Tapped(e *fyne.PointEvent) {
	c.clear(e.Position)
}

func (c *Widget) clear(at fyne.Position) {
	c.startPos, c.currentPos = at, at
	c.selection.Hide()
	c.Refresh()
}

// span returns the selection's top-left and bottom-right corners in widget space.
func (c *Widget) span() (fyne.Position, fyne.Position) {
	return fyne.NewPos(min(c.startPos.X, c.currentPos.X), min(c.startPos.Y, c.currentPos.Y)),
		fyne.NewPos(max(c.startPos.X, c.currentPos.X), max(c.startPos.Y, c.currentPos.Y))
}

func (c *Widget) Cursor() desktop.Cursor {
	return desktop.CrosshairCursor
}

// MapSelection converts a selection between two widget positions into image
// pixels, given that the image is drawn contained (aspect kept, centered)
// in a view of the given size. It reports false when the selection misses
// the image.
func MapSelection(view fyne.Size, img image.Rectangle, a, b fyne.Position) (image.Rectangle, bool) {
	if view.Width <= 0 || view.Height <= 0 || img.Empty() {
		return image.Rectangle{}, false
	}

	imgW, imgH := float32(img.Dx()), float32(img.Dy())
	aspect := imgW / imgH

	var drawW, drawH, offX, offY float32
	if view.Width/view.Height > aspect {
		// view is wider: fit height
		drawH = view.Height
		drawW = drawH * aspect
		offX = (view.Width - drawW) / 2
	} else {
		drawW = view.Width
		drawH = drawW / aspect
		offY = (view.Height - drawH) / 2
	}

	left := max(min(a.X, b.X), offX)
	top := max(min(a.Y, b.Y), offY)
	right := min(max(a.X, b.X), offX+drawW)
	bottom := min(max(a.Y, b.Y), offY+drawH)
	if right <= left || bottom <= top {
		return image.Rectangle{}, false
	}

	scaleX := imgW / drawW
	scaleY := imgH / drawH
	rect := image.Rect(
		int((left-offX)*scaleX),
		int((top-offY)*scaleY),
		int((right-offX)*scaleX),
		int((bottom-offY)*scaleY),
	).Add(img.Min).Intersect(img)

	return rect, !rect.Empty()
}

type renderer struct {
	cropper *Widget
	objects []fyne.CanvasObject
}

func (r *renderer) Layout(s fyne.Size) {
	r.objects[0].Resize(s)
	r.objects[0].Move(fyne.NewPos(0, 0))
	r.layoutSelection()
}

func (r *renderer) layoutSelection() {
	tl, br := r.cropper.span()
	r.objects[1].Move(tl)
	r.objects[1].Resize(fyne.NewSize(br.X-tl.X, br.Y-tl.Y))
}

func (r *renderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *renderer) Refresh() {
	r.layoutSelection()
	canvas.Refresh(r.cropper)
}

func (r *renderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *renderer) Destroy() {}
