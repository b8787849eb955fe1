package screen

import (
	"errors"
	"fmt"
	"image"
	_ "image/png" // Register PNG decoder for image.Decode
	"math"
	"os"

	"github.com/kbinani/screenshot"
)

// Frame is one full-desktop capture. Origin is the desktop coordinate of
// the image's top-left pixel, so image positions convert to pointer
// positions by adding it.
type Frame struct {
	Image  image.Image
	Origin image.Point
}

// Searcher handles screen capturing, template loading and the pure-Go
// correlation used for offline debugging and tests.
type Searcher struct{}

// NewSearcher creates a new instance
func NewSearcher() *Searcher {
	return &Searcher{}
}

// LoadImage loads an image from the filesystem
func (s *Searcher) LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// VirtualBounds returns the union of all active display bounds.
func VirtualBounds() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return image.Rectangle{}, errors.New("no active displays")
	}
	var bounds image.Rectangle
	for i := 0; i < n; i++ {
		bounds = bounds.Union(screenshot.GetDisplayBounds(i))
	}
	return bounds, nil
}

// CaptureScreen returns a capture of the whole virtual desktop
func (s *Searcher) CaptureScreen() (Frame, error) {
	bounds, err := VirtualBounds()
	if err != nil {
		return Frame{}, err
	}

	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to capture desktop %v: %w", bounds, err)
	}
	return Frame{Image: img, Origin: bounds.Min}, nil
}

// Correlate slides templateImg over screenImg and returns the top-left
// offset (relative to screenImg.Bounds().Min) of the window with the highest
// normalized correlation coefficient, and that score in [-1, 1].
//
// The score matches OpenCV's TM_CCOEFF_NORMED on three-channel images: the
// template is mean-subtracted per channel and the products are summed over
// all channels. Flat windows or flat templates score 0.
func (s *Searcher) Correlate(screenImg, templateImg image.Image) (image.Point, float64, error) {
	sw, sh := screenImg.Bounds().Dx(), screenImg.Bounds().Dy()
	tw, th := templateImg.Bounds().Dx(), templateImg.Bounds().Dy()
	if tw == 0 || th == 0 {
		return image.Point{}, 0, errors.New("empty template")
	}
	if tw > sw || th > sh {
		return image.Point{}, 0, fmt.Errorf("template %dx%d larger than screen %dx%d", tw, th, sw, sh)
	}

	scr := toPlanes(screenImg)
	tpl := toPlanes(templateImg)

	// Mean-subtract the template per channel
	n := float64(tw * th)
	var tEnergy float64
	for c := 0; c < 3; c++ {
		var sum float64
		for _, v := range tpl[c] {
			sum += v
		}
		mean := sum / n
		for i := range tpl[c] {
			tpl[c][i] -= mean
			tEnergy += tpl[c][i] * tpl[c][i]
		}
	}

	rw, rh := sw-tw+1, sh-th+1
	wEnergy := windowEnergy(scr, sw, sh, tw, th)

	best := image.Point{}
	bestScore := math.Inf(-1)

	for y := 0; y < rh; y++ {
		for x := 0; x < rw; x++ {
			var num float64
			for c := 0; c < 3; c++ {
				sp, tp := scr[c], tpl[c]
				for ty := 0; ty < th; ty++ {
					srow := (y+ty)*sw + x
					trow := ty * tw
					for tx := 0; tx < tw; tx++ {
						num += tp[trow+tx] * sp[srow+tx]
					}
				}
			}

			score := 0.0
			if denom := math.Sqrt(tEnergy * wEnergy[y*rw+x]); denom > 1e-9 {
				score = num / denom
			}
			score = math.Max(-1, math.Min(1, score))

			if score > bestScore {
				bestScore = score
				best = image.Point{X: x, Y: y}
			}
		}
	}

	return best, bestScore, nil
}

// toPlanes splits an image into R, G, B float planes (0-255), row-major.
func toPlanes(img image.Image) [3][]float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	var planes [3][]float64
	for c := range planes {
		planes[c] = make([]float64, w*h)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := y*w + x
			planes[0][i] = float64(r >> 8)
			planes[1][i] = float64(g >> 8)
			planes[2][i] = float64(bl >> 8)
		}
	}
	return planes
}

// windowEnergy returns, for every template-sized window, the sum over
// channels of sum((I - mean(I))^2), using integral images of I and I^2.
func windowEnergy(planes [3][]float64, sw, sh, tw, th int) []float64 {
	rw, rh := sw-tw+1, sh-th+1
	out := make([]float64, rw*rh)
	n := float64(tw * th)

	stride := sw + 1
	sum := make([]float64, stride*(sh+1))
	sq := make([]float64, stride*(sh+1))

	for c := 0; c < 3; c++ {
		p := planes[c]
		for y := 1; y <= sh; y++ {
			var rowSum, rowSq float64
			for x := 1; x <= sw; x++ {
				v := p[(y-1)*sw+x-1]
				rowSum += v
				rowSq += v * v
				sum[y*stride+x] = sum[(y-1)*stride+x] + rowSum
				sq[y*stride+x] = sq[(y-1)*stride+x] + rowSq
			}
		}

		rect := func(a []float64, x, y int) float64 {
			return a[(y+th)*stride+x+tw] - a[y*stride+x+tw] - a[(y+th)*stride+x] + a[y*stride+x]
		}
		for y := 0; y < rh; y++ {
			for x := 0; x < rw; x++ {
				s := rect(sum, x, y)
				e := rect(sq, x, y) - s*s/n
				if e > 0 {
					out[y*rw+x] += e
				}
			}
		}
	}
	return out
}
