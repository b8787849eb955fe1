// Package cv correlates templates against screen captures with OpenCV.
package cv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Correlator runs TM_CCOEFF_NORMED template matching through gocv.
type Correlator struct{}

// NewCorrelator creates a new instance
func NewCorrelator() *Correlator {
	return &Correlator{}
}

// Correlate returns the top-left of the best-scoring window and its score.
// Both images go through ImageToMatRGB so screen and template share the
// same BGR channel order.
func (c *Correlator) Correlate(screenImg, templateImg image.Image) (image.Point, float64, error) {
	sw, sh := screenImg.Bounds().Dx(), screenImg.Bounds().Dy()
	tw, th := templateImg.Bounds().Dx(), templateImg.Bounds().Dy()
	if tw == 0 || th == 0 || tw > sw || th > sh {
		return image.Point{}, 0, fmt.Errorf("template %dx%d does not fit screen %dx%d", tw, th, sw, sh)
	}

	screenMat, err := gocv.ImageToMatRGB(screenImg)
	if err != nil {
		return image.Point{}, 0, fmt.Errorf("convert screen: %w", err)
	}
	defer screenMat.Close()

	templateMat, err := gocv.ImageToMatRGB(templateImg)
	if err != nil {
		return image.Point{}, 0, fmt.Errorf("convert template: %w", err)
	}
	defer templateMat.Close()

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	if err := gocv.MatchTemplate(screenMat, templateMat, &result, gocv.TmCcoeffNormed, mask); err != nil {
		return image.Point{}, 0, fmt.Errorf("match template: %w", err)
	}
	if result.Empty() {
		return image.Point{}, 0, fmt.Errorf("match template produced no result")
	}

	_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)
	return maxLoc, float64(maxVal), nil
}
