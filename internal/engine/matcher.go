package engine

import (
	"fmt"
	"image"

	"github.com/ConserveLee/adventure-loop/internal/constants"
	"github.com/ConserveLee/adventure-loop/internal/engine/screen"
	"github.com/ConserveLee/adventure-loop/internal/logger"
)

// TemplateLoader reads a template image from storage
type TemplateLoader interface {
	LoadImage(path string) (image.Image, error)
}

// ScreenCapturer takes a fresh full-desktop capture
type ScreenCapturer interface {
	CaptureScreen() (screen.Frame, error)
}

// Correlator finds the best-aligned window of tpl inside scr. It returns the
// window's top-left relative to scr.Bounds().Min and its normalized score.
type Correlator interface {
	Correlate(scr, tpl image.Image) (image.Point, float64, error)
}

// MatchResult is a located marker: desktop center of the best window and its score
type MatchResult struct {
	Center image.Point
	Score  float64
}

// Matcher locates markers on the current screen
type Matcher struct {
	AssetsDir string
	Threshold float64

	loader     TemplateLoader
	capturer   ScreenCapturer
	correlator Correlator
	log        *logger.AppLogger
}

// NewMatcher creates a matcher with the default threshold and assets dir
func NewMatcher(loader TemplateLoader, capturer ScreenCapturer, correlator Correlator, log *logger.AppLogger) *Matcher {
	return &Matcher{
		AssetsDir:  constants.AssetsDir,
		Threshold:  constants.ConfidenceThreshold,
		loader:     loader,
		capturer:   capturer,
		correlator: correlator,
		log:        log,
	}
}

// Locate returns the marker's center position if it is on screen
func (m *Matcher) Locate(key TemplateKey) (image.Point, bool) {
	match, ok := m.Find(key)
	return match.Center, ok
}

// Find loads the template, captures the screen and correlates them. Any
// failure along the way is logged and reported as not found.
func (m *Matcher) Find(key TemplateKey) (match MatchResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("matching %s failed: %v", key, r)
			match, ok = MatchResult{}, false
		}
	}()

	path := key.Path(m.AssetsDir)
	tpl, err := m.loader.LoadImage(path)
	if err != nil {
		m.log.Error("cannot load template %s (%s): %v", key, path, err)
		return MatchResult{}, false
	}

	frame, err := m.capturer.CaptureScreen()
	if err != nil {
		m.log.Error("capture failed while matching %s: %v", key, err)
		return MatchResult{}, false
	}

	best, score, err := m.correlator.Correlate(frame.Image, tpl)
	if err != nil {
		m.log.Error("matching %s failed: %v", key, err)
		return MatchResult{}, false
	}

	if score < m.Threshold {
		m.log.Info("no match for %s, best score %.2f", key, score)
		return MatchResult{}, false
	}

	size := tpl.Bounds().Size()
	center := frame.Origin.Add(best).Add(image.Pt(size.X/2, size.Y/2))
	m.log.Info("found %s at (%d, %d), score %.2f", key, center.X, center.Y, score)
	return MatchResult{Center: center, Score: score}, true
}

func (m MatchResult) String() string {
	return fmt.Sprintf("(%d, %d)@%.2f", m.Center.X, m.Center.Y, m.Score)
}
