package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/gift"
	"github.com/spf13/cobra"
	"github.com/vcaesar/imgo"

	"github.com/ConserveLee/adventure-loop/internal/constants"
	"github.com/ConserveLee/adventure-loop/internal/engine"
	"github.com/ConserveLee/adventure-loop/internal/engine/screen"
	"github.com/ConserveLee/adventure-loop/internal/engine/screen/cv"
)

var (
	flagScreen    string
	flagEngine    string
	flagAssetsDir string
	flagDump      string
)

var scoreCmd = &cobra.Command{
	Use:   "score [template...]",
	Short: "Score templates against a screenshot",
	Long: `Correlates each template (all registered templates by default) against the
screenshot and reports the best score, its center and whether it clears the
bot's confidence threshold.`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&flagScreen, "screen", "debug_screen.png", "screenshot to score against")
	scoreCmd.Flags().StringVar(&flagEngine, "engine", "cv", "correlation engine: cv or go")
	scoreCmd.Flags().StringVar(&flagAssetsDir, "assets", constants.AssetsDir, "directory holding the template PNGs")
	scoreCmd.Flags().StringVar(&flagDump, "dump", "", "directory to save best-window crops into")
}

func pickCorrelator(name string, searcher *screen.Searcher) (engine.Correlator, error) {
	switch name {
	case "cv":
		return cv.NewCorrelator(), nil
	case "go":
		return searcher, nil
	default:
		return nil, fmt.Errorf("unknown engine %q (want cv or go)", name)
	}
}

func pickTemplates(args []string) ([]engine.TemplateKey, error) {
	if len(args) == 0 {
		return engine.TemplateKeys(), nil
	}
	keys := make([]engine.TemplateKey, 0, len(args))
	for _, name := range args {
		k, err := engine.ParseTemplateKey(name)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func runScore(cmd *cobra.Command, args []string) error {
	searcher := screen.NewSearcher()
	correlator, err := pickCorrelator(flagEngine, searcher)
	if err != nil {
		return err
	}
	keys, err := pickTemplates(args)
	if err != nil {
		return err
	}

	screenImg, err := searcher.LoadImage(flagScreen)
	if err != nil {
		return fmt.Errorf("load screen: %w", err)
	}
	fmt.Printf("Screen size: %dx%d, threshold %.2f, engine %s\n",
		screenImg.Bounds().Dx(), screenImg.Bounds().Dy(), constants.ConfidenceThreshold, flagEngine)

	if flagDump != "" {
		if err := os.MkdirAll(flagDump, 0755); err != nil {
			return err
		}
	}

	for _, key := range keys {
		tplImg, err := searcher.LoadImage(key.Path(flagAssetsDir))
		if err != nil {
			fmt.Printf("%-15s load failed: %v\n", key, err)
			continue
		}

		best, score, err := correlator.Correlate(screenImg, tplImg)
		if err != nil {
			fmt.Printf("%-15s %v\n", key, err)
			continue
		}

		size := tplImg.Bounds().Size()
		verdict := "FAIL"
		if score >= constants.ConfidenceThreshold {
			verdict = "PASS"
		}
		fmt.Printf("%-15s %dx%d score=%.3f center=(%d, %d) %s\n",
			key, size.X, size.Y, score, best.X+size.X/2, best.Y+size.Y/2, verdict)

		if flagDump != "" {
			window := image.Rectangle{Min: best, Max: best.Add(size)}.Add(screenImg.Bounds().Min)
			if err := dumpWindow(screenImg, window, filepath.Join(flagDump, key.String()+"_best.png")); err != nil {
				fmt.Printf("%-15s dump failed: %v\n", key, err)
			}
		}
	}
	return nil
}

// dumpWindow saves the part of the screenshot the template matched best,
// for side-by-side comparison with the template file.
func dumpWindow(src image.Image, window image.Rectangle, path string) error {
	g := gift.New(gift.Crop(window))
	dst := image.NewRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return imgo.Save(path, dst)
}
