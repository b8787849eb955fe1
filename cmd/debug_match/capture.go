package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vcaesar/imgo"

	"github.com/ConserveLee/adventure-loop/internal/engine/screen"
)

var flagOut string

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Save a capture of the whole desktop",
	RunE: func(cmd *cobra.Command, args []string) error {
		frame, err := screen.NewSearcher().CaptureScreen()
		if err != nil {
			return err
		}
		if err := imgo.Save(flagOut, frame.Image); err != nil {
			return fmt.Errorf("save %s: %w", flagOut, err)
		}
		b := frame.Image.Bounds()
		fmt.Printf("Saved %dx%d capture to %s (desktop origin %d, %d)\n", b.Dx(), b.Dy(), flagOut, frame.Origin.X, frame.Origin.Y)
		return nil
	},
}

func init() {
	captureCmd.Flags().StringVarP(&flagOut, "out", "o", "debug_screen.png", "output PNG path")
}
