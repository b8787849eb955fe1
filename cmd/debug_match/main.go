// debug_match checks the bot's templates against a saved screenshot without
// touching the pointer.
//
// Usage:
//
//	debug_match score [template...]   - Score templates against a screenshot
//	debug_match capture               - Save a capture of the whole desktop
//
// Flags:
//
//	--screen <file>   - Screenshot to score against (default: debug_screen.png)
//	--engine <name>   - cv (OpenCV, as the bot runs) or go (pure Go reference)
//	--dump <dir>      - Save the best window of every template here
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "debug_match",
	Short: "Offline template matching diagnostics",
	Long: `debug_match runs the bot's template matching against a saved screenshot
so thresholds and template crops can be checked without driving the game.

Examples:
  debug_match capture --out debug_screen.png
  debug_match score --screen debug_screen.png
  debug_match score challenge_task adventure_task --engine go --dump out/`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(captureCmd)
}
