package constants

import "time"

// Adventure Loop Configuration
const (
	// Template Store
	AssetsDir = "." // Template PNGs are resolved relative to the working directory

	// Image Matching
	ConfidenceThreshold = 0.8 // Minimum TM_CCOEFF_NORMED score treated as a real match

	// Pointer
	MoveDuration = 500 * time.Millisecond // Smooth move time before each click
	ClickPause   = 800 * time.Millisecond // Pause between repeated clicks (none after the last)
	MoveStep     = 10 * time.Millisecond  // Tween step for smooth pointer moves

	// Find & Click
	FindMaxAttempts = 3               // Locate attempts before a step is considered failed
	FindRetryWait   = 1 * time.Second // Wait between failed locate attempts

	// Battle
	BattleTimeout      = 60 * time.Second // Give up waiting for win/lose marker
	BattlePollInterval = 2 * time.Second  // Poll interval for win/lose marker

	// Orchestrator
	StartupGrace = 5 * time.Second // Time for the operator to park the pointer on the task point
	CycleIdle    = 1 * time.Second // Wait for the task screen before classifying
	CleanupWait  = 1 * time.Second // Between reference clicks and task clicks
	CyclePause   = 5 * time.Second // End of every cycle
	FaultBackoff = 5 * time.Second // After a faulted cycle

	// Cleanup Clicks
	ChallengeReferenceClicks = 3
	AdventureReferenceClicks = 2
	TaskAnchorClicks         = 2

	// Debugging
	Verbose = true
)
