package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/ConserveLee/adventure-loop/internal/constants"
	"github.com/ConserveLee/adventure-loop/internal/logger"
	"github.com/jonboulle/clockwork"
)

// GameState is the classification of the current screen
type GameState int

const (
	StateUnknown GameState = iota
	StateAdventure
	StateChallenge
)

func (s GameState) String() string {
	switch s {
	case StateAdventure:
		return "adventure"
	case StateChallenge:
		return "challenge"
	default:
		return "unknown"
	}
}

// ErrReferenceNotFound means the adventure button was not on screen at
// startup, so there is no reference anchor to clean up with.
var ErrReferenceNotFound = errors.New("reference anchor (adventure button) not found")

var errNotStarted = errors.New("anchors not captured, call Startup first")

// Locator finds markers on screen
type Locator interface {
	Locate(key TemplateKey) (image.Point, bool)
}

// Clicker performs paced clicks and reads the pointer
type Clicker interface {
	ClickAt(pos image.Point, times int) bool
	CurrentPosition() image.Point
}

// Anchors are the two fixed click points captured at startup. They are
// never re-validated, so a moved or resized game window makes them stale.
type Anchors struct {
	Task      image.Point // wherever the operator parked the pointer
	Reference image.Point // the adventure button
}

// Bot runs the classify -> act -> wait -> cleanup cycle
type Bot struct {
	MaxAttempts   int
	BattleTimeout time.Duration

	locator Locator
	clicker Clicker
	clock   clockwork.Clock
	log     *logger.AppLogger

	anchors Anchors
	started bool
}

// NewBot creates a new instance of the bot
func NewBot(locator Locator, clicker Clicker, clock clockwork.Clock, log *logger.AppLogger) *Bot {
	return &Bot{
		MaxAttempts:   constants.FindMaxAttempts,
		BattleTimeout: constants.BattleTimeout,
		locator:       locator,
		clicker:       clicker,
		clock:         clock,
		log:           log,
	}
}

// Anchors returns the anchors captured by Startup
func (b *Bot) Anchors() Anchors {
	return b.anchors
}

// Startup gives the operator StartupGrace to park the pointer on the task
// point, records it, and locates the adventure button as the reference.
func (b *Bot) Startup() (Anchors, error) {
	b.log.Info("starting, move the pointer to the task point within %v...", constants.StartupGrace)
	b.clock.Sleep(constants.StartupGrace)

	task := b.clicker.CurrentPosition()
	b.log.Info("task point recorded at (%d, %d)", task.X, task.Y)

	ref, ok := b.locator.Locate(Adventure)
	if !ok {
		return Anchors{}, ErrReferenceNotFound
	}
	b.log.Info("reference point recorded at (%d, %d)", ref.X, ref.Y)

	b.anchors = Anchors{Task: task, Reference: ref}
	b.started = true
	return b.anchors, nil
}

// Step runs one cycle. A panic anywhere inside is returned as an error.
func (b *Bot) Step() (err error) {
	if !b.started {
		return errNotStarted
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panicked: %v", r)
		}
	}()

	b.clock.Sleep(constants.CycleIdle)

	switch state := b.IdentifyState(); state {
	case StateChallenge:
		b.log.Info("handling challenge task...")
		if b.HandleChallengeTask() && b.AwaitOutcome(b.BattleTimeout) {
			b.cleanup(constants.ChallengeReferenceClicks)
		}
	case StateAdventure:
		b.log.Info("handling adventure task...")
		if b.HandleAdventureTask() && b.AwaitOutcome(b.BattleTimeout) {
			b.cleanup(constants.AdventureReferenceClicks)
		}
	default:
		b.clicker.ClickAt(b.anchors.Task, constants.TaskAnchorClicks)
		b.log.Info("no task identified, waiting...")
	}
	return nil
}

func (b *Bot) cleanup(referenceClicks int) {
	b.clicker.ClickAt(b.anchors.Reference, referenceClicks)
	b.clock.Sleep(constants.CleanupWait)
	b.clicker.ClickAt(b.anchors.Task, constants.TaskAnchorClicks)
}

// Run captures the anchors and cycles until ctx is done. It only returns
// an error when startup fails.
func (b *Bot) Run(ctx context.Context) error {
	if _, err := b.Startup(); err != nil {
		b.log.Error("startup failed: %v", err)
		return fmt.Errorf("startup: %w", err)
	}

	supervise(ctx, b.clock, b.log, b.Step, constants.CyclePause, constants.FaultBackoff)
	b.log.Info("bot stopped")
	return nil
}
