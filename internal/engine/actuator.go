package engine

import (
	"image"
	"time"

	"github.com/ConserveLee/adventure-loop/internal/constants"
	"github.com/ConserveLee/adventure-loop/internal/logger"
	"github.com/jonboulle/clockwork"
)

// Pointer is the physical input primitive
type Pointer interface {
	Position() (int, int)
	MoveAndClick(x, y int, d time.Duration) error
}

// Actuator moves the pointer and clicks with the pacing the game UI needs
type Actuator struct {
	MoveDuration time.Duration
	ClickPause   time.Duration
	Bounds       image.Rectangle // valid click area; empty accepts any point

	pointer Pointer
	clock   clockwork.Clock
	log     *logger.AppLogger
}

// NewActuator creates an actuator with the default pacing
func NewActuator(pointer Pointer, clock clockwork.Clock, log *logger.AppLogger) *Actuator {
	return &Actuator{
		MoveDuration: constants.MoveDuration,
		ClickPause:   constants.ClickPause,
		pointer:      pointer,
		clock:        clock,
		log:          log,
	}
}

// ClickAt clicks pos times times, pausing ClickPause between clicks. It
// returns false without touching the pointer for an invalid request, and
// false if the pointer faults part way.
func (a *Actuator) ClickAt(pos image.Point, times int) (ok bool) {
	if times < 1 {
		a.log.Error("refusing to click (%d, %d) %d times", pos.X, pos.Y, times)
		return false
	}
	if !a.Bounds.Empty() && !pos.In(a.Bounds) {
		a.log.Error("click target (%d, %d) outside desktop %v", pos.X, pos.Y, a.Bounds)
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			a.log.Error("click at (%d, %d) failed: %v", pos.X, pos.Y, r)
			ok = false
		}
	}()

	a.log.Info("clicking (%d, %d) %d time(s)", pos.X, pos.Y, times)
	for i := 0; i < times; i++ {
		if err := a.pointer.MoveAndClick(pos.X, pos.Y, a.MoveDuration); err != nil {
			a.log.Error("click at (%d, %d) failed: %v", pos.X, pos.Y, err)
			return false
		}
		a.log.Debug("click %d/%d done", i+1, times)
		if i < times-1 {
			a.clock.Sleep(a.ClickPause)
		}
	}
	return true
}

// CurrentPosition reads the pointer position
func (a *Actuator) CurrentPosition() image.Point {
	x, y := a.pointer.Position()
	a.log.Info("pointer at (%d, %d)", x, y)
	return image.Pt(x, y)
}
