package mouse

import (
	"fmt"
	"time"

	"github.com/ConserveLee/adventure-loop/internal/constants"
	"github.com/go-vgo/robotgo"
)

// Robot drives the real pointer through robotgo.
type Robot struct {
	Step time.Duration // tween step for smooth moves
}

// NewRobot creates a new instance
func NewRobot() *Robot {
	return &Robot{Step: constants.MoveStep}
}

// Position returns the pointer's current desktop position
func (r *Robot) Position() (int, int) {
	return robotgo.Location()
}

// MoveAndClick moves the pointer to (x, y) along a straight line over d,
// then left-clicks once.
func (r *Robot) MoveAndClick(x, y int, d time.Duration) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("robotgo: %v", rec)
		}
	}()

	sx, sy := robotgo.Location()
	steps := 0
	if r.Step > 0 {
		steps = int(d / r.Step)
	}
	for i := 1; i < steps; i++ {
		robotgo.Move(sx+(x-sx)*i/steps, sy+(y-sy)*i/steps)
		time.Sleep(r.Step)
	}
	robotgo.Move(x, y)
	robotgo.Click("left")
	return nil
}
