package engine

import (
	"context"
	"errors"
	"image"
	"reflect"
	"strings"
	"testing"
	"time"
)

var (
	taskPoint = image.Pt(700, 800)
	refPoint  = image.Pt(100, 200)
)

func startedBot(t *testing.T, loc *scriptLocator, j *journal) (*Bot, *fakePointer, *stepClock) {
	t.Helper()
	loc.always(Adventure, refPoint)
	b, p, clock := newTestBot(loc, j)
	p.x, p.y = taskPoint.X, taskPoint.Y

	anchors, err := b.Startup()
	if err != nil {
		t.Fatalf("Startup() error = %v", err)
	}
	if anchors.Task != taskPoint || anchors.Reference != refPoint {
		t.Fatalf("Startup() anchors = %+v", anchors)
	}
	return b, p, clock
}

func TestStartupWaitsGracePeriod(t *testing.T) {
	b, _, clock := startedBot(t, newScriptLocator(), nil)

	if !reflect.DeepEqual(clock.sleeps, []time.Duration{5 * time.Second}) {
		t.Errorf("startup sleeps = %v, expected [5s]", clock.sleeps)
	}
	if b.Anchors().Reference != refPoint {
		t.Errorf("Anchors() = %+v", b.Anchors())
	}
}

func TestChallengeCycleCleansUp(t *testing.T) {
	j := &journal{}
	loc := newScriptLocator().
		always(ChallengeTask, image.Pt(0, 0)).
		always(Challenge, image.Pt(1, 0)).
		always(Doufa, image.Pt(2, 0)).
		always(Match, image.Pt(3, 0)).
		always(Doufa2, image.Pt(4, 0)).
		script(BattleSuccess, image.Pt(0, 0), false, true)
	b, p, _ := startedBot(t, loc, j)
	j.entries = nil

	if err := b.Step(); err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	want := []image.Point{
		{1, 0}, {2, 0}, {3, 0}, {4, 0},
		refPoint, refPoint, refPoint,
		taskPoint, taskPoint,
	}
	if !reflect.DeepEqual(p.clicks, want) {
		t.Errorf("clicks = %v, expected %v", p.clicks, want)
	}
	if loc.calls[BattleSuccess] != 2 {
		t.Errorf("battle polls = %d, expected 2", loc.calls[BattleSuccess])
	}

	// reference clicks, 1s cleanup wait, then task clicks
	tail := j.entries[len(j.entries)-9:]
	wantTail := []string{
		"click 100,200", "sleep 800ms", "click 100,200", "sleep 800ms", "click 100,200",
		"sleep 1s",
		"click 700,800", "sleep 800ms", "click 700,800",
	}
	if !reflect.DeepEqual(tail, wantTail) {
		t.Errorf("journal tail = %v, expected %v", tail, wantTail)
	}
}

func TestAdventureCycleCleansUp(t *testing.T) {
	loc := newScriptLocator().
		always(AdventureTask, image.Pt(0, 0)).
		always(Match2, image.Pt(5, 5)).
		always(BattleLose, image.Pt(0, 0))
	b, p, _ := startedBot(t, loc, nil)

	if err := b.Step(); err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	want := []image.Point{refPoint, {5, 5}, refPoint, refPoint, taskPoint, taskPoint}
	if !reflect.DeepEqual(p.clicks, want) {
		t.Errorf("clicks = %v, expected %v", p.clicks, want)
	}
}

func TestCycleSkipsCleanupWithoutOutcome(t *testing.T) {
	loc := newScriptLocator().
		always(AdventureTask, image.Pt(0, 0)).
		always(Match2, image.Pt(5, 5))
	b, p, _ := startedBot(t, loc, nil)
	b.BattleTimeout = 10 * time.Second

	if err := b.Step(); err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	want := []image.Point{refPoint, {5, 5}}
	if !reflect.DeepEqual(p.clicks, want) {
		t.Errorf("clicks = %v, expected %v", p.clicks, want)
	}
	if loc.calls[BattleSuccess] != 5 {
		t.Errorf("battle polls = %d, expected 5", loc.calls[BattleSuccess])
	}
}

func TestCycleSkipsCleanupOnSequenceFailure(t *testing.T) {
	loc := newScriptLocator().
		always(ChallengeTask, image.Pt(0, 0)).
		always(Challenge, image.Pt(1, 0))
	b, p, _ := startedBot(t, loc, nil)

	if err := b.Step(); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if loc.calls[BattleSuccess] != 0 {
		t.Error("battle outcome polled after a failed sequence")
	}
	if !reflect.DeepEqual(p.clicks, []image.Point{{1, 0}}) {
		t.Errorf("clicks = %v", p.clicks)
	}
}

func TestUnknownCycleNudgesTaskPoint(t *testing.T) {
	loc := newScriptLocator()
	log, buf := bufferLogger()
	loc.always(Adventure, refPoint)
	p := &fakePointer{x: taskPoint.X, y: taskPoint.Y}
	clock := newStepClock(nil)
	b := NewBot(loc, NewActuator(p, clock, log), clock, log)
	if _, err := b.Startup(); err != nil {
		t.Fatal(err)
	}

	if err := b.Step(); err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	if !reflect.DeepEqual(p.clicks, []image.Point{taskPoint, taskPoint}) {
		t.Errorf("clicks = %v, expected two task clicks", p.clicks)
	}
	if !strings.Contains(buf.String(), "no task identified") {
		t.Errorf("missing no-task log line:\n%s", buf.String())
	}
	for _, key := range []TemplateKey{Challenge, Doufa, Match, Doufa2, Match2} {
		if loc.calls[key] != 0 {
			t.Errorf("handler step %s was attempted", key)
		}
	}
	if loc.calls[Adventure] != 1 {
		t.Errorf("adventure located %d times, expected only at startup", loc.calls[Adventure])
	}
}

func TestStepRecoversPanics(t *testing.T) {
	loc := newScriptLocator()
	b, _, _ := startedBot(t, loc, nil)
	loc.panic = true

	if err := b.Step(); err == nil {
		t.Error("Step() expected error from panicking locator")
	}
}

func TestStepRequiresStartup(t *testing.T) {
	b, _, _ := newTestBot(newScriptLocator(), nil)
	if err := b.Step(); err == nil {
		t.Error("Step() expected error before Startup")
	}
}

func TestRunStopsWhenReferenceMissing(t *testing.T) {
	loc := newScriptLocator()
	b, p, clock := newTestBot(loc, nil)

	err := b.Run(context.Background())
	if !errors.Is(err, ErrReferenceNotFound) {
		t.Fatalf("Run() error = %v, expected ErrReferenceNotFound", err)
	}
	if len(p.clicks) != 0 {
		t.Errorf("clicked %v before the loop", p.clicks)
	}
	if loc.calls[ChallengeTask] != 0 {
		t.Error("loop was entered")
	}
	if !reflect.DeepEqual(clock.sleeps, []time.Duration{5 * time.Second}) {
		t.Errorf("sleeps = %v", clock.sleeps)
	}
}

func TestRunCyclesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loc := newScriptLocator().always(Adventure, refPoint)
	p := &fakePointer{}
	clock := newStepClock(nil)
	a := NewActuator(p, clock, quietLogger())
	b := NewBot(loc, &cancelAfter{Actuator: a, n: 3, cancel: cancel}, clock, quietLogger())

	if err := b.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if loc.calls[ChallengeTask] != 3 {
		t.Errorf("cycles = %d, expected 3", loc.calls[ChallengeTask])
	}
}

// cancelAfter cancels the run after n task-point nudges
type cancelAfter struct {
	*Actuator
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfter) ClickAt(pos image.Point, times int) bool {
	ok := c.Actuator.ClickAt(pos, times)
	c.n--
	if c.n == 0 {
		c.cancel()
	}
	return ok
}
