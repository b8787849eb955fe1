package engine

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/ConserveLee/adventure-loop/internal/logger"
	"github.com/jonboulle/clockwork"
)

// journal records pointer and clock activity in call order
type journal struct {
	entries []string
}

func (j *journal) add(format string, args ...interface{}) {
	if j != nil {
		j.entries = append(j.entries, fmt.Sprintf(format, args...))
	}
}

// stepClock is a fake clock whose Sleep advances time immediately, so
// single-goroutine code runs without real waiting.
type stepClock struct {
	*clockwork.FakeClock
	sleeps []time.Duration
	j      *journal
}

func newStepClock(j *journal) *stepClock {
	return &stepClock{FakeClock: clockwork.NewFakeClock(), j: j}
}

func (c *stepClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.j.add("sleep %v", d)
	c.Advance(d)
}

type fakePointer struct {
	x, y   int
	err    error
	clicks []image.Point
	j      *journal
}

func (p *fakePointer) Position() (int, int) {
	return p.x, p.y
}

func (p *fakePointer) MoveAndClick(x, y int, d time.Duration) error {
	if p.err != nil {
		return p.err
	}
	p.clicks = append(p.clicks, image.Pt(x, y))
	p.j.add("click %d,%d", x, y)
	return nil
}

// scriptLocator answers Locate from per-key scripts. Each call consumes the
// next entry; an exhausted script repeats its last entry, a missing one
// means never found.
type scriptLocator struct {
	found map[TemplateKey][]bool
	pos   map[TemplateKey]image.Point
	calls map[TemplateKey]int
	panic bool
}

func newScriptLocator() *scriptLocator {
	return &scriptLocator{
		found: map[TemplateKey][]bool{},
		pos:   map[TemplateKey]image.Point{},
		calls: map[TemplateKey]int{},
	}
}

func (l *scriptLocator) always(key TemplateKey, at image.Point) *scriptLocator {
	l.found[key] = []bool{true}
	l.pos[key] = at
	return l
}

func (l *scriptLocator) script(key TemplateKey, at image.Point, seq ...bool) *scriptLocator {
	l.found[key] = seq
	l.pos[key] = at
	return l
}

func (l *scriptLocator) Locate(key TemplateKey) (image.Point, bool) {
	if l.panic {
		panic("capture backend crashed")
	}
	n := l.calls[key]
	l.calls[key]++

	seq := l.found[key]
	if len(seq) == 0 {
		return image.Point{}, false
	}
	if n >= len(seq) {
		n = len(seq) - 1
	}
	if !seq[n] {
		return image.Point{}, false
	}
	return l.pos[key], true
}

func bufferLogger() (*logger.AppLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logger.New(&buf, logger.LevelDebug), &buf
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
