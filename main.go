package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ConserveLee/adventure-loop/internal/constants"
	"github.com/ConserveLee/adventure-loop/internal/engine"
	"github.com/ConserveLee/adventure-loop/internal/engine/mouse"
	"github.com/ConserveLee/adventure-loop/internal/engine/screen"
	"github.com/ConserveLee/adventure-loop/internal/engine/screen/cv"
	"github.com/ConserveLee/adventure-loop/internal/logger"
	"github.com/jonboulle/clockwork"
)

func main() {
	log := logger.NewConsole(constants.Verbose)
	clock := clockwork.NewRealClock()

	searcher := screen.NewSearcher()
	matcher := engine.NewMatcher(searcher, searcher, cv.NewCorrelator(), log.With("match"))

	actuator := engine.NewActuator(mouse.NewRobot(), clock, log.With("mouse"))
	if bounds, err := screen.VirtualBounds(); err == nil {
		actuator.Bounds = bounds
	} else {
		log.Warn("desktop bounds unavailable, clicks are not bounds-checked: %v", err)
	}

	bot := engine.NewBot(matcher, actuator, clock, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		log.Info("interrupt received, stopping after the current cycle (interrupt again to quit now)")
		stop()
	}()

	if err := bot.Run(ctx); err != nil {
		log.Error("exiting: %v", err)
		os.Exit(1)
	}
}
