package engine

import (
	"context"
	"time"

	"github.com/ConserveLee/adventure-loop/internal/logger"
	"github.com/jonboulle/clockwork"
)

// supervise calls step until ctx is done. A failed step is logged and
// followed by backoff; a clean one by pause. The loop itself never exits
// on a step error.
func supervise(ctx context.Context, clock clockwork.Clock, log *logger.AppLogger, step func() error, pause, backoff time.Duration) {
	for cycle := 1; ctx.Err() == nil; cycle++ {
		wait := pause
		if err := step(); err != nil {
			log.Error("cycle %d failed: %v", cycle, err)
			wait = backoff
		}
		clock.Sleep(wait)
	}
}
