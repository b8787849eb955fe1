package engine

import (
	"time"

	"github.com/ConserveLee/adventure-loop/internal/constants"
)

// Click order for each task variant. Every key is one screen transition.
var (
	challengeSteps = []TemplateKey{Challenge, Doufa, Match, Doufa2}
	adventureSteps = []TemplateKey{Adventure, Match2}
	outcomeMarkers = []TemplateKey{BattleSuccess, BattleLose}
)

// IdentifyState classifies the current screen. The challenge marker wins
// when both task markers are visible.
func (b *Bot) IdentifyState() GameState {
	if _, ok := b.locator.Locate(ChallengeTask); ok {
		b.log.Info("challenge task identified")
		return StateChallenge
	}
	if _, ok := b.locator.Locate(AdventureTask); ok {
		b.log.Info("adventure task identified")
		return StateAdventure
	}
	b.log.Info("no task type identified")
	return StateUnknown
}

// FindAndClick locates key up to maxAttempts times, waiting FindRetryWait
// between misses, and clicks it times times on the first hit.
func (b *Bot) FindAndClick(key TemplateKey, times, maxAttempts int) bool {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if pos, ok := b.locator.Locate(key); ok {
			return b.clicker.ClickAt(pos, times)
		}
		b.log.Debug("[%s] attempt %d/%d missed", key, attempt, maxAttempts)
		if attempt < maxAttempts {
			b.clock.Sleep(constants.FindRetryWait)
		}
	}
	b.log.Warn("gave up on %s after %d attempts", key, maxAttempts)
	return false
}

// HandleChallengeTask clicks through challenge -> doufa -> match -> doufa_2
func (b *Bot) HandleChallengeTask() bool {
	return b.runSteps("challenge", challengeSteps)
}

// HandleAdventureTask clicks through adventure -> match2
func (b *Bot) HandleAdventureTask() bool {
	return b.runSteps("adventure", adventureSteps)
}

// runSteps stops at the first step that cannot be found, so the bot never
// clicks through a screen it did not reach.
func (b *Bot) runSteps(task string, steps []TemplateKey) bool {
	for i, key := range steps {
		if !b.FindAndClick(key, 1, b.MaxAttempts) {
			b.log.Warn("%s task stopped at step %d (%s)", task, i+1, key)
			return false
		}
	}
	return true
}

// AwaitOutcome polls for either battle outcome marker every
// BattlePollInterval until timeout. Win and lose both count as concluded.
func (b *Bot) AwaitOutcome(timeout time.Duration) bool {
	start := b.clock.Now()
	for b.clock.Since(start) < timeout {
		for _, key := range outcomeMarkers {
			if _, ok := b.locator.Locate(key); ok {
				// TODO: branch the cleanup clicks on win vs lose once the game needs it.
				b.log.Info("battle concluded (%s)", key)
				return true
			}
		}
		b.log.Info("battle in progress, waited %ds", int(b.clock.Since(start).Seconds()))
		b.clock.Sleep(constants.BattlePollInterval)
	}
	b.log.Warn("no battle outcome after %v", timeout)
	return false
}
