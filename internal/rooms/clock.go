package rooms

import (
	"time"

	"hatparty/internal/game"
)

// loopClock schedules callbacks on wall-clock timers and runs them on the
// room's loop goroutine.
type loopClock struct {
	room *Room
}

func (c loopClock) Now() time.Time {
	return time.Now()
}

func (c loopClock) AfterFunc(d time.Duration, fn func()) game.Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		c.room.post(func() {
			// Stop may have run after the timer fired but before this turn
			if t.cancelled {
				return
			}
			fn()
		})
	})
	return t
}

// loopTimer is only touched from the loop goroutine.
type loopTimer struct {
	timer     *time.Timer
	cancelled bool
}

func (t *loopTimer) Stop() bool {
	t.cancelled = true
	return t.timer.Stop()
}
