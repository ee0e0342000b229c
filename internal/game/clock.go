package game

import "time"

// Clock is the scheduling primitive a Coordinator runs its loops on. Callbacks
// passed to AfterFunc must be delivered on the same serialized stream as
// client messages.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

type Timer interface {
	Stop() bool
}

// loop re-arms a one-shot timer after every tick. next is asked for the
// delay before each tick, so intervals may vary.
type loop struct {
	clock   Clock
	next    func() time.Duration
	fn      func()
	timer   Timer
	stopped bool
}

func startLoop(clock Clock, next func() time.Duration, fn func()) *loop {
	l := &loop{clock: clock, next: next, fn: fn}
	l.arm()
	return l
}

func every(d time.Duration) func() time.Duration {
	return func() time.Duration { return d }
}

func (l *loop) arm() {
	l.timer = l.clock.AfterFunc(l.next(), l.tick)
}

func (l *loop) tick() {
	if l.stopped {
		return
	}
	l.fn()
	// fn may have stopped the loop (endGame from inside the countdown)
	if !l.stopped {
		l.arm()
	}
}

func (l *loop) stop() {
	if l == nil || l.stopped {
		return
	}
	l.stopped = true
	if l.timer != nil {
		l.timer.Stop()
	}
}
