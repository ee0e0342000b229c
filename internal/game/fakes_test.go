package game

import (
	"encoding/json"
	"math/rand/v2"
	"sort"
	"testing"
	"time"

	"go.uber.org/zap"

	"hatparty/internal/events"
)

// fakeClock fires timers only when Advance is called, in deadline order.
type fakeClock struct {
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.seq++
	t := &fakeTimer{at: c.now.Add(d), seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) Advance(d time.Duration) {
	target := c.now.Add(d)
	for {
		next := c.nextDue(target)
		if next == nil {
			break
		}
		c.now = next.at
		next.fired = true
		next.fn()
	}
	c.now = target
}

func (c *fakeClock) nextDue(target time.Time) *fakeTimer {
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	return due[0]
}

// Pending counts timers that are armed and not yet fired.
func (c *fakeClock) Pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// fakeConns records every frame delivered to each connection.
type fakeConns struct {
	ids   []string
	inbox map[string][]map[string]any
}

func newFakeConns() *fakeConns {
	return &fakeConns{inbox: make(map[string][]map[string]any)}
}

func (f *fakeConns) add(id string) {
	f.ids = append(f.ids, id)
}

func (f *fakeConns) remove(id string) {
	for i, v := range f.ids {
		if v == id {
			f.ids = append(f.ids[:i], f.ids[i+1:]...)
			return
		}
	}
}

func (f *fakeConns) deliver(id string, data []byte) {
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		panic(err)
	}
	f.inbox[id] = append(f.inbox[id], msg)
}

func (f *fakeConns) Send(id string, data []byte) {
	for _, v := range f.ids {
		if v == id {
			f.deliver(id, data)
		}
	}
}

func (f *fakeConns) Broadcast(data []byte) {
	for _, id := range f.ids {
		f.deliver(id, data)
	}
}

func (f *fakeConns) BroadcastExcept(except string, data []byte) {
	for _, id := range f.ids {
		if id != except {
			f.deliver(id, data)
		}
	}
}

func (f *fakeConns) IDs() []string {
	return append([]string(nil), f.ids...)
}

// of returns the messages of type typ that id received, in order.
func (f *fakeConns) of(id, typ string) []map[string]any {
	var out []map[string]any
	for _, m := range f.inbox[id] {
		if m["type"] == typ {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeConns) clear() {
	f.inbox = make(map[string][]map[string]any)
}

type recordingBus struct {
	events []events.GameEvent
}

func (b *recordingBus) Publish(ev events.GameEvent) bool {
	b.events = append(b.events, ev)
	return true
}

type harness struct {
	t     *testing.T
	c     *Coordinator
	clock *fakeClock
	conns *fakeConns
	bus   *recordingBus
}

func newHarness(t *testing.T, mutate ...func(*Config)) *harness {
	t.Helper()
	cfg := DefaultConfig()
	for _, fn := range mutate {
		fn(&cfg)
	}
	h := &harness{
		t:     t,
		clock: newFakeClock(),
		conns: newFakeConns(),
		bus:   &recordingBus{},
	}
	h.c = New(Options{
		Code:   "ABCD",
		Config: cfg,
		Conns:  h.conns,
		Clock:  h.clock,
		Rand:   rand.New(rand.NewPCG(1, 2)),
		Logger: zap.NewNop(),
		Events: h.bus,
	})
	return h
}

func (h *harness) connect(ids ...string) {
	for _, id := range ids {
		h.conns.add(id)
		h.c.OnConnect(id)
	}
}

func (h *harness) disconnect(id string) {
	h.conns.remove(id)
	h.c.OnDisconnect(id)
}

func (h *harness) send(id string, raw string) {
	h.c.HandleMessage(id, []byte(raw))
}

// joinAll connects and joins ids in order; the first becomes host.
func (h *harness) joinAll(ids ...string) {
	for _, id := range ids {
		h.connect(id)
		h.send(id, `{"type":"join","character":"penis"}`)
	}
}

// start joins ids, sets mode and starts a round with ids[0] as host.
func (h *harness) start(mode Mode, ids ...string) {
	h.joinAll(ids...)
	h.send(ids[0], `{"type":"setMode","mode":"`+string(mode)+`"}`)
	h.send(ids[0], `{"type":"startGame"}`)
	if h.c.State().Phase != PhasePlaying {
		h.t.Fatalf("phase = %q after startGame, want playing", h.c.State().Phase)
	}
}
