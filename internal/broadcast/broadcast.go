package broadcast

import (
	"sync"

	"hatparty/internal/events"
)

// Broadcaster drains a bus and copies every event to each subscriber.
type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan events.GameEvent]bool

	done chan struct{}
}

func NewBroadcaster(bus *events.Bus) *Broadcaster {
	b := &Broadcaster{
		Clients: make(map[chan events.GameEvent]bool),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(b.done)
		for ev := range bus.GameEvents {
			b.Broadcast(ev)
		}
	}()
	return b
}

// Done is closed once the bus channel has been closed and drained.
func (b *Broadcaster) Done() <-chan struct{} {
	return b.done
}

func (b *Broadcaster) Subscribe(buffer int) chan events.GameEvent {
	ch := make(chan events.GameEvent, buffer)
	b.Mu.Lock()
	b.Clients[ch] = true
	b.Mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan events.GameEvent) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	if b.Clients[ch] {
		delete(b.Clients, ch)
		close(ch)
	}
}

// Close closes every subscriber channel.
func (b *Broadcaster) Close() {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		delete(b.Clients, ch)
		close(ch)
	}
}

func (b *Broadcaster) Broadcast(ev events.GameEvent) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- ev:
		default:
			// skip clients with full data channels
		}
	}
}
