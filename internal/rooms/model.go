package rooms

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"hatparty/internal/game"
	"hatparty/internal/wshub"
)

var ErrRoomClosed = errors.New("room closed")

const inboxSize = 256

// Room runs one game on a single goroutine. Connection events, client
// messages and timer callbacks are queued on the inbox and applied in order.
type Room struct {
	Code      string
	CreatedAt time.Time
	Hub       *wshub.Hub

	game  *game.Coordinator
	log   *zap.Logger
	inbox chan func()

	stopOnce sync.Once
	done     chan struct{}
	stopped  chan struct{}

	// unix nanos since the last connection left; 0 while anyone is connected
	idleSince atomic.Int64
}

func newRoom(code string, opts Options) *Room {
	r := &Room{
		Code:      code,
		CreatedAt: time.Now(),
		Hub:       wshub.NewHub(opts.Metrics),
		log:       opts.Logger.With(zap.String("room", code)),
		inbox:     make(chan func(), inboxSize),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	r.idleSince.Store(r.CreatedAt.UnixNano())

	var pub game.Publisher
	if opts.Events != nil {
		pub = opts.Events
	}
	r.game = game.New(game.Options{
		Code:    code,
		Config:  opts.Game,
		Conns:   r.Hub,
		Clock:   loopClock{room: r},
		Logger:  opts.Logger,
		Events:  pub,
		Metrics: opts.Metrics,
	})

	go r.run()
	return r
}

func (r *Room) run() {
	defer close(r.stopped)
	for {
		select {
		case fn := <-r.inbox:
			fn()
		case <-r.done:
			r.game.Shutdown()
			r.Hub.CloseAll()
			r.log.Debug("room loop stopped")
			return
		}
	}
}

// post queues fn for the loop. It reports false once the room is stopped.
func (r *Room) post(fn func()) bool {
	select {
	case <-r.done:
		return false
	default:
	}
	select {
	case r.inbox <- fn:
		return true
	case <-r.done:
		return false
	}
}

// Connect registers c and sends it the current snapshot.
func (r *Room) Connect(c *wshub.Client) error {
	ok := r.post(func() {
		r.Hub.Register(c)
		r.idleSince.Store(0)
		r.game.OnConnect(c.ID)
	})
	if !ok {
		return ErrRoomClosed
	}
	return nil
}

// Message queues one raw client frame.
func (r *Room) Message(id string, data []byte) {
	r.post(func() {
		r.game.HandleMessage(id, data)
	})
}

// Disconnect unregisters the connection and removes its player.
func (r *Room) Disconnect(id string) {
	r.post(func() {
		r.Hub.Unregister(id)
		r.game.OnDisconnect(id)
		if r.Hub.Count() == 0 {
			r.idleSince.Store(time.Now().UnixNano())
		}
	})
}

// Do runs fn on the loop and waits for it to finish.
func (r *Room) Do(fn func(g *game.Coordinator)) error {
	finished := make(chan struct{})
	ok := r.post(func() {
		defer close(finished)
		fn(r.game)
	})
	if !ok {
		return ErrRoomClosed
	}
	select {
	case <-finished:
		return nil
	case <-r.stopped:
		return ErrRoomClosed
	}
}

func (r *Room) Summary() (game.Summary, error) {
	var s game.Summary
	err := r.Do(func(g *game.Coordinator) {
		s = g.Summary()
	})
	return s, err
}

// IdleSince returns when the last connection left, or the zero time while
// the room has connections.
func (r *Room) IdleSince() time.Time {
	ns := r.idleSince.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Stop ends the loop, cancels the game's timers and closes every client.
// It blocks until the loop has exited.
func (r *Room) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
	})
	<-r.stopped
}
