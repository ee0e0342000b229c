package game

import (
	"encoding/json"
	"errors"
	"math/rand/v2"

	"go.uber.org/zap"

	"hatparty/internal/events"
	"hatparty/internal/metrics"
)

// Conns is the connection set of a room. Sends never block; a slow
// connection loses messages rather than stalling the room.
type Conns interface {
	Send(id string, data []byte)
	Broadcast(data []byte)
	BroadcastExcept(id string, data []byte)
	IDs() []string
}

type Publisher interface {
	Publish(ev events.GameEvent) bool
}

type Options struct {
	Code    string
	Config  Config
	Conns   Conns
	Clock   Clock
	Rand    *rand.Rand
	Logger  *zap.Logger
	Events  Publisher
	Metrics *metrics.Metrics
}

// Coordinator owns one room's GameState. None of its methods are safe for
// concurrent use: the caller delivers connection events, messages and
// Clock callbacks one at a time.
type Coordinator struct {
	cfg     Config
	state   *GameState
	conns   Conns
	clock   Clock
	rng     *rand.Rand
	log     *zap.Logger
	events  Publisher
	metrics *metrics.Metrics

	matchID    string
	hatLoop    *loop
	pizzaLoop  *loop
	countdown  *loop
	invincible map[string]Timer
}

func New(opts Options) *Coordinator {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		cfg:        opts.Config,
		state:      newGameState(opts.Code, opts.Config),
		conns:      opts.Conns,
		clock:      opts.Clock,
		rng:        rng,
		log:        log.With(zap.String("room", opts.Code)),
		events:     opts.Events,
		metrics:    opts.Metrics,
		invincible: make(map[string]Timer),
	}
}

// State exposes the live state. Callers must be on the room's stream.
func (c *Coordinator) State() *GameState {
	return c.state
}

type Summary struct {
	Code    string `json:"code"`
	Phase   Phase  `json:"phase"`
	Mode    string `json:"mode"`
	HostID  string `json:"hostId,omitempty"`
	Players int    `json:"players"`
	Hats    int    `json:"hats"`
	Pizzas  int    `json:"pizzas"`
}

func (c *Coordinator) Summary() Summary {
	return Summary{
		Code:    c.state.RoomCode,
		Phase:   c.state.Phase,
		Mode:    c.state.Mode.String(),
		HostID:  c.state.HostID,
		Players: c.state.Players.Count(),
		Hats:    c.state.Hats.Len(),
		Pizzas:  c.state.Pizzas.Len(),
	}
}

// OnConnect sends the connecting client a full snapshot tagged with its id.
func (c *Coordinator) OnConnect(id string) {
	c.send(id, RoomStateMessage{Type: TypeRoomState, State: c.state, YourID: id})
}

// OnDisconnect removes the player behind id, hands the host role to the
// earliest-joined remaining player and resets the room once it is empty.
func (c *Coordinator) OnDisconnect(id string) {
	if !c.state.Players.Remove(id) {
		return
	}
	c.clearInvincibility(id)

	newHost := ""
	if c.state.HostID == id {
		c.state.HostID, _ = c.state.Players.First()
		newHost = c.state.HostID
	}
	c.log.Info("player left", zap.String("player", id), zap.String("host", c.state.HostID))

	c.broadcast(PlayerLeftMessage{Type: TypePlayerLeft, PlayerID: id, HostID: newHost})

	if c.state.Players.Count() == 0 {
		c.reset()
		return
	}
	if c.state.Phase == PhasePlaying && c.state.Mode == ModeCompete && c.allOut() {
		c.endGame()
	}
}

// HandleMessage decodes a raw frame and applies it. Undecodable frames are
// dropped.
func (c *Coordinator) HandleMessage(id string, data []byte) {
	msg, err := DecodeClientMessage(data)
	if err != nil {
		reason := "malformed"
		if errors.Is(err, ErrUnknownMessage) {
			reason = "unknown_type"
		}
		c.metrics.Dropped(reason)
		c.log.Debug("dropping message", zap.String("conn", id), zap.Error(err))
		return
	}
	c.Handle(id, msg)
}

// Handle applies one decoded message from connection id.
func (c *Coordinator) Handle(id string, msg ClientMessage) {
	c.metrics.Message(msg.MessageType())
	switch m := msg.(type) {
	case *Join:
		c.handleJoin(id, m)
	case *SetMode:
		c.handleSetMode(id, m)
	case *StartGame:
		c.handleStartGame(id)
	case *PlayerUpdate:
		c.handlePlayerUpdate(id, m)
	case *Shoot:
		c.handleShoot(id, m)
	case *HatHit:
		c.handleHatHit(m)
	case *PlayerHit:
		c.handlePlayerHit(m)
	case *PizzaCollect:
		c.handlePizzaCollect(m)
	case *RestartGame:
		c.handleRestartGame(id)
	default:
		c.log.Debug("ignoring message", zap.String("type", msg.MessageType()))
	}
}

// Shutdown cancels every timer. The coordinator must not be used after.
func (c *Coordinator) Shutdown() {
	c.stopLoops()
	c.clearAllInvincibility()
}

// reset returns the room to a fresh lobby, keeping only its code.
func (c *Coordinator) reset() {
	c.stopLoops()
	c.clearAllInvincibility()
	c.matchID = ""
	c.state = newGameState(c.state.RoomCode, c.cfg)
	c.log.Info("room reset")
}

func (c *Coordinator) isHost(id string) bool {
	return id != "" && id == c.state.HostID
}

func (c *Coordinator) encode(msg any) ([]byte, bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("encoding message", zap.Error(err))
		return nil, false
	}
	return data, true
}

func (c *Coordinator) send(id string, msg any) {
	if data, ok := c.encode(msg); ok {
		c.conns.Send(id, data)
	}
}

func (c *Coordinator) broadcast(msg any) {
	if data, ok := c.encode(msg); ok {
		c.conns.Broadcast(data)
	}
}

func (c *Coordinator) broadcastExcept(id string, msg any) {
	if data, ok := c.encode(msg); ok {
		c.conns.BroadcastExcept(id, data)
	}
}

func (c *Coordinator) publish(ev events.GameEvent) {
	if c.events == nil {
		return
	}
	ev.RoomCode = c.state.RoomCode
	ev.MatchID = c.matchID
	ev.Mode = c.state.Mode.String()
	ev.At = c.clock.Now()
	if !c.events.Publish(ev) {
		c.log.Warn("event bus full, dropping event", zap.String("kind", string(ev.Kind)))
	}
}
