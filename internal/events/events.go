package events

import "time"

type Kind string

const (
	KindStarted      = Kind("started")
	KindHatDestroyed = Kind("hatDestroyed")
	KindEnded        = Kind("ended")
)

// GameEvent describes a match lifecycle step of one room. Fields that do not
// apply to a kind are left zero.
type GameEvent struct {
	Kind     Kind      `json:"kind"`
	RoomCode string    `json:"roomCode"`
	MatchID  string    `json:"matchId"`
	Mode     string    `json:"mode,omitempty"`
	HostID   string    `json:"hostId,omitempty"`
	At       time.Time `json:"at"`

	// hatDestroyed
	PlayerID string `json:"playerId,omitempty"`
	HatID    string `json:"hatId,omitempty"`
	HatType  string `json:"hatType,omitempty"`
	HatAgeMs int64  `json:"hatAgeMs,omitempty"`

	// ended
	Winner        string            `json:"winner,omitempty"`
	FinalScores   map[string]int    `json:"finalScores,omitempty"`
	Characters    map[string]string `json:"characters,omitempty"`
	CombinedScore int               `json:"combinedScore,omitempty"`
}

type Bus struct {
	GameEvents chan GameEvent
}

func NewBus() *Bus {
	return &Bus{
		GameEvents: make(chan GameEvent, 256),
	}
}

// Publish queues ev without blocking. It reports false when the bus is full
// and the event was dropped.
func (b *Bus) Publish(ev GameEvent) bool {
	select {
	case b.GameEvents <- ev:
		return true
	default:
		return false
	}
}
