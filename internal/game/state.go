package game

import (
	"encoding/json"

	"hatparty/internal/players"
	"hatparty/internal/spawns"
)

type Phase string

const (
	PhaseLobby    = Phase("lobby")
	PhasePlaying  = Phase("playing")
	PhaseGameOver = Phase("gameover")
)

type Mode string

const (
	ModeUnset   = Mode("")
	ModeCoop    = Mode("coop")
	ModeCompete = Mode("compete")
)

func (m Mode) Valid() bool {
	return m == ModeCoop || m == ModeCompete
}

// String names the mode for labels and logs.
func (m Mode) String() string {
	if m == ModeUnset {
		return "unset"
	}
	return string(m)
}

// GameState is the authoritative state of one room.
type GameState struct {
	Phase    Phase
	Mode     Mode
	Players  *players.Store
	Hats     *spawns.Store[spawns.Hat]
	Pizzas   *spawns.Store[spawns.Pizza]
	HostID   string
	RoomCode string

	SharedLives   int
	CombinedScore int

	TimeRemaining int
	GameDuration  int
}

func newGameState(code string, cfg Config) *GameState {
	return &GameState{
		Phase:         PhaseLobby,
		Mode:          ModeUnset,
		Players:       players.NewStore(),
		Hats:          spawns.NewStore[spawns.Hat](),
		Pizzas:        spawns.NewStore[spawns.Pizza](),
		RoomCode:      code,
		SharedLives:   cfg.SharedLives,
		TimeRemaining: cfg.GameDuration,
		GameDuration:  cfg.GameDuration,
	}
}

type gameStateJSON struct {
	Phase         Phase                      `json:"phase"`
	Mode          *Mode                      `json:"mode"`
	Players       map[string]*players.Player `json:"players"`
	Hats          []spawns.Hat               `json:"hats"`
	Pizzas        []spawns.Pizza             `json:"pizzas"`
	HostID        *string                    `json:"hostId"`
	RoomCode      string                     `json:"roomCode"`
	SharedLives   int                        `json:"sharedLives"`
	CombinedScore int                        `json:"combinedScore"`
	TimeRemaining int                        `json:"timeRemaining"`
	GameDuration  int                        `json:"gameDuration"`
}

// MarshalJSON renders the wire snapshot: an unset mode and a missing host
// encode as null.
func (s *GameState) MarshalJSON() ([]byte, error) {
	out := gameStateJSON{
		Phase:         s.Phase,
		Players:       make(map[string]*players.Player, s.Players.Count()),
		Hats:          s.Hats.GetList(),
		Pizzas:        s.Pizzas.GetList(),
		RoomCode:      s.RoomCode,
		SharedLives:   s.SharedLives,
		CombinedScore: s.CombinedScore,
		TimeRemaining: s.TimeRemaining,
		GameDuration:  s.GameDuration,
	}
	if s.Mode != ModeUnset {
		mode := s.Mode
		out.Mode = &mode
	}
	if s.HostID != "" {
		host := s.HostID
		out.HostID = &host
	}
	for _, p := range s.Players.GetList() {
		out.Players[p.ID] = p
	}
	return json.Marshal(out)
}
