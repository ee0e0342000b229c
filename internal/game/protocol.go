package game

import (
	"encoding/json"
	"fmt"

	"hatparty/internal/players"
	"hatparty/internal/spawns"
)

// Client message types.
const (
	TypeJoin         = "join"
	TypeSetMode      = "setMode"
	TypeStartGame    = "startGame"
	TypePlayerUpdate = "playerUpdate"
	TypeShoot        = "shoot"
	TypeHatHit       = "hatHit"
	TypePlayerHit    = "playerHit"
	TypePizzaCollect = "pizzaCollect"
	TypeRestartGame  = "restartGame"
)

// Server message types not shared with the client set.
const (
	TypeRoomState        = "roomState"
	TypePlayerJoined     = "playerJoined"
	TypePlayerLeft       = "playerLeft"
	TypeModeSet          = "modeSet"
	TypeGameStart        = "gameStart"
	TypePlayerShoot      = "playerShoot"
	TypeHatSpawn         = "hatSpawn"
	TypeHatDestroyed     = "hatDestroyed"
	TypePizzaSpawn       = "pizzaSpawn"
	TypePizzaCollected   = "pizzaCollected"
	TypePlayerDamaged    = "playerDamaged"
	TypePlayerHealed     = "playerHealed"
	TypePlayerInvincible = "playerInvincible"
	TypeScoreUpdate      = "scoreUpdate"
	TypeTimerUpdate      = "timerUpdate"
	TypeGameOver         = "gameOver"
)

// ClientMessage is one of the message structs below. The set is closed:
// only types in this package implement it.
type ClientMessage interface {
	clientMessage()
	MessageType() string
}

type Join struct {
	Character players.Character `json:"character,omitempty"`
}

type SetMode struct {
	Mode Mode `json:"mode"`
}

type StartGame struct{}

type PlayerUpdate struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	VelocityX   float64 `json:"velocityX"`
	VelocityY   float64 `json:"velocityY"`
	FacingRight bool    `json:"facingRight"`
	IsWalking   bool    `json:"isWalking"`
}

type Shoot struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VelocityX float64 `json:"velocityX"`
	VelocityY float64 `json:"velocityY"`
}

type HatHit struct {
	HatID    string `json:"hatId"`
	PlayerID string `json:"playerId"`
}

type PlayerHit struct {
	PlayerID string `json:"playerId"`
}

type PizzaCollect struct {
	PizzaID  string `json:"pizzaId"`
	PlayerID string `json:"playerId"`
}

type RestartGame struct{}

func (*Join) clientMessage()         {}
func (*SetMode) clientMessage()      {}
func (*StartGame) clientMessage()    {}
func (*PlayerUpdate) clientMessage() {}
func (*Shoot) clientMessage()        {}
func (*HatHit) clientMessage()       {}
func (*PlayerHit) clientMessage()    {}
func (*PizzaCollect) clientMessage() {}
func (*RestartGame) clientMessage()  {}

func (*Join) MessageType() string         { return TypeJoin }
func (*SetMode) MessageType() string      { return TypeSetMode }
func (*StartGame) MessageType() string    { return TypeStartGame }
func (*PlayerUpdate) MessageType() string { return TypePlayerUpdate }
func (*Shoot) MessageType() string        { return TypeShoot }
func (*HatHit) MessageType() string       { return TypeHatHit }
func (*PlayerHit) MessageType() string    { return TypePlayerHit }
func (*PizzaCollect) MessageType() string { return TypePizzaCollect }
func (*RestartGame) MessageType() string  { return TypeRestartGame }

// DecodeClientMessage parses one JSON text frame. Errors wrap
// ErrMalformedMessage or ErrUnknownMessage.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	var msg ClientMessage
	switch envelope.Type {
	case TypeJoin:
		msg = &Join{}
	case TypeSetMode:
		msg = &SetMode{}
	case TypeStartGame:
		msg = &StartGame{}
	case TypePlayerUpdate:
		msg = &PlayerUpdate{}
	case TypeShoot:
		msg = &Shoot{}
	case TypeHatHit:
		msg = &HatHit{}
	case TypePlayerHit:
		msg = &PlayerHit{}
	case TypePizzaCollect:
		msg = &PizzaCollect{}
	case TypeRestartGame:
		msg = &RestartGame{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, envelope.Type)
	}

	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedMessage, envelope.Type, err)
	}
	return msg, nil
}

// Server to client messages.

type RoomStateMessage struct {
	Type   string     `json:"type"`
	State  *GameState `json:"state"`
	YourID string     `json:"yourId"`
}

type PlayerJoinedMessage struct {
	Type   string          `json:"type"`
	Player *players.Player `json:"player"`
}

type PlayerLeftMessage struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	HostID   string `json:"hostId,omitempty"`
}

type ModeSetMessage struct {
	Type string `json:"type"`
	Mode Mode   `json:"mode"`
}

type GameStartMessage struct {
	Type  string     `json:"type"`
	State *GameState `json:"state"`
}

type PlayerUpdateMessage struct {
	Type        string  `json:"type"`
	PlayerID    string  `json:"playerId"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	VelocityX   float64 `json:"velocityX"`
	VelocityY   float64 `json:"velocityY"`
	FacingRight bool    `json:"facingRight"`
	IsWalking   bool    `json:"isWalking"`
}

type PlayerShootMessage struct {
	Type      string  `json:"type"`
	PlayerID  string  `json:"playerId"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VelocityX float64 `json:"velocityX"`
	VelocityY float64 `json:"velocityY"`
}

type HatSpawnMessage struct {
	Type string     `json:"type"`
	Hat  spawns.Hat `json:"hat"`
}

type HatDestroyedMessage struct {
	Type       string `json:"type"`
	HatID      string `json:"hatId"`
	ByPlayerID string `json:"byPlayerId"`
}

type PizzaSpawnMessage struct {
	Type  string       `json:"type"`
	Pizza spawns.Pizza `json:"pizza"`
}

type PizzaCollectedMessage struct {
	Type       string           `json:"type"`
	PizzaID    string           `json:"pizzaId"`
	ByPlayerID string           `json:"byPlayerId"`
	PizzaType  spawns.PizzaType `json:"pizzaType"`
}

// LivesMessage carries both playerDamaged and playerHealed.
type LivesMessage struct {
	Type           string `json:"type"`
	PlayerID       string `json:"playerId"`
	LivesRemaining int    `json:"livesRemaining"`
	SharedLives    *int   `json:"sharedLives,omitempty"`
}

type PlayerInvincibleMessage struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Duration int64  `json:"duration"` // milliseconds
}

type ScoreUpdateMessage struct {
	Type          string `json:"type"`
	PlayerID      string `json:"playerId"`
	Score         int    `json:"score"`
	CombinedScore *int   `json:"combinedScore,omitempty"`
}

type TimerUpdateMessage struct {
	Type          string `json:"type"`
	TimeRemaining int    `json:"timeRemaining"`
}

type GameOverMessage struct {
	Type          string         `json:"type"`
	Winner        string         `json:"winner,omitempty"`
	FinalScores   map[string]int `json:"finalScores"`
	CombinedScore *int           `json:"combinedScore,omitempty"`
}
