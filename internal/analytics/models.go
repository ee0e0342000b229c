package analytics

import "time"

type PlayerMatchStats struct {
	PlayerID      string  `json:"playerId"`
	Character     string  `json:"character"`
	Score         int     `json:"score"`
	Rank          int     `json:"rank"`
	HatsHit       int     `json:"hatsHit"`
	MagaHats      int     `json:"magaHats"`
	IceHats       int     `json:"iceHats"`
	AvgHatAgeMs   float64 `json:"avgHatAgeMs"`
	FastestHitMs  int64   `json:"fastestHitMs"`
	HitsPerMinute float64 `json:"hitsPerMinute"`
	Awards        []Award `json:"awards"`
}

type MatchRecap struct {
	MatchID       string             `json:"matchId"`
	RoomCode      string             `json:"roomCode"`
	Mode          string             `json:"mode"`
	StartedAt     time.Time          `json:"startedAt"`
	EndedAt       *time.Time         `json:"endedAt"`
	WinnerID      string             `json:"winnerId,omitempty"`
	CombinedScore int                `json:"combinedScore"`
	Players       []PlayerMatchStats `json:"players"`
}
