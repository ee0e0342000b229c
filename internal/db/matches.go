package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type MatchRecord struct {
	ID            string        `json:"id"`
	RoomCode      string        `json:"roomCode"`
	Mode          string        `json:"mode"`
	HostID        string        `json:"hostId"`
	StartedAt     time.Time     `json:"startedAt"`
	EndedAt       *time.Time    `json:"endedAt"`
	WinnerID      string        `json:"winnerId,omitempty"`
	CombinedScore int           `json:"combinedScore"`
	Players       []MatchPlayer `json:"players"`
}

type MatchPlayer struct {
	PlayerID   string `json:"playerId"`
	Character  string `json:"character"`
	FinalScore int    `json:"finalScore"`
	Rank       int    `json:"rank"`
}

func (d *DB) CreateMatch(m MatchRecord) error {
	_, err := d.conn.Exec(`
		INSERT INTO matches (id, room_code, mode, host_id, started_at)
		VALUES ($1, $2, $3, $4, $5)
	`, m.ID, m.RoomCode, m.Mode, m.HostID, m.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("creating match: %w", err)
	}
	return nil
}

func (d *DB) EndMatch(matchID string, endedAt time.Time, winnerID string, combinedScore int) error {
	res, err := d.conn.Exec(`
		UPDATE matches SET ended_at = $1, winner_id = $2, combined_score = $3 WHERE id = $4
	`, endedAt.UTC(), winnerID, combinedScore, matchID)
	if err != nil {
		return fmt.Errorf("ending match: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("ending match %s: %w", matchID, ErrNotFound)
	}
	return nil
}

func (d *DB) AddMatchPlayer(matchID string, p MatchPlayer) error {
	_, err := d.conn.Exec(`
		INSERT INTO match_players (match_id, player_id, character_name, final_score, rank)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (match_id, player_id) DO UPDATE SET
			character_name = excluded.character_name,
			final_score = excluded.final_score,
			rank = excluded.rank
	`, matchID, p.PlayerID, p.Character, p.FinalScore, p.Rank)
	if err != nil {
		return fmt.Errorf("adding match player: %w", err)
	}
	return nil
}

func (d *DB) GetMatch(matchID string) (*MatchRecord, error) {
	var m MatchRecord
	err := d.conn.QueryRow(`
		SELECT id, room_code, mode, host_id, started_at, ended_at, winner_id, combined_score
		FROM matches WHERE id = $1
	`, matchID).Scan(&m.ID, &m.RoomCode, &m.Mode, &m.HostID, &m.StartedAt, &m.EndedAt, &m.WinnerID, &m.CombinedScore)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting match %s: %w", matchID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting match: %w", err)
	}
	if m.Players, err = d.matchPlayers(m.ID); err != nil {
		return nil, err
	}
	return &m, nil
}

// RoomHistory returns the most recent matches played in a room, newest
// first.
func (d *DB) RoomHistory(roomCode string, limit int) ([]MatchRecord, error) {
	rows, err := d.conn.Query(`
		SELECT id, room_code, mode, host_id, started_at, ended_at, winner_id, combined_score
		FROM matches
		WHERE room_code = $1
		ORDER BY started_at DESC
		LIMIT $2
	`, roomCode, limit)
	if err != nil {
		return nil, fmt.Errorf("getting room history: %w", err)
	}
	defer rows.Close()

	history := []MatchRecord{}
	for rows.Next() {
		var m MatchRecord
		if err := rows.Scan(&m.ID, &m.RoomCode, &m.Mode, &m.HostID, &m.StartedAt, &m.EndedAt, &m.WinnerID, &m.CombinedScore); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		history = append(history, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("getting room history: %w", err)
	}
	// players are loaded after the cursor is closed; SQLite runs on one connection
	rows.Close()

	for i := range history {
		if history[i].Players, err = d.matchPlayers(history[i].ID); err != nil {
			return nil, err
		}
	}
	return history, nil
}

func (d *DB) matchPlayers(matchID string) ([]MatchPlayer, error) {
	rows, err := d.conn.Query(`
		SELECT player_id, character_name, final_score, rank
		FROM match_players
		WHERE match_id = $1
		ORDER BY rank, player_id
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("getting match players: %w", err)
	}
	defer rows.Close()

	players := []MatchPlayer{}
	for rows.Next() {
		var p MatchPlayer
		if err := rows.Scan(&p.PlayerID, &p.Character, &p.FinalScore, &p.Rank); err != nil {
			return nil, fmt.Errorf("scanning match player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
