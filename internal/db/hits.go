package db

import (
	"fmt"
	"time"
)

type HitEvent struct {
	MatchID  string
	PlayerID string
	HatID    string
	HatType  string
	HatAgeMs int64
	HitAt    time.Time
}

func (d *DB) BatchRecordHits(events []HitEvent) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO hat_hits (match_id, player_id, hat_id, hat_type, hat_age_ms, hit_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(ev.MatchID, ev.PlayerID, ev.HatID, ev.HatType, ev.HatAgeMs, ev.HitAt.UTC()); err != nil {
			return fmt.Errorf("recording hit in batch: %w", err)
		}
	}

	return tx.Commit()
}
