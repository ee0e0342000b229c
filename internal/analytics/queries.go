package analytics

import (
	"fmt"

	"hatparty/internal/db"
)

type Queries struct {
	DB *db.DB
}

func NewQueries(database *db.DB) *Queries {
	return &Queries{DB: database}
}

func (q *Queries) GetPlayerMatchStats(matchID string, player db.MatchPlayer) (*PlayerMatchStats, error) {
	stats := &PlayerMatchStats{
		PlayerID:  player.PlayerID,
		Character: player.Character,
		Score:     player.FinalScore,
		Rank:      player.Rank,
	}

	err := q.DB.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN hat_type = 'maga' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN hat_type = 'ice' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(hat_age_ms), 0),
			COALESCE(MIN(hat_age_ms), 0)
		FROM hat_hits
		WHERE match_id = $1 AND player_id = $2
	`, matchID, player.PlayerID).Scan(&stats.HatsHit, &stats.MagaHats, &stats.IceHats, &stats.AvgHatAgeMs, &stats.FastestHitMs)
	if err != nil {
		return nil, fmt.Errorf("getting hit stats: %w", err)
	}
	return stats, nil
}

// GetMatchRecap assembles per-player stats and awards for one match.
func (q *Queries) GetMatchRecap(matchID string) (*MatchRecap, error) {
	m, err := q.DB.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	recap := &MatchRecap{
		MatchID:       m.ID,
		RoomCode:      m.RoomCode,
		Mode:          m.Mode,
		StartedAt:     m.StartedAt,
		EndedAt:       m.EndedAt,
		WinnerID:      m.WinnerID,
		CombinedScore: m.CombinedScore,
		Players:       []PlayerMatchStats{},
	}

	var minutes float64
	if m.EndedAt != nil {
		minutes = m.EndedAt.Sub(m.StartedAt).Minutes()
	}

	for _, p := range m.Players {
		stats, err := q.GetPlayerMatchStats(m.ID, p)
		if err != nil {
			return nil, err
		}
		if minutes > 0 {
			stats.HitsPerMinute = float64(stats.HatsHit) / minutes
		}
		stats.Awards = EvaluateMatchAwards(*stats)
		recap.Players = append(recap.Players, *stats)
	}
	return recap, nil
}
