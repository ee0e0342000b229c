package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hatparty/internal/db"
)

func TestGetMatchRecap(t *testing.T) {
	database, err := db.Connect(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.Migrate())

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, database.CreateMatch(db.MatchRecord{ID: "m1", RoomCode: "ABCD", Mode: "compete", HostID: "a", StartedAt: start}))

	var hits []db.HitEvent
	for i := 0; i < 10; i++ {
		hatType := "maga"
		if i%2 == 1 {
			hatType = "ice"
		}
		hits = append(hits, db.HitEvent{MatchID: "m1", PlayerID: "a", HatID: "h", HatType: hatType, HatAgeMs: int64(1000 + i*10), HitAt: start})
	}
	hits = append(hits, db.HitEvent{MatchID: "m1", PlayerID: "b", HatID: "h", HatType: "ice", HatAgeMs: 3000, HitAt: start})
	require.NoError(t, database.BatchRecordHits(hits))

	require.NoError(t, database.AddMatchPlayer("m1", db.MatchPlayer{PlayerID: "a", Character: "penis", FinalScore: 10, Rank: 1}))
	require.NoError(t, database.AddMatchPlayer("m1", db.MatchPlayer{PlayerID: "b", Character: "vagina", FinalScore: 1, Rank: 2}))
	require.NoError(t, database.EndMatch("m1", start.Add(30*time.Second), "a", 0))

	recap, err := NewQueries(database).GetMatchRecap("m1")
	require.NoError(t, err)
	assert.Equal(t, "a", recap.WinnerID)
	require.Len(t, recap.Players, 2)

	a := recap.Players[0]
	assert.Equal(t, "a", a.PlayerID)
	assert.Equal(t, 10, a.HatsHit)
	assert.Equal(t, 5, a.MagaHats)
	assert.Equal(t, 5, a.IceHats)
	assert.InDelta(t, 1045, a.AvgHatAgeMs, 0.01)
	assert.EqualValues(t, 1000, a.FastestHitMs)
	assert.InDelta(t, 20, a.HitsPerMinute, 0.01)
	assert.True(t, hasAward(a.Awards, AwardSharpshooter))
	assert.True(t, hasAward(a.Awards, AwardQuickDraw))
	assert.True(t, hasAward(a.Awards, AwardTriggerHappy))

	b := recap.Players[1]
	assert.Equal(t, 1, b.HatsHit)
	assert.Empty(t, b.Awards)
}

func TestGetMatchRecap_NotFound(t *testing.T) {
	database, err := db.Connect(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.Migrate())

	_, err = NewQueries(database).GetMatchRecap("missing")
	assert.ErrorIs(t, err, db.ErrNotFound)
}
