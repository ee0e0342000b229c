// Package recorder persists match lifecycle events. Hat hits are buffered
// and written in batches.
package recorder

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"hatparty/internal/db"
	"hatparty/internal/events"
)

const (
	flushInterval = 500 * time.Millisecond
	batchSize     = 50
)

type Store interface {
	CreateMatch(m db.MatchRecord) error
	EndMatch(matchID string, endedAt time.Time, winnerID string, combinedScore int) error
	AddMatchPlayer(matchID string, p db.MatchPlayer) error
	BatchRecordHits(events []db.HitEvent) error
}

type Recorder struct {
	store    Store
	log      *zap.Logger
	interval time.Duration
	batch    []db.HitEvent
}

func New(store Store, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{
		store:    store,
		log:      log.Named("recorder"),
		interval: flushInterval,
		batch:    make([]db.HitEvent, 0, batchSize),
	}
}

// Run consumes events until ch is closed or ctx is done. Buffered hits are
// flushed before it returns.
func (r *Recorder) Run(ctx context.Context, ch <-chan events.GameEvent) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer r.flush()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			r.handle(ev)
		case <-ticker.C:
			r.flush()
		}
	}
}

func (r *Recorder) handle(ev events.GameEvent) {
	if ev.MatchID == "" {
		return
	}
	switch ev.Kind {
	case events.KindStarted:
		err := r.store.CreateMatch(db.MatchRecord{
			ID:        ev.MatchID,
			RoomCode:  ev.RoomCode,
			Mode:      ev.Mode,
			HostID:    ev.HostID,
			StartedAt: ev.At,
		})
		if err != nil {
			r.log.Error("creating match", zap.String("match", ev.MatchID), zap.Error(err))
		}
	case events.KindHatDestroyed:
		r.batch = append(r.batch, db.HitEvent{
			MatchID:  ev.MatchID,
			PlayerID: ev.PlayerID,
			HatID:    ev.HatID,
			HatType:  ev.HatType,
			HatAgeMs: ev.HatAgeMs,
			HitAt:    ev.At,
		})
		if len(r.batch) >= batchSize {
			r.flush()
		}
	case events.KindEnded:
		// hits reference the match; write them before closing it
		r.flush()
		for _, p := range Rank(ev.FinalScores, ev.Characters) {
			if err := r.store.AddMatchPlayer(ev.MatchID, p); err != nil {
				r.log.Error("adding match player", zap.String("match", ev.MatchID), zap.Error(err))
			}
		}
		if err := r.store.EndMatch(ev.MatchID, ev.At, ev.Winner, ev.CombinedScore); err != nil {
			r.log.Error("ending match", zap.String("match", ev.MatchID), zap.Error(err))
		}
	}
}

func (r *Recorder) flush() {
	if len(r.batch) == 0 {
		return
	}
	if err := r.store.BatchRecordHits(r.batch); err != nil {
		r.log.Error("recording hits", zap.Int("count", len(r.batch)), zap.Error(err))
	}
	r.batch = r.batch[:0]
}

// Rank orders players by score, highest first. Equal scores share a rank
// and the next rank skips accordingly.
func Rank(scores map[string]int, characters map[string]string) []db.MatchPlayer {
	out := make([]db.MatchPlayer, 0, len(scores))
	for id, score := range scores {
		out = append(out, db.MatchPlayer{PlayerID: id, Character: characters[id], FinalScore: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FinalScore != out[j].FinalScore {
			return out[i].FinalScore > out[j].FinalScore
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	for i := range out {
		if i > 0 && out[i].FinalScore == out[i-1].FinalScore {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	return out
}
