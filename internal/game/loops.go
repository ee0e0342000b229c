package game

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"hatparty/internal/events"
	"hatparty/internal/players"
	"hatparty/internal/spawns"
)

// Entities spawn past the right edge; clients translate x into camera space.
const spawnX = 2000

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func (c *Coordinator) hatInterval() time.Duration {
	spread := c.cfg.HatIntervalMax - c.cfg.HatIntervalMin
	if spread <= 0 {
		return c.cfg.HatIntervalMin
	}
	return c.cfg.HatIntervalMin + time.Duration(c.rng.Int64N(int64(spread)+1))
}

func (c *Coordinator) spawnHat() {
	if c.state.Phase != PhasePlaying {
		return
	}
	now := c.clock.Now()
	c.expireEntities(now)

	hatType := spawns.HatMaga
	if c.rng.Float64() >= 0.5 {
		hatType = spawns.HatIce
	}
	y := 100 + c.rng.Float64()*300
	hat := spawns.Hat{
		ID:        c.entityID("hat", now),
		Type:      hatType,
		X:         spawnX,
		Y:         y,
		BaseY:     y,
		Speed:     100 + c.rng.Float64()*150,
		Scale:     0.15 + c.rng.Float64()*0.1,
		BobOffset: c.rng.Float64() * math.Pi * 2,
		BobSpeed:  2 + c.rng.Float64()*2,
		SpawnedAt: now,
	}
	c.state.Hats.Add(hat)
	c.broadcast(HatSpawnMessage{Type: TypeHatSpawn, Hat: hat})
}

func (c *Coordinator) spawnPizza() {
	if c.state.Phase != PhasePlaying {
		return
	}
	now := c.clock.Now()
	c.expireEntities(now)

	pizzaType := spawns.PizzaHealth
	if c.rng.Float64() >= 0.5 {
		pizzaType = spawns.PizzaInvincible
	}
	y := 150 + c.rng.Float64()*250
	pizza := spawns.Pizza{
		ID:        c.entityID("pizza", now),
		Type:      pizzaType,
		X:         spawnX,
		Y:         y,
		BaseY:     y,
		Speed:     80 + c.rng.Float64()*40,
		BobOffset: c.rng.Float64() * math.Pi * 2,
		SpawnedAt: now,
	}
	c.state.Pizzas.Add(pizza)
	c.broadcast(PizzaSpawnMessage{Type: TypePizzaSpawn, Pizza: pizza})
}

// expireEntities drops hats and pizzas no client claimed in time. Clients
// cull them off-screen on their own, so nothing is broadcast.
func (c *Coordinator) expireEntities(now time.Time) {
	hats := c.state.Hats.Expire(now, c.cfg.EntityTTL)
	pizzas := c.state.Pizzas.Expire(now, c.cfg.EntityTTL)
	if hats+pizzas > 0 {
		c.log.Debug("expired entities", zap.Int("hats", hats), zap.Int("pizzas", pizzas))
	}
}

func (c *Coordinator) tickCountdown() {
	if c.state.Phase != PhasePlaying {
		return
	}
	if c.state.TimeRemaining > 0 {
		c.state.TimeRemaining--
	}
	c.broadcast(TimerUpdateMessage{Type: TypeTimerUpdate, TimeRemaining: c.state.TimeRemaining})
	if c.state.TimeRemaining <= 0 {
		c.endGame()
	}
}

func (c *Coordinator) stopLoops() {
	c.hatLoop.stop()
	c.pizzaLoop.stop()
	c.countdown.stop()
	c.hatLoop, c.pizzaLoop, c.countdown = nil, nil, nil
}

func (c *Coordinator) endGame() {
	if c.state.Phase != PhasePlaying {
		return
	}
	c.state.Phase = PhaseGameOver
	c.stopLoops()

	finalScores := c.state.Players.Scores()
	msg := GameOverMessage{Type: TypeGameOver, FinalScores: finalScores}
	if c.state.Mode == ModeCompete {
		msg.Winner = Winner(c.state.Players.GetList())
	}
	if c.state.Mode == ModeCoop {
		msg.CombinedScore = intPtr(c.state.CombinedScore)
	}

	c.log.Info("game over",
		zap.String("match", c.matchID),
		zap.String("winner", msg.Winner),
		zap.Int("combinedScore", c.state.CombinedScore))
	c.metrics.GameEnded(c.state.Mode.String())

	characters := make(map[string]string, c.state.Players.Count())
	c.state.Players.Each(func(_ int, p *players.Player) {
		characters[p.ID] = string(p.Character)
	})
	c.publish(events.GameEvent{
		Kind:          events.KindEnded,
		HostID:        c.state.HostID,
		Winner:        msg.Winner,
		FinalScores:   finalScores,
		Characters:    characters,
		CombinedScore: c.state.CombinedScore,
	})

	c.broadcast(msg)
}

// Winner returns the id of the strictly highest scorer, or "" when the top
// score is shared or there are no players.
func Winner(list []*players.Player) string {
	winner := ""
	best := math.MinInt
	tied := false
	for _, p := range list {
		switch {
		case p.Score > best:
			best = p.Score
			winner = p.ID
			tied = false
		case p.Score == best:
			tied = true
		}
	}
	if tied {
		return ""
	}
	return winner
}

func (c *Coordinator) entityID(prefix string, now time.Time) string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = idAlphabet[c.rng.IntN(len(idAlphabet))]
	}
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), suffix)
}
