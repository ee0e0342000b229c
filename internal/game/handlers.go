package game

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hatparty/internal/events"
	"hatparty/internal/players"
	"hatparty/internal/spawns"
)

func (c *Coordinator) handleJoin(id string, m *Join) {
	if c.state.Players.Has(id) {
		return
	}
	character := m.Character
	if !character.Valid() {
		character = players.CharacterPenis
		if c.rng.Float64() < 0.5 {
			character = players.CharacterVagina
		}
	}

	p := c.state.Players.Add(id, character)
	p.X = c.cfg.StartX
	p.Y = c.cfg.StartY
	p.Lives = c.cfg.PlayerLives

	if c.state.HostID == "" {
		c.state.HostID = id
	}
	c.log.Info("player joined", zap.String("player", id), zap.String("character", string(character)))

	c.broadcast(PlayerJoinedMessage{Type: TypePlayerJoined, Player: p})
	c.send(id, RoomStateMessage{Type: TypeRoomState, State: c.state, YourID: id})
}

func (c *Coordinator) handleSetMode(id string, m *SetMode) {
	if !c.isHost(id) || !m.Mode.Valid() || c.state.Phase != PhaseLobby {
		return
	}
	c.state.Mode = m.Mode

	switch m.Mode {
	case ModeCoop:
		c.state.SharedLives = c.cfg.SharedLives
		c.state.CombinedScore = 0
	case ModeCompete:
		c.state.TimeRemaining = c.state.GameDuration
		c.state.Players.ResetScores()
	}

	c.broadcast(ModeSetMessage{Type: TypeModeSet, Mode: m.Mode})
}

func (c *Coordinator) handleStartGame(id string) {
	if !c.isHost(id) || c.state.Players.Count() < 2 || c.state.Mode == ModeUnset {
		return
	}
	c.stopLoops()
	c.clearAllInvincibility()

	c.state.Phase = PhasePlaying
	c.state.Hats.Clear()
	c.state.Pizzas.Clear()
	c.state.Players.ResetAll(c.cfg.PlayerLives)
	c.state.Players.Each(func(i int, p *players.Player) {
		p.X = c.cfg.StartX + float64(i)*c.cfg.StartStepX
		p.Y = c.cfg.StartY
	})
	switch c.state.Mode {
	case ModeCoop:
		c.state.SharedLives = c.cfg.SharedLives
		c.state.CombinedScore = 0
	case ModeCompete:
		c.state.TimeRemaining = c.state.GameDuration
	}
	c.matchID = uuid.NewString()

	c.log.Info("game started",
		zap.String("match", c.matchID),
		zap.Stringer("mode", c.state.Mode),
		zap.Int("players", c.state.Players.Count()))
	c.metrics.GameStarted(c.state.Mode.String())
	c.publish(events.GameEvent{Kind: events.KindStarted, HostID: c.state.HostID})

	c.broadcast(GameStartMessage{Type: TypeGameStart, State: c.state})

	c.spawnHat()
	c.hatLoop = startLoop(c.clock, c.hatInterval, c.spawnHat)
	c.pizzaLoop = startLoop(c.clock, every(c.cfg.PizzaInterval), c.spawnPizza)
	if c.state.Mode == ModeCompete {
		c.countdown = startLoop(c.clock, every(c.cfg.CountdownInterval), c.tickCountdown)
	}
}

func (c *Coordinator) handlePlayerUpdate(id string, m *PlayerUpdate) {
	p := c.state.Players.Get(id)
	if p == nil {
		return
	}
	p.X = m.X
	p.Y = m.Y
	p.VelocityX = m.VelocityX
	p.VelocityY = m.VelocityY
	p.FacingRight = m.FacingRight
	p.IsWalking = m.IsWalking

	c.broadcastExcept(id, PlayerUpdateMessage{
		Type:        TypePlayerUpdate,
		PlayerID:    id,
		X:           m.X,
		Y:           m.Y,
		VelocityX:   m.VelocityX,
		VelocityY:   m.VelocityY,
		FacingRight: m.FacingRight,
		IsWalking:   m.IsWalking,
	})
}

func (c *Coordinator) handleShoot(id string, m *Shoot) {
	c.broadcastExcept(id, PlayerShootMessage{
		Type:      TypePlayerShoot,
		PlayerID:  id,
		X:         m.X,
		Y:         m.Y,
		VelocityX: m.VelocityX,
		VelocityY: m.VelocityY,
	})
}

func (c *Coordinator) handleHatHit(m *HatHit) {
	if c.state.Phase != PhasePlaying {
		return
	}
	hat, ok := c.state.Hats.Take(m.HatID)
	if !ok {
		// another client already reported this hat
		return
	}

	score := 0
	if p := c.state.Players.UpdateScore(m.PlayerID, 1); p != nil {
		score = p.Score
		if c.state.Mode == ModeCoop {
			c.state.CombinedScore++
		}
	}

	c.broadcast(HatDestroyedMessage{Type: TypeHatDestroyed, HatID: hat.ID, ByPlayerID: m.PlayerID})
	update := ScoreUpdateMessage{Type: TypeScoreUpdate, PlayerID: m.PlayerID, Score: score}
	if c.state.Mode == ModeCoop {
		update.CombinedScore = intPtr(c.state.CombinedScore)
	}
	c.broadcast(update)

	c.publish(events.GameEvent{
		Kind:     events.KindHatDestroyed,
		PlayerID: m.PlayerID,
		HatID:    hat.ID,
		HatType:  string(hat.Type),
		HatAgeMs: c.clock.Now().Sub(hat.SpawnedAt).Milliseconds(),
	})
}

func (c *Coordinator) handlePlayerHit(m *PlayerHit) {
	if c.state.Phase != PhasePlaying {
		return
	}
	p := c.state.Players.Get(m.PlayerID)
	if p == nil || p.IsInvincible {
		return
	}
	c.grantInvincibility(p.ID, c.cfg.HitInvincibility)

	if c.state.Mode == ModeCoop {
		if c.state.SharedLives > 0 {
			c.state.SharedLives--
		}
		c.broadcast(LivesMessage{
			Type:           TypePlayerDamaged,
			PlayerID:       p.ID,
			LivesRemaining: p.Lives,
			SharedLives:    intPtr(c.state.SharedLives),
		})
		if c.state.SharedLives == 0 {
			c.endGame()
		}
		return
	}

	if p.Lives > 0 {
		p.Lives--
	}
	c.broadcast(LivesMessage{Type: TypePlayerDamaged, PlayerID: p.ID, LivesRemaining: p.Lives})
	if c.allOut() {
		c.endGame()
	}
}

func (c *Coordinator) handlePizzaCollect(m *PizzaCollect) {
	if c.state.Phase != PhasePlaying {
		return
	}
	pizza, ok := c.state.Pizzas.Take(m.PizzaID)
	if !ok {
		return
	}
	p := c.state.Players.Get(m.PlayerID)

	switch pizza.Type {
	case spawns.PizzaHealth:
		if c.state.Mode == ModeCoop {
			c.state.SharedLives = min(c.cfg.SharedLives, c.state.SharedLives+1)
			lives := c.cfg.PlayerLives
			if p != nil {
				lives = p.Lives
			}
			c.broadcast(LivesMessage{
				Type:           TypePlayerHealed,
				PlayerID:       m.PlayerID,
				LivesRemaining: lives,
				SharedLives:    intPtr(c.state.SharedLives),
			})
		} else if p != nil {
			p.Lives = min(c.cfg.PlayerLives, p.Lives+1)
			c.broadcast(LivesMessage{Type: TypePlayerHealed, PlayerID: p.ID, LivesRemaining: p.Lives})
		}
	case spawns.PizzaInvincible:
		if p != nil {
			c.grantInvincibility(p.ID, c.cfg.PizzaInvincibility)
			c.broadcast(PlayerInvincibleMessage{
				Type:     TypePlayerInvincible,
				PlayerID: p.ID,
				Duration: c.cfg.PizzaInvincibility.Milliseconds(),
			})
		}
	}

	c.broadcast(PizzaCollectedMessage{
		Type:       TypePizzaCollected,
		PizzaID:    pizza.ID,
		ByPlayerID: m.PlayerID,
		PizzaType:  pizza.Type,
	})
}

func (c *Coordinator) handleRestartGame(id string) {
	if !c.isHost(id) {
		return
	}
	c.stopLoops()
	c.clearAllInvincibility()

	c.state.Phase = PhaseLobby
	c.state.Hats.Clear()
	c.state.Pizzas.Clear()
	c.state.SharedLives = c.cfg.SharedLives
	c.state.CombinedScore = 0
	c.state.TimeRemaining = c.state.GameDuration
	c.state.Players.ResetAll(c.cfg.PlayerLives)
	c.state.Players.Each(func(_ int, p *players.Player) {
		p.X = c.cfg.StartX
		p.Y = c.cfg.StartY
	})
	c.matchID = ""
	c.log.Info("game restarted")

	for _, connID := range c.conns.IDs() {
		c.send(connID, RoomStateMessage{Type: TypeRoomState, State: c.state, YourID: connID})
	}
}

// grantInvincibility marks the player invincible for d, replacing any
// pending clear from an earlier grant.
func (c *Coordinator) grantInvincibility(id string, d time.Duration) {
	p := c.state.Players.Get(id)
	if p == nil {
		return
	}
	c.clearInvincibility(id)
	p.IsInvincible = true
	c.invincible[id] = c.clock.AfterFunc(d, func() {
		delete(c.invincible, id)
		if p := c.state.Players.Get(id); p != nil {
			p.IsInvincible = false
		}
	})
}

// clearInvincibility cancels a pending clear without touching the flag.
func (c *Coordinator) clearInvincibility(id string) {
	if t, ok := c.invincible[id]; ok {
		t.Stop()
		delete(c.invincible, id)
	}
}

func (c *Coordinator) clearAllInvincibility() {
	for id, t := range c.invincible {
		t.Stop()
		delete(c.invincible, id)
	}
}

func (c *Coordinator) allOut() bool {
	out := true
	c.state.Players.Each(func(_ int, p *players.Player) {
		if p.Lives > 0 {
			out = false
		}
	})
	return out
}

func intPtr(v int) *int {
	return &v
}
