package game

import "time"

type Config struct {
	GameDuration int // seconds, compete mode

	SharedLives int
	PlayerLives int

	StartX     float64
	StartStepX float64
	StartY     float64

	HatIntervalMin     time.Duration
	HatIntervalMax     time.Duration
	PizzaInterval      time.Duration
	CountdownInterval  time.Duration
	HitInvincibility   time.Duration
	PizzaInvincibility time.Duration

	// EntityTTL bounds how long an unclaimed hat or pizza stays in the
	// room. Zero keeps entities until they are hit or collected.
	EntityTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		GameDuration:       90,
		SharedLives:        6,
		PlayerLives:        3,
		StartX:             200,
		StartStepX:         150,
		StartY:             300,
		HatIntervalMin:     2000 * time.Millisecond,
		HatIntervalMax:     3000 * time.Millisecond,
		PizzaInterval:      15 * time.Second,
		CountdownInterval:  time.Second,
		HitInvincibility:   1500 * time.Millisecond,
		PizzaInvincibility: 10 * time.Second,
		EntityTTL:          30 * time.Second,
	}
}
