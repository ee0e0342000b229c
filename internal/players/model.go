package players

type Character string

const (
	CharacterPenis  = Character("penis")
	CharacterVagina = Character("vagina")
)

func (c Character) Valid() bool {
	return c == CharacterPenis || c == CharacterVagina
}

// Player is the authoritative record for one joined connection. Kinematic
// fields are whatever the client last reported.
type Player struct {
	ID           string    `json:"id"`
	Character    Character `json:"character"`
	X            float64   `json:"x"`
	Y            float64   `json:"y"`
	VelocityX    float64   `json:"velocityX"`
	VelocityY    float64   `json:"velocityY"`
	FacingRight  bool      `json:"facingRight"`
	IsWalking    bool      `json:"isWalking"`
	Score        int       `json:"score"`
	Lives        int       `json:"lives"`
	IsInvincible bool      `json:"isInvincible"`
}
