package spawns

import "time"

type HatType string

const (
	HatMaga = HatType("maga")
	HatIce  = HatType("ice")
)

type PizzaType string

const (
	PizzaHealth     = PizzaType("health")
	PizzaInvincible = PizzaType("invincible")
)

// Entity is anything the spawn loops put into a room.
type Entity interface {
	EntityID() string
	Born() time.Time
}

type Hat struct {
	ID        string    `json:"id"`
	Type      HatType   `json:"type"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	BaseY     float64   `json:"baseY"`
	Speed     float64   `json:"speed"`
	Scale     float64   `json:"scale"`
	BobOffset float64   `json:"bobOffset"`
	BobSpeed  float64   `json:"bobSpeed"`
	SpawnedAt time.Time `json:"-"`
}

func (h Hat) EntityID() string { return h.ID }
func (h Hat) Born() time.Time  { return h.SpawnedAt }

type Pizza struct {
	ID        string    `json:"id"`
	Type      PizzaType `json:"type"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	BaseY     float64   `json:"baseY"`
	Speed     float64   `json:"speed"`
	BobOffset float64   `json:"bobOffset"`
	SpawnedAt time.Time `json:"-"`
}

func (p Pizza) EntityID() string { return p.ID }
func (p Pizza) Born() time.Time  { return p.SpawnedAt }
