package players

// Store keeps players in join order. It is owned by a single room loop and
// does no locking of its own.
type Store struct {
	order   []string
	players map[string]*Player
}

func NewStore() *Store {
	return &Store{
		players: make(map[string]*Player),
	}
}

func (s *Store) Add(id string, character Character) *Player {
	if p, ok := s.players[id]; ok {
		return p
	}
	player := &Player{ID: id, Character: character, FacingRight: true}
	s.players[id] = player
	s.order = append(s.order, id)
	return player
}

func (s *Store) Get(id string) *Player {
	return s.players[id]
}

func (s *Store) Has(id string) bool {
	_, exists := s.players[id]
	return exists
}

func (s *Store) Remove(id string) bool {
	if _, ok := s.players[id]; !ok {
		return false
	}
	delete(s.players, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// First returns the earliest-joined player still present.
func (s *Store) First() (string, bool) {
	if len(s.order) == 0 {
		return "", false
	}
	return s.order[0], true
}

// GetList returns players in join order.
func (s *Store) GetList() []*Player {
	playerList := make([]*Player, 0, len(s.order))
	for _, id := range s.order {
		playerList = append(playerList, s.players[id])
	}
	return playerList
}

func (s *Store) Count() int {
	return len(s.order)
}

// Each calls fn for every player in join order with its index.
func (s *Store) Each(fn func(i int, p *Player)) {
	for i, id := range s.order {
		fn(i, s.players[id])
	}
}

func (s *Store) UpdateScore(id string, points int) *Player {
	if p, e := s.players[id]; e {
		p.Score += points
		return p
	}
	return nil
}

func (s *Store) ResetScores() {
	for _, p := range s.players {
		p.Score = 0
	}
}

// ResetAll clears per-round counters: score, lives and invincibility.
func (s *Store) ResetAll(lives int) {
	for _, p := range s.players {
		p.Score = 0
		p.Lives = lives
		p.IsInvincible = false
	}
}

func (s *Store) Scores() map[string]int {
	scores := make(map[string]int, len(s.players))
	for id, p := range s.players {
		scores[id] = p.Score
	}
	return scores
}
