package players

import (
	"testing"
)

func TestNewStore(t *testing.T) {
	s := NewStore()
	if s == nil {
		t.Fatal("NewStore() returned nil")
	}
	list := s.GetList()
	if len(list) != 0 {
		t.Errorf("new store should be empty, got %d players", len(list))
	}
}

func TestStore_Add(t *testing.T) {
	s := NewStore()
	p := s.Add("id1", CharacterPenis)

	if p.ID != "id1" {
		t.Errorf("player ID = %q, want %q", p.ID, "id1")
	}
	if p.Character != CharacterPenis {
		t.Errorf("player Character = %q, want %q", p.Character, CharacterPenis)
	}
	if p.Score != 0 {
		t.Errorf("player Score = %d, want 0", p.Score)
	}
	if !p.FacingRight {
		t.Error("player should face right on join")
	}
}

func TestStore_Add_Existing(t *testing.T) {
	s := NewStore()
	first := s.Add("id1", CharacterPenis)
	first.Score = 4

	again := s.Add("id1", CharacterVagina)
	if again != first {
		t.Fatal("Add should return the existing player")
	}
	if again.Character != CharacterPenis {
		t.Errorf("Character = %q, want %q", again.Character, CharacterPenis)
	}
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}
}

func TestStore_Get(t *testing.T) {
	s := NewStore()
	s.Add("id1", CharacterVagina)

	p := s.Get("id1")
	if p == nil {
		t.Fatal("Get returned nil for existing player")
	}
	if p.Character != CharacterVagina {
		t.Errorf("Character = %q, want %q", p.Character, CharacterVagina)
	}

	p2 := s.Get("nonexistent")
	if p2 != nil {
		t.Error("Get should return nil for nonexistent player")
	}
}

func TestStore_GetList_JoinOrder(t *testing.T) {
	s := NewStore()
	s.Add("c", CharacterPenis)
	s.Add("a", CharacterPenis)
	s.Add("b", CharacterPenis)

	list := s.GetList()
	want := []string{"c", "a", "b"}
	if len(list) != len(want) {
		t.Fatalf("GetList() returned %d players, want %d", len(list), len(want))
	}
	for i, p := range list {
		if p.ID != want[i] {
			t.Errorf("list[%d] = %q, want %q", i, p.ID, want[i])
		}
	}
}

func TestStore_UpdateScore(t *testing.T) {
	s := NewStore()
	s.Add("id1", CharacterPenis)

	p := s.UpdateScore("id1", 10)
	if p.Score != 10 {
		t.Errorf("Score = %d, want 10", p.Score)
	}

	p = s.UpdateScore("id1", 5)
	if p.Score != 15 {
		t.Errorf("Score = %d, want 15", p.Score)
	}

	p = s.UpdateScore("nonexistent", 5)
	if p != nil {
		t.Error("UpdateScore should return nil for nonexistent player")
	}
}

func TestStore_Has(t *testing.T) {
	s := NewStore()
	s.Add("id1", CharacterPenis)

	if !s.Has("id1") {
		t.Error("Has should return true for existing player")
	}
	if s.Has("nonexistent") {
		t.Error("Has should return false for nonexistent player")
	}
}

func TestStore_Remove(t *testing.T) {
	s := NewStore()
	s.Add("id1", CharacterPenis)
	s.Add("id2", CharacterVagina)

	if !s.Remove("id1") {
		t.Error("Remove should return true for existing player")
	}
	if s.Get("id1") != nil {
		t.Error("player should be nil after removal")
	}
	if len(s.GetList()) != 1 {
		t.Errorf("expected 1 player after removal, got %d", len(s.GetList()))
	}

	if s.Remove("nonexistent") {
		t.Error("Remove should return false for nonexistent player")
	}
}

func TestStore_First(t *testing.T) {
	s := NewStore()
	if _, ok := s.First(); ok {
		t.Error("First should report false on an empty store")
	}

	s.Add("id1", CharacterPenis)
	s.Add("id2", CharacterPenis)
	s.Add("id3", CharacterPenis)
	s.Remove("id1")

	first, ok := s.First()
	if !ok || first != "id2" {
		t.Errorf("First = %q, %v; want %q, true", first, ok, "id2")
	}
}

func TestStore_Count(t *testing.T) {
	s := NewStore()
	if s.Count() != 0 {
		t.Errorf("Count = %d, want 0", s.Count())
	}

	s.Add("id1", CharacterPenis)
	s.Add("id2", CharacterPenis)
	if s.Count() != 2 {
		t.Errorf("Count = %d, want 2", s.Count())
	}

	s.Remove("id1")
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1 after removal", s.Count())
	}
}

func TestStore_ResetAll(t *testing.T) {
	s := NewStore()
	s.Add("id1", CharacterPenis)
	s.Add("id2", CharacterVagina)
	s.UpdateScore("id1", 100)
	s.Get("id2").Lives = 1
	s.Get("id2").IsInvincible = true

	s.ResetAll(3)

	for _, p := range s.GetList() {
		if p.Score != 0 {
			t.Errorf("%s score = %d, want 0", p.ID, p.Score)
		}
		if p.Lives != 3 {
			t.Errorf("%s lives = %d, want 3", p.ID, p.Lives)
		}
		if p.IsInvincible {
			t.Errorf("%s should not be invincible", p.ID)
		}
	}
	if len(s.GetList()) != 2 {
		t.Error("players should still exist after reset")
	}
}

func TestStore_Scores(t *testing.T) {
	s := NewStore()
	s.Add("id1", CharacterPenis)
	s.Add("id2", CharacterVagina)
	s.UpdateScore("id1", 7)

	scores := s.Scores()
	if scores["id1"] != 7 || scores["id2"] != 0 || len(scores) != 2 {
		t.Errorf("Scores() = %v, want map[id1:7 id2:0]", scores)
	}
}

func TestCharacter_Valid(t *testing.T) {
	if !CharacterPenis.Valid() || !CharacterVagina.Valid() {
		t.Error("known characters should be valid")
	}
	if Character("robot").Valid() || Character("").Valid() {
		t.Error("unknown characters should be invalid")
	}
}
