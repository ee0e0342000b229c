package rooms

import (
	"sync"
	"testing"
	"time"

	"hatparty/internal/game"
)

func testOptions() Options {
	return Options{Game: game.DefaultConfig()}
}

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	s := NewStore(opts)
	t.Cleanup(s.Close)
	return s
}

func TestNewStore(t *testing.T) {
	s := newTestStore(t, testOptions())
	if s == nil {
		t.Fatal("NewStore() returned nil")
	}
	if len(s.List()) != 0 {
		t.Error("new store should have no rooms")
	}
}

func TestStore_Create(t *testing.T) {
	s := newTestStore(t, testOptions())
	room, err := s.Create()
	if err != nil {
		t.Fatal(err)
	}
	if room == nil {
		t.Fatal("Create() returned nil room")
	}
	if len(room.Code) != codeLength {
		t.Errorf("room code = %q, want %d characters", room.Code, codeLength)
	}
	if room.Hub == nil {
		t.Error("room Hub should not be nil")
	}
	sum, err := room.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if sum.Code != room.Code || sum.Phase != game.PhaseLobby {
		t.Errorf("Summary() = %+v, want lobby for %s", sum, room.Code)
	}
}

func TestStore_GetOrCreate(t *testing.T) {
	s := newTestStore(t, testOptions())

	r1, err := s.GetOrCreate("party")
	if err != nil {
		t.Fatal(err)
	}
	if r1.Code != "PART" {
		t.Errorf("Code = %q, want %q", r1.Code, "PART")
	}
	r2, err := s.GetOrCreate("PARTY-TIME")
	if err != nil {
		t.Fatal(err)
	}
	if r1 != r2 {
		t.Error("GetOrCreate should return the existing room for the same normalized code")
	}

	r3, err := s.GetOrCreate("")
	if err != nil {
		t.Fatal(err)
	}
	if r3.Code == "" || r3 == r1 {
		t.Errorf("empty code should open a new generated room, got %q", r3.Code)
	}
	if len(s.List()) != 2 {
		t.Errorf("List() returned %d rooms, want 2", len(s.List()))
	}
}

func TestStore_Get(t *testing.T) {
	s := newTestStore(t, testOptions())
	room, _ := s.Create()

	got := s.Get(room.Code)
	if got == nil {
		t.Fatal("Get() returned nil for existing room")
	}
	if got.Code != room.Code {
		t.Errorf("Code = %q, want %q", got.Code, room.Code)
	}

	got = s.Get("ZZZZ")
	if got != nil {
		t.Error("Get() should return nil for nonexistent room")
	}
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t, testOptions())
	room, _ := s.Create()

	if !s.Delete(room.Code) {
		t.Fatal("Delete() = false for existing room")
	}

	if s.Get(room.Code) != nil {
		t.Error("room should be deleted")
	}
	if _, err := room.Summary(); err != ErrRoomClosed {
		t.Errorf("Summary() after delete err = %v, want ErrRoomClosed", err)
	}
	if s.Delete(room.Code) {
		t.Error("second Delete() should report false")
	}
}

func TestStore_List(t *testing.T) {
	s := newTestStore(t, testOptions())
	s.GetOrCreate("WXYZ")
	s.GetOrCreate("ABCD")

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("List() returned %d rooms, want 2", len(list))
	}
	if list[0].Code != "ABCD" || list[1].Code != "WXYZ" {
		t.Errorf("List() order = %s, %s, want ABCD, WXYZ", list[0].Code, list[1].Code)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := newTestStore(t, testOptions())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Create()
		}()
	}
	wg.Wait()

	list := s.List()
	if len(list) != 50 {
		t.Errorf("concurrent creates: got %d rooms, want 50", len(list))
	}
}

func TestStore_RoomIsolation(t *testing.T) {
	s := newTestStore(t, testOptions())
	room1, _ := s.Create()
	room2, _ := s.Create()

	c1 := newTestClient("p1")
	c2 := newTestClient("p2")
	room1.Connect(c1)
	room2.Connect(c2)
	room1.Message("p1", []byte(`{"type":"join","character":"penis"}`))
	room2.Message("p2", []byte(`{"type":"join","character":"vagina"}`))

	sum1, _ := room1.Summary()
	sum2, _ := room2.Summary()
	if sum1.Players != 1 || sum1.HostID != "p1" {
		t.Errorf("room1 summary = %+v, want only p1", sum1)
	}
	if sum2.Players != 1 || sum2.HostID != "p2" {
		t.Errorf("room2 summary = %+v, want only p2", sum2)
	}
}

func TestStore_SweepIdle(t *testing.T) {
	opts := testOptions()
	opts.IdleTTL = time.Minute
	s := newTestStore(t, opts)

	idle, _ := s.GetOrCreate("IDLE")
	busy, _ := s.GetOrCreate("BUSY")
	if err := busy.Connect(newTestClient("c1")); err != nil {
		t.Fatal(err)
	}
	// flush the connect
	busy.Summary()

	if n := s.Sweep(time.Now()); n != 0 {
		t.Errorf("Sweep() right away closed %d rooms, want 0", n)
	}
	if n := s.Sweep(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Errorf("Sweep() closed %d rooms, want 1", n)
	}
	if s.Get("IDLE") != nil {
		t.Error("idle room should have been swept")
	}
	if s.Get("BUSY") == nil {
		t.Error("room with a connection should survive the sweep")
	}
	if err := idle.Connect(newTestClient("late")); err != ErrRoomClosed {
		t.Errorf("Connect() to swept room err = %v, want ErrRoomClosed", err)
	}
}

func TestStore_Close(t *testing.T) {
	s := NewStore(testOptions())
	room, _ := s.Create()
	c := newTestClient("c1")
	room.Connect(c)
	room.Summary()

	s.Close()

	if len(s.List()) != 0 {
		t.Error("Close() should remove every room")
	}
	if _, err := s.GetOrCreate("LATE"); err != ErrStoreClosed {
		t.Errorf("GetOrCreate() after Close err = %v, want ErrStoreClosed", err)
	}
	drain(c)
	if _, ok := <-c.Send; ok {
		t.Error("client Send should be closed after Close()")
	}
}
