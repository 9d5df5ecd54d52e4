package session

import (
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/hoshinonyaruko/snake-grid/scores"
	"github.com/hoshinonyaruko/snake-grid/snake"
)

func testSettings(external bool) Settings {
	return Settings{
		FieldWidth:    200,
		FieldHeight:   200,
		CellSize:      25,
		GameplayRate:  200,
		IdleRate:      50,
		ExternalClock: external,
		NewRand:       func() *rand.Rand { return rand.New(rand.NewPCG(7, 11)) },
	}
}

func testStore(t *testing.T) *scores.Store {
	t.Helper()
	return scores.New(filepath.Join(t.TempDir(), "highscores.db"))
}

// 不转向时蛇一直直走 最多走满一行或一列就撞墙
func runUntilOver(t *testing.T, s *Session) {
	t.Helper()
	for i := 0; i < 64; i++ {
		if s.Advance().GameOver {
			return
		}
	}
	t.Fatalf("game did not end")
}

func TestLoopWaitsForFirstKey(t *testing.T) {
	m := NewManager(testSettings(false), nil)
	defer m.Close()

	s, err := m.Create(false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if tick := s.Info().Status.Tick; tick != 0 {
		t.Fatalf("tick = %d before any key", tick)
	}
	if s.Started() {
		t.Fatalf("started before any key")
	}

	if !s.Key(snake.KeyUp) {
		t.Fatalf("arrow key did not start a one player game")
	}
	deadline := time.Now().Add(2 * time.Second)
	for s.Info().Status.Tick == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("loop never advanced after start")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestIgnoredKeyDoesNotStart(t *testing.T) {
	m := NewManager(testSettings(true), nil)
	defer m.Close()

	s, err := m.Create(false)
	if err != nil {
		t.Fatal(err)
	}
	if s.Key(snake.KeySpace) {
		t.Fatalf("space started a one player game")
	}

	two, err := m.Create(true)
	if err != nil {
		t.Fatal(err)
	}
	if two.Key(snake.KeyW) {
		t.Fatalf("W started a two player game")
	}
	if !two.Key(snake.KeySpace) {
		t.Fatalf("space did not start a two player game")
	}
}

func TestPauseToggle(t *testing.T) {
	m := NewManager(testSettings(true), nil)
	defer m.Close()

	s, err := m.Create(false)
	if err != nil {
		t.Fatal(err)
	}
	s.Key(snake.KeyP)
	if !s.Info().Paused {
		t.Fatalf("P did not pause")
	}
	if s.Started() {
		t.Fatalf("P started the game")
	}
	s.tick()
	if tick := s.Info().Status.Tick; tick != 0 {
		t.Fatalf("paused session advanced to tick %d", tick)
	}
	if s.TogglePause() {
		t.Fatalf("second toggle should resume")
	}
}

func TestOnePlayerGameOverSubmitsScore(t *testing.T) {
	store := testStore(t)
	m := NewManager(testSettings(true), store)
	defer m.Close()

	s, err := m.Create(false)
	if err != nil {
		t.Fatal(err)
	}
	runUntilOver(t, s)

	info := s.Info()
	if !info.NewHighScore {
		t.Fatalf("score %d was not recorded", info.Status.Score)
	}
	top := store.List()[0]
	if top.Score != info.Status.Score || !top.HasTimestamp() {
		t.Fatalf("top record = %+v, want score %d with a timestamp", top, info.Status.Score)
	}

	// 结束后再推进不会重复登记
	s.Advance()
	reloaded := store.Reload()
	count := 0
	for _, r := range reloaded {
		if r.HasTimestamp() {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("persisted %d records, want 1", count)
	}
}

func TestTwoPlayerNeverSubmits(t *testing.T) {
	store := testStore(t)
	m := NewManager(testSettings(true), store)
	defer m.Close()

	s, err := m.Create(true)
	if err != nil {
		t.Fatal(err)
	}
	runUntilOver(t, s)

	if s.Info().NewHighScore {
		t.Fatalf("two player game recorded a high score")
	}
	for _, r := range store.List() {
		if r.HasTimestamp() {
			t.Fatalf("unexpected record %+v", r)
		}
	}
}

func TestCreateReplacesLiveSessionOfSameMode(t *testing.T) {
	m := NewManager(testSettings(false), nil)
	defer m.Close()

	first, err := m.Create(false)
	if err != nil {
		t.Fatal(err)
	}
	two, err := m.Create(true)
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Create(false)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := m.Get(first.ID); ok {
		t.Fatalf("replaced session still registered")
	}
	if first.loop.Running() {
		t.Fatalf("replaced session loop still running")
	}
	if _, ok := m.Get(second.ID); !ok {
		t.Fatalf("new session missing")
	}
	if _, ok := m.Get(two.ID); !ok {
		t.Fatalf("two player session should survive a one player restart")
	}

	if !m.Remove(two.ID) || m.Remove(two.ID) {
		t.Fatalf("Remove should succeed exactly once")
	}
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	m := NewManager(testSettings(true), nil)
	defer m.Close()

	s, err := m.Create(false)
	if err != nil {
		t.Fatal(err)
	}
	sub, cancel := s.Subscribe()
	defer cancel()

	s.Advance()
	s.Advance()
	select {
	case snap := <-sub.C:
		// 只保留最新一帧
		if snap.Status.Tick != 2 {
			t.Fatalf("snapshot tick = %d, want 2", snap.Status.Tick)
		}
		if len(snap.Players) != 1 || len(snap.Cells) < 2 {
			t.Fatalf("snapshot = %+v", snap)
		}
	case <-time.After(time.Second):
		t.Fatalf("no snapshot published")
	}

	m.Remove(s.ID)
	if _, ok := <-sub.C; ok {
		t.Fatalf("subscriber channel not closed after Remove")
	}
	cancel()
}

func TestSetRatesReachesLiveLoops(t *testing.T) {
	m := NewManager(testSettings(false), nil)
	defer m.Close()

	s, err := m.Create(false)
	if err != nil {
		t.Fatal(err)
	}
	m.SetRates(30, 90)
	if r := s.loop.Rate(); r != 30 {
		t.Fatalf("gameplay rate = %v, want 30", r)
	}
	s.TogglePause()
	if r := s.loop.Rate(); r != 90 {
		t.Fatalf("paused rate = %v, want 90", r)
	}
}
