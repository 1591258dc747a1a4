package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-maze-runner/game"
	"github.com/beka-birhanu/vinom-maze-runner/maze"
	"github.com/google/uuid"
)

type recordingSink struct {
	mu     sync.Mutex
	events map[uuid.UUID][]game.Event
	closed map[uuid.UUID]int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		events: make(map[uuid.UUID][]game.Event),
		closed: make(map[uuid.UUID]int),
	}
}

func (s *recordingSink) Broadcast(id uuid.UUID, e game.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[id] = append(s.events[id], e)
}

func (s *recordingSink) Close(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed[id]++
}

func (s *recordingSink) closeCount(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed[id]
}

func (s *recordingSink) count(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events[id])
}

func newTestManager(t *testing.T, sink *recordingSink, seed uint64) *GameSessionManager {
	t.Helper()
	c := &Config{
		MazeSize:     15,
		TimeLimit:    120,
		TickInterval: 5 * time.Millisecond,
		Seed:         seed,
		Logger:       testLogger(t),
	}
	if sink != nil {
		c.Sink = sink
	}
	gsm, err := NewGameSessionManager(c)
	if err != nil {
		t.Fatalf("NewGameSessionManager: %v", err)
	}
	t.Cleanup(gsm.StopAll)
	return gsm
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met: %s", msg)
}

func TestNewGameSessionManagerValidation(t *testing.T) {
	tests := []struct {
		name      string
		mazeSize  int
		timeLimit int
		want      error
	}{
		{name: "maze too small", mazeSize: 4, timeLimit: 120, want: maze.ErrSizeTooSmall},
		{name: "zero time limit", mazeSize: 15, timeLimit: 0, want: game.ErrInvalidTimeLimit},
		{name: "negative time limit", mazeSize: 15, timeLimit: -5, want: game.ErrInvalidTimeLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGameSessionManager(&Config{
				MazeSize:  tt.mazeSize,
				TimeLimit: tt.timeLimit,
				Logger:    testLogger(t),
			})
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewSession(t *testing.T) {
	sink := newRecordingSink()
	gsm := newTestManager(t, sink, 0)

	id, err := gsm.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	gs, err := gsm.Session(id)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	s, err := gs.State()
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if !s.Active || s.Size != 15 || s.TimeLimit != 120 {
		t.Errorf("state = active %v size %d limit %d", s.Active, s.Size, s.TimeLimit)
	}

	eventually(t, func() bool { return sink.count(id) > 0 }, "sink received the first render")
}

func TestSessionNotFound(t *testing.T) {
	gsm := newTestManager(t, nil, 0)

	if _, err := gsm.Session(uuid.New()); !errors.Is(err, ErrNoSession) {
		t.Errorf("Session error = %v, want %v", err, ErrNoSession)
	}
	if err := gsm.EndSession(uuid.New()); !errors.Is(err, ErrNoSession) {
		t.Errorf("EndSession error = %v, want %v", err, ErrNoSession)
	}
}

func TestEndSession(t *testing.T) {
	gsm := newTestManager(t, nil, 0)
	id, err := gsm.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if err := gsm.EndSession(id); err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	eventually(t, func() bool {
		_, err := gsm.Session(id)
		return errors.Is(err, ErrNoSession)
	}, "session removed after EndSession")
}

func TestEndedSessionClosesSink(t *testing.T) {
	sink := newRecordingSink()
	gsm := newTestManager(t, sink, 0)
	id, err := gsm.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	eventually(t, func() bool { return sink.count(id) > 0 }, "sink received the first render")
	if got := sink.closeCount(id); got != 0 {
		t.Fatalf("Close calls before EndSession = %d, want 0", got)
	}

	if err := gsm.EndSession(id); err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	eventually(t, func() bool { return sink.closeCount(id) == 1 }, "sink closed once after EndSession")

	_, err = gsm.Session(id)
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("Session after Close error = %v, want %v", err, ErrNoSession)
	}
}

func TestSeededSessionsAreReproducible(t *testing.T) {
	first := func() game.Snapshot {
		gsm := newTestManager(t, nil, 99)
		id, err := gsm.NewSession()
		if err != nil {
			t.Fatalf("NewSession: %v", err)
		}
		gs, _ := gsm.Session(id)
		s, err := gs.State()
		if err != nil {
			t.Fatalf("State: %v", err)
		}
		return s
	}

	a, b := first(), first()
	if a.Exit != b.Exit {
		t.Errorf("exits differ: %s vs %s", a.Exit, b.Exit)
	}
	for y := range a.Walls {
		for x := range a.Walls[y] {
			if a.Walls[y][x] != b.Walls[y][x] {
				t.Fatalf("mazes differ at (%d,%d)", x, y)
			}
		}
	}
}

func TestStopAll(t *testing.T) {
	gsm := newTestManager(t, newRecordingSink(), 0)
	for n := 0; n < 3; n++ {
		if _, err := gsm.NewSession(); err != nil {
			t.Fatalf("NewSession: %v", err)
		}
	}
	if got := gsm.SessionCount(); got != 3 {
		t.Fatalf("SessionCount() = %d, want 3", got)
	}

	gsm.StopAll()
	if got := gsm.SessionCount(); got != 0 {
		t.Errorf("SessionCount() after StopAll = %d, want 0", got)
	}

	if _, err := gsm.NewSession(); !errors.Is(err, ErrManagerStopped) {
		t.Errorf("NewSession after StopAll error = %v, want %v", err, ErrManagerStopped)
	}
	if got := gsm.SessionCount(); got != 0 {
		t.Errorf("SessionCount() after refused NewSession = %d, want 0", got)
	}
}

func TestNewSessionDuringStopAll(t *testing.T) {
	gsm := newTestManager(t, newRecordingSink(), 0)
	if _, err := gsm.NewSession(); err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		gsm.StopAll()
	}()
	for n := 0; n < 50; n++ {
		if _, err := gsm.NewSession(); err != nil && !errors.Is(err, ErrManagerStopped) {
			t.Fatalf("NewSession error = %v", err)
		}
	}
	wg.Wait()

	gsm.StopAll()
	if got := gsm.SessionCount(); got != 0 {
		t.Errorf("SessionCount() = %d, want 0", got)
	}
}
