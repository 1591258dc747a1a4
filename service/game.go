package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/beka-birhanu/vinom-maze-runner/game"
	"github.com/beka-birhanu/vinom-maze-runner/maze"
	"github.com/google/uuid"
)

// GameServer-related errors.
var (
	ErrGameServerStopped = errors.New("game server stopped")
)

// Action types handled by the session loop.
const (
	moveActionType = iota + 1
	newGameActionType
	stateRequestActionType

	defaultTickInterval = 100 * time.Millisecond
	eventBufferSize     = 16
)

type action struct {
	kind      int
	direction game.Direction
	reply     chan actionResult
}

type actionResult struct {
	snapshot game.Snapshot
	moved    bool
}

// GameServer runs one single-player game. Client actions and timer ticks are
// handled on the goroutine running Start, so the game is never mutated
// concurrently.
type GameServer struct {
	id           uuid.UUID
	game         *game.Game
	countdown    *game.Countdown
	ticker       *time.Ticker
	tickInterval time.Duration
	actionChan   chan action
	eventChan    chan game.Event
	stop         chan struct{}
	done         chan struct{}
	stopOnce     sync.Once
	logger       general_i.Logger
}

// GameServerConfig holds the parameters of a GameServer.
type GameServerConfig struct {
	ID           uuid.UUID
	MazeSize     int
	TimeLimit    int
	TickInterval time.Duration   // Zero means 100ms.
	Generator    *maze.Generator // Nil means a wall-clock seeded generator.
	Clock        game.Clock      // Nil means the system clock.
	Logger       general_i.Logger
}

// NewGameServer creates a session. No game runs until Start is called.
func NewGameServer(c *GameServerConfig) (*GameServer, error) {
	interval := c.TickInterval
	if interval <= 0 {
		interval = defaultTickInterval
	}

	ticker := time.NewTicker(interval)
	ticker.Stop()

	gs := &GameServer{
		id:           c.ID,
		countdown:    game.NewCountdown(c.Clock),
		ticker:       ticker,
		tickInterval: interval,
		actionChan:   make(chan action),
		eventChan:    make(chan game.Event, eventBufferSize),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
		logger:       c.Logger,
	}

	g, err := game.New(game.Config{
		Size:      c.MazeSize,
		TimeLimit: c.TimeLimit,
		Generator: c.Generator,
		Notifier:  gs,
		Timer:     countdownTimer{gs: gs},
	})
	if err != nil {
		return nil, err
	}
	gs.game = g
	return gs, nil
}

// ID returns the session ID.
func (gs *GameServer) ID() uuid.UUID {
	return gs.id
}

// Start begins the first game and serves actions and ticks until Stop is
// called or ttl elapses. A non-positive ttl never expires.
func (gs *GameServer) Start(ttl time.Duration) {
	defer close(gs.eventChan)
	defer close(gs.done)
	defer gs.ticker.Stop()

	if ttl > 0 {
		expiry := time.AfterFunc(ttl, gs.Stop)
		defer expiry.Stop()
	}

	gs.game.StartNewGame()
	gs.logger.Info(fmt.Sprintf("session %s: new game started", gs.id))

	for {
		select {
		case <-gs.stop:
			return
		case a := <-gs.actionChan:
			gs.handleAction(a)
		case <-gs.ticker.C:
			gs.handleTick()
		}
	}
}

// Stop ends the session. It is safe to call more than once.
func (gs *GameServer) Stop() {
	gs.stopOnce.Do(func() {
		close(gs.stop)
	})
}

// Done is closed once the session loop has exited, before the event channel
// is closed.
func (gs *GameServer) Done() <-chan struct{} {
	return gs.done
}

// NewGame regenerates the maze and restarts the countdown.
func (gs *GameServer) NewGame() (game.Snapshot, error) {
	r, err := gs.do(action{kind: newGameActionType})
	return r.snapshot, err
}

// Move attempts a one-cell move and reports whether it was committed.
func (gs *GameServer) Move(d game.Direction) (game.Snapshot, bool, error) {
	r, err := gs.do(action{kind: moveActionType, direction: d})
	return r.snapshot, r.moved, err
}

// State returns the current snapshot.
func (gs *GameServer) State() (game.Snapshot, error) {
	r, err := gs.do(action{kind: stateRequestActionType})
	return r.snapshot, err
}

// EventChan returns the event channel. It is closed when the session stops.
func (gs *GameServer) EventChan() <-chan game.Event {
	return gs.eventChan
}

// do hands a to the session loop and waits for its result.
func (gs *GameServer) do(a action) (actionResult, error) {
	a.reply = make(chan actionResult, 1)
	select {
	case gs.actionChan <- a:
	case <-gs.done:
		return actionResult{}, ErrGameServerStopped
	}

	select {
	case r := <-a.reply:
		return r, nil
	case <-gs.done:
		return actionResult{}, ErrGameServerStopped
	}
}

// handleAction applies an action on the session loop.
func (gs *GameServer) handleAction(a action) {
	var moved bool
	switch a.kind {
	case moveActionType:
		moved = gs.game.AttemptMove(a.direction)
	case newGameActionType:
		gs.game.StartNewGame()
		gs.logger.Info(fmt.Sprintf("session %s: new game started", gs.id))
	case stateRequestActionType:
	}
	a.reply <- actionResult{snapshot: gs.game.Snapshot(), moved: moved}
}

// handleTick polls the countdown. Ticks arriving after the game ended stop
// the ticker and change nothing.
func (gs *GameServer) handleTick() {
	if !gs.game.Active() {
		gs.ticker.Stop()
		return
	}
	if elapsed := gs.countdown.Elapsed(); elapsed > 0 {
		gs.game.OnTimerTick(elapsed)
	}
}

// countdownTimer drives the countdown of a GameServer as its game.Timer.
type countdownTimer struct {
	gs *GameServer
}

func (t countdownTimer) Start() {
	t.gs.countdown.Reset()
	t.gs.ticker.Reset(t.gs.tickInterval)
}

func (t countdownTimer) Stop() {
	t.gs.ticker.Stop()
}

// OnRender implements game.Notifier.
func (gs *GameServer) OnRender() {
	gs.emit(game.EventState)
}

// OnWin implements game.Notifier.
func (gs *GameServer) OnWin() {
	gs.logger.Info(fmt.Sprintf("session %s: player won with %ds left", gs.id, gs.game.TimeRemaining()))
	gs.emit(game.EventWon)
}

// OnTimeout implements game.Notifier.
func (gs *GameServer) OnTimeout() {
	gs.logger.Info(fmt.Sprintf("session %s: time is up", gs.id))
	gs.emit(game.EventTimeout)
}

// emit publishes an event unless the session is stopping.
func (gs *GameServer) emit(t game.EventType) {
	select {
	case gs.eventChan <- game.Event{Type: t, State: gs.game.Snapshot()}:
	case <-gs.stop:
	}
}
