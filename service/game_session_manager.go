package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/beka-birhanu/vinom-maze-runner/game"
	"github.com/beka-birhanu/vinom-maze-runner/maze"
	"github.com/beka-birhanu/vinom-maze-runner/service/i"
	"github.com/google/uuid"
)

const (
	defaultMazeSize   = 15
	defaultSessionTTL = 30 * time.Minute
	maxSessions       = 1000
)

// Session manager errors.
var (
	ErrNoSession       = errors.New("no session")
	ErrTooManySessions = errors.New("too many sessions")
	ErrManagerStopped  = errors.New("session manager stopped")
)

type GameSessionManager struct {
	sessions     map[uuid.UUID]i.GameServer
	sink         i.EventSink
	mazeSize     int
	timeLimit    int
	tickInterval time.Duration
	sessionTTL   time.Duration
	seed         uint64
	created      uint64
	clock        game.Clock
	logger       general_i.Logger
	stopped      bool
	wg           sync.WaitGroup
	sync.RWMutex
}

type Config struct {
	Sink         i.EventSink // Optional; events are dropped without one.
	MazeSize     int         // Zero means 15.
	TimeLimit    int         // Seconds per game, must be positive.
	TickInterval time.Duration
	SessionTTL   time.Duration
	Seed         uint64     // Zero means every maze is seeded from the clock.
	Clock        game.Clock // Nil means the system clock.
	Logger       general_i.Logger
}

func NewGameSessionManager(c *Config) (*GameSessionManager, error) {
	gsm := &GameSessionManager{
		sessions:     make(map[uuid.UUID]i.GameServer),
		sink:         c.Sink,
		mazeSize:     c.MazeSize,
		timeLimit:    c.TimeLimit,
		tickInterval: c.TickInterval,
		sessionTTL:   c.SessionTTL,
		seed:         c.Seed,
		clock:        c.Clock,
		logger:       c.Logger,
	}
	if gsm.mazeSize == 0 {
		gsm.mazeSize = defaultMazeSize
	}
	if gsm.sessionTTL == 0 {
		gsm.sessionTTL = defaultSessionTTL
	}

	if gsm.mazeSize < maze.MinSize {
		return nil, fmt.Errorf("maze size %d: %w", gsm.mazeSize, maze.ErrSizeTooSmall)
	}
	if gsm.timeLimit <= 0 {
		return nil, fmt.Errorf("time limit %d: %w", gsm.timeLimit, game.ErrInvalidTimeLimit)
	}
	return gsm, nil
}

// NewSession creates a session, starts its first game and returns its ID.
func (g *GameSessionManager) NewSession() (uuid.UUID, error) {
	g.Lock()
	defer g.Unlock()

	if g.stopped {
		return uuid.Nil, ErrManagerStopped
	}
	if len(g.sessions) >= maxSessions {
		g.logger.Warning(fmt.Sprintf("refusing new session: %d sessions running", len(g.sessions)))
		return uuid.Nil, ErrTooManySessions
	}

	sessionID := uuid.New()
	for {
		if _, ok := g.sessions[sessionID]; !ok {
			break
		}
		sessionID = uuid.New()
	}

	gameServer, err := NewGameServer(&GameServerConfig{
		ID:           sessionID,
		MazeSize:     g.mazeSize,
		TimeLimit:    g.timeLimit,
		TickInterval: g.tickInterval,
		Generator:    g.newGenerator(),
		Clock:        g.clock,
		Logger:       g.logger,
	})
	if err != nil {
		g.logger.Error(fmt.Sprintf("creating game server: %s", err))
		return uuid.Nil, err
	}

	g.sessions[sessionID] = gameServer
	g.wg.Add(1)
	go gameServer.Start(g.sessionTTL)
	go g.listenGameChan(gameServer)
	g.logger.Info(fmt.Sprintf("started new session: %s", sessionID))
	return sessionID, nil
}

// newGenerator returns a reproducible generator when a seed is configured.
// Callers hold the lock.
func (g *GameSessionManager) newGenerator() *maze.Generator {
	g.created++
	if g.seed == 0 {
		return maze.NewRandomGenerator()
	}
	return maze.NewSeededGenerator(g.seed + g.created - 1)
}

// Session returns the running session with the given ID.
func (g *GameSessionManager) Session(id uuid.UUID) (i.GameServer, error) {
	g.RLock()
	defer g.RUnlock()
	gs, ok := g.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return gs, nil
}

// EndSession stops the session with the given ID. The session is removed
// once its loop has exited.
func (g *GameSessionManager) EndSession(id uuid.UUID) error {
	gs, err := g.Session(id)
	if err != nil {
		return err
	}
	gs.Stop()
	g.logger.Info(fmt.Sprintf("ending session: %s", id))
	return nil
}

// SessionCount returns the number of running sessions.
func (g *GameSessionManager) SessionCount() int {
	g.RLock()
	defer g.RUnlock()
	return len(g.sessions)
}

// listenGameChan forwards session events to the sink until the session stops,
// then removes the session and tells the sink it ended.
func (g *GameSessionManager) listenGameChan(gs i.GameServer) {
	defer g.wg.Done()
	for e := range gs.EventChan() {
		if g.sink != nil {
			g.sink.Broadcast(gs.ID(), e)
		}
	}
	g.clean(gs.ID())
	if g.sink != nil {
		g.sink.Close(gs.ID())
	}
}

func (g *GameSessionManager) clean(id uuid.UUID) {
	g.Lock()
	defer g.Unlock()
	delete(g.sessions, id)
	g.logger.Info(fmt.Sprintf("removed session: %s", id))
}

// StopAll stops every session and waits until all of them are removed. No
// session can be created afterwards.
func (g *GameSessionManager) StopAll() {
	g.Lock()
	g.stopped = true
	for _, session := range g.sessions {
		session.Stop()
	}
	g.Unlock()

	g.wg.Wait()
}
