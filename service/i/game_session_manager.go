package i

import (
	"github.com/beka-birhanu/vinom-maze-runner/game"
	"github.com/google/uuid"
)

// GameSessionManager manages game sessions and provides session lookup.
type GameSessionManager interface {
	// NewSession starts a new session with its first game and returns its ID.
	NewSession() (uuid.UUID, error)

	// Session returns the running session with the given ID.
	Session(uuid.UUID) (GameServer, error)

	// EndSession stops the session with the given ID.
	EndSession(uuid.UUID) error

	// StopAll stops every session and refuses new ones.
	StopAll()
}

// EventSink receives the events of every session.
type EventSink interface {
	Broadcast(sessionID uuid.UUID, e game.Event)

	// Close is called once after the last event of a session.
	Close(sessionID uuid.UUID)
}
