package i

import (
	"time"

	"github.com/beka-birhanu/vinom-maze-runner/game"
	"github.com/google/uuid"
)

// GameServer defines the interface for a single-player maze session.
type GameServer interface {
	// ID returns the session ID.
	ID() uuid.UUID

	// Start runs the session loop until Stop is called or ttl elapses.
	Start(ttl time.Duration)

	// Stop ends the session and closes the event channel.
	Stop()

	// Done is closed once the session loop has exited.
	Done() <-chan struct{}

	// NewGame regenerates the maze and restarts the countdown.
	NewGame() (game.Snapshot, error)

	// Move attempts a one-cell move and reports whether it was committed.
	Move(game.Direction) (game.Snapshot, bool, error)

	// State returns the current snapshot.
	State() (game.Snapshot, error)

	// EventChan returns the channel of render, win and timeout events.
	EventChan() <-chan game.Event
}
