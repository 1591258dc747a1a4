package game

import (
	"fmt"

	"github.com/beka-birhanu/vinom-maze-runner/maze"
)

// Status is the lifecycle stage of a game.
type Status int

const (
	NotStarted Status = iota
	Active
	Won
	TimedOut
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Active:
		return "active"
	case Won:
		return "won"
	case TimedOut:
		return "timed_out"
	}
	return "unknown"
}

// MarshalText encodes the status as its name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{NotStarted, Active, Won, TimedOut} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Ended reports whether the game finished by win or timeout.
func (s Status) Ended() bool {
	return s == Won || s == TimedOut
}

// Snapshot is a read-only copy of the game state for rendering.
type Snapshot struct {
	Size          int           `json:"size"`
	Walls         [][]bool      `json:"walls"` // Indexed as [y][x].
	Player        maze.Position `json:"player"`
	Exit          maze.Position `json:"exit"`
	TimeRemaining int           `json:"timeRemaining"`
	TimeLimit     int           `json:"timeLimit"`
	Moves         int           `json:"moves"`
	Active        bool          `json:"active"`
	Status        Status        `json:"status"`
}

// Rows renders the snapshot one string per row: '#' wall, '.' open,
// 'P' player and 'E' exit.
func (s Snapshot) Rows() []string {
	rows := make([]string, len(s.Walls))
	for y, line := range s.Walls {
		b := make([]byte, len(line))
		for x, wall := range line {
			p := maze.Position{X: x, Y: y}
			switch {
			case p == s.Player:
				b[x] = 'P'
			case p == s.Exit:
				b[x] = 'E'
			case wall:
				b[x] = '#'
			default:
				b[x] = '.'
			}
		}
		rows[y] = string(b)
	}
	return rows
}

// EventType names a side effect the presentation layer must surface.
type EventType string

const (
	EventState   EventType = "state"
	EventWon     EventType = "won"
	EventTimeout EventType = "timeout"
)

// Event carries a side effect together with the state it was raised in.
type Event struct {
	Type  EventType `json:"type"`
	State Snapshot  `json:"state"`
}
