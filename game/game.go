package game

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-maze-runner/maze"
)

// Game-related errors.
var (
	ErrInvalidTimeLimit = errors.New("time limit must be positive")
)

// Notifier receives the side effects of state transitions.
type Notifier interface {
	// OnRender is called whenever the board or the clock changed.
	OnRender()
	// OnWin is called once when the player reaches the exit.
	OnWin()
	// OnTimeout is called once when the countdown runs out.
	OnTimeout()
}

// Timer is the periodic tick source driving OnTimerTick.
type Timer interface {
	// Start (re)starts ticking from now.
	Start()
	// Stop halts further ticks.
	Stop()
}

// Config holds the parameters of a Game.
type Config struct {
	Size      int             // Grid side length, at least maze.MinSize.
	TimeLimit int             // Seconds per game.
	Generator *maze.Generator // Nil means a wall-clock seeded generator.
	Notifier  Notifier        // Optional.
	Timer     Timer           // Optional.
}

// Game is the timed maze state machine. It is not safe for concurrent use;
// callers serialize input and ticks onto one goroutine.
type Game struct {
	grid          *maze.Grid
	generator     *maze.Generator
	player        maze.Position
	exit          maze.Position
	timeRemaining int
	timeLimit     int
	moves         int
	status        Status
	notifier      Notifier
	timer         Timer
}

// New creates a game in the NotStarted state.
func New(c Config) (*Game, error) {
	if c.TimeLimit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTimeLimit, c.TimeLimit)
	}

	grid, err := maze.NewGrid(c.Size)
	if err != nil {
		return nil, err
	}

	generator := c.Generator
	if generator == nil {
		generator = maze.NewRandomGenerator()
	}

	return &Game{
		grid:          grid,
		generator:     generator,
		player:        grid.Center(),
		timeRemaining: c.TimeLimit,
		timeLimit:     c.TimeLimit,
		status:        NotStarted,
		notifier:      c.Notifier,
		timer:         c.Timer,
	}, nil
}

// StartNewGame regenerates the maze, resets the player and the clock and
// starts the timer. It may be called in any state.
func (g *Game) StartNewGame() {
	g.timeRemaining = g.timeLimit
	g.player = g.grid.Center()
	g.moves = 0
	g.exit = g.generator.Generate(g.grid)
	g.status = Active

	if g.timer != nil {
		g.timer.Start()
	}
	g.render()
}

// AttemptMove moves the player one cell in d when the target is inside the
// grid and open. It reports whether the move was committed. Moves are
// ignored unless the game is active.
func (g *Game) AttemptMove(d Direction) bool {
	if g.status != Active {
		return false
	}

	dx, dy, ok := d.delta()
	if !ok {
		return false
	}

	target := maze.Position{X: g.player.X + dx, Y: g.player.Y + dy}
	if !g.grid.InBound(target) || g.grid.IsWall(target) {
		return false
	}

	g.player = target
	g.moves++
	g.render()

	if g.player == g.exit {
		g.end(Won)
	}
	return true
}

// OnTimerTick subtracts elapsed whole seconds from the clock and ends the
// game when it runs out. It is a no-op unless the game is active.
func (g *Game) OnTimerTick(elapsed int) {
	if g.status != Active || elapsed <= 0 {
		return
	}

	g.timeRemaining -= elapsed
	if g.timeRemaining <= 0 {
		g.timeRemaining = 0
		g.end(TimedOut)
		return
	}
	g.render()
}

func (g *Game) end(s Status) {
	g.status = s
	if g.timer != nil {
		g.timer.Stop()
	}
	if g.notifier == nil {
		return
	}

	switch s {
	case Won:
		g.notifier.OnWin()
	case TimedOut:
		g.notifier.OnTimeout()
	}
}

func (g *Game) render() {
	if g.notifier != nil {
		g.notifier.OnRender()
	}
}

// Active reports whether the game accepts moves and ticks.
func (g *Game) Active() bool {
	return g.status == Active
}

// Status returns the lifecycle stage.
func (g *Game) Status() Status {
	return g.status
}

// Size returns the grid side length.
func (g *Game) Size() int {
	return g.grid.Size()
}

// IsWall reports whether the cell at p is a wall. p must be in bounds.
func (g *Game) IsWall(p maze.Position) bool {
	return g.grid.IsWall(p)
}

// Player returns the player position.
func (g *Game) Player() maze.Position {
	return g.player
}

// Exit returns the exit position.
func (g *Game) Exit() maze.Position {
	return g.exit
}

// TimeRemaining returns the seconds left on the clock.
func (g *Game) TimeRemaining() int {
	return g.timeRemaining
}

// TimeLimit returns the seconds each game starts with.
func (g *Game) TimeLimit() int {
	return g.timeLimit
}

// Moves returns the committed moves of the current game.
func (g *Game) Moves() int {
	return g.moves
}

// Snapshot copies the current state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Size:          g.grid.Size(),
		Walls:         g.grid.Walls(),
		Player:        g.player,
		Exit:          g.exit,
		TimeRemaining: g.timeRemaining,
		TimeLimit:     g.timeLimit,
		Moves:         g.moves,
		Active:        g.status == Active,
		Status:        g.status,
	}
}
