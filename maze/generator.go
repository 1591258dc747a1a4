package maze

import (
	"time"

	"golang.org/x/exp/rand"
)

// carveSteps are the lattice moves: up, right, down, left.
var carveSteps = [4]Position{{X: 0, Y: -2}, {X: 2, Y: 0}, {X: 0, Y: 2}, {X: -2, Y: 0}}

// Generator carves perfect mazes with randomized depth-first backtracking.
// A Generator is not safe for concurrent use.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a generator drawing from rnd.
func NewGenerator(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// NewSeededGenerator returns a generator whose mazes are fully determined by seed.
func NewSeededGenerator(seed uint64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)))
}

// NewRandomGenerator returns a generator seeded from the wall clock.
func NewRandomGenerator() *Generator {
	return NewSeededGenerator(uint64(time.Now().UnixNano()))
}

// frame is one level of the carving walk.
type frame struct {
	pos   Position
	steps [4]Position
	next  int
}

// Generate resets grid, carves a maze starting at its center and opens one
// boundary exit, which it returns.
func (g *Generator) Generate(grid *Grid) Position {
	grid.Reset()
	g.carve(grid, grid.Center())
	return g.openExit(grid, g.rnd.Intn(len(carveSteps)))
}

// carve walks the lattice depth-first from start. The explicit stack keeps
// depth independent of the goroutine stack for large grids.
func (g *Generator) carve(grid *Grid, start Position) {
	stack := []frame{g.enter(grid, start)}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.steps) {
			stack = stack[:len(stack)-1]
			continue
		}

		step := top.steps[top.next]
		top.next++

		neighbor := Position{X: top.pos.X + step.X, Y: top.pos.Y + step.Y}
		if !grid.InBound(neighbor) || grid.visited(neighbor) {
			continue
		}

		grid.SetWall(Position{X: top.pos.X + step.X/2, Y: top.pos.Y + step.Y/2}, false)
		stack = append(stack, g.enter(grid, neighbor))
	}
}

// enter opens p and returns its frame with a freshly shuffled step order.
func (g *Generator) enter(grid *Grid, p Position) frame {
	grid.markVisited(p)
	grid.SetWall(p, false)

	f := frame{pos: p, steps: carveSteps}
	g.rnd.Shuffle(len(f.steps), func(i, j int) {
		f.steps[i], f.steps[j] = f.steps[j], f.steps[i]
	})
	return f
}

// openExit forces the i-th exit candidate open regardless of carving.
func (g *Generator) openExit(grid *Grid, i int) Position {
	exit := ExitCandidates(grid.Size())[i]
	grid.SetWall(exit, false)
	return exit
}

// ExitCandidates returns the four possible exits for a grid of the given
// size, in order top, right, bottom, left.
func ExitCandidates(size int) [4]Position {
	return [4]Position{
		{X: 0, Y: 1},
		{X: size - 1, Y: size - 2},
		{X: size - 2, Y: size - 1},
		{X: 1, Y: 0},
	}
}
