package maze

import (
	"errors"
	"fmt"
	"strings"
)

// MinSize is the smallest grid side length that can hold a carved maze.
const MinSize = 5

// Grid-related errors.
var (
	ErrSizeTooSmall = errors.New("maze size is too small")
)

// Position is a 0-indexed cell coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String returns "(x,y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Cell is a single square of the grid.
type Cell struct {
	IsWall  bool // Whether the cell blocks movement.
	visited bool // Generation scratch state.
}

// Grid is a square matrix of cells addressed by (x,y).
// A new or reset grid is all wall and all unvisited.
type Grid struct {
	size  int
	cells []Cell
}

// NewGrid creates an all-wall grid of the given side length.
func NewGrid(size int) (*Grid, error) {
	if size < MinSize {
		return nil, fmt.Errorf("%w: %d < %d", ErrSizeTooSmall, size, MinSize)
	}

	g := &Grid{
		size:  size,
		cells: make([]Cell, size*size),
	}
	g.Reset()
	return g, nil
}

// Size returns the side length of the grid.
func (g *Grid) Size() int {
	return g.size
}

// Center returns the cell at (size/2, size/2).
func (g *Grid) Center() Position {
	return Position{X: g.size / 2, Y: g.size / 2}
}

// Reset sets every cell to wall and unvisited.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i] = Cell{IsWall: true}
	}
}

// InBound reports whether p lies inside the grid.
func (g *Grid) InBound(p Position) bool {
	return p.X >= 0 && p.X < g.size && p.Y >= 0 && p.Y < g.size
}

// IsWall reports whether the cell at p is a wall. It panics if p is out of bounds.
func (g *Grid) IsWall(p Position) bool {
	return g.cells[g.index(p)].IsWall
}

// SetWall sets the wall flag of the cell at p. It panics if p is out of bounds.
func (g *Grid) SetWall(p Position, wall bool) {
	g.cells[g.index(p)].IsWall = wall
}

func (g *Grid) visited(p Position) bool {
	return g.cells[g.index(p)].visited
}

func (g *Grid) markVisited(p Position) {
	g.cells[g.index(p)].visited = true
}

func (g *Grid) index(p Position) int {
	if !g.InBound(p) {
		panic(fmt.Sprintf("maze: position %s out of bounds for size %d", p, g.size))
	}
	return p.Y*g.size + p.X
}

// Walls returns a copy of the wall flags indexed as [y][x].
func (g *Grid) Walls() [][]bool {
	walls := make([][]bool, g.size)
	for y := range walls {
		walls[y] = make([]bool, g.size)
		for x := range walls[y] {
			walls[y][x] = g.cells[y*g.size+x].IsWall
		}
	}
	return walls
}

// String renders the grid with '#' for walls and '.' for open cells.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.size * (g.size + 1))
	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			if g.cells[y*g.size+x].IsWall {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
