package maze

import (
	"errors"
	"strings"
	"testing"
)

func TestNewGrid(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr error
	}{
		{name: "minimum size", size: MinSize},
		{name: "odd size", size: 15},
		{name: "even size", size: 16},
		{name: "too small", size: 4, wantErr: ErrSizeTooSmall},
		{name: "zero", size: 0, wantErr: ErrSizeTooSmall},
		{name: "negative", size: -3, wantErr: ErrSizeTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.size)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewGrid(%d) error = %v, want %v", tt.size, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewGrid(%d) unexpected error: %v", tt.size, err)
			}
			if g.Size() != tt.size {
				t.Errorf("Size() = %d, want %d", g.Size(), tt.size)
			}
			for y := 0; y < tt.size; y++ {
				for x := 0; x < tt.size; x++ {
					if !g.IsWall(Position{X: x, Y: y}) {
						t.Fatalf("cell (%d,%d) is open on a new grid", x, y)
					}
				}
			}
		})
	}
}

func TestGridReset(t *testing.T) {
	g, err := NewGrid(7)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	p := Position{X: 3, Y: 2}
	g.SetWall(p, false)
	g.markVisited(p)

	g.Reset()
	if !g.IsWall(p) {
		t.Errorf("cell %s is open after Reset", p)
	}
	if g.visited(p) {
		t.Errorf("cell %s is visited after Reset", p)
	}
}

func TestGridInBound(t *testing.T) {
	g, _ := NewGrid(5)
	tests := []struct {
		p    Position
		want bool
	}{
		{Position{X: 0, Y: 0}, true},
		{Position{X: 4, Y: 4}, true},
		{Position{X: 5, Y: 0}, false},
		{Position{X: 0, Y: 5}, false},
		{Position{X: -1, Y: 2}, false},
		{Position{X: 2, Y: -1}, false},
	}
	for _, tt := range tests {
		if got := g.InBound(tt.p); got != tt.want {
			t.Errorf("InBound(%s) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestGridOutOfBoundsPanics(t *testing.T) {
	g, _ := NewGrid(5)
	defer func() {
		if recover() == nil {
			t.Errorf("IsWall out of bounds did not panic")
		}
	}()
	g.IsWall(Position{X: 5, Y: 5})
}

func TestGridWallsIsCopy(t *testing.T) {
	g, _ := NewGrid(5)
	walls := g.Walls()
	walls[1][1] = false
	if !g.IsWall(Position{X: 1, Y: 1}) {
		t.Errorf("mutating Walls() result changed the grid")
	}
}

func TestGridString(t *testing.T) {
	g, _ := NewGrid(5)
	g.SetWall(Position{X: 1, Y: 0}, false)

	lines := strings.Split(strings.TrimSuffix(g.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("String() has %d lines, want 5", len(lines))
	}
	if lines[0] != "#.###" {
		t.Errorf("first line = %q, want %q", lines[0], "#.###")
	}
	if lines[4] != "#####" {
		t.Errorf("last line = %q, want %q", lines[4], "#####")
	}
}
