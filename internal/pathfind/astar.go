// Package pathfind implements grid search utilities used by corridor
// generation: a capped A* over 4-connected cells and a nearest-open-cell
// ring search.
package pathfind

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/heap"

	"github.com/lawnchairsociety/towerforge/internal/grid"
)

var (
	ErrNoPath         = errors.New("pathfind: no path between cells")
	ErrBudgetExceeded = errors.New("pathfind: exploration budget exceeded")
	ErrNoOpenCell     = errors.New("pathfind: no open cell within radius")
)

// Explore budget scaling. The budget grows with endpoint distance so short
// corridors fail fast while long ones get room to route around rooms.
const (
	budgetPerDistance = 64
	budgetFloor       = 512
	budgetCeiling     = 32768
)

// adjacentPenalty is the extra step cost for entering a cell that touches
// an obstacle when AvoidWalls is enabled. Costs stay >= 1 per step, so the
// Manhattan heuristic remains admissible.
const adjacentPenalty = 2

// Options tunes a single A* search.
type Options struct {
	// MaxExplored caps the number of cells popped from the frontier.
	// Zero derives the cap from the endpoint distance.
	MaxExplored int

	// AvoidWalls adds a soft cost to cells adjacent to obstacles so
	// corridors prefer not to hug room walls.
	AvoidWalls bool
}

// searchNode is a frontier entry. seq breaks f-score ties by insertion
// order, which keeps the search fully deterministic.
type searchNode struct {
	cell grid.Cell
	f    int
	seq  int
}

// ShortestPath runs A* from start to goal over 4-connected cells.
// blocked reports whether a cell is an obstacle; start and goal are never
// treated as obstacles. The returned path includes both endpoints.
func ShortestPath(start, goal grid.Cell, blocked func(grid.Cell) bool, opts Options) ([]grid.Cell, error) {
	if start == goal {
		return []grid.Cell{start}, nil
	}

	budget := opts.MaxExplored
	if budget <= 0 {
		budget = budgetPerDistance * grid.Manhattan(start, goal)
		if budget < budgetFloor {
			budget = budgetFloor
		}
		if budget > budgetCeiling {
			budget = budgetCeiling
		}
	}

	isBlocked := func(c grid.Cell) bool {
		if c == start || c == goal {
			return false
		}
		return blocked(c)
	}

	gScore := map[grid.Cell]int{start: 0}
	cameFrom := make(map[grid.Cell]grid.Cell)
	closed := make(map[grid.Cell]bool)

	seq := 0
	frontier := heap.New(func(a, b searchNode) bool {
		if a.f != b.f {
			return a.f < b.f
		}
		return a.seq < b.seq
	})
	frontier.Push(searchNode{cell: start, f: grid.Manhattan(start, goal), seq: seq})

	explored := 0
	for {
		node, ok := frontier.Pop()
		if !ok {
			return nil, ErrNoPath
		}
		current := node.cell
		if closed[current] {
			continue
		}
		closed[current] = true

		if current == goal {
			return rebuildPath(cameFrom, goal), nil
		}

		explored++
		if explored > budget {
			return nil, fmt.Errorf("%w after %d cells", ErrBudgetExceeded, explored)
		}

		for _, next := range current.Neighbors() {
			if closed[next] || isBlocked(next) {
				continue
			}
			step := 1
			if opts.AvoidWalls && touchesObstacle(next, blocked) {
				step += adjacentPenalty
			}
			tentative := gScore[current] + step
			if best, seen := gScore[next]; seen && tentative >= best {
				continue
			}
			gScore[next] = tentative
			cameFrom[next] = current
			seq++
			frontier.Push(searchNode{
				cell: next,
				f:    tentative + grid.Manhattan(next, goal),
				seq:  seq,
			})
		}
	}
}

// touchesObstacle reports whether any cardinal neighbor of c is blocked.
func touchesObstacle(c grid.Cell, blocked func(grid.Cell) bool) bool {
	for _, n := range c.Neighbors() {
		if blocked(n) {
			return true
		}
	}
	return false
}

// rebuildPath walks the cameFrom chain back from goal and reverses it.
func rebuildPath(cameFrom map[grid.Cell]grid.Cell, goal grid.Cell) []grid.Cell {
	path := []grid.Cell{goal}
	for {
		prev, ok := cameFrom[path[len(path)-1]]
		if !ok {
			break
		}
		path = append(path, prev)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// NearestOpen searches expanding rings around from for the closest cell
// not reported blocked, out to maxRadius inclusive. Ring cells are visited
// in a fixed clockwise order so the result is deterministic.
func NearestOpen(from grid.Cell, blocked func(grid.Cell) bool, maxRadius int) (grid.Cell, error) {
	if !blocked(from) {
		return from, nil
	}
	for r := 1; r <= maxRadius; r++ {
		for _, c := range Ring(from, r) {
			if !blocked(c) {
				return c, nil
			}
		}
	}
	return grid.Cell{}, fmt.Errorf("%w (radius %d around %d,%d)", ErrNoOpenCell, maxRadius, from.X, from.Y)
}

// Ring enumerates the cells at Chebyshev distance r from center, starting
// at the top-left corner and walking the perimeter clockwise.
func Ring(center grid.Cell, r int) []grid.Cell {
	if r <= 0 {
		return []grid.Cell{center}
	}
	cells := make([]grid.Cell, 0, 8*r)
	// Top and bottom rows.
	for x := -r; x <= r; x++ {
		cells = append(cells, center.Add(x, -r))
	}
	// Right and left columns, corners already covered.
	for y := -r + 1; y <= r-1; y++ {
		cells = append(cells, center.Add(r, y))
	}
	for x := r; x >= -r; x-- {
		cells = append(cells, center.Add(x, r))
	}
	for y := r - 1; y >= -r+1; y-- {
		cells = append(cells, center.Add(-r, y))
	}
	return cells
}
