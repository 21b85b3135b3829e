package world

import (
	"github.com/lawnchairsociety/towerforge/internal/grid"
)

// PlacedRoom is a room fixed in world space: a graph node, its assigned
// type, the shared template that shaped it, and the anchor cell where
// the template's local origin landed. Rooms are immutable once placed;
// the cached world cells and centroid are derived data only.
type PlacedRoom struct {
	NodeID     int
	Type       RoomType
	Template   *Template
	Anchor     grid.Cell
	Difficulty float64

	cells       []grid.Cell
	doorEdges   []DoorEdge
	centroid    grid.Cell
	hasCentroid bool
}

// NewPlacedRoom fixes a template in world space for a graph node.
func NewPlacedRoom(nodeID int, rt RoomType, tmpl *Template, anchor grid.Cell) *PlacedRoom {
	return &PlacedRoom{NodeID: nodeID, Type: rt, Template: tmpl, Anchor: anchor}
}

// Cells returns the room's world cells, anchor plus each template cell.
// The slice is computed once and cached; callers must not mutate it.
func (r *PlacedRoom) Cells() []grid.Cell {
	if r.cells == nil {
		r.cells = make([]grid.Cell, len(r.Template.Cells))
		for i, c := range r.Template.Cells {
			r.cells[i] = r.Anchor.Plus(c)
		}
	}
	return r.cells
}

// Bounds returns the room's world bounding box.
func (r *PlacedRoom) Bounds() grid.Bounds {
	return grid.BoundsOf(r.Cells())
}

// Centroid returns the room's center of mass rounded to a cell,
// accumulated in one pass over the world cells and cached.
func (r *PlacedRoom) Centroid() grid.Cell {
	if !r.hasCentroid {
		sumX, sumY := 0, 0
		cells := r.Cells()
		for _, c := range cells {
			sumX += c.X
			sumY += c.Y
		}
		n := len(cells)
		r.centroid = grid.Cell{X: roundDiv(sumX, n), Y: roundDiv(sumY, n)}
		r.hasCentroid = true
	}
	return r.centroid
}

// roundDiv divides rounding half away from zero, so centroids do not
// drift toward the origin for rooms in negative coordinates.
func roundDiv(sum, n int) int {
	if sum >= 0 {
		return (2*sum + n) / (2 * n)
	}
	return -((-2*sum + n) / (2 * n))
}

// DoorEdges returns the room's door-capable exterior edges in world
// coordinates, in the template's fixed edge order. The slice is built
// once per room since a placed room never moves.
func (r *PlacedRoom) DoorEdges() []DoorEdge {
	if r.doorEdges == nil {
		local := r.Template.DoorEdges()
		r.doorEdges = make([]DoorEdge, len(local))
		for i, e := range local {
			r.doorEdges[i] = DoorEdge{Cell: r.Anchor.Plus(e.Cell), Dir: e.Dir}
		}
	}
	return r.doorEdges
}
