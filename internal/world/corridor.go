package world

import (
	"github.com/lawnchairsociety/towerforge/internal/grid"
)

// Door is an opening in a room or corridor wall. Exactly one of ToRoom
// and ToCorridor identifies the far side; the other is -1.
type Door struct {
	Cell grid.Cell      // cell on the owning side of the wall
	Dir  grid.Direction // direction through the wall
	Room int            // node id of the owning room

	ToRoom     int
	ToCorridor int
}

// NewRoomDoor returns a door joining two rooms across a shared wall.
func NewRoomDoor(cell grid.Cell, dir grid.Direction, room, toRoom int) Door {
	return Door{Cell: cell, Dir: dir, Room: room, ToRoom: toRoom, ToCorridor: -1}
}

// NewCorridorDoor returns a door from a room into a corridor.
func NewCorridorDoor(cell grid.Cell, dir grid.Direction, room, corridorID int) Door {
	return Door{Cell: cell, Dir: dir, Room: room, ToRoom: -1, ToCorridor: corridorID}
}

// Segment is a straight run of corridor cells on one axis, endpoints
// inclusive.
type Segment struct {
	Start, End grid.Cell
}

// Cells enumerates the segment's cells from Start to End.
func (s Segment) Cells() []grid.Cell {
	step := grid.Cell{}
	switch {
	case s.End.X > s.Start.X:
		step.X = 1
	case s.End.X < s.Start.X:
		step.X = -1
	case s.End.Y > s.Start.Y:
		step.Y = 1
	case s.End.Y < s.Start.Y:
		step.Y = -1
	}
	cells := []grid.Cell{s.Start}
	for c := s.Start; c != s.End; {
		c = c.Plus(step)
		cells = append(cells, c)
	}
	return cells
}

// Corridor is a pathfound connector between two rooms that could not be
// placed wall to wall. Segments chain head to tail; Doors holds the two
// openings at its ends.
type Corridor struct {
	ID       int
	Segments []Segment
	Doors    [2]Door
}

// Cells returns every corridor cell once, in path order.
func (c *Corridor) Cells() []grid.Cell {
	var cells []grid.Cell
	for i, seg := range c.Segments {
		segCells := seg.Cells()
		if i > 0 && len(segCells) > 0 && len(cells) > 0 && segCells[0] == cells[len(cells)-1] {
			segCells = segCells[1:]
		}
		cells = append(cells, segCells...)
	}
	return cells
}

// SegmentsFromPath merges a cell path into the minimal list of
// axis-aligned segments: consecutive cells moving in the same direction
// extend the current segment, a turn starts a new one.
func SegmentsFromPath(path []grid.Cell) []Segment {
	if len(path) == 0 {
		return nil
	}
	segments := []Segment{{Start: path[0], End: path[0]}}
	var dir grid.Cell
	for i := 1; i < len(path); i++ {
		step := grid.Cell{X: path[i].X - path[i-1].X, Y: path[i].Y - path[i-1].Y}
		if step == dir {
			segments[len(segments)-1].End = path[i]
			continue
		}
		if i == 1 {
			// First move extends the degenerate head segment.
			segments[0].End = path[1]
		} else {
			// Turns share the corner cell, keeping the chain contiguous.
			segments = append(segments, Segment{Start: path[i-1], End: path[i]})
		}
		dir = step
	}
	return segments
}
