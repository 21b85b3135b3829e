// Package grid provides the integer grid primitives shared by every
// generation phase: cells, cardinal directions, and bounding boxes.
package grid

// Cell is a position on the floor grid. Cells are values and compare
// with ==, which lets them key maps and sets directly.
type Cell struct {
	X, Y int
}

// Add returns the cell offset by dx, dy.
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Plus returns the cell translated by another cell treated as an offset.
func (c Cell) Plus(o Cell) Cell {
	return Cell{X: c.X + o.X, Y: c.Y + o.Y}
}

// Neighbor returns the adjacent cell in the given direction.
func (c Cell) Neighbor(dir Direction) Cell {
	return c.Plus(dir.Offset())
}

// Neighbors returns the four cardinal neighbors in North, East, South,
// West order. The order is fixed so callers iterating it stay deterministic.
func (c Cell) Neighbors() [4]Cell {
	return [4]Cell{
		c.Neighbor(North),
		c.Neighbor(East),
		c.Neighbor(South),
		c.Neighbor(West),
	}
}

// Manhattan returns the Manhattan distance between two cells.
func Manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Direction represents a cardinal direction on the grid.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// AllDirections returns the four cardinal directions in a fixed order.
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}

// String returns the string representation of a Direction.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Opposite returns the opposite direction.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	default:
		return d
	}
}

// Offset returns the unit cell offset for the direction. North is -Y,
// matching screen-style coordinates where Y grows downward.
func (d Direction) Offset() Cell {
	switch d {
	case North:
		return Cell{X: 0, Y: -1}
	case South:
		return Cell{X: 0, Y: 1}
	case East:
		return Cell{X: 1, Y: 0}
	case West:
		return Cell{X: -1, Y: 0}
	default:
		return Cell{}
	}
}

// ParseDirection converts a direction name to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "north":
		return North, true
	case "east":
		return East, true
	case "south":
		return South, true
	case "west":
		return West, true
	default:
		return North, false
	}
}

// Bounds is an inclusive axis-aligned bounding box of cells.
type Bounds struct {
	Min, Max Cell
}

// NewBounds returns a degenerate box containing only the given cell.
func NewBounds(c Cell) Bounds {
	return Bounds{Min: c, Max: c}
}

// Extend grows the box to include the given cell.
func (b Bounds) Extend(c Cell) Bounds {
	if c.X < b.Min.X {
		b.Min.X = c.X
	}
	if c.Y < b.Min.Y {
		b.Min.Y = c.Y
	}
	if c.X > b.Max.X {
		b.Max.X = c.X
	}
	if c.Y > b.Max.Y {
		b.Max.Y = c.Y
	}
	return b
}

// Width returns the number of columns the box spans.
func (b Bounds) Width() int {
	return b.Max.X - b.Min.X + 1
}

// Height returns the number of rows the box spans.
func (b Bounds) Height() int {
	return b.Max.Y - b.Min.Y + 1
}

// Contains reports whether the cell lies inside the box.
func (b Bounds) Contains(c Cell) bool {
	return c.X >= b.Min.X && c.X <= b.Max.X && c.Y >= b.Min.Y && c.Y <= b.Max.Y
}

// BoundsOf computes the bounding box of a non-empty cell list.
func BoundsOf(cells []Cell) Bounds {
	b := NewBounds(cells[0])
	for _, c := range cells[1:] {
		b = b.Extend(c)
	}
	return b
}
