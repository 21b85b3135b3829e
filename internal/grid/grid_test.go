package grid

import "testing"

func TestDirectionOpposite(t *testing.T) {
	tests := []struct {
		dir  Direction
		want Direction
	}{
		{North, South},
		{South, North},
		{East, West},
		{West, East},
	}
	for _, tt := range tests {
		if got := tt.dir.Opposite(); got != tt.want {
			t.Errorf("%s.Opposite() = %s, want %s", tt.dir, got, tt.want)
		}
	}
}

func TestDirectionOffset(t *testing.T) {
	tests := []struct {
		dir  Direction
		want Cell
	}{
		{North, Cell{X: 0, Y: -1}},
		{South, Cell{X: 0, Y: 1}},
		{East, Cell{X: 1, Y: 0}},
		{West, Cell{X: -1, Y: 0}},
	}
	for _, tt := range tests {
		if got := tt.dir.Offset(); got != tt.want {
			t.Errorf("%s.Offset() = %v, want %v", tt.dir, got, tt.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, dir := range AllDirections() {
		got, ok := ParseDirection(dir.String())
		if !ok || got != dir {
			t.Errorf("ParseDirection(%q) = %v, %v", dir.String(), got, ok)
		}
	}
	if _, ok := ParseDirection("up"); ok {
		t.Error("ParseDirection(\"up\") should fail")
	}
}

func TestNeighbor(t *testing.T) {
	c := Cell{X: 3, Y: 5}
	if got := c.Neighbor(North); got != (Cell{X: 3, Y: 4}) {
		t.Errorf("Neighbor(North) = %v", got)
	}
	if got := c.Neighbor(East); got != (Cell{X: 4, Y: 5}) {
		t.Errorf("Neighbor(East) = %v", got)
	}
}

func TestManhattan(t *testing.T) {
	tests := []struct {
		a, b Cell
		want int
	}{
		{Cell{0, 0}, Cell{0, 0}, 0},
		{Cell{0, 0}, Cell{3, 4}, 7},
		{Cell{-2, 1}, Cell{2, -1}, 6},
	}
	for _, tt := range tests {
		if got := Manhattan(tt.a, tt.b); got != tt.want {
			t.Errorf("Manhattan(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBoundsExtend(t *testing.T) {
	b := NewBounds(Cell{X: 2, Y: 2})
	b = b.Extend(Cell{X: 5, Y: 1})
	b = b.Extend(Cell{X: 0, Y: 4})

	if b.Min != (Cell{X: 0, Y: 1}) || b.Max != (Cell{X: 5, Y: 4}) {
		t.Fatalf("bounds = %v", b)
	}
	if b.Width() != 6 || b.Height() != 4 {
		t.Errorf("Width/Height = %d, %d; want 6, 4", b.Width(), b.Height())
	}
	if !b.Contains(Cell{X: 3, Y: 2}) {
		t.Error("Contains(3,2) = false")
	}
	if b.Contains(Cell{X: 6, Y: 2}) {
		t.Error("Contains(6,2) = true")
	}
}

func TestBoundsOf(t *testing.T) {
	b := BoundsOf([]Cell{{1, 1}, {-2, 3}, {4, 0}})
	if b.Min != (Cell{X: -2, Y: 0}) || b.Max != (Cell{X: 4, Y: 3}) {
		t.Errorf("BoundsOf = %v", b)
	}
}
