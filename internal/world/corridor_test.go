package world

import (
	"testing"

	"github.com/lawnchairsociety/towerforge/internal/grid"
)

func TestSegmentCells(t *testing.T) {
	tests := []struct {
		name string
		seg  Segment
		want []grid.Cell
	}{
		{
			name: "single cell",
			seg:  Segment{Start: grid.Cell{X: 2, Y: 2}, End: grid.Cell{X: 2, Y: 2}},
			want: []grid.Cell{{X: 2, Y: 2}},
		},
		{
			name: "east run",
			seg:  Segment{Start: grid.Cell{X: 0, Y: 0}, End: grid.Cell{X: 3, Y: 0}},
			want: []grid.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}},
		},
		{
			name: "north run",
			seg:  Segment{Start: grid.Cell{X: 1, Y: 3}, End: grid.Cell{X: 1, Y: 1}},
			want: []grid.Cell{{X: 1, Y: 3}, {X: 1, Y: 2}, {X: 1, Y: 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.seg.Cells()
			if len(got) != len(tt.want) {
				t.Fatalf("Cells() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("Cells() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSegmentsFromPath(t *testing.T) {
	tests := []struct {
		name string
		path []grid.Cell
		want []Segment
	}{
		{
			name: "empty",
			path: nil,
			want: nil,
		},
		{
			name: "single cell",
			path: []grid.Cell{{X: 4, Y: 4}},
			want: []Segment{{Start: grid.Cell{X: 4, Y: 4}, End: grid.Cell{X: 4, Y: 4}}},
		},
		{
			name: "straight",
			path: []grid.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}},
			want: []Segment{{Start: grid.Cell{X: 0, Y: 0}, End: grid.Cell{X: 3, Y: 0}}},
		},
		{
			name: "one turn",
			path: []grid.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}},
			want: []Segment{
				{Start: grid.Cell{X: 0, Y: 0}, End: grid.Cell{X: 2, Y: 0}},
				{Start: grid.Cell{X: 2, Y: 0}, End: grid.Cell{X: 2, Y: 2}},
			},
		},
		{
			name: "zigzag",
			path: []grid.Cell{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}},
			want: []Segment{
				{Start: grid.Cell{X: 0, Y: 0}, End: grid.Cell{X: 0, Y: 1}},
				{Start: grid.Cell{X: 0, Y: 1}, End: grid.Cell{X: 1, Y: 1}},
				{Start: grid.Cell{X: 1, Y: 1}, End: grid.Cell{X: 1, Y: 2}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentsFromPath(tt.path)
			if len(got) != len(tt.want) {
				t.Fatalf("SegmentsFromPath = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("SegmentsFromPath = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestCorridorCellsNoRepeats(t *testing.T) {
	path := []grid.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 2}}
	corridor := &Corridor{Segments: SegmentsFromPath(path)}
	cells := corridor.Cells()
	if len(cells) != len(path) {
		t.Fatalf("Cells() = %v, want %v", cells, path)
	}
	for i := range path {
		if cells[i] != path[i] {
			t.Fatalf("Cells()[%d] = %v, want %v", i, cells[i], path[i])
		}
	}
}

func TestDoorConstructors(t *testing.T) {
	rd := NewRoomDoor(grid.Cell{X: 1, Y: 1}, grid.East, 3, 5)
	if rd.ToRoom != 5 || rd.ToCorridor != -1 || rd.Room != 3 {
		t.Errorf("NewRoomDoor = %+v", rd)
	}
	cd := NewCorridorDoor(grid.Cell{X: 2, Y: 2}, grid.South, 4, 0)
	if cd.ToCorridor != 0 || cd.ToRoom != -1 || cd.Room != 4 {
		t.Errorf("NewCorridorDoor = %+v", cd)
	}
}
