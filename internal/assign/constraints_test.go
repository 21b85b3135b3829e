package assign

import (
	"testing"

	"github.com/lawnchairsociety/towerforge/internal/graphgen"
	"github.com/lawnchairsociety/towerforge/internal/world"
)

// constraintContext wraps the fixed test topology in an evaluation
// context with a few types pre-assigned.
func constraintContext(t *testing.T) *Context {
	t.Helper()
	g, err := graphgen.New(5, [][2]int{{0, 1}, {1, 2}, {2, 3}, {1, 4}})
	if err != nil {
		t.Fatalf("graph build failed: %v", err)
	}
	return &Context{
		Graph:  g,
		Target: world.RoomShop,
		Types: map[int]world.RoomType{
			0: world.RoomSpawn,
			3: world.RoomBoss,
		},
		CountFor:   map[world.RoomType]int{world.RoomSpawn: 1, world.RoomBoss: 1},
		RequiredBy: map[world.RoomType]int{world.RoomBoss: 1, world.RoomTreasure: 2},
		ZoneByNode: map[int]string{0: "near", 1: "near", 2: "far", 3: "far", 4: "far"},
	}
}

func TestConstraintTable(t *testing.T) {
	ctx := constraintContext(t)
	tests := []struct {
		name string
		c    Constraint
		node int
		want bool
	}{
		{"min distance pass", MinDistance{N: 2}, 2, true},
		{"min distance fail", MinDistance{N: 2}, 1, false},
		{"max distance pass", MaxDistance{N: 1}, 1, true},
		{"max distance fail", MaxDistance{N: 1}, 2, false},
		{"critical path pass", OnCriticalPath{Want: true}, 2, true},
		{"critical path fail", OnCriticalPath{Want: true}, 4, false},
		{"off critical path", OnCriticalPath{Want: false}, 4, true},
		{"dead end pass", DeadEnd{}, 4, true},
		{"dead end fail", DeadEnd{}, 1, false},
		{"adjacent to pass", AdjacentTo{Type: world.RoomBoss}, 2, true},
		{"adjacent to fail", AdjacentTo{Type: world.RoomBoss}, 1, false},
		{"connection count pass", ConnectionCount{Min: 2, Max: 3}, 1, true},
		{"connection count fail low", ConnectionCount{Min: 2, Max: 3}, 4, false},
		{"connection count open top", ConnectionCount{Min: 1, Max: -1}, 1, true},
		{"in zone pass", InZone{ZoneID: "far"}, 2, true},
		{"in zone fail", InZone{ZoneID: "far"}, 1, false},
		{"after satisfied", After{Type: world.RoomBoss}, 2, true},
		{"after unsatisfied", After{Type: world.RoomTreasure}, 2, false},
		{"all of", And{Of: []Constraint{MinDistance{N: 1}, DeadEnd{}}}, 4, true},
		{"all of fail", And{Of: []Constraint{MinDistance{N: 3}, DeadEnd{}}}, 4, false},
		{"any of", Or{Of: []Constraint{MinDistance{N: 3}, DeadEnd{}}}, 4, true},
		{"not", Not{C: DeadEnd{}}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Satisfied(tt.node, ctx); got != tt.want {
				t.Errorf("%s.Satisfied(%d) = %v, want %v", tt.c, tt.node, got, tt.want)
			}
		})
	}
}

func TestMaxPerFloorSelfExempt(t *testing.T) {
	ctx := constraintContext(t)
	ctx.Target = world.RoomBoss
	c := MaxPerFloor{N: 1}
	// Node 3 already carries boss; it must not count against itself.
	if !c.Satisfied(3, ctx) {
		t.Error("node carrying the type failed its own cap")
	}
	// A fresh node would push the count past the cap.
	if c.Satisfied(2, ctx) {
		t.Error("cap not enforced for a second boss")
	}
}
