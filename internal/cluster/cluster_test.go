package cluster

import (
	"testing"

	"github.com/lawnchairsociety/towerforge/internal/grid"
	"github.com/lawnchairsociety/towerforge/internal/world"
)

var clusterTemplate = &world.Template{
	ID:     "unit",
	Cells:  []grid.Cell{{X: 0, Y: 0}},
	Weight: 1,
}

func roomAt(node int, rt world.RoomType, x, y int) *world.PlacedRoom {
	return world.NewPlacedRoom(node, rt, clusterTemplate, grid.Cell{X: x, Y: y})
}

func TestDetectGroupsNearbyRooms(t *testing.T) {
	rooms := []*world.PlacedRoom{
		roomAt(0, world.RoomShop, 0, 0),
		roomAt(1, world.RoomShop, 3, 0),
		roomAt(2, world.RoomShop, 0, 3),
		roomAt(3, world.RoomShop, 50, 50), // far outlier
	}
	clusters := Detect(rooms, Options{DefaultEpsilon: 5, MinSize: 2})
	shops := clusters[world.RoomShop]
	if len(shops) != 1 {
		t.Fatalf("shop clusters = %d, want 1", len(shops))
	}
	if len(shops[0].Members) != 3 {
		t.Errorf("cluster members = %d, want 3", len(shops[0].Members))
	}
	for _, member := range shops[0].Members {
		if member.NodeID == 3 {
			t.Error("outlier joined the cluster")
		}
	}
	c := shops[0].Centroid
	if c.X > 3 || c.Y > 3 {
		t.Errorf("centroid = %v, expected near the member triangle", c)
	}
	if !shops[0].Bounds.Contains(grid.Cell{X: 3, Y: 0}) {
		t.Errorf("bounds = %v missing member cell", shops[0].Bounds)
	}
}

func TestDetectMinSizeDiscards(t *testing.T) {
	rooms := []*world.PlacedRoom{
		roomAt(0, world.RoomShop, 0, 0),
		roomAt(1, world.RoomShop, 40, 40),
	}
	clusters := Detect(rooms, Options{DefaultEpsilon: 5, MinSize: 2})
	if len(clusters) != 0 {
		t.Errorf("clusters = %v, want none below min size", clusters)
	}
}

func TestDetectMaxSizeCaps(t *testing.T) {
	var rooms []*world.PlacedRoom
	for i := 0; i < 6; i++ {
		rooms = append(rooms, roomAt(i, world.RoomMonster, i, 0))
	}
	clusters := Detect(rooms, Options{DefaultEpsilon: 10, MinSize: 1, MaxSize: 4})
	monsters := clusters[world.RoomMonster]
	total := 0
	for _, c := range monsters {
		if len(c.Members) > 4 {
			t.Errorf("cluster of %d members exceeds cap", len(c.Members))
		}
		total += len(c.Members)
	}
	if total != 6 {
		t.Errorf("total clustered members = %d, want 6", total)
	}
}

func TestDetectPerTypeEpsilon(t *testing.T) {
	rooms := []*world.PlacedRoom{
		roomAt(0, world.RoomShop, 0, 0),
		roomAt(1, world.RoomShop, 8, 0),
		roomAt(2, world.RoomTreasure, 20, 0),
		roomAt(3, world.RoomTreasure, 28, 0),
	}
	opts := Options{
		DefaultEpsilon: 10,
		Epsilon:        map[world.RoomType]float64{world.RoomShop: 4},
		MinSize:        2,
	}
	clusters := Detect(rooms, opts)
	// The shop override is too tight for the 8-cell gap; treasure uses
	// the default and groups.
	if len(clusters[world.RoomShop]) != 0 {
		t.Errorf("shop clusters = %d, want 0 under tight epsilon", len(clusters[world.RoomShop]))
	}
	if len(clusters[world.RoomTreasure]) != 1 {
		t.Errorf("treasure clusters = %d, want 1", len(clusters[world.RoomTreasure]))
	}
}

func TestDetectTypeFilter(t *testing.T) {
	rooms := []*world.PlacedRoom{
		roomAt(0, world.RoomShop, 0, 0),
		roomAt(1, world.RoomShop, 1, 0),
		roomAt(2, world.RoomStandard, 0, 1),
		roomAt(3, world.RoomStandard, 1, 1),
	}
	clusters := Detect(rooms, Options{
		DefaultEpsilon: 5,
		MinSize:        2,
		AllowTypes:     []world.RoomType{world.RoomShop},
	})
	if len(clusters[world.RoomShop]) != 1 {
		t.Errorf("shop clusters = %d, want 1", len(clusters[world.RoomShop]))
	}
	if len(clusters[world.RoomStandard]) != 0 {
		t.Errorf("standard rooms clustered despite type filter")
	}
}

func TestDetectNeverMixesTypes(t *testing.T) {
	rooms := []*world.PlacedRoom{
		roomAt(0, world.RoomShop, 0, 0),
		roomAt(1, world.RoomTreasure, 1, 0),
		roomAt(2, world.RoomShop, 2, 0),
	}
	clusters := Detect(rooms, Options{DefaultEpsilon: 5, MinSize: 1})
	for rt, list := range clusters {
		for _, c := range list {
			for _, member := range c.Members {
				if member.Type != rt {
					t.Errorf("cluster of %q contains %q room", rt, member.Type)
				}
			}
		}
	}
	if len(clusters[world.RoomShop]) == 0 || len(clusters[world.RoomTreasure]) == 0 {
		t.Error("expected clusters for both types")
	}
}

func TestDetectSequentialIDs(t *testing.T) {
	rooms := []*world.PlacedRoom{
		roomAt(0, world.RoomShop, 0, 0),
		roomAt(1, world.RoomShop, 40, 0),
		roomAt(2, world.RoomTreasure, 80, 0),
	}
	clusters := Detect(rooms, Options{DefaultEpsilon: 5, MinSize: 1})
	seen := make(map[int]bool)
	count := 0
	for _, list := range clusters {
		for _, c := range list {
			if seen[c.ID] {
				t.Errorf("duplicate cluster id %d", c.ID)
			}
			seen[c.ID] = true
			count++
		}
	}
	for id := 0; id < count; id++ {
		if !seen[id] {
			t.Errorf("cluster ids not sequential, missing %d", id)
		}
	}
}
