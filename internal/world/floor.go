package world

import (
	"time"

	"github.com/lawnchairsociety/towerforge/internal/grid"
)

// Cluster is a spatial grouping of same-type rooms whose centroids sit
// within the detector's epsilon of the cluster's running centroid.
type Cluster struct {
	ID       int
	Type     RoomType
	Members  []*PlacedRoom
	Centroid grid.Cell
	Bounds   grid.Bounds
}

// Floor is the assembled output of one generation run. It owns all of
// its collections; nothing here is shared across floors.
type Floor struct {
	Number int
	Seed   int64

	Rooms     []*PlacedRoom
	Corridors []*Corridor
	Doors     []Door

	SpawnID      int
	BossID       int
	CriticalPath []int

	// ZoneByNode is nil when the config defines no zones.
	ZoneByNode      map[int]string
	TransitionRooms []int

	Clusters map[RoomType][]*Cluster

	Generated time.Time
}

// Room returns the placed room for a node id, or nil.
func (f *Floor) Room(nodeID int) *PlacedRoom {
	for _, r := range f.Rooms {
		if r.NodeID == nodeID {
			return r
		}
	}
	return nil
}

// RoomsOfType returns the placed rooms with the given type, in
// placement order.
func (f *Floor) RoomsOfType(rt RoomType) []*PlacedRoom {
	var out []*PlacedRoom
	for _, r := range f.Rooms {
		if r.Type == rt {
			out = append(out, r)
		}
	}
	return out
}
