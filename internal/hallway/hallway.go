// Package hallway connects rooms that could not be placed wall to wall,
// pathfinding a corridor between door-capable edges and folding the
// result into axis-aligned segments.
package hallway

import (
	"fmt"

	"github.com/lawnchairsociety/towerforge/internal/graphgen"
	"github.com/lawnchairsociety/towerforge/internal/grid"
	"github.com/lawnchairsociety/towerforge/internal/pathfind"
	"github.com/lawnchairsociety/towerforge/internal/spatial"
	"github.com/lawnchairsociety/towerforge/internal/world"
)

// rescueRadius bounds the nearest-open-cell search used when a
// corridor's preferred attach cell is walled in.
const rescueRadius = 6

// Builder carves corridors for every connection the spatial phase
// resolved as LinkCorridor. Corridor cells join the occupied set as
// they are carved, so corridors never run through one another.
type Builder struct {
	Graph  *graphgen.Graph
	Layout *spatial.Layout

	// AvoidWalls opts corridors into the soft pathfinding penalty that
	// keeps them from hugging room walls.
	AvoidWalls bool
}

// Build returns the corridors and their doors, in connection order. A
// connection that cannot be routed is a generation failure: skipping it
// would leave the graph topology unreachable on the ground.
func (b *Builder) Build() ([]*world.Corridor, []world.Door, error) {
	var corridors []*world.Corridor
	var doors []world.Door
	for _, conn := range b.Graph.Connections {
		if conn.Link != graphgen.LinkCorridor {
			continue
		}
		corridor, err := b.carve(len(corridors), conn)
		if err != nil {
			return nil, nil, err
		}
		corridors = append(corridors, corridor)
		doors = append(doors, corridor.Doors[0], corridor.Doors[1])
	}
	return corridors, doors, nil
}

// carve routes one corridor between the rooms of a connection.
func (b *Builder) carve(id int, conn *graphgen.Connection) (*world.Corridor, error) {
	roomA := b.Layout.RoomByNode[conn.A]
	roomB := b.Layout.RoomByNode[conn.B]

	doorA, doorB, err := pickDoorPair(roomA, roomB)
	if err != nil {
		return nil, err
	}

	start := doorA.Cell.Neighbor(doorA.Dir)
	goal := doorB.Cell.Neighbor(doorB.Dir)
	blocked := b.Layout.Occupied.Has

	path, pathErr := b.route(start, goal, blocked)
	if pathErr != nil {
		// Rescue attempt: re-anchor both ends on the nearest open cells
		// before declaring the connection unroutable.
		start2, errA := pathfind.NearestOpen(start, blocked, rescueRadius)
		goal2, errB := pathfind.NearestOpen(goal, blocked, rescueRadius)
		if errA == nil && errB == nil {
			path, pathErr = b.route(start2, goal2, blocked)
		}
		if pathErr == nil {
			// A moved endpoint invalidates the chosen door: the corridor
			// must begin and end on a door threshold, so re-derive each
			// door from the edge that meets the rescued cell.
			if start2 != start {
				doorA, pathErr = matchDoor(roomA, start2)
			}
			if pathErr == nil && goal2 != goal {
				doorB, pathErr = matchDoor(roomB, goal2)
			}
		}
		if pathErr != nil {
			return nil, fmt.Errorf("%w: no corridor between nodes %d and %d: %v",
				spatial.ErrPlacement, conn.A, conn.B, pathErr)
		}
	}

	for _, c := range path {
		b.Layout.Occupied.Put(c)
	}

	corridor := &world.Corridor{
		ID:       id,
		Segments: world.SegmentsFromPath(path),
	}
	corridor.Doors[0] = world.NewCorridorDoor(doorA.Cell, doorA.Dir, roomA.NodeID, id)
	corridor.Doors[1] = world.NewCorridorDoor(doorB.Cell, doorB.Dir, roomB.NodeID, id)
	return corridor, nil
}

// matchDoor finds the door edge of a room whose outside cell is the
// given corridor endpoint.
func matchDoor(room *world.PlacedRoom, outside grid.Cell) (world.DoorEdge, error) {
	for _, edge := range room.DoorEdges() {
		if edge.Cell.Neighbor(edge.Dir) == outside {
			return edge, nil
		}
	}
	return world.DoorEdge{}, fmt.Errorf("no door edge of room %d meets cell %v", room.NodeID, outside)
}

// route runs the corridor A*. Start and goal are exempt from the
// obstacle check; everything else currently occupied is a wall.
func (b *Builder) route(start, goal grid.Cell, blocked func(grid.Cell) bool) ([]grid.Cell, error) {
	return pathfind.ShortestPath(start, goal, blocked, pathfind.Options{AvoidWalls: b.AvoidWalls})
}

// pickDoorPair chooses the door edges to join: the pair whose outside
// cells are closest (first in edge order on ties). Rooms placed by the
// radius fallback rarely face each other squarely, so closeness stands
// in for an ideal facing pair; with a single door per room this
// degrades to the first available edge on each side.
func pickDoorPair(a, b *world.PlacedRoom) (world.DoorEdge, world.DoorEdge, error) {
	edgesA, edgesB := a.DoorEdges(), b.DoorEdges()
	if len(edgesA) == 0 || len(edgesB) == 0 {
		return world.DoorEdge{}, world.DoorEdge{}, fmt.Errorf(
			"%w: rooms %d and %d lack door-capable edges for a corridor",
			spatial.ErrPlacement, a.NodeID, b.NodeID)
	}
	bestA, bestB := edgesA[0], edgesB[0]
	best := -1
	for _, da := range edgesA {
		outA := da.Cell.Neighbor(da.Dir)
		for _, db := range edgesB {
			d := grid.Manhattan(outA, db.Cell.Neighbor(db.Dir))
			if best == -1 || d < best {
				best = d
				bestA, bestB = da, db
			}
		}
	}
	return bestA, bestB, nil
}
