// Package spatial fixes every typed graph node to a collision-free
// position on the world grid, walking the graph outward from the start
// node so each room anchors against an already-placed neighbor.
package spatial

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/towerforge/internal/graphgen"
	"github.com/lawnchairsociety/towerforge/internal/grid"
	"github.com/lawnchairsociety/towerforge/internal/world"
)

var ErrPlacement = errors.New("spatial: placement failed")

// HallwayMode controls how connections may be realized.
type HallwayMode string

const (
	// HallwayNone forbids corridors: every connection must come out as
	// a shared wall with facing doors, or generation fails.
	HallwayNone HallwayMode = "none"

	// HallwayAsNeeded prefers shared walls and falls back to corridors.
	HallwayAsNeeded HallwayMode = "as_needed"

	// HallwayAlways skips adjacency placement entirely; every
	// connection becomes a corridor.
	HallwayAlways HallwayMode = "always"
)

// Fallback search bounds: candidate anchors are enumerated on expanding
// rectangle rings around the neighbor's bounding box.
const (
	minFallbackRadius = 2
	maxFallbackRadius = 20
)

// Solver places rooms for one floor.
type Solver struct {
	Graph      *graphgen.Graph
	Types      map[int]world.RoomType
	Catalog    *world.Catalog
	Zones      []*world.Zone
	ZoneByNode map[int]string
	Mode       HallwayMode
}

// Layout is the spatial phase output: placed rooms in placement order,
// the occupied-cell set threaded on to corridor generation, and the
// doors cut where rooms ended up wall to wall.
type Layout struct {
	Rooms      []*world.PlacedRoom
	RoomByNode map[int]*world.PlacedRoom
	Occupied   mapset.Set[grid.Cell]
	Doors      []world.Door
}

// candidate is one viable placement: the anchor plus, for direct
// placements, the facing door pair that aligned it.
type candidate struct {
	anchor   grid.Cell
	roomDoor world.DoorEdge
	nbDoor   world.DoorEdge
}

// Solve walks the graph in BFS order from the start node and places
// every room. Each accepted placement enters the occupied set
// immediately, so collision freedom is enforced at placement time, not
// audited afterward.
func (s *Solver) Solve(rng *rand.Rand) (*Layout, error) {
	layout := &Layout{
		RoomByNode: make(map[int]*world.PlacedRoom, s.Graph.NodeCount()),
		Occupied:   mapset.New[grid.Cell](),
	}

	order, parent := s.placementOrder()
	for _, nodeID := range order {
		tmpl, err := s.pickTemplate(nodeID, rng)
		if err != nil {
			return nil, err
		}
		if parent[nodeID] == -1 {
			s.accept(layout, nodeID, tmpl, grid.Cell{})
			continue
		}
		if err := s.placeNext(layout, nodeID, parent[nodeID], tmpl, rng); err != nil {
			return nil, err
		}
	}

	if err := s.resolveRemaining(layout); err != nil {
		return nil, err
	}
	return layout, nil
}

// placementOrder returns nodes in BFS order from the start along with
// each node's BFS parent (-1 for the start node).
func (s *Solver) placementOrder() (order []int, parent map[int]int) {
	parent = make(map[int]int, s.Graph.NodeCount())
	parent[s.Graph.StartID] = -1
	order = append(order, s.Graph.StartID)
	for i := 0; i < len(order); i++ {
		for _, next := range s.Graph.Neighbors(order[i]) {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = order[i]
			order = append(order, next)
		}
	}
	return order, parent
}

// pickTemplate draws a weighted template for the node's type,
// restricted to the node's zone subset when one is configured.
func (s *Solver) pickTemplate(nodeID int, rng *rand.Rand) (*world.Template, error) {
	var allowIDs []string
	if zoneID, ok := s.ZoneByNode[nodeID]; ok {
		for _, z := range s.Zones {
			if z.ID == zoneID {
				allowIDs = z.TemplateIDs
				break
			}
		}
	}
	rt := s.Types[nodeID]
	pool := s.Catalog.ForType(rt, allowIDs)
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: %v for node %d", world.ErrNoTemplate, rt, nodeID)
	}
	return world.PickWeighted(pool, rng), nil
}

// placeNext positions one room against its already-placed BFS parent:
// door-to-door when the mode allows it, expanding-ring fallback
// otherwise, with the connection resolved accordingly.
func (s *Solver) placeNext(layout *Layout, nodeID, parentID int, tmpl *world.Template, rng *rand.Rand) error {
	neighbor := layout.RoomByNode[parentID]
	conn := s.Graph.ConnectionBetween(nodeID, parentID)

	if s.Mode != HallwayAlways {
		if cands := s.adjacentCandidates(layout, tmpl, neighbor); len(cands) > 0 {
			pick := cands[rng.Intn(len(cands))]
			room := s.accept(layout, nodeID, tmpl, pick.anchor)
			s.cutDoors(layout, room, neighbor, pick.roomDoor, pick.nbDoor)
			return conn.Resolve(graphgen.LinkAdjacent)
		}
		if s.Mode == HallwayNone {
			return fmt.Errorf("%w: node %d cannot align door-to-door with node %d and hallways are disabled",
				ErrPlacement, nodeID, parentID)
		}
	}

	anchor, err := s.fallbackAnchor(layout, tmpl, neighbor, rng)
	if err != nil {
		return fmt.Errorf("%w: node %d near node %d: %v", ErrPlacement, nodeID, parentID, err)
	}
	s.accept(layout, nodeID, tmpl, anchor)
	return conn.Resolve(graphgen.LinkCorridor)
}

// adjacentCandidates enumerates anchors that butt a door edge of the
// new template against an opposite-facing door edge of the neighbor
// with no cell collisions.
func (s *Solver) adjacentCandidates(layout *Layout, tmpl *world.Template, neighbor *world.PlacedRoom) []candidate {
	var out []candidate
	for _, nbDoor := range neighbor.DoorEdges() {
		// The new room's door cell sits just through the neighbor's wall.
		doorCell := nbDoor.Cell.Neighbor(nbDoor.Dir)
		for _, local := range tmpl.DoorEdges() {
			if local.Dir != nbDoor.Dir.Opposite() {
				continue
			}
			anchor := grid.Cell{X: doorCell.X - local.Cell.X, Y: doorCell.Y - local.Cell.Y}
			if s.fits(layout, tmpl, anchor) {
				out = append(out, candidate{
					anchor:   anchor,
					roomDoor: world.DoorEdge{Cell: doorCell, Dir: local.Dir},
					nbDoor:   nbDoor,
				})
			}
		}
	}
	return out
}

// fallbackAnchor searches expanding rectangle rings around the
// neighbor's bounding box for collision-free anchors, returning a
// uniform pick among the candidates at the first viable radius.
func (s *Solver) fallbackAnchor(layout *Layout, tmpl *world.Template, neighbor *world.PlacedRoom, rng *rand.Rand) (grid.Cell, error) {
	bounds := neighbor.Bounds()
	for radius := minFallbackRadius; radius <= maxFallbackRadius; radius++ {
		var anchors []grid.Cell
		for _, anchor := range boundsRing(bounds, radius) {
			if s.fits(layout, tmpl, anchor) {
				anchors = append(anchors, anchor)
			}
		}
		if len(anchors) > 0 {
			return anchors[rng.Intn(len(anchors))], nil
		}
	}
	return grid.Cell{}, fmt.Errorf("no free anchor within radius %d", maxFallbackRadius)
}

// fits reports whether every world cell of the template at the anchor
// is currently unoccupied.
func (s *Solver) fits(layout *Layout, tmpl *world.Template, anchor grid.Cell) bool {
	for _, c := range tmpl.Cells {
		if layout.Occupied.Has(anchor.Plus(c)) {
			return false
		}
	}
	return true
}

// accept commits a placement: the room joins the layout and its cells
// join the shared occupied set so later placements see them.
func (s *Solver) accept(layout *Layout, nodeID int, tmpl *world.Template, anchor grid.Cell) *world.PlacedRoom {
	room := world.NewPlacedRoom(nodeID, s.Types[nodeID], tmpl, anchor)
	layout.Rooms = append(layout.Rooms, room)
	layout.RoomByNode[nodeID] = room
	for _, c := range room.Cells() {
		layout.Occupied.Put(c)
	}
	return room
}

// cutDoors records the facing door pair between two wall-adjacent rooms.
func (s *Solver) cutDoors(layout *Layout, room, neighbor *world.PlacedRoom, roomDoor, nbDoor world.DoorEdge) {
	layout.Doors = append(layout.Doors,
		world.NewRoomDoor(nbDoor.Cell, nbDoor.Dir, neighbor.NodeID, room.NodeID),
		world.NewRoomDoor(roomDoor.Cell, roomDoor.Dir, room.NodeID, neighbor.NodeID),
	)
}

// resolveRemaining settles the connections the BFS tree skipped (the
// extra edges creating cycles). Rooms that landed wall to wall with
// compatible doors get a door pair; everything else needs a corridor.
func (s *Solver) resolveRemaining(layout *Layout) error {
	for _, conn := range s.Graph.Connections {
		if conn.Link != graphgen.LinkPending {
			continue
		}
		a, b := layout.RoomByNode[conn.A], layout.RoomByNode[conn.B]
		if s.Mode != HallwayAlways {
			if roomDoor, nbDoor, ok := facingDoorPair(a, b); ok {
				s.cutDoors(layout, a, b, roomDoor, nbDoor)
				if err := conn.Resolve(graphgen.LinkAdjacent); err != nil {
					return err
				}
				continue
			}
		}
		if s.Mode == HallwayNone {
			return fmt.Errorf("%w: nodes %d and %d are not door-adjacent and hallways are disabled",
				ErrPlacement, conn.A, conn.B)
		}
		if err := conn.Resolve(graphgen.LinkCorridor); err != nil {
			return err
		}
	}
	return nil
}

// facingDoorPair looks for a door edge of a whose far cell is a door
// cell of b with the opposite door direction. The first match in the
// rooms' fixed edge order wins.
func facingDoorPair(a, b *world.PlacedRoom) (aDoor, bDoor world.DoorEdge, ok bool) {
	for _, da := range a.DoorEdges() {
		far := da.Cell.Neighbor(da.Dir)
		for _, db := range b.DoorEdges() {
			if db.Cell == far && db.Dir == da.Dir.Opposite() {
				return da, db, true
			}
		}
	}
	return world.DoorEdge{}, world.DoorEdge{}, false
}

// boundsRing enumerates anchor candidates on the rectangle ring at the
// given distance outside the box, clockwise from the top-left corner.
func boundsRing(b grid.Bounds, radius int) []grid.Cell {
	min := b.Min.Add(-radius, -radius)
	max := b.Max.Add(radius, radius)
	cells := make([]grid.Cell, 0, 2*(max.X-min.X+max.Y-min.Y))
	for x := min.X; x <= max.X; x++ {
		cells = append(cells, grid.Cell{X: x, Y: min.Y})
	}
	for y := min.Y + 1; y <= max.Y-1; y++ {
		cells = append(cells, grid.Cell{X: max.X, Y: y})
	}
	for x := max.X; x >= min.X; x-- {
		cells = append(cells, grid.Cell{X: x, Y: max.Y})
	}
	for y := max.Y - 1; y >= min.Y+1; y-- {
		cells = append(cells, grid.Cell{X: min.X, Y: y})
	}
	return cells
}
