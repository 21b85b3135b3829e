package assign

import (
	"github.com/lawnchairsociety/towerforge/internal/graphgen"
	"github.com/lawnchairsociety/towerforge/internal/world"
)

// AssignZones maps nodes to zones. Zones claim nodes in configuration
// order; the first zone whose rule covers a node wins. Nodes no zone
// claims are absent from the map.
//
// Zone assignment runs twice per floor: a provisional pass before type
// assignment so zone-bound constraints have something to check, and a
// final pass once boss selection has settled the critical path.
func AssignZones(g *graphgen.Graph, zones []*world.Zone) map[int]string {
	if len(zones) == 0 {
		return nil
	}
	byNode := make(map[int]string, g.NodeCount())
	for _, node := range g.Nodes {
		for _, zone := range zones {
			if zone.Claims(node.Distance, node.OnCriticalPath) {
				byNode[node.ID] = zone.ID
				break
			}
		}
	}
	return byNode
}

// TransitionRooms returns the ids of nodes bordering a different zone
// than their own, ascending. These rooms are where a player crosses
// from one zone into another.
func TransitionRooms(g *graphgen.Graph, zoneByNode map[int]string) []int {
	if zoneByNode == nil {
		return nil
	}
	var out []int
	for _, node := range g.Nodes {
		own := zoneByNode[node.ID]
		for _, neighbor := range g.Neighbors(node.ID) {
			if zoneByNode[neighbor] != own {
				out = append(out, node.ID)
				break
			}
		}
	}
	return out
}
