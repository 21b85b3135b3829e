// Package graphgen builds the room topology for a floor: a connected
// graph of nodes with distances from the start node, a boss node, and
// the critical path between them.
package graphgen

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNotConnected = errors.New("graphgen: generated graph is not connected")
	ErrLinkResolved = errors.New("graphgen: connection link already resolved")
)

// LinkState records how a connection is realized in space. Every
// connection starts pending and is resolved exactly once by the spatial
// phase, either as a shared wall (adjacent) or as a corridor.
type LinkState int

const (
	LinkPending LinkState = iota
	LinkAdjacent
	LinkCorridor
)

// String returns the string representation of a LinkState.
func (s LinkState) String() string {
	switch s {
	case LinkPending:
		return "pending"
	case LinkAdjacent:
		return "adjacent"
	case LinkCorridor:
		return "corridor"
	default:
		return "unknown"
	}
}

// Node is a single room slot in the topology.
type Node struct {
	ID             int
	Distance       int  // BFS distance from the start node
	OnCriticalPath bool // true for nodes on the start->boss path
	Connections    []int // indices into Graph.Connections, fixed at build time
}

// Connection joins two nodes. The pair is unordered; A < B always holds.
type Connection struct {
	A, B int
	Link LinkState
}

// Other returns the endpoint opposite to the given node id.
func (c *Connection) Other(id int) int {
	if c.A == id {
		return c.B
	}
	return c.A
}

// Resolve sets the link state. It may be called exactly once per
// connection; a second call is a programming error in the caller.
func (c *Connection) Resolve(state LinkState) error {
	if c.Link != LinkPending {
		return fmt.Errorf("%w (%d-%d is %s)", ErrLinkResolved, c.A, c.B, c.Link)
	}
	c.Link = state
	return nil
}

// Graph owns the floor topology. Nodes are indexed by their dense id, so
// lookups never scan. The node and connection sets are fixed after New;
// only each connection's Link state changes, once, during placement.
type Graph struct {
	Nodes       []*Node
	Connections []*Connection

	StartID      int
	BossID       int
	CriticalPath []int // node ids, start first, boss last

	adjacency [][]int // node id -> sorted neighbor ids
}

// New assembles a graph from an edge list over nodes 0..nodeCount-1,
// then runs the distance pass, boss selection, and critical path
// extraction. Duplicate and self edges are rejected by the builders, so
// New treats the edge list as final.
func New(nodeCount int, edges [][2]int) (*Graph, error) {
	g := &Graph{
		Nodes:  make([]*Node, nodeCount),
		BossID: -1,
	}
	for i := range g.Nodes {
		g.Nodes[i] = &Node{ID: i}
	}

	g.adjacency = make([][]int, nodeCount)
	for _, e := range edges {
		a, b := e[0], e[1]
		if a > b {
			a, b = b, a
		}
		idx := len(g.Connections)
		g.Connections = append(g.Connections, &Connection{A: a, B: b})
		g.Nodes[a].Connections = append(g.Nodes[a].Connections, idx)
		g.Nodes[b].Connections = append(g.Nodes[b].Connections, idx)
		g.adjacency[a] = append(g.adjacency[a], b)
		g.adjacency[b] = append(g.adjacency[b], a)
	}
	for id := range g.adjacency {
		sort.Ints(g.adjacency[id])
	}

	if err := g.analyze(); err != nil {
		return nil, err
	}
	return g, nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id int) *Node {
	return g.Nodes[id]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// Neighbors returns the ids adjacent to the given node, ascending.
func (g *Graph) Neighbors(id int) []int {
	return g.adjacency[id]
}

// Degree returns the number of connections incident to the node.
func (g *Graph) Degree(id int) int {
	return len(g.adjacency[id])
}

// IsDeadEnd reports whether the node has exactly one connection.
func (g *Graph) IsDeadEnd(id int) bool {
	return g.Degree(id) == 1
}

// ConnectionBetween returns the connection joining a and b, or nil.
func (g *Graph) ConnectionBetween(a, b int) *Connection {
	for _, idx := range g.Nodes[a].Connections {
		if g.Connections[idx].Other(a) == b {
			return g.Connections[idx]
		}
	}
	return nil
}

// analyze computes BFS distances from the start node, picks the boss as
// the most distant node (lowest id on ties, which keeps boss selection
// reproducible across runs), and marks the critical path.
func (g *Graph) analyze() error {
	g.StartID = 0 // lowest id is always the entrance

	dist, parent := g.bfsFromStart()
	for id, d := range dist {
		if d == -1 {
			return fmt.Errorf("%w: node %d unreachable from start", ErrNotConnected, id)
		}
		g.Nodes[id].Distance = d
	}

	boss := -1
	for id, d := range dist {
		if boss == -1 || d > dist[boss] {
			boss = id
		}
	}
	g.bindBoss(boss, parent)
	return nil
}

// SetBoss re-points the boss at the given node and recomputes the
// critical path. The type assigner uses this when boss constraints rule
// out the default max-distance node.
func (g *Graph) SetBoss(id int) {
	if id == g.BossID {
		return
	}
	_, parent := g.bfsFromStart()
	for _, nodeID := range g.CriticalPath {
		g.Nodes[nodeID].OnCriticalPath = false
	}
	g.bindBoss(id, parent)
}

// bfsFromStart returns distance and BFS-parent arrays. Neighbor order is
// the sorted adjacency list, so results are stable for a given topology.
func (g *Graph) bfsFromStart() (dist, parent []int) {
	n := len(g.Nodes)
	dist = make([]int, n)
	parent = make([]int, n)
	for i := range dist {
		dist[i] = -1
		parent[i] = -1
	}
	dist[g.StartID] = 0
	queue := []int{g.StartID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.adjacency[cur] {
			if dist[next] != -1 {
				continue
			}
			dist[next] = dist[cur] + 1
			parent[next] = cur
			queue = append(queue, next)
		}
	}
	return dist, parent
}

// bindBoss records the boss id and marks the parent-chain path from the
// start as critical.
func (g *Graph) bindBoss(boss int, parent []int) {
	g.BossID = boss
	path := []int{boss}
	for cur := boss; parent[cur] != -1; cur = parent[cur] {
		path = append(path, parent[cur])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	g.CriticalPath = path
	for _, id := range path {
		g.Nodes[id].OnCriticalPath = true
	}
}
