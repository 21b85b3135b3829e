package graphgen

import (
	"fmt"
	"math"
	"math/rand"
)

// Algorithm selects the topology builder.
type Algorithm string

const (
	AlgoSpanningTree Algorithm = "spanning_tree"
	AlgoGrid         Algorithm = "grid"
	AlgoCellular     Algorithm = "cellular"
	AlgoMaze         Algorithm = "maze"
	AlgoHubSpoke     Algorithm = "hub_spoke"
)

// Build generates a connected graph over nodeCount nodes using the given
// algorithm. branching in [0,1] controls how many extra edges are layered
// on top of the guaranteed spanning structure. The caller validates
// nodeCount >= 2 and the branching range before any randomness is drawn.
func Build(algo Algorithm, nodeCount int, branching float64, rng *rand.Rand) (*Graph, error) {
	var edges [][2]int
	switch algo {
	case AlgoSpanningTree, "":
		edges = buildSpanningTree(nodeCount, branching, rng)
	case AlgoGrid:
		edges = buildGrid(nodeCount, branching, rng)
	case AlgoCellular:
		edges = buildCellular(nodeCount, branching, rng)
	case AlgoMaze:
		edges = buildMaze(nodeCount, branching, rng)
	case AlgoHubSpoke:
		edges = buildHubSpoke(nodeCount, branching, rng)
	default:
		return nil, fmt.Errorf("graphgen: unknown algorithm %q", algo)
	}
	return New(nodeCount, edges)
}

// edgeSet tracks which unordered pairs are already connected.
type edgeSet struct {
	edges [][2]int
	seen  map[[2]int]bool
}

func newEdgeSet() *edgeSet {
	return &edgeSet{seen: make(map[[2]int]bool)}
}

// add records the edge if it is neither a self edge nor a duplicate.
func (s *edgeSet) add(a, b int) bool {
	if a == b {
		return false
	}
	if a > b {
		a, b = b, a
	}
	key := [2]int{a, b}
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	s.edges = append(s.edges, key)
	return true
}

func (s *edgeSet) has(a, b int) bool {
	if a > b {
		a, b = b, a
	}
	return s.seen[[2]int{a, b}]
}

// buildSpanningTree is the default topology: a uniform random spanning
// tree (each node attaches to a random earlier node) plus extra edges in
// proportion to the branching factor.
func buildSpanningTree(n int, branching float64, rng *rand.Rand) [][2]int {
	set := newEdgeSet()
	for i := 1; i < n; i++ {
		set.add(rng.Intn(i), i)
	}
	addExtraEdges(set, n, branching, rng)
	return set.edges
}

// addExtraEdges layers cycle-creating edges over an already connected
// edge set. The target count scales with both node count and branching;
// attempts that hit an existing pair are simply skipped.
func addExtraEdges(set *edgeSet, n int, branching float64, rng *rand.Rand) {
	target := int(math.Round(branching * float64(n)))
	attempts := target * 4
	added := 0
	for i := 0; i < attempts && added < target; i++ {
		a := rng.Intn(n)
		b := rng.Intn(n)
		if set.add(a, b) {
			added++
		}
	}
}

// gridDims picks near-square dimensions able to hold n nodes.
func gridDims(n int) (cols, rows int) {
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = (n + cols - 1) / cols
	return cols, rows
}

// buildGrid lays nodes out row-major on a near-square lattice and
// connects orthogonal neighbors. branching prunes interior edges: a high
// branching factor keeps the full lattice, a low one thins it toward a
// tree while a spanning skeleton keeps the graph connected.
func buildGrid(n int, branching float64, rng *rand.Rand) [][2]int {
	cols, _ := gridDims(n)
	set := newEdgeSet()

	// Spanning skeleton: full first column, full rows.
	for i := 0; i < n; i++ {
		if i%cols != 0 {
			set.add(i-1, i)
		} else if i >= cols {
			set.add(i-cols, i)
		}
	}

	// Remaining vertical edges survive with probability scaled by branching.
	for i := cols; i < n; i++ {
		if i%cols == 0 {
			continue
		}
		if rng.Float64() < 0.25+0.75*branching {
			set.add(i-cols, i)
		}
	}
	return set.edges
}

// buildCellular scatters live cells on a lattice, smooths them with two
// cellular automata passes, then maps the n nodes onto the live region
// and connects lattice adjacency. Disconnected pockets are stitched to
// the main body so the postconditions hold.
func buildCellular(n int, branching float64, rng *rand.Rand) [][2]int {
	cols, rows := gridDims(n * 2)
	alive := make([]bool, cols*rows)
	for i := range alive {
		alive[i] = rng.Float64() < 0.6
	}

	// Standard 4/5 smoothing over the orthogonal neighborhood.
	for pass := 0; pass < 2; pass++ {
		next := make([]bool, len(alive))
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				count := 0
				if x > 0 && alive[y*cols+x-1] {
					count++
				}
				if x < cols-1 && alive[y*cols+x+1] {
					count++
				}
				if y > 0 && alive[(y-1)*cols+x] {
					count++
				}
				if y < rows-1 && alive[(y+1)*cols+x] {
					count++
				}
				if alive[y*cols+x] {
					next[y*cols+x] = count >= 1
				} else {
					next[y*cols+x] = count >= 3
				}
			}
		}
		alive = next
	}

	// Assign node ids to live lattice cells in scan order; revive dead
	// cells at the end if the automata left fewer than n.
	nodeAt := make([]int, cols*rows)
	for i := range nodeAt {
		nodeAt[i] = -1
	}
	id := 0
	for i := 0; i < cols*rows && id < n; i++ {
		if alive[i] {
			nodeAt[i] = id
			id++
		}
	}
	for i := 0; i < cols*rows && id < n; i++ {
		if nodeAt[i] == -1 {
			nodeAt[i] = id
			id++
		}
	}

	set := newEdgeSet()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			cur := nodeAt[y*cols+x]
			if cur == -1 {
				continue
			}
			if x < cols-1 && nodeAt[y*cols+x+1] != -1 {
				set.add(cur, nodeAt[y*cols+x+1])
			}
			if y < rows-1 && nodeAt[(y+1)*cols+x] != -1 {
				set.add(cur, nodeAt[(y+1)*cols+x])
			}
		}
	}

	stitchComponents(set, n)
	addExtraEdges(set, n, branching, rng)
	return set.edges
}

// stitchComponents connects disjoint components by linking each
// component's lowest node id to the lowest id of the previous component.
func stitchComponents(set *edgeSet, n int) {
	comp := make([]int, n)
	for i := range comp {
		comp[i] = -1
	}
	adj := make(map[int][]int, n)
	for _, e := range set.edges {
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}

	var roots []int
	for i := 0; i < n; i++ {
		if comp[i] != -1 {
			continue
		}
		roots = append(roots, i)
		comp[i] = i
		queue := []int{i}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range adj[cur] {
				if comp[next] == -1 {
					comp[next] = i
					queue = append(queue, next)
				}
			}
		}
	}
	for i := 1; i < len(roots); i++ {
		set.add(roots[i-1], roots[i])
	}
}

// buildMaze carves a perfect maze on a near-square lattice with a
// recursive backtracker, yielding long winding paths, then layers
// branching edges to open shortcuts.
func buildMaze(n int, branching float64, rng *rand.Rand) [][2]int {
	cols, _ := gridDims(n)
	set := newEdgeSet()
	visited := make([]bool, n)
	stack := []int{0}
	visited[0] = true

	neighborsOf := func(i int) []int {
		var ns []int
		x, y := i%cols, i/cols
		if x > 0 {
			ns = append(ns, i-1)
		}
		if x < cols-1 && i+1 < n {
			ns = append(ns, i+1)
		}
		if y > 0 {
			ns = append(ns, i-cols)
		}
		if i+cols < n {
			ns = append(ns, i+cols)
		}
		return ns
	}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		var candidates []int
		for _, next := range neighborsOf(cur) {
			if !visited[next] {
				candidates = append(candidates, next)
			}
		}
		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		next := candidates[rng.Intn(len(candidates))]
		visited[next] = true
		set.add(cur, next)
		stack = append(stack, next)
	}

	addExtraEdges(set, n, branching, rng)
	return set.edges
}

// buildHubSpoke designates a few hub nodes joined in a chain and hangs
// every other node off a random hub. Extra edges then cross-link spokes.
func buildHubSpoke(n int, branching float64, rng *rand.Rand) [][2]int {
	hubs := n / 8
	if hubs < 1 {
		hubs = 1
	}
	set := newEdgeSet()
	for h := 1; h < hubs; h++ {
		set.add(h-1, h)
	}
	for i := hubs; i < n; i++ {
		set.add(rng.Intn(hubs), i)
	}
	addExtraEdges(set, n, branching, rng)
	return set.edges
}
