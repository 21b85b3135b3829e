package graphgen

import (
	"errors"
	"math/rand"
	"testing"
)

// chain is 0-1-2-3 with a branch 1-4.
func chainGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := New(5, [][2]int{{0, 1}, {1, 2}, {2, 3}, {1, 4}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return g
}

func TestNewDistances(t *testing.T) {
	g := chainGraph(t)
	wantDist := []int{0, 1, 2, 3, 2}
	for id, want := range wantDist {
		if got := g.Node(id).Distance; got != want {
			t.Errorf("node %d distance = %d, want %d", id, got, want)
		}
	}
}

func TestNewBossAndCriticalPath(t *testing.T) {
	g := chainGraph(t)
	if g.StartID != 0 {
		t.Errorf("StartID = %d, want 0", g.StartID)
	}
	// Node 3 is the unique farthest node.
	if g.BossID != 3 {
		t.Errorf("BossID = %d, want 3", g.BossID)
	}
	wantPath := []int{0, 1, 2, 3}
	if len(g.CriticalPath) != len(wantPath) {
		t.Fatalf("CriticalPath = %v, want %v", g.CriticalPath, wantPath)
	}
	for i, id := range wantPath {
		if g.CriticalPath[i] != id {
			t.Fatalf("CriticalPath = %v, want %v", g.CriticalPath, wantPath)
		}
	}
	for _, node := range g.Nodes {
		onPath := node.ID != 4
		if node.OnCriticalPath != onPath {
			t.Errorf("node %d OnCriticalPath = %v, want %v", node.ID, node.OnCriticalPath, onPath)
		}
	}
}

func TestBossTieBreakLowestID(t *testing.T) {
	// Nodes 2 and 3 both sit at distance 2.
	g, err := New(4, [][2]int{{0, 1}, {1, 2}, {1, 3}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if g.BossID != 2 {
		t.Errorf("BossID = %d, want 2 (lowest id among farthest)", g.BossID)
	}
}

func TestSetBoss(t *testing.T) {
	g := chainGraph(t)
	g.SetBoss(4)
	if g.BossID != 4 {
		t.Fatalf("BossID = %d, want 4", g.BossID)
	}
	wantPath := []int{0, 1, 4}
	if len(g.CriticalPath) != len(wantPath) {
		t.Fatalf("CriticalPath = %v, want %v", g.CriticalPath, wantPath)
	}
	for i, id := range wantPath {
		if g.CriticalPath[i] != id {
			t.Fatalf("CriticalPath = %v, want %v", g.CriticalPath, wantPath)
		}
	}
	// The old path must be unmarked.
	if g.Node(2).OnCriticalPath || g.Node(3).OnCriticalPath {
		t.Error("old critical path nodes still marked")
	}
	if !g.Node(0).OnCriticalPath || !g.Node(1).OnCriticalPath || !g.Node(4).OnCriticalPath {
		t.Error("new critical path nodes not marked")
	}
}

func TestDeadEndsAndDegree(t *testing.T) {
	g := chainGraph(t)
	tests := []struct {
		id      int
		degree  int
		deadEnd bool
	}{
		{0, 1, true},
		{1, 3, false},
		{2, 2, false},
		{3, 1, true},
		{4, 1, true},
	}
	for _, tt := range tests {
		if got := g.Degree(tt.id); got != tt.degree {
			t.Errorf("Degree(%d) = %d, want %d", tt.id, got, tt.degree)
		}
		if got := g.IsDeadEnd(tt.id); got != tt.deadEnd {
			t.Errorf("IsDeadEnd(%d) = %v, want %v", tt.id, got, tt.deadEnd)
		}
	}
}

func TestConnectionBetween(t *testing.T) {
	g := chainGraph(t)
	conn := g.ConnectionBetween(2, 1)
	if conn == nil || conn.A != 1 || conn.B != 2 {
		t.Fatalf("ConnectionBetween(2, 1) = %+v", conn)
	}
	if conn.Other(1) != 2 || conn.Other(2) != 1 {
		t.Error("Other returned wrong endpoint")
	}
	if g.ConnectionBetween(0, 3) != nil {
		t.Error("ConnectionBetween(0, 3) should be nil")
	}
}

func TestResolveOnce(t *testing.T) {
	g := chainGraph(t)
	conn := g.ConnectionBetween(0, 1)
	if err := conn.Resolve(LinkAdjacent); err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}
	if conn.Link != LinkAdjacent {
		t.Errorf("Link = %v, want adjacent", conn.Link)
	}
	if err := conn.Resolve(LinkCorridor); !errors.Is(err, ErrLinkResolved) {
		t.Errorf("second Resolve error = %v, want ErrLinkResolved", err)
	}
}

func TestNewRejectsDisconnected(t *testing.T) {
	_, err := New(4, [][2]int{{0, 1}, {2, 3}})
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("error = %v, want ErrNotConnected", err)
	}
}

func TestBuildSpanningTree(t *testing.T) {
	const n = 50
	g, err := Build(AlgoSpanningTree, n, 0.3, rand.New(rand.NewSource(12345)))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if g.NodeCount() != n {
		t.Errorf("NodeCount = %d, want %d", g.NodeCount(), n)
	}
	if len(g.Connections) < n-1 {
		t.Errorf("connections = %d, want at least %d", len(g.Connections), n-1)
	}

	// Same seed, same topology.
	again, err := Build(AlgoSpanningTree, n, 0.3, rand.New(rand.NewSource(12345)))
	if err != nil {
		t.Fatalf("Build rerun failed: %v", err)
	}
	if len(again.Connections) != len(g.Connections) {
		t.Fatalf("rerun connections = %d, want %d", len(again.Connections), len(g.Connections))
	}
	for i, conn := range g.Connections {
		if again.Connections[i].A != conn.A || again.Connections[i].B != conn.B {
			t.Fatalf("rerun edge %d = %d-%d, want %d-%d",
				i, again.Connections[i].A, again.Connections[i].B, conn.A, conn.B)
		}
	}
	if again.BossID != g.BossID {
		t.Errorf("rerun BossID = %d, want %d", again.BossID, g.BossID)
	}
}

func TestBuildAllAlgorithms(t *testing.T) {
	algos := []Algorithm{AlgoSpanningTree, AlgoGrid, AlgoCellular, AlgoMaze, AlgoHubSpoke}
	for _, algo := range algos {
		for _, n := range []int{2, 9, 30} {
			g, err := Build(algo, n, 0.4, rand.New(rand.NewSource(7)))
			if err != nil {
				t.Errorf("Build(%s, %d) failed: %v", algo, n, err)
				continue
			}
			if g.NodeCount() != n {
				t.Errorf("Build(%s, %d) NodeCount = %d", algo, n, g.NodeCount())
			}
			if g.BossID < 0 || g.BossID >= n {
				t.Errorf("Build(%s, %d) BossID = %d", algo, n, g.BossID)
			}
			if len(g.CriticalPath) == 0 || g.CriticalPath[0] != g.StartID {
				t.Errorf("Build(%s, %d) CriticalPath = %v", algo, n, g.CriticalPath)
			}
		}
	}
}

func TestBuildUnknownAlgorithm(t *testing.T) {
	_, err := Build(Algorithm("voronoi"), 10, 0.3, rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}

func TestBranchingAddsEdges(t *testing.T) {
	const n = 40
	sparse, err := Build(AlgoSpanningTree, n, 0, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	dense, err := Build(AlgoSpanningTree, n, 1.0, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(sparse.Connections) != n-1 {
		t.Errorf("branching 0 connections = %d, want %d", len(sparse.Connections), n-1)
	}
	if len(dense.Connections) <= len(sparse.Connections) {
		t.Errorf("branching 1.0 added no edges: %d vs %d", len(dense.Connections), len(sparse.Connections))
	}
}
