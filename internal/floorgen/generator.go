// Package floorgen wires the generation phases into a floor pipeline:
// graph topology, room types, spatial placement, corridors, clusters.
// Each phase runs to completion before the next starts, and each draws
// from its own random stream derived from the floor seed, so disabling
// a downstream phase never perturbs an upstream one.
package floorgen

import (
	"math/rand"
	"time"

	"github.com/lawnchairsociety/towerforge/internal/assign"
	"github.com/lawnchairsociety/towerforge/internal/cluster"
	"github.com/lawnchairsociety/towerforge/internal/config"
	"github.com/lawnchairsociety/towerforge/internal/graphgen"
	"github.com/lawnchairsociety/towerforge/internal/hallway"
	"github.com/lawnchairsociety/towerforge/internal/logger"
	"github.com/lawnchairsociety/towerforge/internal/spatial"
	"github.com/lawnchairsociety/towerforge/internal/world"
)

// Phase indices for random stream derivation. Order is part of the
// determinism contract and must never change.
const (
	phaseGraph = iota + 1
	phaseAssign
	phaseSpatial
)

// phaseStride separates the phase streams in seed space.
const phaseStride = 1_000_003

// Generator generates floors from one validated configuration and one
// shared template catalog. Catalogs are immutable, so a single
// Generator value may serve floors concurrently as long as each call
// gets its own floor number.
type Generator struct {
	cfg     *config.GenerationConfig
	catalog *world.Catalog
}

// New validates the configuration against the catalog and returns a
// generator. Validation happens here, once, before any seed is touched.
func New(cfg *config.GenerationConfig, catalog *world.Catalog) (*Generator, error) {
	if err := cfg.Validate(catalog); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, catalog: catalog}, nil
}

// phaseRand derives the random stream for one phase of one floor.
func phaseRand(floorSeed int64, phase int64) *rand.Rand {
	return rand.New(rand.NewSource(floorSeed + phase*phaseStride))
}

// Generate builds one floor. The floor seed is the master seed plus the
// floor number, so floors of one tower differ but reproduce together.
func (g *Generator) Generate(floorNumber int) (*world.Floor, error) {
	floorSeed := g.cfg.Seed + int64(floorNumber)
	start := time.Now()

	graph, err := graphgen.Build(
		graphgen.Algorithm(g.cfg.Algorithm),
		g.cfg.RoomCount,
		g.cfg.BranchingFactor,
		phaseRand(floorSeed, phaseGraph),
	)
	if err != nil {
		return nil, err
	}

	constraints, err := g.cfg.BuildConstraints()
	if err != nil {
		return nil, err
	}
	assigner := &assign.Assigner{
		Graph:        graph,
		SpawnType:    world.RoomType(g.cfg.SpawnType),
		BossType:     world.RoomType(g.cfg.BossType),
		DefaultType:  world.RoomType(g.cfg.DefaultType),
		Requirements: g.cfg.Requirements,
		Constraints:  constraints,
		Zones:        g.cfg.Zones,
	}
	assignment, err := assigner.Assign(phaseRand(floorSeed, phaseAssign))
	if err != nil {
		return nil, err
	}

	solver := &spatial.Solver{
		Graph:      graph,
		Types:      assignment.Types,
		Catalog:    g.catalog,
		Zones:      g.cfg.Zones,
		ZoneByNode: assignment.ZoneByNode,
		Mode:       spatial.HallwayMode(g.cfg.HallwayMode),
	}
	layout, err := solver.Solve(phaseRand(floorSeed, phaseSpatial))
	if err != nil {
		return nil, err
	}

	builder := &hallway.Builder{
		Graph:      graph,
		Layout:     layout,
		AvoidWalls: g.cfg.CorridorAvoidWalls,
	}
	corridors, corridorDoors, err := builder.Build()
	if err != nil {
		return nil, err
	}

	for _, room := range layout.Rooms {
		room.Difficulty = difficulty(floorNumber, graph.Node(room.NodeID).Distance)
	}

	floor := &world.Floor{
		Number:          floorNumber,
		Seed:            floorSeed,
		Rooms:           layout.Rooms,
		Corridors:       corridors,
		Doors:           append(layout.Doors, corridorDoors...),
		SpawnID:         graph.StartID,
		BossID:          assignment.BossID,
		CriticalPath:    graph.CriticalPath,
		ZoneByNode:      assignment.ZoneByNode,
		TransitionRooms: assignment.TransitionRooms,
		Generated:       time.Now(),
	}

	if g.cfg.Clusters.Enabled {
		floor.Clusters = cluster.Detect(layout.Rooms, g.clusterOptions())
	}

	logger.Debug("floor generated",
		"floor", floorNumber,
		"seed", floorSeed,
		"rooms", len(floor.Rooms),
		"corridors", len(floor.Corridors),
		"elapsed", time.Since(start))
	return floor, nil
}

// clusterOptions maps the cluster config onto detector options.
func (g *Generator) clusterOptions() cluster.Options {
	opts := cluster.Options{
		DefaultEpsilon: g.cfg.Clusters.DefaultEpsilon,
		MinSize:        g.cfg.Clusters.MinSize,
		MaxSize:        g.cfg.Clusters.MaxSize,
	}
	if len(g.cfg.Clusters.Epsilon) > 0 {
		opts.Epsilon = make(map[world.RoomType]float64, len(g.cfg.Clusters.Epsilon))
		for name, eps := range g.cfg.Clusters.Epsilon {
			opts.Epsilon[world.RoomType(name)] = eps
		}
	}
	for _, name := range g.cfg.Clusters.Types {
		opts.AllowTypes = append(opts.AllowTypes, world.RoomType(name))
	}
	return opts
}

// difficulty scales with the floor number and the room's graph distance
// from the spawn: deeper floors and farther rooms are harder.
func difficulty(floorNumber, distance int) float64 {
	floorMult := 1.0
	if floorNumber > 0 {
		floorMult += float64(floorNumber) * 0.1
	}
	return floorMult * (1.0 + float64(distance)*0.1)
}
