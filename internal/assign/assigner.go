package assign

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/lawnchairsociety/towerforge/internal/graphgen"
	"github.com/lawnchairsociety/towerforge/internal/world"
)

var ErrConstraintViolation = errors.New("assign: constraint violation")

// Assigner maps graph nodes to room types. The spawn type is fixed at
// the start node; the boss type goes to the best node its constraints
// admit; remaining requirements are filled most-constrained first.
type Assigner struct {
	Graph *graphgen.Graph

	SpawnType   world.RoomType
	BossType    world.RoomType
	DefaultType world.RoomType

	// Requirements are the floor-level (type, count) pairs, excluding
	// spawn and boss which are implicit.
	Requirements []world.Requirement

	// Constraints is the configured ordered list.
	Constraints []TypedConstraint

	// Zones drive the two-pass zone assignment; may be empty.
	Zones []*world.Zone
}

// Result is the completed assignment.
type Result struct {
	Types           map[int]world.RoomType
	BossID          int
	ZoneByNode      map[int]string
	TransitionRooms []int
}

// job is one unit of required placement: count rooms of a type, with
// any extra constraints (per-zone requirements add an InZone bound).
type job struct {
	Type  world.RoomType
	Count int
	Extra []Constraint
}

// Assign runs the assignment. It consumes rng only for candidate picks,
// in a fixed order, so a given seed always yields the same assignment.
func (a *Assigner) Assign(rng *rand.Rand) (*Result, error) {
	byType := a.partitionConstraints()

	ctx := &Context{
		Graph:      a.Graph,
		Types:      make(map[int]world.RoomType, a.Graph.NodeCount()),
		CountFor:   make(map[world.RoomType]int),
		RequiredBy: make(map[world.RoomType]int),
	}

	jobs := a.buildJobs()
	ctx.RequiredBy[a.BossType]++
	for _, j := range jobs {
		ctx.RequiredBy[j.Type] += j.Count
	}

	// Provisional zone pass: distances are final but the critical path
	// may still move with the boss, so this map is only good enough for
	// zone-bound constraints during assignment.
	ctx.ZoneByNode = AssignZones(a.Graph, a.Zones)

	// Spawn is always the start node.
	ctx.Types[a.Graph.StartID] = a.SpawnType
	ctx.CountFor[a.SpawnType]++

	bossID, err := a.placeBoss(ctx, byType)
	if err != nil {
		return nil, err
	}
	a.Graph.SetBoss(bossID)

	// Final zone pass now that the critical path is settled.
	ctx.ZoneByNode = AssignZones(a.Graph, a.Zones)

	a.orderJobs(jobs, ctx, byType)
	for _, j := range jobs {
		for placed := 0; placed < j.Count; placed++ {
			candidates := a.eligible(ctx, byType, j.Type, j.Extra)
			if len(candidates) == 0 {
				return nil, fmt.Errorf("%w: no valid node for %q (%d of %d placed)",
					ErrConstraintViolation, j.Type, placed, j.Count)
			}
			pick := candidates[rng.Intn(len(candidates))]
			ctx.Types[pick] = j.Type
			ctx.CountFor[j.Type]++
		}
	}

	// Everything else takes the default type, still subject to any
	// constraints configured against it.
	defaultConstraints := byType[a.DefaultType]
	ctx.Target = a.DefaultType
	for _, node := range a.Graph.Nodes {
		if _, done := ctx.Types[node.ID]; done {
			continue
		}
		for _, c := range defaultConstraints {
			if !c.Satisfied(node.ID, ctx) {
				return nil, fmt.Errorf("%w: node %d cannot take default type %q: %s",
					ErrConstraintViolation, node.ID, a.DefaultType, c)
			}
		}
		ctx.Types[node.ID] = a.DefaultType
		ctx.CountFor[a.DefaultType]++
	}

	if err := a.verify(ctx, byType); err != nil {
		return nil, err
	}

	return &Result{
		Types:           ctx.Types,
		BossID:          bossID,
		ZoneByNode:      ctx.ZoneByNode,
		TransitionRooms: TransitionRooms(a.Graph, ctx.ZoneByNode),
	}, nil
}

// partitionConstraints groups the ordered list by target type once, so
// candidate filtering never rescans the full list.
func (a *Assigner) partitionConstraints() map[world.RoomType][]Constraint {
	byType := make(map[world.RoomType][]Constraint)
	for _, tc := range a.Constraints {
		byType[tc.Type] = append(byType[tc.Type], tc.Constraint)
	}
	return byType
}

// buildJobs expands floor and per-zone requirements into placement jobs.
func (a *Assigner) buildJobs() []*job {
	var jobs []*job
	for _, req := range a.Requirements {
		jobs = append(jobs, &job{Type: req.Type, Count: req.Count})
	}
	for _, zone := range a.Zones {
		for _, req := range zone.Requirements {
			jobs = append(jobs, &job{
				Type:  req.Type,
				Count: req.Count,
				Extra: []Constraint{InZone{ZoneID: zone.ID}},
			})
		}
	}
	return jobs
}

// placeBoss picks the boss node: the most distant node passing every
// boss constraint, lowest id on ties. With no constraints this is the
// graph's own max-distance pick.
func (a *Assigner) placeBoss(ctx *Context, byType map[world.RoomType][]Constraint) (int, error) {
	candidates := a.eligible(ctx, byType, a.BossType, nil)
	if len(candidates) == 0 {
		return 0, fmt.Errorf("%w: no valid node for boss type %q", ErrConstraintViolation, a.BossType)
	}
	best := candidates[0]
	for _, id := range candidates[1:] {
		if a.Graph.Node(id).Distance > a.Graph.Node(best).Distance {
			best = id
		}
	}
	ctx.Types[best] = a.BossType
	ctx.CountFor[a.BossType]++
	return best, nil
}

// eligible returns the unassigned nodes satisfying every constraint for
// the type plus any job extras, ascending by id.
func (a *Assigner) eligible(ctx *Context, byType map[world.RoomType][]Constraint, rt world.RoomType, extra []Constraint) []int {
	ctx.Target = rt
	var out []int
	for _, node := range a.Graph.Nodes {
		if _, taken := ctx.Types[node.ID]; taken {
			continue
		}
		if satisfiesAll(node.ID, ctx, byType[rt]) && satisfiesAll(node.ID, ctx, extra) {
			out = append(out, node.ID)
		}
	}
	return out
}

func satisfiesAll(nodeID int, ctx *Context, cs []Constraint) bool {
	for _, c := range cs {
		if !c.Satisfied(nodeID, ctx) {
			return false
		}
	}
	return true
}

// orderJobs sorts jobs so the scarcest candidate pools fill first, with
// After constraints forcing their named types ahead of the dependent.
func (a *Assigner) orderJobs(jobs []*job, ctx *Context, byType map[world.RoomType][]Constraint) {
	afterRank := a.afterRanks(jobs, byType)
	pool := make(map[*job]int, len(jobs))
	for _, j := range jobs {
		pool[j] = len(a.eligible(ctx, byType, j.Type, j.Extra))
	}
	sort.SliceStable(jobs, func(i, k int) bool {
		ri, rk := afterRank[jobs[i].Type], afterRank[jobs[k].Type]
		if ri != rk {
			return ri < rk
		}
		if pool[jobs[i]] != pool[jobs[k]] {
			return pool[jobs[i]] < pool[jobs[k]]
		}
		return jobs[i].Type < jobs[k].Type
	})
}

// afterRanks derives an ordering rank per type from After constraints:
// a type ordered after another ranks one deeper. Cycles cap out rather
// than loop; verify catches any assignment they break.
func (a *Assigner) afterRanks(jobs []*job, byType map[world.RoomType][]Constraint) map[world.RoomType]int {
	deps := make(map[world.RoomType][]world.RoomType)
	for _, j := range jobs {
		for _, c := range byType[j.Type] {
			if after, ok := c.(After); ok {
				deps[j.Type] = append(deps[j.Type], after.Type)
			}
		}
	}
	ranks := make(map[world.RoomType]int, len(jobs))
	for _, j := range jobs {
		ranks[j.Type] = 0
	}
	for round := 0; round < len(jobs); round++ {
		changed := false
		for t, parents := range deps {
			for _, p := range parents {
				if ranks[t] <= ranks[p] {
					ranks[t] = ranks[p] + 1
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return ranks
}

// verify re-checks the completed assignment: every constraint for a
// type must hold at every node carrying that type.
func (a *Assigner) verify(ctx *Context, byType map[world.RoomType][]Constraint) error {
	for _, node := range a.Graph.Nodes {
		rt := ctx.Types[node.ID]
		ctx.Target = rt
		for _, c := range byType[rt] {
			if !c.Satisfied(node.ID, ctx) {
				return fmt.Errorf("%w: node %d of type %q fails %s",
					ErrConstraintViolation, node.ID, rt, c)
			}
		}
	}
	return nil
}
