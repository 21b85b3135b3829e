// Package assign maps every graph node to a room type, honoring the
// floor's requirements and the ordered constraint list, and resolves
// zone membership for zone-aware constraints.
package assign

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/towerforge/internal/graphgen"
	"github.com/lawnchairsociety/towerforge/internal/world"
)

// Context is what constraints evaluate against: the fixed graph, the
// assignment built so far, and the zone map current at evaluation time.
type Context struct {
	Graph      *graphgen.Graph
	Target     world.RoomType
	Types      map[int]world.RoomType
	CountFor   map[world.RoomType]int
	RequiredBy map[world.RoomType]int
	ZoneByNode map[int]string
}

// Constraint is one predicate a node must pass to receive the target
// room type. Implementations are pure: evaluation never mutates context.
type Constraint interface {
	Satisfied(nodeID int, ctx *Context) bool
	String() string
}

// MinDistance requires the node to be at least N steps from the start.
type MinDistance struct {
	N int
}

func (c MinDistance) Satisfied(nodeID int, ctx *Context) bool {
	return ctx.Graph.Node(nodeID).Distance >= c.N
}

func (c MinDistance) String() string { return fmt.Sprintf("min_distance(%d)", c.N) }

// MaxDistance requires the node to be at most N steps from the start.
type MaxDistance struct {
	N int
}

func (c MaxDistance) Satisfied(nodeID int, ctx *Context) bool {
	return ctx.Graph.Node(nodeID).Distance <= c.N
}

func (c MaxDistance) String() string { return fmt.Sprintf("max_distance(%d)", c.N) }

// OnCriticalPath requires critical-path membership to match Want.
type OnCriticalPath struct {
	Want bool
}

func (c OnCriticalPath) Satisfied(nodeID int, ctx *Context) bool {
	return ctx.Graph.Node(nodeID).OnCriticalPath == c.Want
}

func (c OnCriticalPath) String() string { return fmt.Sprintf("on_critical_path(%v)", c.Want) }

// DeadEnd requires the node to have exactly one connection.
type DeadEnd struct{}

func (c DeadEnd) Satisfied(nodeID int, ctx *Context) bool {
	return ctx.Graph.IsDeadEnd(nodeID)
}

func (c DeadEnd) String() string { return "dead_end" }

// MaxPerFloor caps how many rooms of the target type the floor may hold.
type MaxPerFloor struct {
	N int
}

func (c MaxPerFloor) Satisfied(nodeID int, ctx *Context) bool {
	count := ctx.CountFor[ctx.Target]
	// A node already carrying the type does not count against itself,
	// so the final verification pass sees the same answer as placement.
	if ctx.Types[nodeID] == ctx.Target {
		count--
	}
	return count < c.N
}

func (c MaxPerFloor) String() string { return fmt.Sprintf("max_per_floor(%d)", c.N) }

// AdjacentTo requires a neighbor already assigned the given type. Order
// the target type after the named one so the neighbor exists in time.
type AdjacentTo struct {
	Type world.RoomType
}

func (c AdjacentTo) Satisfied(nodeID int, ctx *Context) bool {
	for _, neighbor := range ctx.Graph.Neighbors(nodeID) {
		if ctx.Types[neighbor] == c.Type {
			return true
		}
	}
	return false
}

func (c AdjacentTo) String() string { return fmt.Sprintf("adjacent_to(%s)", c.Type) }

// ConnectionCount bounds the node's degree. Max -1 leaves the top open.
type ConnectionCount struct {
	Min, Max int
}

func (c ConnectionCount) Satisfied(nodeID int, ctx *Context) bool {
	degree := ctx.Graph.Degree(nodeID)
	if degree < c.Min {
		return false
	}
	return c.Max < 0 || degree <= c.Max
}

func (c ConnectionCount) String() string { return fmt.Sprintf("connection_count(%d..%d)", c.Min, c.Max) }

// InZone requires the node to belong to the named zone. Evaluated
// against the provisional zone map during assignment and re-checked
// against the final map afterward.
type InZone struct {
	ZoneID string
}

func (c InZone) Satisfied(nodeID int, ctx *Context) bool {
	return ctx.ZoneByNode != nil && ctx.ZoneByNode[nodeID] == c.ZoneID
}

func (c InZone) String() string { return fmt.Sprintf("in_zone(%s)", c.ZoneID) }

// After requires every required room of the named type to be assigned
// already. The assigner also uses it to order type assignment.
type After struct {
	Type world.RoomType
}

func (c After) Satisfied(nodeID int, ctx *Context) bool {
	return ctx.CountFor[c.Type] >= ctx.RequiredBy[c.Type]
}

func (c After) String() string { return fmt.Sprintf("after(%s)", c.Type) }

// And passes when every child passes.
type And struct {
	Of []Constraint
}

func (c And) Satisfied(nodeID int, ctx *Context) bool {
	for _, child := range c.Of {
		if !child.Satisfied(nodeID, ctx) {
			return false
		}
	}
	return true
}

func (c And) String() string { return "all_of(" + joinConstraints(c.Of) + ")" }

// Or passes when any child passes.
type Or struct {
	Of []Constraint
}

func (c Or) Satisfied(nodeID int, ctx *Context) bool {
	for _, child := range c.Of {
		if child.Satisfied(nodeID, ctx) {
			return true
		}
	}
	return false
}

func (c Or) String() string { return "any_of(" + joinConstraints(c.Of) + ")" }

// Not inverts its child.
type Not struct {
	C Constraint
}

func (c Not) Satisfied(nodeID int, ctx *Context) bool {
	return !c.C.Satisfied(nodeID, ctx)
}

func (c Not) String() string { return "not(" + c.C.String() + ")" }

func joinConstraints(cs []Constraint) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// TypedConstraint binds a constraint to the room type it governs, as it
// appears in the configured ordered list.
type TypedConstraint struct {
	Type       world.RoomType
	Constraint Constraint
}
