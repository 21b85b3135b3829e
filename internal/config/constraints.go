package config

import (
	"fmt"

	"github.com/lawnchairsociety/towerforge/internal/assign"
	"github.com/lawnchairsociety/towerforge/internal/world"
)

// Constraint kind names as they appear in config files.
const (
	kindMinDistance     = "min_distance"
	kindMaxDistance     = "max_distance"
	kindOnCriticalPath  = "on_critical_path"
	kindDeadEnd         = "dead_end"
	kindMaxPerFloor     = "max_per_floor"
	kindAdjacentTo      = "adjacent_to"
	kindConnectionCount = "connection_count"
	kindInZone          = "in_zone"
	kindAfter           = "after"
	kindAllOf           = "all_of"
	kindAnyOf           = "any_of"
	kindNot             = "not"
)

// ConstraintSpec is the serialized form of one constraint. Composites
// nest their children under "of"; Type is only meaningful at the top
// level, where it names the room type the constraint governs.
type ConstraintSpec struct {
	Type   string           `yaml:"type,omitempty"`
	Kind   string           `yaml:"kind"`
	Value  int              `yaml:"value,omitempty"`
	Min    int              `yaml:"min,omitempty"`
	Max    int              `yaml:"max,omitempty"`
	Target string           `yaml:"target,omitempty"`
	Want   *bool            `yaml:"want,omitempty"`
	Of     []ConstraintSpec `yaml:"of,omitempty"`
}

// Build converts the spec into an evaluatable constraint.
func (s ConstraintSpec) Build() (assign.Constraint, error) {
	switch s.Kind {
	case kindMinDistance:
		if s.Value < 0 {
			return nil, fmt.Errorf("%w: min_distance value %d", ErrInvalid, s.Value)
		}
		return assign.MinDistance{N: s.Value}, nil
	case kindMaxDistance:
		if s.Value < 0 {
			return nil, fmt.Errorf("%w: max_distance value %d", ErrInvalid, s.Value)
		}
		return assign.MaxDistance{N: s.Value}, nil
	case kindOnCriticalPath:
		want := true
		if s.Want != nil {
			want = *s.Want
		}
		return assign.OnCriticalPath{Want: want}, nil
	case kindDeadEnd:
		return assign.DeadEnd{}, nil
	case kindMaxPerFloor:
		if s.Value < 1 {
			return nil, fmt.Errorf("%w: max_per_floor value %d", ErrInvalid, s.Value)
		}
		return assign.MaxPerFloor{N: s.Value}, nil
	case kindAdjacentTo:
		if s.Target == "" {
			return nil, fmt.Errorf("%w: adjacent_to needs a target type", ErrInvalid)
		}
		return assign.AdjacentTo{Type: world.RoomType(s.Target)}, nil
	case kindConnectionCount:
		max := s.Max
		if max == 0 {
			max = -1 // open-ended
		}
		if max >= 0 && max < s.Min {
			return nil, fmt.Errorf("%w: connection_count %d..%d is empty", ErrInvalid, s.Min, max)
		}
		return assign.ConnectionCount{Min: s.Min, Max: max}, nil
	case kindInZone:
		if s.Target == "" {
			return nil, fmt.Errorf("%w: in_zone needs a target zone", ErrInvalid)
		}
		return assign.InZone{ZoneID: s.Target}, nil
	case kindAfter:
		if s.Target == "" {
			return nil, fmt.Errorf("%w: after needs a target type", ErrInvalid)
		}
		return assign.After{Type: world.RoomType(s.Target)}, nil
	case kindAllOf:
		children, err := buildChildren(s.Of)
		if err != nil {
			return nil, err
		}
		return assign.And{Of: children}, nil
	case kindAnyOf:
		children, err := buildChildren(s.Of)
		if err != nil {
			return nil, err
		}
		return assign.Or{Of: children}, nil
	case kindNot:
		if len(s.Of) != 1 {
			return nil, fmt.Errorf("%w: not takes exactly one child, got %d", ErrInvalid, len(s.Of))
		}
		child, err := s.Of[0].Build()
		if err != nil {
			return nil, err
		}
		return assign.Not{C: child}, nil
	default:
		return nil, fmt.Errorf("%w: unknown constraint kind %q", ErrInvalid, s.Kind)
	}
}

func buildChildren(specs []ConstraintSpec) ([]assign.Constraint, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: composite constraint has no children", ErrInvalid)
	}
	children := make([]assign.Constraint, 0, len(specs))
	for _, spec := range specs {
		child, err := spec.Build()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// BuildConstraints converts the config's ordered constraint list,
// preserving order, into typed constraints for the assigner.
func (c *GenerationConfig) BuildConstraints() ([]assign.TypedConstraint, error) {
	out := make([]assign.TypedConstraint, 0, len(c.Constraints))
	for _, spec := range c.Constraints {
		built, err := spec.Build()
		if err != nil {
			return nil, err
		}
		out = append(out, assign.TypedConstraint{
			Type:       world.RoomType(spec.Type),
			Constraint: built,
		})
	}
	return out, nil
}
