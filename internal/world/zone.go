package world

// ZoneRule decides which nodes a zone claims.
type ZoneRule string

const (
	// ZoneDistanceBand claims nodes whose distance from the start node
	// falls inside [MinDistance, MaxDistance].
	ZoneDistanceBand ZoneRule = "distance_band"

	// ZoneCriticalPath claims nodes on the start->boss path. Only one
	// zone per floor may use this rule.
	ZoneCriticalPath ZoneRule = "critical_path"
)

// Zone is a named region of the floor with its own room requirements
// and, optionally, its own template subset.
type Zone struct {
	ID   string   `yaml:"id"`
	Rule ZoneRule `yaml:"rule"`

	// Distance band bounds, inclusive. MaxDistance -1 leaves the band
	// open at the top.
	MinDistance int `yaml:"min_distance"`
	MaxDistance int `yaml:"max_distance"`

	Requirements []Requirement `yaml:"requirements,omitempty"`
	TemplateIDs  []string      `yaml:"templates,omitempty"`
}

// Claims reports whether the zone's rule covers a node with the given
// distance-from-start and critical-path membership.
func (z *Zone) Claims(distance int, onCriticalPath bool) bool {
	switch z.Rule {
	case ZoneCriticalPath:
		return onCriticalPath
	case ZoneDistanceBand:
		if distance < z.MinDistance {
			return false
		}
		return z.MaxDistance < 0 || distance <= z.MaxDistance
	default:
		return false
	}
}
