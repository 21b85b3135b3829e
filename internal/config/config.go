// Package config loads and validates generation configuration. All
// structural checks run in Validate, before any randomness is drawn, so
// a bad config fails the same way on every seed.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/towerforge/internal/graphgen"
	"github.com/lawnchairsociety/towerforge/internal/spatial"
	"github.com/lawnchairsociety/towerforge/internal/world"
)

var ErrInvalid = errors.New("config: invalid generation config")

// GenerationConfig describes one floor generation run.
type GenerationConfig struct {
	Seed            int64   `yaml:"seed"`
	RoomCount       int     `yaml:"room_count"`
	BranchingFactor float64 `yaml:"branching_factor"`
	Algorithm       string  `yaml:"algorithm"`

	SpawnType   string `yaml:"spawn_type"`
	BossType    string `yaml:"boss_type"`
	DefaultType string `yaml:"default_type"`

	Requirements []world.Requirement `yaml:"requirements,omitempty"`
	Constraints  []ConstraintSpec    `yaml:"constraints,omitempty"`
	Zones        []*world.Zone       `yaml:"zones,omitempty"`

	HallwayMode        string `yaml:"hallway_mode"`
	CorridorAvoidWalls bool   `yaml:"corridor_avoid_walls"`

	Clusters ClusterConfig `yaml:"clusters"`

	// TemplateCatalog is the path to the template catalog YAML file.
	TemplateCatalog string `yaml:"template_catalog"`
}

// ClusterConfig tunes the cluster detection phase.
type ClusterConfig struct {
	Enabled        bool               `yaml:"enabled"`
	DefaultEpsilon float64            `yaml:"default_epsilon"`
	Epsilon        map[string]float64 `yaml:"epsilon,omitempty"`
	MinSize        int                `yaml:"min_size"`
	MaxSize        int                `yaml:"max_size"`
	Types          []string           `yaml:"types,omitempty"`
}

// PreviewConfig holds the preview server settings.
type PreviewConfig struct {
	ListenAddr string `yaml:"listen_addr"`

	// AllowedOrigins lists origins allowed to connect. Empty enforces
	// same-origin; "*" allows all.
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`

	MaxMessageSize int64 `yaml:"max_message_size"`
}

// File is the top-level config file layout.
type File struct {
	Generation GenerationConfig `yaml:"generation"`
	Preview    PreviewConfig    `yaml:"preview"`
}

// Default returns a GenerationConfig with workable defaults: a dozen
// rooms, moderate branching, the common room types, and corridors cut
// only where placement needs them.
func Default() *GenerationConfig {
	return &GenerationConfig{
		Seed:            1,
		RoomCount:       12,
		BranchingFactor: 0.3,
		Algorithm:       string(graphgen.AlgoSpanningTree),
		SpawnType:       string(world.RoomSpawn),
		BossType:        string(world.RoomBoss),
		DefaultType:     string(world.RoomStandard),
		HallwayMode:     string(spatial.HallwayAsNeeded),
		Clusters: ClusterConfig{
			Enabled:        true,
			DefaultEpsilon: 12,
			MinSize:        2,
		},
	}
}

// DefaultPreview returns preview server defaults: loopback listener,
// same-origin policy, small messages.
func DefaultPreview() *PreviewConfig {
	return &PreviewConfig{
		ListenAddr:     "127.0.0.1:8080",
		MaxMessageSize: 4096,
	}
}

// Load reads the config file, merging over defaults. A missing file
// yields the defaults, matching how the server tolerates absent config.
func Load(path string) (*File, error) {
	file := &File{Generation: *Default(), Preview: *DefaultPreview()}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return file, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return file, nil
}

// Validate performs every structural check: ranges, type references,
// zone rules, constraint specs, and template coverage for each type the
// run can demand. catalog may be nil when only shape-independent checks
// are wanted (the orchestrator always passes one).
func (c *GenerationConfig) Validate(catalog *world.Catalog) error {
	if c.RoomCount < 2 {
		return fmt.Errorf("%w: room_count %d, need at least 2", ErrInvalid, c.RoomCount)
	}
	if c.BranchingFactor < 0 || c.BranchingFactor > 1 {
		return fmt.Errorf("%w: branching_factor %g outside [0,1]", ErrInvalid, c.BranchingFactor)
	}
	switch graphgen.Algorithm(c.Algorithm) {
	case graphgen.AlgoSpanningTree, graphgen.AlgoGrid, graphgen.AlgoCellular, graphgen.AlgoMaze, graphgen.AlgoHubSpoke, "":
	default:
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalid, c.Algorithm)
	}
	switch spatial.HallwayMode(c.HallwayMode) {
	case spatial.HallwayNone, spatial.HallwayAsNeeded, spatial.HallwayAlways:
	default:
		return fmt.Errorf("%w: unknown hallway_mode %q", ErrInvalid, c.HallwayMode)
	}
	if c.SpawnType == "" || c.BossType == "" || c.DefaultType == "" {
		return fmt.Errorf("%w: spawn_type, boss_type, and default_type must all be set", ErrInvalid)
	}

	required := 2 // spawn + boss
	for _, req := range c.Requirements {
		if req.Count <= 0 {
			return fmt.Errorf("%w: requirement for %q has count %d", ErrInvalid, req.Type, req.Count)
		}
		required += req.Count
	}
	if required > c.RoomCount {
		return fmt.Errorf("%w: %d required rooms exceed room_count %d", ErrInvalid, required, c.RoomCount)
	}

	criticalZones := 0
	zoneIDs := make(map[string]bool, len(c.Zones))
	for _, zone := range c.Zones {
		if zone.ID == "" {
			return fmt.Errorf("%w: zone without id", ErrInvalid)
		}
		if zoneIDs[zone.ID] {
			return fmt.Errorf("%w: duplicate zone id %q", ErrInvalid, zone.ID)
		}
		zoneIDs[zone.ID] = true
		switch zone.Rule {
		case world.ZoneCriticalPath:
			criticalZones++
		case world.ZoneDistanceBand:
			if zone.MaxDistance >= 0 && zone.MaxDistance < zone.MinDistance {
				return fmt.Errorf("%w: zone %q band %d..%d is empty", ErrInvalid, zone.ID, zone.MinDistance, zone.MaxDistance)
			}
		default:
			return fmt.Errorf("%w: zone %q has unknown rule %q", ErrInvalid, zone.ID, zone.Rule)
		}
		for _, req := range zone.Requirements {
			if req.Count <= 0 {
				return fmt.Errorf("%w: zone %q requirement for %q has count %d", ErrInvalid, zone.ID, req.Type, req.Count)
			}
		}
	}
	if criticalZones > 1 {
		return fmt.Errorf("%w: more than one critical_path zone", ErrInvalid)
	}

	for _, spec := range c.Constraints {
		if spec.Type == "" {
			return fmt.Errorf("%w: constraint %q has no target type", ErrInvalid, spec.Kind)
		}
		if _, err := spec.Build(); err != nil {
			return err
		}
		if spec.Kind == kindInZone && !zoneIDs[spec.Target] {
			return fmt.Errorf("%w: constraint references unknown zone %q", ErrInvalid, spec.Target)
		}
	}

	if c.Clusters.Enabled {
		if c.Clusters.DefaultEpsilon <= 0 {
			return fmt.Errorf("%w: clusters.default_epsilon must be positive", ErrInvalid)
		}
		if c.Clusters.MinSize < 1 {
			return fmt.Errorf("%w: clusters.min_size must be at least 1", ErrInvalid)
		}
		if c.Clusters.MaxSize != 0 && c.Clusters.MaxSize < c.Clusters.MinSize {
			return fmt.Errorf("%w: clusters.max_size %d below min_size %d", ErrInvalid, c.Clusters.MaxSize, c.Clusters.MinSize)
		}
	}

	if catalog != nil {
		if err := c.checkTemplateCoverage(catalog); err != nil {
			return err
		}
	}
	return nil
}

// checkTemplateCoverage confirms every type the run can demand has at
// least one template, including inside each zone's template subset.
func (c *GenerationConfig) checkTemplateCoverage(catalog *world.Catalog) error {
	demanded := []string{c.SpawnType, c.BossType, c.DefaultType}
	for _, req := range c.Requirements {
		demanded = append(demanded, string(req.Type))
	}
	for _, zone := range c.Zones {
		for _, req := range zone.Requirements {
			demanded = append(demanded, string(req.Type))
		}
	}
	for _, name := range demanded {
		if len(catalog.ForType(world.RoomType(name), nil)) == 0 {
			return fmt.Errorf("%w: no template serves room type %q", ErrInvalid, name)
		}
	}
	for _, zone := range c.Zones {
		if len(zone.TemplateIDs) == 0 {
			continue
		}
		for _, name := range demanded {
			if len(catalog.ForType(world.RoomType(name), zone.TemplateIDs)) == 0 {
				return fmt.Errorf("%w: zone %q template subset cannot serve room type %q", ErrInvalid, zone.ID, name)
			}
		}
	}
	return nil
}

// IsOriginAllowed checks a websocket origin against the preview config:
// wildcard or exact match when origins are listed, same-origin otherwise.
func (c *PreviewConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// isSameOrigin compares the origin URL's host to the request host. An
// absent origin header means a non-browser client and passes.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true
	}
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")
	return originHost == requestHost
}
