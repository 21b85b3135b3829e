package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/towerforge/internal/world"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(nil); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GenerationConfig)
	}{
		{"room count too small", func(c *GenerationConfig) { c.RoomCount = 1 }},
		{"branching below range", func(c *GenerationConfig) { c.BranchingFactor = -0.1 }},
		{"branching above range", func(c *GenerationConfig) { c.BranchingFactor = 1.5 }},
		{"unknown algorithm", func(c *GenerationConfig) { c.Algorithm = "voronoi" }},
		{"unknown hallway mode", func(c *GenerationConfig) { c.HallwayMode = "sometimes" }},
		{"missing spawn type", func(c *GenerationConfig) { c.SpawnType = "" }},
		{"missing boss type", func(c *GenerationConfig) { c.BossType = "" }},
		{"requirement count zero", func(c *GenerationConfig) {
			c.Requirements = []world.Requirement{{Type: world.RoomShop, Count: 0}}
		}},
		{"requirements exceed rooms", func(c *GenerationConfig) {
			c.RoomCount = 4
			c.Requirements = []world.Requirement{{Type: world.RoomMonster, Count: 3}}
		}},
		{"zone without id", func(c *GenerationConfig) {
			c.Zones = []*world.Zone{{Rule: world.ZoneDistanceBand}}
		}},
		{"duplicate zone id", func(c *GenerationConfig) {
			c.Zones = []*world.Zone{
				{ID: "z", Rule: world.ZoneDistanceBand, MaxDistance: -1},
				{ID: "z", Rule: world.ZoneDistanceBand, MaxDistance: -1},
			}
		}},
		{"unknown zone rule", func(c *GenerationConfig) {
			c.Zones = []*world.Zone{{ID: "z", Rule: "ring"}}
		}},
		{"empty distance band", func(c *GenerationConfig) {
			c.Zones = []*world.Zone{{ID: "z", Rule: world.ZoneDistanceBand, MinDistance: 5, MaxDistance: 2}}
		}},
		{"two critical path zones", func(c *GenerationConfig) {
			c.Zones = []*world.Zone{
				{ID: "a", Rule: world.ZoneCriticalPath},
				{ID: "b", Rule: world.ZoneCriticalPath},
			}
		}},
		{"constraint without type", func(c *GenerationConfig) {
			c.Constraints = []ConstraintSpec{{Kind: "dead_end"}}
		}},
		{"unknown constraint kind", func(c *GenerationConfig) {
			c.Constraints = []ConstraintSpec{{Type: "shop", Kind: "sparkly"}}
		}},
		{"in_zone unknown zone", func(c *GenerationConfig) {
			c.Constraints = []ConstraintSpec{{Type: "shop", Kind: "in_zone", Target: "nowhere"}}
		}},
		{"cluster epsilon zero", func(c *GenerationConfig) { c.Clusters.DefaultEpsilon = 0 }},
		{"cluster min size zero", func(c *GenerationConfig) { c.Clusters.MinSize = 0 }},
		{"cluster max below min", func(c *GenerationConfig) {
			c.Clusters.MinSize = 3
			c.Clusters.MaxSize = 2
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(nil); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestValidateTemplateCoverage(t *testing.T) {
	catalog, err := world.ParseCatalog([]byte(`
templates:
  - id: standard_only
    room_types: [spawn, boss, standard]
    weight: 1
    cells: [[0, 0]]
`))
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}

	cfg := Default()
	if err := cfg.Validate(catalog); err != nil {
		t.Errorf("coverage for core types should pass: %v", err)
	}

	cfg.Requirements = []world.Requirement{{Type: world.RoomShop, Count: 1}}
	if err := cfg.Validate(catalog); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate() = %v, want ErrInvalid for uncovered shop", err)
	}

	// Types demanded only inside a zone need coverage too.
	cfg = Default()
	cfg.Zones = []*world.Zone{{
		ID:          "deep",
		Rule:        world.ZoneDistanceBand,
		MaxDistance: -1,
		Requirements: []world.Requirement{
			{Type: world.RoomShrine, Count: 1},
		},
	}}
	if err := cfg.Validate(catalog); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate() = %v, want ErrInvalid for uncovered zone shrine", err)
	}
}

func TestValidateZoneSubsetCoverage(t *testing.T) {
	catalog, err := world.ParseCatalog([]byte(`
templates:
  - id: everywhere
    weight: 1
    cells: [[0, 0]]
  - id: spawn_shape
    room_types: [spawn]
    weight: 1
    cells: [[0, 0]]
`))
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}
	cfg := Default()
	cfg.Zones = []*world.Zone{{
		ID:          "narrow",
		Rule:        world.ZoneDistanceBand,
		MaxDistance: -1,
		TemplateIDs: []string{"spawn_shape"},
	}}
	if err := cfg.Validate(catalog); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate() = %v, want ErrInvalid for boss-less zone subset", err)
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	file, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if file.Generation.RoomCount != Default().RoomCount {
		t.Errorf("RoomCount = %d, want default", file.Generation.RoomCount)
	}
	if file.Preview.ListenAddr != DefaultPreview().ListenAddr {
		t.Errorf("ListenAddr = %q, want default", file.Preview.ListenAddr)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := []byte("generation:\n  seed: 777\n  room_count: 30\npreview:\n  listen_addr: 0.0.0.0:9000\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	file, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if file.Generation.Seed != 777 || file.Generation.RoomCount != 30 {
		t.Errorf("overrides not applied: %+v", file.Generation)
	}
	// Untouched fields keep their defaults.
	if file.Generation.Algorithm != Default().Algorithm {
		t.Errorf("Algorithm = %q, want default", file.Generation.Algorithm)
	}
	if file.Preview.ListenAddr != "0.0.0.0:9000" {
		t.Errorf("ListenAddr = %q", file.Preview.ListenAddr)
	}
}

func TestConstraintSpecBuild(t *testing.T) {
	wantErr := []ConstraintSpec{
		{Kind: "min_distance", Value: -1},
		{Kind: "max_per_floor", Value: 0},
		{Kind: "adjacent_to"},
		{Kind: "connection_count", Min: 3, Max: 2},
		{Kind: "in_zone"},
		{Kind: "after"},
		{Kind: "all_of"},
		{Kind: "not", Of: []ConstraintSpec{{Kind: "dead_end"}, {Kind: "dead_end"}}},
		{Kind: "mystery"},
	}
	for _, spec := range wantErr {
		if _, err := spec.Build(); !errors.Is(err, ErrInvalid) {
			t.Errorf("Build(%q) = %v, want ErrInvalid", spec.Kind, err)
		}
	}

	ok := []ConstraintSpec{
		{Kind: "min_distance", Value: 3},
		{Kind: "max_distance", Value: 5},
		{Kind: "on_critical_path"},
		{Kind: "dead_end"},
		{Kind: "max_per_floor", Value: 2},
		{Kind: "adjacent_to", Target: "boss"},
		{Kind: "connection_count", Min: 1},
		{Kind: "in_zone", Target: "depths"},
		{Kind: "after", Target: "shop"},
		{Kind: "all_of", Of: []ConstraintSpec{{Kind: "dead_end"}, {Kind: "min_distance", Value: 2}}},
		{Kind: "any_of", Of: []ConstraintSpec{{Kind: "dead_end"}, {Kind: "on_critical_path"}}},
		{Kind: "not", Of: []ConstraintSpec{{Kind: "on_critical_path"}}},
	}
	for _, spec := range ok {
		if _, err := spec.Build(); err != nil {
			t.Errorf("Build(%q) failed: %v", spec.Kind, err)
		}
	}
}

func TestIsOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		host    string
		want    bool
	}{
		{"same origin", nil, "http://example.com", "example.com", true},
		{"same origin mismatch", nil, "http://evil.com", "example.com", false},
		{"no origin header", nil, "", "example.com", true},
		{"wildcard", []string{"*"}, "http://anywhere.dev", "example.com", true},
		{"exact allow", []string{"http://tools.example.com"}, "http://tools.example.com", "example.com", true},
		{"not in list", []string{"http://tools.example.com"}, "http://evil.com", "example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPreview()
			cfg.AllowedOrigins = tt.origins
			if got := cfg.IsOriginAllowed(tt.origin, tt.host); got != tt.want {
				t.Errorf("IsOriginAllowed(%q, %q) = %v, want %v", tt.origin, tt.host, got, tt.want)
			}
		})
	}
}
