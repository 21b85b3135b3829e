package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/towerforge/internal/grid"
)

// catalogFile is the on-disk shape of a template catalog.
type catalogFile struct {
	Templates []templateData `yaml:"templates"`
}

// templateData is a serialized template. Cells are [x, y] pairs.
type templateData struct {
	ID        string        `yaml:"id"`
	RoomTypes []string      `yaml:"room_types,omitempty"`
	Weight    int           `yaml:"weight"`
	Cells     [][]int       `yaml:"cells"`
	Doors     []doorData    `yaml:"doors,omitempty"`
	Features  []featureData `yaml:"features,omitempty"`
}

type doorData struct {
	Cell []int    `yaml:"cell"`
	Dirs []string `yaml:"dirs"`
}

type featureData struct {
	Cell []int    `yaml:"cell"`
	Tags []string `yaml:"tags"`
}

// LoadCatalog reads and validates a template catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog builds a catalog from YAML bytes.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if len(file.Templates) == 0 {
		return nil, fmt.Errorf("%w: catalog has no templates", ErrTemplateInvalid)
	}

	templates := make([]*Template, 0, len(file.Templates))
	for _, td := range file.Templates {
		tmpl, err := td.toTemplate()
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	return NewCatalog(templates)
}

// toTemplate converts the serialized form, resolving cell pairs and
// direction names.
func (td templateData) toTemplate() (*Template, error) {
	t := &Template{
		ID:     td.ID,
		Weight: td.Weight,
	}
	for _, name := range td.RoomTypes {
		t.RoomTypes = append(t.RoomTypes, RoomType(name))
	}
	for _, pair := range td.Cells {
		cell, err := cellFromPair(td.ID, pair)
		if err != nil {
			return nil, err
		}
		t.Cells = append(t.Cells, cell)
	}
	if len(td.Doors) > 0 {
		t.Doors = make(map[grid.Cell][]grid.Direction, len(td.Doors))
		for _, dd := range td.Doors {
			cell, err := cellFromPair(td.ID, dd.Cell)
			if err != nil {
				return nil, err
			}
			for _, name := range dd.Dirs {
				dir, ok := grid.ParseDirection(name)
				if !ok {
					return nil, fmt.Errorf("%w: template %q has unknown direction %q", ErrTemplateInvalid, td.ID, name)
				}
				t.Doors[cell] = append(t.Doors[cell], dir)
			}
		}
	}
	if len(td.Features) > 0 {
		t.Features = make(map[grid.Cell][]string, len(td.Features))
		for _, fd := range td.Features {
			cell, err := cellFromPair(td.ID, fd.Cell)
			if err != nil {
				return nil, err
			}
			t.Features[cell] = append(t.Features[cell], fd.Tags...)
		}
	}
	return t, nil
}

func cellFromPair(templateID string, pair []int) (grid.Cell, error) {
	if len(pair) != 2 {
		return grid.Cell{}, fmt.Errorf("%w: template %q has malformed cell %v", ErrTemplateInvalid, templateID, pair)
	}
	return grid.Cell{X: pair[0], Y: pair[1]}, nil
}
