package world

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/lawnchairsociety/towerforge/internal/grid"
)

var (
	ErrTemplateInvalid = errors.New("world: invalid template")
	ErrNoTemplate      = errors.New("world: no template for room type")
)

// DoorEdge is one exterior edge of a room where a door may be cut.
type DoorEdge struct {
	Cell grid.Cell
	Dir  grid.Direction
}

// Template is a reusable room shape: the local cells it occupies, the
// exterior edges that admit doors, and optional interior feature tags.
// Templates are immutable after Validate and shared by every room placed
// from them; PlacedRoom holds a non-owning pointer.
type Template struct {
	ID        string
	RoomTypes []RoomType // room types this shape may serve; empty = any
	Cells     []grid.Cell
	Doors     map[grid.Cell][]grid.Direction
	Features  map[grid.Cell][]string
	Weight    int

	cellSet map[grid.Cell]bool
}

// Validate checks the template invariants: at least one cell, positive
// weight, door cells inside the shape, and every door edge truly
// exterior (not shared with another cell of the template).
func (t *Template) Validate() error {
	if len(t.Cells) == 0 {
		return fmt.Errorf("%w: template %q has no cells", ErrTemplateInvalid, t.ID)
	}
	if t.Weight <= 0 {
		return fmt.Errorf("%w: template %q has weight %d", ErrTemplateInvalid, t.ID, t.Weight)
	}
	t.cellSet = make(map[grid.Cell]bool, len(t.Cells))
	for _, c := range t.Cells {
		if t.cellSet[c] {
			return fmt.Errorf("%w: template %q repeats cell %d,%d", ErrTemplateInvalid, t.ID, c.X, c.Y)
		}
		t.cellSet[c] = true
	}
	for cell, dirs := range t.Doors {
		if !t.cellSet[cell] {
			return fmt.Errorf("%w: template %q door on cell %d,%d outside shape", ErrTemplateInvalid, t.ID, cell.X, cell.Y)
		}
		for _, dir := range dirs {
			if t.cellSet[cell.Neighbor(dir)] {
				return fmt.Errorf("%w: template %q door edge %d,%d %s is interior", ErrTemplateInvalid, t.ID, cell.X, cell.Y, dir)
			}
		}
	}
	return nil
}

// HasCell reports whether the local cell belongs to the shape.
func (t *Template) HasCell(c grid.Cell) bool {
	return t.cellSet[c]
}

// Serves reports whether the template may be used for the room type.
func (t *Template) Serves(rt RoomType) bool {
	if len(t.RoomTypes) == 0 {
		return true
	}
	for _, candidate := range t.RoomTypes {
		if candidate == rt {
			return true
		}
	}
	return false
}

// DoorEdges returns the template's door-capable edges in a fixed order
// (cells sorted by Y then X, directions in declaration order).
func (t *Template) DoorEdges() []DoorEdge {
	cells := make([]grid.Cell, 0, len(t.Doors))
	for c := range t.Doors {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	var edges []DoorEdge
	for _, c := range cells {
		for _, dir := range t.Doors[c] {
			edges = append(edges, DoorEdge{Cell: c, Dir: dir})
		}
	}
	return edges
}

// Catalog indexes validated templates by id and by the room types they
// serve. Catalogs are read-only after Build and safe to share.
type Catalog struct {
	templates []*Template
	byID      map[string]*Template
}

// NewCatalog validates every template and builds the index.
func NewCatalog(templates []*Template) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate template id %q", ErrTemplateInvalid, t.ID)
		}
		c.byID[t.ID] = t
		c.templates = append(c.templates, t)
	}
	return c, nil
}

// Template returns the template with the given id, or nil.
func (c *Catalog) Template(id string) *Template {
	return c.byID[id]
}

// Len returns the number of templates in the catalog.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// ForType returns the templates able to serve the room type, in catalog
// order, optionally restricted to an id allow-list (zone subsets).
func (c *Catalog) ForType(rt RoomType, allowIDs []string) []*Template {
	allowed := func(t *Template) bool { return true }
	if len(allowIDs) > 0 {
		allow := make(map[string]bool, len(allowIDs))
		for _, id := range allowIDs {
			allow[id] = true
		}
		allowed = func(t *Template) bool { return allow[t.ID] }
	}
	var out []*Template
	for _, t := range c.templates {
		if t.Serves(rt) && allowed(t) {
			out = append(out, t)
		}
	}
	return out
}

// PickWeighted draws one template from the slice with probability
// proportional to Weight. The slice must be non-empty.
func PickWeighted(templates []*Template, rng *rand.Rand) *Template {
	total := 0
	for _, t := range templates {
		total += t.Weight
	}
	roll := rng.Intn(total)
	for _, t := range templates {
		roll -= t.Weight
		if roll < 0 {
			return t
		}
	}
	return templates[len(templates)-1]
}
