package floorgen

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/towerforge/internal/grid"
	"github.com/lawnchairsociety/towerforge/internal/world"
)

// FloorData is the serialized floor layout for persistence.
type FloorData struct {
	Number       int            `yaml:"number"`
	Seed         int64          `yaml:"seed"`
	GeneratedAt  time.Time      `yaml:"generated_at"`
	SpawnID      int            `yaml:"spawn_id"`
	BossID       int            `yaml:"boss_id"`
	CriticalPath []int          `yaml:"critical_path"`
	Rooms        []RoomData     `yaml:"rooms"`
	Corridors    []CorridorData `yaml:"corridors,omitempty"`
	Doors        []DoorData     `yaml:"doors,omitempty"`
	Zones        map[int]string `yaml:"zones,omitempty"`
	Transitions  []int          `yaml:"transitions,omitempty"`
	Clusters     []ClusterData  `yaml:"clusters,omitempty"`
}

// RoomData is a serialized placed room.
type RoomData struct {
	Node       int     `yaml:"node"`
	Type       string  `yaml:"type"`
	Template   string  `yaml:"template"`
	Anchor     []int   `yaml:"anchor"`
	Difficulty float64 `yaml:"difficulty"`
}

// CorridorData is a serialized corridor; segments are [x1, y1, x2, y2].
type CorridorData struct {
	ID       int        `yaml:"id"`
	Segments [][]int    `yaml:"segments"`
	Doors    []DoorData `yaml:"doors"`
}

// DoorData is a serialized door.
type DoorData struct {
	Cell       []int  `yaml:"cell"`
	Dir        string `yaml:"dir"`
	Room       int    `yaml:"room"`
	ToRoom     int    `yaml:"to_room"`
	ToCorridor int    `yaml:"to_corridor"`
}

// ClusterData is a serialized cluster.
type ClusterData struct {
	ID       int    `yaml:"id"`
	Type     string `yaml:"type"`
	Members  []int  `yaml:"members"`
	Centroid []int  `yaml:"centroid"`
	Bounds   []int  `yaml:"bounds"` // min x, min y, max x, max y
}

// Marshal renders the floor layout as YAML.
func Marshal(floor *world.Floor) ([]byte, error) {
	data, err := yaml.Marshal(Serialize(floor))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal floor data: %w", err)
	}
	return data, nil
}

// Unmarshal rebuilds a floor from YAML, resolving template references
// against the catalog.
func Unmarshal(raw []byte, catalog *world.Catalog) (*world.Floor, error) {
	var data FloorData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse floor YAML: %w", err)
	}
	return Deserialize(&data, catalog)
}

// SaveFloor writes the floor layout to a YAML file.
func SaveFloor(floor *world.Floor, filename string) error {
	data, err := Marshal(floor)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write floor file: %w", err)
	}
	return nil
}

// Serialize converts a floor to its persistent form.
func Serialize(floor *world.Floor) *FloorData {
	data := &FloorData{
		Number:       floor.Number,
		Seed:         floor.Seed,
		GeneratedAt:  floor.Generated,
		SpawnID:      floor.SpawnID,
		BossID:       floor.BossID,
		CriticalPath: floor.CriticalPath,
		Zones:        floor.ZoneByNode,
		Transitions:  floor.TransitionRooms,
	}
	for _, room := range floor.Rooms {
		data.Rooms = append(data.Rooms, RoomData{
			Node:       room.NodeID,
			Type:       string(room.Type),
			Template:   room.Template.ID,
			Anchor:     []int{room.Anchor.X, room.Anchor.Y},
			Difficulty: room.Difficulty,
		})
	}
	for _, corridor := range floor.Corridors {
		cd := CorridorData{ID: corridor.ID}
		for _, seg := range corridor.Segments {
			cd.Segments = append(cd.Segments, []int{seg.Start.X, seg.Start.Y, seg.End.X, seg.End.Y})
		}
		for _, door := range corridor.Doors {
			cd.Doors = append(cd.Doors, serializeDoor(door))
		}
		data.Corridors = append(data.Corridors, cd)
	}
	for _, door := range floor.Doors {
		data.Doors = append(data.Doors, serializeDoor(door))
	}
	for _, clusters := range floor.Clusters {
		for _, c := range clusters {
			members := make([]int, len(c.Members))
			for i, m := range c.Members {
				members[i] = m.NodeID
			}
			data.Clusters = append(data.Clusters, ClusterData{
				ID:       c.ID,
				Type:     string(c.Type),
				Members:  members,
				Centroid: []int{c.Centroid.X, c.Centroid.Y},
				Bounds:   []int{c.Bounds.Min.X, c.Bounds.Min.Y, c.Bounds.Max.X, c.Bounds.Max.Y},
			})
		}
	}
	return data
}

func serializeDoor(d world.Door) DoorData {
	return DoorData{
		Cell:       []int{d.Cell.X, d.Cell.Y},
		Dir:        d.Dir.String(),
		Room:       d.Room,
		ToRoom:     d.ToRoom,
		ToCorridor: d.ToCorridor,
	}
}

// LoadFloor reads a floor layout back from a YAML file.
func LoadFloor(filename string, catalog *world.Catalog) (*world.Floor, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read floor file: %w", err)
	}
	return Unmarshal(raw, catalog)
}

// Deserialize rebuilds a floor from its persistent form.
func Deserialize(data *FloorData, catalog *world.Catalog) (*world.Floor, error) {
	floor := &world.Floor{
		Number:          data.Number,
		Seed:            data.Seed,
		Generated:       data.GeneratedAt,
		SpawnID:         data.SpawnID,
		BossID:          data.BossID,
		CriticalPath:    data.CriticalPath,
		ZoneByNode:      data.Zones,
		TransitionRooms: data.Transitions,
	}
	byNode := make(map[int]*world.PlacedRoom, len(data.Rooms))
	for _, rd := range data.Rooms {
		tmpl := catalog.Template(rd.Template)
		if tmpl == nil {
			return nil, fmt.Errorf("%w: floor references unknown template %q", world.ErrNoTemplate, rd.Template)
		}
		anchor, err := cellFromInts(rd.Anchor)
		if err != nil {
			return nil, err
		}
		room := world.NewPlacedRoom(rd.Node, world.RoomType(rd.Type), tmpl, anchor)
		room.Difficulty = rd.Difficulty
		floor.Rooms = append(floor.Rooms, room)
		byNode[rd.Node] = room
	}
	for _, cd := range data.Corridors {
		corridor := &world.Corridor{ID: cd.ID}
		for _, seg := range cd.Segments {
			if len(seg) != 4 {
				return nil, fmt.Errorf("malformed corridor segment %v", seg)
			}
			corridor.Segments = append(corridor.Segments, world.Segment{
				Start: grid.Cell{X: seg[0], Y: seg[1]},
				End:   grid.Cell{X: seg[2], Y: seg[3]},
			})
		}
		for i, dd := range cd.Doors {
			if i > 1 {
				break
			}
			door, err := deserializeDoor(dd)
			if err != nil {
				return nil, err
			}
			corridor.Doors[i] = door
		}
		floor.Corridors = append(floor.Corridors, corridor)
	}
	for _, dd := range data.Doors {
		door, err := deserializeDoor(dd)
		if err != nil {
			return nil, err
		}
		floor.Doors = append(floor.Doors, door)
	}
	for _, cd := range data.Clusters {
		c := &world.Cluster{
			ID:   cd.ID,
			Type: world.RoomType(cd.Type),
		}
		for _, node := range cd.Members {
			if room := byNode[node]; room != nil {
				c.Members = append(c.Members, room)
			}
		}
		centroid, err := cellFromInts(cd.Centroid)
		if err != nil {
			return nil, err
		}
		c.Centroid = centroid
		if len(cd.Bounds) == 4 {
			c.Bounds = grid.Bounds{
				Min: grid.Cell{X: cd.Bounds[0], Y: cd.Bounds[1]},
				Max: grid.Cell{X: cd.Bounds[2], Y: cd.Bounds[3]},
			}
		}
		if floor.Clusters == nil {
			floor.Clusters = make(map[world.RoomType][]*world.Cluster)
		}
		floor.Clusters[c.Type] = append(floor.Clusters[c.Type], c)
	}
	return floor, nil
}

func deserializeDoor(dd DoorData) (world.Door, error) {
	cell, err := cellFromInts(dd.Cell)
	if err != nil {
		return world.Door{}, err
	}
	dir, ok := grid.ParseDirection(dd.Dir)
	if !ok {
		return world.Door{}, fmt.Errorf("unknown door direction %q", dd.Dir)
	}
	return world.Door{Cell: cell, Dir: dir, Room: dd.Room, ToRoom: dd.ToRoom, ToCorridor: dd.ToCorridor}, nil
}

func cellFromInts(pair []int) (grid.Cell, error) {
	if len(pair) != 2 {
		return grid.Cell{}, fmt.Errorf("malformed cell %v", pair)
	}
	return grid.Cell{X: pair[0], Y: pair[1]}, nil
}
