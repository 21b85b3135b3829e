// Package world holds the domain model shared by every generation
// phase: room types, shape templates, placed rooms, corridors, doors,
// zones, clusters, and the assembled floor.
package world

// RoomType names a room role. Types are data-driven: configs may define
// their own beyond the well-known ones below.
type RoomType string

const (
	RoomSpawn    RoomType = "spawn"
	RoomBoss     RoomType = "boss"
	RoomStandard RoomType = "standard"
	RoomShop     RoomType = "shop"
	RoomTreasure RoomType = "treasure"
	RoomShrine   RoomType = "shrine"
	RoomMonster  RoomType = "monster"
)

// Requirement asks for a number of rooms of one type on the floor.
type Requirement struct {
	Type  RoomType `yaml:"type"`
	Count int      `yaml:"count"`
}
