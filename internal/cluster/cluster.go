// Package cluster groups spatially close same-type rooms into clusters
// by centroid distance.
package cluster

import (
	"math"
	"sort"

	"github.com/lawnchairsociety/towerforge/internal/grid"
	"github.com/lawnchairsociety/towerforge/internal/world"
)

// Options tunes detection.
type Options struct {
	// DefaultEpsilon is the admission distance used for types without
	// an entry in Epsilon.
	DefaultEpsilon float64

	// Epsilon overrides the admission distance per room type.
	Epsilon map[world.RoomType]float64

	// MinSize discards clusters with fewer members. MaxSize caps
	// membership; zero means uncapped.
	MinSize int
	MaxSize int

	// AllowTypes restricts detection to the listed types; empty means
	// every type is eligible.
	AllowTypes []world.RoomType
}

// Detect groups the placed rooms into clusters keyed by room type.
// A room joins a cluster while its centroid sits within epsilon of the
// cluster's running centroid, which shifts as members join. Room
// centroids are computed once each and cached on the room.
func Detect(rooms []*world.PlacedRoom, opts Options) map[world.RoomType][]*world.Cluster {
	byType := make(map[world.RoomType][]*world.PlacedRoom)
	for _, r := range rooms {
		if eligible(r.Type, opts.AllowTypes) {
			byType[r.Type] = append(byType[r.Type], r)
		}
	}

	types := make([]world.RoomType, 0, len(byType))
	for rt := range byType {
		types = append(types, rt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	out := make(map[world.RoomType][]*world.Cluster)
	nextID := 0
	for _, rt := range types {
		eps := opts.DefaultEpsilon
		if override, ok := opts.Epsilon[rt]; ok {
			eps = override
		}
		for _, c := range detectType(byType[rt], eps, opts) {
			c.ID = nextID
			nextID++
			out[rt] = append(out[rt], c)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func eligible(rt world.RoomType, allow []world.RoomType) bool {
	if len(allow) == 0 {
		return true
	}
	for _, a := range allow {
		if a == rt {
			return true
		}
	}
	return false
}

// detectType clusters one type's rooms. The running centroid is kept as
// coordinate sums and recomputed incrementally on each admission, never
// per candidate pair.
func detectType(rooms []*world.PlacedRoom, eps float64, opts Options) []*world.Cluster {
	visited := make([]bool, len(rooms))
	var clusters []*world.Cluster

	for seed := range rooms {
		if visited[seed] {
			continue
		}
		visited[seed] = true
		members := []*world.PlacedRoom{rooms[seed]}
		sumX := float64(rooms[seed].Centroid().X)
		sumY := float64(rooms[seed].Centroid().Y)

		for grew := true; grew && (opts.MaxSize == 0 || len(members) < opts.MaxSize); {
			grew = false
			cx := sumX / float64(len(members))
			cy := sumY / float64(len(members))
			for i, room := range rooms {
				if visited[i] {
					continue
				}
				c := room.Centroid()
				if math.Hypot(float64(c.X)-cx, float64(c.Y)-cy) <= eps {
					visited[i] = true
					members = append(members, room)
					sumX += float64(c.X)
					sumY += float64(c.Y)
					grew = true
					break
				}
			}
		}

		if len(members) < opts.MinSize {
			continue
		}
		clusters = append(clusters, finalize(rooms[0].Type, members))
	}
	return clusters
}

// finalize computes the cluster centroid and bounding box in a single
// pass over the union of member world cells.
func finalize(rt world.RoomType, members []*world.PlacedRoom) *world.Cluster {
	sumX, sumY, count := 0, 0, 0
	var bounds grid.Bounds
	for i, room := range members {
		for j, c := range room.Cells() {
			if i == 0 && j == 0 {
				bounds = grid.NewBounds(c)
			} else {
				bounds = bounds.Extend(c)
			}
			sumX += c.X
			sumY += c.Y
			count++
		}
	}
	return &world.Cluster{
		Type:    rt,
		Members: members,
		Centroid: grid.Cell{
			X: int(math.Round(float64(sumX) / float64(count))),
			Y: int(math.Round(float64(sumY) / float64(count))),
		},
		Bounds: bounds,
	}
}
