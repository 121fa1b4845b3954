package scatter

import (
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Surface answers geometric queries against the single bound target surface.
type Surface interface {
	// HitTest casts a ray through screen coordinates.
	HitTest(screenX, screenY float32) (Hit, bool)
	// ClosestPointAndNormal projects p onto the surface.
	ClosestPointAndNormal(p math.Vec3) (position, normal math.Vec3)
	// UVAt returns texture coordinates at a surface point.
	UVAt(p math.Vec3) (u, v float32)
	// TangentFor derives a tangent perpendicular to normal.
	TangentFor(normal math.Vec3) math.Vec3
}

// Named is implemented by surfaces and stores that carry a host handle name.
type Named interface {
	Name() string
}

// HandleName returns the handle name of v, or "" when it has none.
func HandleName(v any) string {
	if n, ok := v.(Named); ok {
		return n.Name()
	}
	return ""
}

// Store is the persistent ordered collection of placed instances.
type Store interface {
	// Append adds the batch and returns the new point ids in order.
	Append(b Batch) []int
	// Overwrite replaces the instances at ids with the batch contents.
	Overwrite(ids []int, b Batch) error
	// Remove deletes the given point ids.
	Remove(ids []int) error
	// QueryRange returns the point ids within radius of center according to
	// the last built spatial index.
	QueryRange(center math.Vec3, radius float32) []int
	// Read returns the current record for a point id.
	Read(id int) (Instance, bool)
	// Settings returns the node settings.
	Settings() Settings
	// BuildIndex snapshots the current points into the spatial index.
	BuildIndex()
	// RefreshView notifies downstream consumers of a commit.
	RefreshView()
}
