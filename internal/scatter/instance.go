// Package scatter defines the data model shared by the scatter brush: placed
// instances, node settings, the per-frame brush state, and the services the
// brush consumes from its host.
package scatter

import (
	"slices"

	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Instance is one placed point.
type Instance struct {
	Position   math.Vec3 `yaml:"position"`
	Scale      math.Vec3 `yaml:"scale"`
	Rotation   math.Vec3 `yaml:"rotation"` // euler XYZ, degrees
	InstanceID int       `yaml:"instance_id"`
	Normal     math.Vec3 `yaml:"normal"`
	Tangent    math.Vec3 `yaml:"tangent"`
	U          float32   `yaml:"u"`
	V          float32   `yaml:"v"`
	PolygonID  int       `yaml:"polygon_id"`
	Color      math.Vec3 `yaml:"color"`
}

// Batch stores instances as parallel per-field arrays. Index i across all
// arrays refers to the same instance.
type Batch struct {
	Position   []math.Vec3
	Scale      []math.Vec3
	Rotation   []math.Vec3
	InstanceID []int
	Normal     []math.Vec3
	Tangent    []math.Vec3
	U          []float32
	V          []float32
	PolygonID  []int
	Color      []math.Vec3
}

// NewBatch returns a batch of n zero instances.
func NewBatch(n int) Batch {
	var b Batch
	b.Resize(n)
	return b
}

// BatchOf packs the given instances into a batch.
func BatchOf(instances ...Instance) Batch {
	b := NewBatch(len(instances))
	for i, inst := range instances {
		b.Set(i, inst)
	}
	return b
}

// Len returns the number of instances.
func (b *Batch) Len() int {
	return len(b.Position)
}

// Valid reports whether every field array has the same length.
func (b *Batch) Valid() bool {
	n := len(b.Position)
	return len(b.Scale) == n &&
		len(b.Rotation) == n &&
		len(b.InstanceID) == n &&
		len(b.Normal) == n &&
		len(b.Tangent) == n &&
		len(b.U) == n &&
		len(b.V) == n &&
		len(b.PolygonID) == n &&
		len(b.Color) == n
}

// Resize sets every field array to length n, keeping the existing prefix and
// zero-filling new entries.
func (b *Batch) Resize(n int) {
	b.Position = resize(b.Position, n)
	b.Scale = resize(b.Scale, n)
	b.Rotation = resize(b.Rotation, n)
	b.InstanceID = resize(b.InstanceID, n)
	b.Normal = resize(b.Normal, n)
	b.Tangent = resize(b.Tangent, n)
	b.U = resize(b.U, n)
	b.V = resize(b.V, n)
	b.PolygonID = resize(b.PolygonID, n)
	b.Color = resize(b.Color, n)
}

// Reset empties the batch.
func (b *Batch) Reset() {
	b.Resize(0)
}

// At returns instance i.
func (b *Batch) At(i int) Instance {
	return Instance{
		Position:   b.Position[i],
		Scale:      b.Scale[i],
		Rotation:   b.Rotation[i],
		InstanceID: b.InstanceID[i],
		Normal:     b.Normal[i],
		Tangent:    b.Tangent[i],
		U:          b.U[i],
		V:          b.V[i],
		PolygonID:  b.PolygonID[i],
		Color:      b.Color[i],
	}
}

// Set overwrites instance i.
func (b *Batch) Set(i int, inst Instance) {
	b.Position[i] = inst.Position
	b.Scale[i] = inst.Scale
	b.Rotation[i] = inst.Rotation
	b.InstanceID[i] = inst.InstanceID
	b.Normal[i] = inst.Normal
	b.Tangent[i] = inst.Tangent
	b.U[i] = inst.U
	b.V[i] = inst.V
	b.PolygonID[i] = inst.PolygonID
	b.Color[i] = inst.Color
}

// Append adds an instance at the end.
func (b *Batch) Append(inst Instance) {
	n := b.Len()
	b.Resize(n + 1)
	b.Set(n, inst)
}

// AppendBatch adds every instance of o at the end.
func (b *Batch) AppendBatch(o Batch) {
	b.Position = append(b.Position, o.Position...)
	b.Scale = append(b.Scale, o.Scale...)
	b.Rotation = append(b.Rotation, o.Rotation...)
	b.InstanceID = append(b.InstanceID, o.InstanceID...)
	b.Normal = append(b.Normal, o.Normal...)
	b.Tangent = append(b.Tangent, o.Tangent...)
	b.U = append(b.U, o.U...)
	b.V = append(b.V, o.V...)
	b.PolygonID = append(b.PolygonID, o.PolygonID...)
	b.Color = append(b.Color, o.Color...)
}

// Instances unpacks the batch.
func (b *Batch) Instances() []Instance {
	out := make([]Instance, b.Len())
	for i := range out {
		out[i] = b.At(i)
	}
	return out
}

// Clone returns a deep copy.
func (b *Batch) Clone() Batch {
	return BatchOf(b.Instances()...)
}

func resize[T any](s []T, n int) []T {
	if n <= len(s) {
		return s[:n]
	}
	old := len(s)
	s = slices.Grow(s, n-old)[:n]
	clear(s[old:])
	return s
}
