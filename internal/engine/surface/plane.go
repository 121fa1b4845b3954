package surface

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/scatterbrush/internal/scatter"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Plane is a flat target surface. A zero Extent makes it infinite;
// otherwise it is the square of half-size Extent around Point.
type Plane struct {
	Point  math.Vec3
	Normal math.Vec3
	Extent float32
	View   Viewport

	name string
}

// NewPlane returns a horizontal plane at height y.
func NewPlane(y, extent float32, view Viewport) *Plane {
	return &Plane{
		Point:  math.Vec3{Y: y},
		Normal: math.Up,
		Extent: extent,
		View:   view,
	}
}

func (p *Plane) normal() math.Vec3 {
	return p.Normal.Normalize()
}

func (p *Plane) contains(q math.Vec3) bool {
	if p.Extent <= 0 {
		return true
	}
	d := q.Sub(p.Point)
	t := Tangent(p.normal())
	b := p.normal().Cross(t)
	return math32.Abs(d.Dot(t)) <= p.Extent && math32.Abs(d.Dot(b)) <= p.Extent
}

// HitTest implements scatter.Surface.
func (p *Plane) HitTest(screenX, screenY float32) (scatter.Hit, bool) {
	ray := p.View.Ray(screenX, screenY)
	t, ok := ray.IntersectPlane(p.Point, p.normal())
	if !ok {
		return scatter.Hit{}, false
	}
	pos := ray.At(t)
	if !p.contains(pos) {
		return scatter.Hit{}, false
	}
	n := p.normal()
	return scatter.Hit{Position: pos, Normal: n, Tangent: Tangent(n)}, true
}

// ClosestPointAndNormal implements scatter.Surface. Points beyond the extent
// project onto the plane regardless.
func (p *Plane) ClosestPointAndNormal(q math.Vec3) (math.Vec3, math.Vec3) {
	n := p.normal()
	return q.Sub(n.Scale(q.Sub(p.Point).Dot(n))), n
}

// UVAt implements scatter.Surface. UVs span [0, 1] across the extent, or
// repeat every world unit on an infinite plane.
func (p *Plane) UVAt(q math.Vec3) (float32, float32) {
	n := p.normal()
	t := Tangent(n)
	b := n.Cross(t)
	d := q.Sub(p.Point)
	u, v := d.Dot(t), d.Dot(b)
	if p.Extent > 0 {
		return (u + p.Extent) / (2 * p.Extent), (v + p.Extent) / (2 * p.Extent)
	}
	return u - math32.Floor(u), v - math32.Floor(v)
}

// TangentFor implements scatter.Surface.
func (p *Plane) TangentFor(normal math.Vec3) math.Vec3 {
	return Tangent(normal)
}

// LocalUp returns the plane's own up axis.
func (p *Plane) LocalUp() math.Vec3 {
	return p.normal()
}

// Name returns the surface handle name.
func (p *Plane) Name() string {
	return p.name
}

// SetName sets the surface handle name.
func (p *Plane) SetName(name string) {
	p.name = name
}
