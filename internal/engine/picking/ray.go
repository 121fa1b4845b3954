// Package picking casts rays from screen coordinates into the scene.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	nearWorld := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1.0, 1.0})
	farWorld := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1.0, 1.0})

	return Ray{Origin: nearWorld, Direction: farWorld.Sub(nearWorld).Normalize()}
}

func unproject(inv math.Mat4, p math.Vec4) math.Vec3 {
	w := inv.MulVec4(p)
	if w[3] != 0 {
		w[0] /= w[3]
		w[1] /= w[3]
		w[2] /= w[3]
	}
	return math.Vec3{X: w[0], Y: w[1], Z: w[2]}
}

// WorldToScreen projects a world point to pixel coordinates. ok is false
// for points behind the camera.
func WorldToScreen(p math.Vec3, viewProj math.Mat4, viewportW, viewportH float32) (x, y float32, ok bool) {
	c := viewProj.MulVec4(math.Vec4{p.X, p.Y, p.Z, 1})
	if c[3] <= 0 {
		return 0, 0, false
	}
	ndcX, ndcY := c[0]/c[3], c[1]/c[3]
	return (ndcX + 1) * 0.5 * viewportW, (1 - ndcY) * 0.5 * viewportH, true
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlane intersects the ray with the plane through point with the
// given normal. Returns the distance along the ray.
func (r Ray) IntersectPlane(point, normal math.Vec3) (t float32, ok bool) {
	denom := r.Direction.Dot(normal)
	if math32.Abs(denom) < 1e-6 {
		return 0, false // Ray parallel to plane
	}

	t = point.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return 0, false // Intersection behind ray origin
	}
	return t, true
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the entry and exit distances. If the ray starts inside the box,
// tmin is zero.
func (r Ray) IntersectAABB(box AABB) (tmin, tmax float32, hit bool) {
	tmin = -math32.MaxFloat32
	tmax = math32.MaxFloat32

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo := box.Min.Array()
	hi := box.Max.Array()

	for a := 0; a < 3; a++ {
		if dir[a] != 0 {
			t1 := (lo[a] - origin[a]) / dir[a]
			t2 := (hi[a] - origin[a]) / dir[a]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			tmin = math32.Max(tmin, t1)
			tmax = math32.Min(tmax, t2)
		} else if origin[a] < lo[a] || origin[a] > hi[a] {
			return 0, 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, 0, false
	}
	if tmin < 0 {
		tmin = 0
	}
	return tmin, tmax, true
}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{
		Min: math.Vec3{X: math32.Min(a.X, b.X), Y: math32.Min(a.Y, b.Y), Z: math32.Min(a.Z, b.Z)},
		Max: math.Vec3{X: math32.Max(a.X, b.X), Y: math32.Max(a.Y, b.Y), Z: math32.Max(a.Z, b.Z)},
	}
}
