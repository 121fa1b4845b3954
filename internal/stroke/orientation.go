package stroke

import (
	"github.com/Faultbox/scatterbrush/internal/scatter"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// ComposeOrientation applies the base euler rotation (radians, XYZ order)
// followed by align scaled by weight, and returns the combined rotation as
// XYZ euler degrees.
//
// In row-vector notation this is base * alignment; the order matters because
// the euler decomposition is order sensitive.
func ComposeOrientation(base math.Vec3, align math.Quat, weight float32) math.Vec3 {
	m := align.Weighted(weight).ToMat4().Mul(math.EulerXYZ(base))
	return m.Euler().Degrees()
}

// UpOf returns the world up axis rotated by an euler rotation in degrees.
func UpOf(rotation math.Vec3) math.Vec3 {
	return math.QuatFromEulerXYZ(rotation.Radians()).Rotate(math.Up)
}

// localUpper is implemented by surfaces that know their object's up axis.
type localUpper interface {
	LocalUp() math.Vec3
}

// alignment returns the direction an instance with the given surface normal
// should point its up axis at.
func (c *Command) alignment(normal math.Vec3) math.Vec3 {
	stroke := c.brush.Direction
	if (c.settings.AlignTo == scatter.AlignStroke || c.brush.AlignMode) && !stroke.IsZero() {
		return stroke
	}

	switch c.settings.AlignTo {
	case scatter.AlignWorld:
		return math.Up
	case scatter.AlignObject:
		if s, ok := c.surface.(localUpper); ok {
			return s.LocalUp()
		}
	}
	return normal
}

// rotateInto turns an existing rotation (degrees) so its up axis moves
// towards direction by the configured strength.
func (c *Command) rotateInto(direction, rotation math.Vec3) math.Vec3 {
	q := math.QuatFromTo(UpOf(rotation), direction)
	return ComposeOrientation(rotation.Radians(), q, c.settings.Strength)
}
