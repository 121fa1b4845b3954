// Package surface implements the geometric queries the brush makes against
// its target: ray hit tests through the camera, closest point projection,
// UV lookup, and tangent frames.
package surface

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/scatterbrush/internal/engine/camera"
	"github.com/Faultbox/scatterbrush/internal/engine/picking"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Viewport maps screen pixels to world rays through a camera.
type Viewport struct {
	Camera *camera.OrbitCamera
	Width  float32
	Height float32
}

// Ray returns the world-space ray under a screen position.
func (v Viewport) Ray(screenX, screenY float32) picking.Ray {
	aspect := v.Width / v.Height
	return picking.ScreenToRay(screenX, screenY, v.Width, v.Height, v.Camera.InverseViewProjection(aspect))
}

// Tangent returns a unit vector perpendicular to normal. It is the world X
// axis projected off the normal, falling back to world Z when the normal is
// close to X.
func Tangent(normal math.Vec3) math.Vec3 {
	n := normal.Normalize()
	ref := math.Vec3{X: 1}
	if math32.Abs(n.Dot(ref)) > 0.999 {
		ref = math.Vec3{Z: 1}
	}
	return ref.Sub(n.Scale(n.Dot(ref))).Normalize()
}
