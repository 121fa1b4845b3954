// Package camera provides the orbit camera the brush is viewed through.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/scatterbrush/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	CenterX, CenterY, CenterZ float32

	// Spherical coordinates
	Distance  float32 // Distance from center, the camera's center of interest
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Projection
	FovY      float32 // radians
	NearPlane float32
	FarPlane  float32

	// Constraints
	MinDistance float32
	MaxDistance float32

	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        20.0,
		RotationX:       0.6,
		RotationY:       0.0,
		FovY:            math32.Pi / 4,
		NearPlane:       0.1,
		FarPlane:        1000.0,
		MinDistance:     0.5,
		MaxDistance:     500.0,
		ZoomSensitivity: 0.1,
	}
}

// Center returns the orbit center.
func (c *OrbitCamera) Center() math.Vec3 {
	return math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ}
}

// CenterOfInterest returns the distance from the eye to the orbit center.
// Brush radius adjustments scale with it so they feel the same at any zoom.
func (c *OrbitCamera) CenterOfInterest() float32 {
	return c.Distance
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sp, cp := math32.Sincos(c.RotationX)
	sy, cy := math32.Sincos(c.RotationY)

	return math.Vec3{
		X: c.CenterX + c.Distance*cp*sy,
		Y: c.CenterY + c.Distance*sp,
		Z: c.CenterZ + c.Distance*cp*cy,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center(), math.Up)
}

// ProjectionMatrix returns the perspective projection for the given aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.NearPlane, c.FarPlane)
}

// InverseViewProjection returns the matrix that unprojects clip space to world space.
func (c *OrbitCamera) InverseViewProjection(aspect float32) math.Mat4 {
	return c.ProjectionMatrix(aspect).Mul(c.ViewMatrix()).Inverse()
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// SetCenter sets the camera's center point.
func (c *OrbitCamera) SetCenter(x, y, z float32) {
	c.CenterX = x
	c.CenterY = y
	c.CenterZ = z
}

// FitToBounds centers the camera on a bounding box and backs off far
// enough to see it.
func (c *OrbitCamera) FitToBounds(minX, minY, minZ, maxX, maxY, maxZ float32) {
	c.CenterX = (minX + maxX) / 2
	c.CenterY = (minY + maxY) / 2
	c.CenterZ = (minZ + maxZ) / 2

	maxSize := math32.Max(maxX-minX, maxZ-minZ)
	c.Distance = math32.Max(maxSize*1.2, c.MinDistance)
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}

	c.RotationX = 0.6 // Look down at ~35 degrees
	c.RotationY = 0.0
}
