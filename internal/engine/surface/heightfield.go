package surface

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/scatterbrush/internal/engine/picking"
	"github.com/Faultbox/scatterbrush/internal/scatter"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Heightfield is a terrain surface sampled on a regular grid in the XZ plane.
// Heights[x][z] is the altitude of vertex (x, z).
type Heightfield struct {
	MinX, MinZ float32
	CellSize   float32
	Heights    [][]float32
	View       Viewport

	minY, maxY float32
	name       string
}

// NewHeightfield samples fn at every vertex of a cellsX x cellsZ grid whose
// corner is at (minX, minZ).
func NewHeightfield(minX, minZ, cellSize float32, cellsX, cellsZ int, fn func(x, z float32) float32, view Viewport) *Heightfield {
	h := &Heightfield{
		MinX:     minX,
		MinZ:     minZ,
		CellSize: cellSize,
		Heights:  make([][]float32, cellsX+1),
		View:     view,
		minY:     math32.MaxFloat32,
		maxY:     -math32.MaxFloat32,
	}
	for x := range cellsX + 1 {
		h.Heights[x] = make([]float32, cellsZ+1)
		for z := range cellsZ + 1 {
			y := fn(minX+float32(x)*cellSize, minZ+float32(z)*cellSize)
			h.Heights[x][z] = y
			h.minY = math32.Min(h.minY, y)
			h.maxY = math32.Max(h.maxY, y)
		}
	}
	return h
}

func (h *Heightfield) cellsX() int { return len(h.Heights) - 1 }
func (h *Heightfield) cellsZ() int { return len(h.Heights[0]) - 1 }

// Bounds returns the world-space box enclosing the terrain.
func (h *Heightfield) Bounds() picking.AABB {
	return picking.AABB{
		Min: math.Vec3{X: h.MinX, Y: h.minY, Z: h.MinZ},
		Max: math.Vec3{
			X: h.MinX + float32(h.cellsX())*h.CellSize,
			Y: h.maxY,
			Z: h.MinZ + float32(h.cellsZ())*h.CellSize,
		},
	}
}

func (h *Heightfield) clampXZ(x, z float32) (float32, float32) {
	b := h.Bounds()
	return math32.Max(b.Min.X, math32.Min(x, b.Max.X)), math32.Max(b.Min.Z, math32.Min(z, b.Max.Z))
}

// HeightAt returns the bilinearly interpolated altitude at a world XZ
// position, clamped to the grid.
func (h *Heightfield) HeightAt(x, z float32) float32 {
	fx := (x - h.MinX) / h.CellSize
	fz := (z - h.MinZ) / h.CellSize

	cx := int(math32.Floor(fx))
	cz := int(math32.Floor(fz))
	cx = max(0, min(cx, h.cellsX()-1))
	cz = max(0, min(cz, h.cellsZ()-1))

	tx := math32.Max(0, math32.Min(fx-float32(cx), 1))
	tz := math32.Max(0, math32.Min(fz-float32(cz), 1))

	h00 := h.Heights[cx][cz]
	h10 := h.Heights[cx+1][cz]
	h01 := h.Heights[cx][cz+1]
	h11 := h.Heights[cx+1][cz+1]

	h0 := h00 + (h10-h00)*tx
	h1 := h01 + (h11-h01)*tx
	return h0 + (h1-h0)*tz
}

// NormalAt returns the surface normal from the height gradient.
func (h *Heightfield) NormalAt(x, z float32) math.Vec3 {
	e := h.CellSize * 0.5
	dx := (h.HeightAt(x+e, z) - h.HeightAt(x-e, z)) / (2 * e)
	dz := (h.HeightAt(x, z+e) - h.HeightAt(x, z-e)) / (2 * e)
	return math.Vec3{X: -dx, Y: 1, Z: -dz}.Normalize()
}

func (h *Heightfield) drop(x, z float32) math.Vec3 {
	x, z = h.clampXZ(x, z)
	return math.Vec3{X: x, Y: h.HeightAt(x, z), Z: z}
}

// HitTest implements scatter.Surface by marching the camera ray through
// the terrain bounds and refining the crossing by bisection.
func (h *Heightfield) HitTest(screenX, screenY float32) (scatter.Hit, bool) {
	ray := h.View.Ray(screenX, screenY)
	box := h.Bounds()
	box.Min.Y -= h.CellSize
	box.Max.Y += h.CellSize
	tmin, tmax, ok := ray.IntersectAABB(box)
	if !ok {
		return scatter.Hit{}, false
	}

	above := func(t float32) bool {
		p := ray.At(t)
		return p.Y > h.HeightAt(p.X, p.Z)
	}

	step := h.CellSize * 0.25
	prev := tmin
	if !above(prev) {
		return h.hitAt(ray.At(prev)), true
	}
	for t := tmin + step; t <= tmax+step; t += step {
		t = math32.Min(t, tmax)
		if !above(t) {
			lo, hi := prev, t
			for range 20 {
				mid := (lo + hi) / 2
				if above(mid) {
					lo = mid
				} else {
					hi = mid
				}
			}
			return h.hitAt(ray.At(hi)), true
		}
		if t == tmax {
			break
		}
		prev = t
	}
	return scatter.Hit{}, false
}

func (h *Heightfield) hitAt(p math.Vec3) scatter.Hit {
	pos := h.drop(p.X, p.Z)
	n := h.NormalAt(pos.X, pos.Z)
	return scatter.Hit{Position: pos, Normal: n, Tangent: Tangent(n)}
}

// ClosestPointAndNormal implements scatter.Surface. It drops p onto the
// terrain and then slides along the local normal a few times, which
// converges on the perpendicular foot for smooth terrain.
func (h *Heightfield) ClosestPointAndNormal(p math.Vec3) (math.Vec3, math.Vec3) {
	q := h.drop(p.X, p.Z)
	for range 4 {
		n := h.NormalAt(q.X, q.Z)
		foot := p.Sub(n.Scale(p.Sub(q).Dot(n)))
		q = h.drop(foot.X, foot.Z)
	}
	return q, h.NormalAt(q.X, q.Z)
}

// UVAt implements scatter.Surface. UVs span [0, 1] over the grid.
func (h *Heightfield) UVAt(p math.Vec3) (float32, float32) {
	b := h.Bounds()
	x, z := h.clampXZ(p.X, p.Z)
	return (x - b.Min.X) / (b.Max.X - b.Min.X), (z - b.Min.Z) / (b.Max.Z - b.Min.Z)
}

// TangentFor implements scatter.Surface.
func (h *Heightfield) TangentFor(normal math.Vec3) math.Vec3 {
	return Tangent(normal)
}

// LocalUp returns the terrain's up axis.
func (h *Heightfield) LocalUp() math.Vec3 {
	return math.Up
}

// Name returns the surface handle name.
func (h *Heightfield) Name() string {
	return h.name
}

// SetName sets the surface handle name.
func (h *Heightfield) SetName(name string) {
	h.name = name
}
