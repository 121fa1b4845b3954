package stroke

import (
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/logger"
	"github.com/Faultbox/scatterbrush/internal/scatter"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

const twoPi = 2 * math.Pi

// place samples the surface under the brush and commits one instance, or
// num_samples instances scattered over the brush disk in spray mode.
func place(c *Command, phase scatter.Phase) error {
	b := c.brush
	if !b.Draw {
		return nil
	}

	n := 1
	if c.settings.Mode == scatter.ModeSpray {
		n = c.settings.NumSamples
	}
	if n <= 0 {
		return nil
	}

	// Drag continuation moves the samples placed at click instead of adding.
	replay := b.DragMode && phase != scatter.PhaseClick && len(c.pointIDs) == n

	if !b.DragMode && c.hasLast && b.Position.Distance(c.lastPosition) < c.settings.MinDistance {
		c.log.Debug("sample below min distance",
			zap.Stringer("phase", phase),
			logger.Vec3("position", b.Position),
			logger.Vec3("last", c.lastPosition))
		return nil
	}

	c.resize(n)
	for i := 0; i < n; i++ {
		if !replay {
			c.draw(i)
		}
		c.working.Set(i, c.sample(i))
	}

	after := c.working.Clone()
	if replay {
		before, err := c.read(c.pointIDs)
		if err != nil {
			return err
		}
		if err := c.store.Overwrite(c.pointIDs, after); err != nil {
			return err
		}
		c.record(edit{kind: editOverwrite, ids: clone(c.pointIDs), before: before, after: after})
	} else {
		c.pointIDs = c.store.Append(after)
		c.record(edit{kind: editAppend, ids: clone(c.pointIDs), after: after})
	}

	c.lastPosition = b.Position
	c.hasLast = true
	c.store.RefreshView()
	return nil
}

// draw records fresh random values for sample i.
func (c *Command) draw(i int) {
	s := c.settings
	c.initialRotation[i] = c.uniformVec3(s.MinRot, s.MaxRot).Radians()
	if s.UniformScale {
		v := c.uniform(s.MinScale.X, s.MaxScale.X)
		c.initialScale[i] = math.Vec3{X: v, Y: v, Z: v}
	} else {
		c.initialScale[i] = c.uniformVec3(s.MinScale, s.MaxScale)
	}
	c.initialOffset[i] = c.uniform(s.MinOffset, s.MaxOffset)
	c.initialID[i] = c.uniformInt(s.MinID, s.MaxID)
	if s.Mode == scatter.ModeSpray {
		c.sprayCoords[i] = sprayCoord{
			angle:    c.uniform(0, twoPi),
			distance: c.uniform(0, c.brush.Radius),
		}
	}
}

// sample builds instance i from the brush and the recorded random values.
func (c *Command) sample(i int) scatter.Instance {
	b := c.brush
	pos, normal, tangent := b.Position, b.Normal, b.Tangent

	if c.settings.Mode == scatter.ModeSpray {
		sc := c.sprayCoords[i]
		radial := math.QuatFromAxisAngle(normal, sc.angle).Rotate(tangent)
		pos, normal = c.surface.ClosestPointAndNormal(pos.Add(radial.Scale(sc.distance)))
		tangent = c.surface.TangentFor(normal)
	}

	q := math.QuatFromTo(math.Up, c.alignment(normal))
	pos = pos.Add(normal.Scale(c.initialOffset[i]))
	u, v := c.surface.UVAt(pos)

	return scatter.Instance{
		Position:   pos,
		Scale:      c.initialScale[i],
		Rotation:   ComposeOrientation(c.initialRotation[i], q, c.settings.Strength),
		InstanceID: c.initialID[i],
		Normal:     normal,
		Tangent:    tangent,
		U:          u,
		V:          v,
		PolygonID:  0, // polygon lookup is not implemented
	}
}
