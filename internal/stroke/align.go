package stroke

import (
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/logger"
	"github.com/Faultbox/scatterbrush/internal/scatter"
)

// align turns the instances under the brush towards the alignment
// direction. Neighbors come from the index snapshot taken before the stroke.
func align(c *Command, phase scatter.Phase) error {
	b := c.brush
	if !b.Draw {
		return nil
	}

	var ids []int
	for _, id := range c.store.QueryRange(b.Position, b.Radius) {
		if _, ok := c.store.Read(id); ok {
			ids = append(ids, id)
		}
	}

	c.lastPosition = b.Position
	c.hasLast = true

	c.resize(len(ids))
	if len(ids) == 0 {
		c.log.Debug("no neighbors under brush",
			zap.Stringer("phase", phase),
			logger.Vec3("position", b.Position),
			zap.Float32("radius", b.Radius))
		return nil
	}

	before, err := c.read(ids)
	if err != nil {
		return err
	}
	for i := range ids {
		inst := before.At(i)
		inst.Rotation = c.rotateInto(c.alignment(inst.Normal), inst.Rotation)
		c.working.Set(i, inst)
	}

	after := c.working.Clone()
	if err := c.store.Overwrite(ids, after); err != nil {
		return err
	}
	c.record(edit{kind: editOverwrite, ids: ids, before: before, after: after})
	c.store.RefreshView()
	return nil
}
