package stroke

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/scatter"
)

type editKind int

const (
	editAppend editKind = iota
	editOverwrite
)

// edit is one store mutation made by the stroke.
type edit struct {
	kind   editKind
	ids    []int
	before scatter.Batch // overwrite only
	after  scatter.Batch
}

func (c *Command) record(e edit) {
	c.edits = append(c.edits, e)
}

// read fetches the current records at ids.
func (c *Command) read(ids []int) (scatter.Batch, error) {
	b := scatter.NewBatch(len(ids))
	for i, id := range ids {
		inst, ok := c.store.Read(id)
		if !ok {
			return scatter.Batch{}, fmt.Errorf("read point %d: not found", id)
		}
		b.Set(i, inst)
	}
	return b, nil
}

// Undo reverses every store mutation of the stroke, newest first. If a
// reversal fails, the edits already reversed are reapplied so the store is
// left as the stroke committed it.
func (c *Command) Undo() error {
	for i := len(c.edits) - 1; i >= 0; i-- {
		if err := c.revert(c.edits[i]); err != nil {
			if rerr := c.reapplyAll(c.edits[i+1:]); rerr != nil {
				c.log.Error("rollback failed", zap.String("journal", c.journal), zap.Error(rerr))
			}
			return fmt.Errorf("undo %s: %w", c.journal, err)
		}
	}
	if len(c.edits) > 0 {
		c.store.RefreshView()
	}
	return nil
}

// Redo replays the store mutations in order. Appends may come back under
// new point ids; later edits of the same stroke follow them. If an edit
// fails, the ones already replayed are reverted.
func (c *Command) Redo() error {
	if err := c.reapplyAll(c.edits); err != nil {
		return fmt.Errorf("redo %s: %w", c.journal, err)
	}
	if len(c.edits) > 0 {
		c.store.RefreshView()
	}
	return nil
}

func (c *Command) revert(e edit) error {
	if e.kind == editAppend {
		return c.store.Remove(e.ids)
	}
	return c.store.Overwrite(e.ids, e.before)
}

// reapplyAll applies edits in order, all or nothing.
func (c *Command) reapplyAll(edits []edit) error {
	remap := make(map[int]int)
	for i := range edits {
		if err := c.reapply(&edits[i], remap); err != nil {
			for j := i - 1; j >= 0; j-- {
				if rerr := c.revert(edits[j]); rerr != nil {
					c.log.Error("rollback failed", zap.String("journal", c.journal), zap.Error(rerr))
				}
			}
			return err
		}
	}
	return nil
}

// reapply runs one edit forward. Ids are only updated once the store
// accepted the edit.
func (c *Command) reapply(e *edit, remap map[int]int) error {
	if e.kind == editAppend {
		ids := c.store.Append(e.after.Clone())
		for j, id := range e.ids {
			remap[id] = ids[j]
		}
		e.ids = ids
		return nil
	}

	ids := clone(e.ids)
	for j, id := range ids {
		if to, ok := remap[id]; ok {
			ids[j] = to
		}
	}
	if err := c.store.Overwrite(ids, e.after); err != nil {
		return err
	}
	e.ids = ids
	return nil
}

// placed returns the final record of every instance the stroke appended,
// in append order.
func (c *Command) placed() scatter.Batch {
	var out scatter.Batch
	at := make(map[int]int)
	for _, e := range c.edits {
		for j, id := range e.ids {
			switch e.kind {
			case editAppend:
				at[id] = out.Len()
				out.Append(e.after.At(j))
			case editOverwrite:
				if k, ok := at[id]; ok {
					out.Set(k, e.after.At(j))
				}
			}
		}
	}
	return out
}

func clone(ids []int) []int {
	return slices.Clone(ids)
}
