// Package store is an in-memory instance store with a kd-tree spatial index
// and YAML snapshots.
package store

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/logger"
	"github.com/Faultbox/scatterbrush/internal/scatter"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

var (
	ErrIndexOutOfRange = errors.New("point id out of range")
	ErrLengthMismatch  = errors.New("batch length does not match point ids")
	ErrDuplicateID     = errors.New("duplicate point id")
)

// Store holds the placed instances of one node.
type Store struct {
	name     string
	points   scatter.Batch
	settings scatter.Settings
	index    *kdTree

	listeners []func()
	refreshes int
}

// New returns an empty store with the given settings.
func New(settings scatter.Settings) *Store {
	return &Store{settings: settings}
}

// Name returns the node handle name.
func (s *Store) Name() string {
	return s.name
}

// SetName sets the node handle name.
func (s *Store) SetName(name string) {
	s.name = name
}

// Len returns the number of stored instances.
func (s *Store) Len() int {
	return s.points.Len()
}

// Append adds the batch and returns the new point ids.
func (s *Store) Append(b scatter.Batch) []int {
	start := s.points.Len()
	s.points.AppendBatch(b)
	ids := make([]int, b.Len())
	for i := range ids {
		ids[i] = start + i
	}
	return ids
}

// Overwrite replaces the instances at ids. Nothing is written unless every
// id is valid.
func (s *Store) Overwrite(ids []int, b scatter.Batch) error {
	if len(ids) != b.Len() {
		return fmt.Errorf("overwrite %d ids with %d instances: %w", len(ids), b.Len(), ErrLengthMismatch)
	}
	if err := s.check(ids); err != nil {
		return fmt.Errorf("overwrite: %w", err)
	}
	for i, id := range ids {
		s.points.Set(id, b.At(i))
	}
	return nil
}

// Remove deletes the given point ids. Ids above the removed ones shift down.
func (s *Store) Remove(ids []int) error {
	if err := s.check(ids); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	sorted := slices.Sorted(slices.Values(ids))
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return fmt.Errorf("remove %d: %w", sorted[i], ErrDuplicateID)
		}
	}

	// Compact in place from the first removed id.
	w, k := sorted[0], 0
	for i := sorted[0]; i < s.points.Len(); i++ {
		if k < len(sorted) && sorted[k] == i {
			k++
			continue
		}
		s.points.Set(w, s.points.At(i))
		w++
	}
	s.points.Resize(w)
	return nil
}

func (s *Store) check(ids []int) error {
	n := s.points.Len()
	for _, id := range ids {
		if id < 0 || id >= n {
			return fmt.Errorf("id %d of %d: %w", id, n, ErrIndexOutOfRange)
		}
	}
	return nil
}

// Read returns the instance at id.
func (s *Store) Read(id int) (scatter.Instance, bool) {
	if id < 0 || id >= s.points.Len() {
		return scatter.Instance{}, false
	}
	return s.points.At(id), true
}

// All returns a copy of every instance in id order.
func (s *Store) All() []scatter.Instance {
	return s.points.Instances()
}

// Settings returns the node settings.
func (s *Store) Settings() scatter.Settings {
	return s.settings
}

// SetSettings replaces the node settings.
func (s *Store) SetSettings(settings scatter.Settings) {
	s.settings = settings
}

// BuildIndex snapshots the current positions into the kd-tree. Later
// appends are invisible to QueryRange until the next BuildIndex.
func (s *Store) BuildIndex() {
	s.index = buildKDTree(slices.Clone(s.points.Position))
	logger.Debug("spatial index built", zap.Int("points", s.index.len()))
}

// QueryRange returns the ids within radius of center in the last index
// snapshot. Ids that no longer exist are dropped.
func (s *Store) QueryRange(center math.Vec3, radius float32) []int {
	if s.index == nil {
		return nil
	}
	found := s.index.within(center, radius)
	n := s.points.Len()
	out := found[:0]
	for _, id := range found {
		if id < n {
			out = append(out, id)
		}
	}
	return out
}

// OnRefresh registers a callback run after every commit.
func (s *Store) OnRefresh(fn func()) {
	s.listeners = append(s.listeners, fn)
}

// RefreshView notifies listeners that the points changed.
func (s *Store) RefreshView() {
	s.refreshes++
	for _, fn := range s.listeners {
		fn()
	}
}

// Refreshes returns how many times RefreshView has been called.
func (s *Store) Refreshes() int {
	return s.refreshes
}
