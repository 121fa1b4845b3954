// Package undo keeps the linear undo/redo history of committed commands.
package undo

import (
	"errors"
	"fmt"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Command is one reversible unit of work that has already been applied.
type Command interface {
	Undo() error
	Redo() error
	// Journal describes the command for display.
	Journal() string
}

// History is the undo manager. Idx points at the record that the next Undo
// reverses; -1 means everything has been undone.
type History struct {
	Idx   int
	Recs  []Command
	Limit int // maximum records kept; 0 means unlimited
}

// New returns an empty history keeping at most limit records.
func New(limit int) *History {
	return &History{Idx: -1, Limit: limit}
}

// Push records an applied command. Any redo records past Idx are dropped.
func (h *History) Push(cmd Command) {
	h.Recs = append(h.Recs[:h.Idx+1], cmd)
	h.Idx = len(h.Recs) - 1

	if h.Limit > 0 && len(h.Recs) > h.Limit {
		drop := len(h.Recs) - h.Limit
		h.Recs = append(h.Recs[:0], h.Recs[drop:]...)
		h.Idx -= drop
	}
}

// CanUndo reports whether at least one record can be undone.
func (h *History) CanUndo() bool {
	return h.Idx >= 0
}

// CanRedo reports whether at least one record can be redone.
func (h *History) CanRedo() bool {
	return h.Idx < len(h.Recs)-1
}

// Undo reverses the current record and returns its journal.
func (h *History) Undo() (string, error) {
	if !h.CanUndo() {
		return "", ErrNothingToUndo
	}
	cmd := h.Recs[h.Idx]
	if err := cmd.Undo(); err != nil {
		return "", fmt.Errorf("undo %q: %w", cmd.Journal(), err)
	}
	h.Idx--
	return cmd.Journal(), nil
}

// Redo re-applies the next record and returns its journal.
func (h *History) Redo() (string, error) {
	if !h.CanRedo() {
		return "", ErrNothingToRedo
	}
	cmd := h.Recs[h.Idx+1]
	if err := cmd.Redo(); err != nil {
		return "", fmt.Errorf("redo %q: %w", cmd.Journal(), err)
	}
	h.Idx++
	return cmd.Journal(), nil
}

// Journals lists the journal of every record, oldest first.
func (h *History) Journals() []string {
	out := make([]string, len(h.Recs))
	for i, cmd := range h.Recs {
		out[i] = cmd.Journal()
	}
	return out
}
