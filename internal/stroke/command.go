// Package stroke implements the undoable brush stroke: it samples points
// under the brush on every input event, writes them to the instance store,
// and records every write so the whole stroke can be undone as one unit.
package stroke

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/logger"
	"github.com/Faultbox/scatterbrush/internal/scatter"
	"github.com/Faultbox/scatterbrush/internal/undo"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// CommandName prefixes every journal entry.
const CommandName = "scatter"

var (
	ErrNotInitialized = errors.New("stroke command not initialized")
	ErrFinalized      = errors.New("stroke command already finalized")
	ErrNotImplemented = errors.New("mode not implemented")
)

// History receives finalized commands.
type History interface {
	Push(cmd undo.Command)
}

type sprayCoord struct {
	angle    float32
	distance float32
}

// Command is one brush stroke. It is created on press, fed every drag and
// the release, and finalized once.
type Command struct {
	surface scatter.Surface
	store   scatter.Store
	history History
	rng     *rand.Rand
	log     *zap.Logger

	brush       *scatter.Brush
	settings    scatter.Settings
	initialized bool
	finalized   bool

	// Samples produced by the latest apply.
	working  scatter.Batch
	pointIDs []int

	lastPosition math.Vec3
	hasLast      bool

	// Random draws of the latest fresh sample per index, replayed in drag mode.
	initialRotation []math.Vec3 // radians
	initialScale    []math.Vec3
	initialOffset   []float32
	initialID       []int
	sprayCoords     []sprayCoord

	edits   []edit
	journal string
}

// New returns a stroke command bound to its collaborators. history may be
// nil, in which case finalized strokes are not recorded. rng must not be nil.
func New(surface scatter.Surface, store scatter.Store, history History, rng *rand.Rand) *Command {
	return &Command{
		surface: surface,
		store:   store,
		history: history,
		rng:     rng,
		log:     logger.Named("stroke"),
	}
}

// Initialize binds the live brush state and a snapshot of the node settings.
// The brush is only read, never written.
func (c *Command) Initialize(brush *scatter.Brush, settings scatter.Settings) {
	c.brush = brush
	c.settings = settings
	c.initialized = true
	c.log.Debug("stroke initialized",
		zap.Stringer("mode", settings.Mode),
		zap.Float32("radius", brush.Radius),
		zap.Bool("drag_mode", brush.DragMode))
}

// Settings returns the settings snapshot the stroke runs with.
func (c *Command) Settings() scatter.Settings {
	return c.settings
}

// Apply runs the active mode once for the given phase. Events that produce
// no sample (below the distance gate, nothing under the brush) return nil.
func (c *Command) Apply(phase scatter.Phase) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if c.finalized {
		return ErrFinalized
	}

	// Release commits the stroke; it only samples if the brush moved.
	if phase == scatter.PhaseRelease && c.hasLast && c.brush.Position == c.lastPosition {
		return nil
	}

	h, ok := handlers[c.settings.Mode]
	if !ok {
		return fmt.Errorf("apply: unknown mode %v", c.settings.Mode)
	}
	if err := h(c, phase); err != nil {
		return fmt.Errorf("apply %s: %w", c.settings.Mode, err)
	}
	return nil
}

// Working returns the samples produced by the latest apply.
func (c *Command) Working() scatter.Batch {
	return c.working
}

// PointIDs returns the store ids written by the latest append.
func (c *Command) PointIDs() []int {
	return c.pointIDs
}

// Committed reports whether the stroke has written to the store.
func (c *Command) Committed() bool {
	return len(c.edits) > 0
}

// resize sets the working and replay arrays to n entries.
func (c *Command) resize(n int) {
	c.working.Resize(n)
	c.initialRotation = resizeSlice(c.initialRotation, n)
	c.initialScale = resizeSlice(c.initialScale, n)
	c.initialOffset = resizeSlice(c.initialOffset, n)
	c.initialID = resizeSlice(c.initialID, n)
	c.sprayCoords = resizeSlice(c.sprayCoords, n)
}

func (c *Command) reset() {
	c.working = scatter.Batch{}
	c.pointIDs = nil
	c.initialRotation = nil
	c.initialScale = nil
	c.initialOffset = nil
	c.initialID = nil
	c.sprayCoords = nil
}

func resizeSlice[T any](s []T, n int) []T {
	if n <= len(s) {
		return s[:n]
	}
	return append(s, make([]T, n-len(s))...)
}

// Finalize ends the stroke: it builds the journal string, pushes the command
// onto the history when anything was committed, and clears the working
// arrays. It returns the journal.
func (c *Command) Finalize() string {
	if !c.initialized || c.finalized {
		return c.journal
	}
	c.finalized = true

	args := []string{CommandName, c.settings.Mode.String()}
	placed := c.placed()
	switch c.settings.Mode {
	case scatter.ModePlace:
		for _, p := range placed.Position {
			args = append(args, fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z))
		}
	case scatter.ModeSpray:
		args = append(args, fmt.Sprint(placed.Len()))
	}
	c.journal = strings.Join(args, " ")

	if len(c.edits) > 0 && c.history != nil {
		c.history.Push(c)
	}
	c.log.Debug("stroke finalized", zap.String("journal", c.journal), zap.Int("edits", len(c.edits)))

	c.reset()
	return c.journal
}

// Journal returns the journal string built by Finalize.
func (c *Command) Journal() string {
	return c.journal
}

// Cancel reverts everything the stroke wrote and ends it without recording
// an undo step.
func (c *Command) Cancel() error {
	if c.finalized {
		return ErrFinalized
	}
	c.finalized = true
	err := c.Undo()
	c.edits = nil
	c.reset()
	c.log.Debug("stroke cancelled")
	return err
}

// uniform draws from [lo, hi). Inverted bounds still return values between
// them; equal bounds return the constant.
func (c *Command) uniform(lo, hi float32) float32 {
	return lo + c.rng.Float32()*(hi-lo)
}

// uniformInt draws from [lo, hi] inclusive. hi < lo returns lo.
func (c *Command) uniformInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + c.rng.IntN(hi-lo+1)
}

func (c *Command) uniformVec3(lo, hi math.Vec3) math.Vec3 {
	return math.Vec3{
		X: c.uniform(lo.X, hi.X),
		Y: c.uniform(lo.Y, hi.Y),
		Z: c.uniform(lo.Z, hi.Z),
	}
}
