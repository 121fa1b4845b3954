package scatter

import (
	"fmt"

	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Phase is the position of an input event within a stroke.
type Phase int

const (
	PhaseClick Phase = iota
	PhaseDrag
	PhaseRelease
)

func (p Phase) String() string {
	switch p {
	case PhaseClick:
		return "click"
	case PhaseDrag:
		return "drag"
	case PhaseRelease:
		return "release"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Hit is a surface point under the cursor.
type Hit struct {
	Position math.Vec3
	Normal   math.Vec3
	Tangent  math.Vec3
}

// Brush is the cursor-derived state of the tool. The tool context mutates
// it on every input event; stroke commands only read it.
type Brush struct {
	Position  math.Vec3
	Normal    math.Vec3
	Tangent   math.Vec3
	Direction math.Vec3 // stroke direction, previous hit to current hit
	Radius    float32

	DragMode  bool
	AlignMode bool // force stroke-direction alignment
	Action    Phase

	Target string // handle name of the bound surface
	Node   string // handle name of the bound store

	CursorX, CursorY float32
	Draw             bool

	lastPosition math.Vec3
	hasLast      bool
}

// NewBrush returns a brush with the given radius and nothing under it.
func NewBrush(radius float32) *Brush {
	return &Brush{Radius: radius}
}

// Track moves the brush to a new valid hit and updates the stroke direction.
func (b *Brush) Track(hit Hit) {
	b.Position = hit.Position
	b.Normal = hit.Normal
	b.Tangent = hit.Tangent
	b.Draw = true

	// A stationary cursor keeps the previous direction.
	if d := hit.Position.Sub(b.lastPosition); b.hasLast && !d.IsZero() {
		b.Direction = d
	}
	b.lastPosition = hit.Position
	b.hasLast = true
}

// Lose marks the cursor as off the surface for this frame.
func (b *Brush) Lose() {
	b.Draw = false
}
