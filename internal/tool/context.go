// Package tool is the interactive brush: a state machine fed by pointer and
// modifier events that keeps the brush on the target surface and drives one
// stroke command per press/release.
package tool

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/engine/input"
	"github.com/Faultbox/scatterbrush/internal/logger"
	"github.com/Faultbox/scatterbrush/internal/scatter"
	"github.com/Faultbox/scatterbrush/internal/stroke"
)

// ErrNoTarget is returned by Setup when no surface or node is bound.
var ErrNoTarget = errors.New("no target surface or scatter node")

const (
	radiusRate = 0.025
	minRadius  = 0.01
)

// State of the tool.
type State int

const (
	StateIdle State = iota
	StateHovering
	StateStroking
	StateAdjustingRadius
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHovering:
		return "hovering"
	case StateStroking:
		return "stroking"
	case StateAdjustingRadius:
		return "adjusting_radius"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// CursorStyle tells the overlay how to draw the brush.
type CursorStyle int

const (
	CursorDot CursorStyle = iota
	CursorCircle
)

// CameraView provides the viewport's center of interest.
type CameraView interface {
	CenterOfInterest() float32
}

// Options configures a Context.
type Options struct {
	Camera  CameraView
	History stroke.History
	Rand    *rand.Rand
	Radius  float32 // initial brush radius, default 1

	// Message shows a message to the user.
	Message func(msg string)
	// OnStroke is called after every press, drag and release of a stroke.
	OnStroke func(phase scatter.Phase, brush scatter.Brush)
}

// Context is the brush tool. It is not safe for concurrent use.
type Context struct {
	opts Options
	log  *zap.Logger

	surface  scatter.Surface
	node     scatter.Store
	settings scatter.Settings

	brush *scatter.Brush
	state State
	cmd   *stroke.Command

	adjusting        bool
	anchorX, anchorY float32 // cursor when radius adjustment started
	lastX            float32
	hasLastX         bool
	warned           bool
}

// New returns an unbound tool context.
func New(opts Options) *Context {
	if opts.Radius <= 0 {
		opts.Radius = 1
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Context{
		opts:     opts,
		log:      logger.Named("tool"),
		brush:    scatter.NewBrush(opts.Radius),
		settings: scatter.DefaultSettings(),
	}
}

// Setup binds the target surface and scatter node. A nil argument keeps
// the previous binding. Without any binding it fails with ErrNoTarget and
// leaves the context untouched.
func (c *Context) Setup(target scatter.Surface, node scatter.Store) error {
	if target == nil {
		target = c.surface
	}
	if node == nil {
		node = c.node
	}
	if target == nil || node == nil {
		c.log.Warn("setup failed", zap.Bool("has_target", target != nil), zap.Bool("has_node", node != nil))
		c.message("Select a target surface and a scatter node to paint on")
		return ErrNoTarget
	}

	c.surface = target
	c.node = node
	c.brush.Target = scatter.HandleName(target)
	c.brush.Node = scatter.HandleName(node)
	c.refreshSettings()
	c.log.Debug("tool bound",
		zap.String("target", c.brush.Target),
		zap.String("node", c.brush.Node),
		zap.Stringer("mode", c.settings.Mode))
	return nil
}

// Teardown cancels any stroke in progress. The binding is kept so a later
// Setup with nil arguments can reuse it.
func (c *Context) Teardown() {
	if c.cmd != nil {
		if err := c.cmd.Cancel(); err != nil {
			c.log.Warn("cancel stroke", zap.Error(err))
		}
		c.cmd = nil
	}
	c.brush.Lose()
	c.adjusting = false
	c.hasLastX = false
	c.setState(StateIdle)
}

// State returns the current state.
func (c *Context) State() State {
	return c.state
}

// Brush returns the live brush state.
func (c *Context) Brush() *scatter.Brush {
	return c.brush
}

// Settings returns the node settings captured at setup or the last press.
func (c *Context) Settings() scatter.Settings {
	return c.settings
}

// CursorStyle returns how the overlay should draw the brush.
func (c *Context) CursorStyle() CursorStyle {
	if c.settings.Mode == scatter.ModePlace {
		return CursorDot
	}
	return CursorCircle
}

// Handle dispatches an input event.
func (c *Context) Handle(ev input.Event) {
	switch ev.Type {
	case input.EventPressed:
		c.Pressed(ev.X, ev.Y)
	case input.EventReleased:
		c.Released(ev.X, ev.Y)
	case input.EventDragged:
		c.Dragged(ev.X, ev.Y)
	case input.EventMoved:
		c.Moved(ev.X, ev.Y)
	case input.EventPointerLeft:
		c.PointerLeft()
	case input.EventDragModeOn:
		c.DragModeOn()
	case input.EventDragModeOff:
		c.DragModeOff()
	case input.EventRadiusAdjustOn:
		c.RadiusAdjustOn()
	case input.EventRadiusAdjustOff:
		c.RadiusAdjustOff()
	}
}

// Moved handles pointer motion with no button held.
func (c *Context) Moved(x, y float32) {
	if c.state == StateStroking {
		c.Dragged(x, y)
		return
	}
	c.cursor(x, y)
	c.track()
	if c.adjusting {
		return
	}
	if c.brush.Draw {
		c.setState(StateHovering)
	} else {
		c.setState(StateIdle)
	}
}

// Pressed starts a stroke when the cursor is over the target.
func (c *Context) Pressed(x, y float32) {
	c.cursor(x, y)
	if c.adjusting {
		c.lastX, c.hasLastX = x, true
		return
	}
	if c.cmd != nil || c.surface == nil || c.node == nil {
		return
	}
	if !c.track() {
		c.setState(StateIdle)
		return
	}

	c.refreshSettings()
	c.brush.Action = scatter.PhaseClick
	c.cmd = stroke.New(c.surface, c.node, c.opts.History, c.opts.Rand)
	c.cmd.Initialize(c.brush, c.settings)
	c.warned = false
	c.setState(StateStroking)
	c.apply(scatter.PhaseClick)
}

// Dragged handles pointer motion with the button held.
func (c *Context) Dragged(x, y float32) {
	c.cursor(x, y)
	if c.adjusting {
		c.adjustRadius(x)
		c.track()
		return
	}
	if c.cmd == nil {
		c.Moved(x, y)
		return
	}

	c.track()
	c.brush.Action = scatter.PhaseDrag
	if c.brush.Draw {
		c.apply(scatter.PhaseDrag)
	}
}

// Released ends the stroke.
func (c *Context) Released(x, y float32) {
	c.cursor(x, y)
	if c.adjusting {
		c.hasLastX = false
		c.finish(false)
		return
	}
	c.track()
	c.finish(true)
}

// PointerLeft handles the cursor leaving the viewport.
func (c *Context) PointerLeft() {
	c.brush.Lose()
	if c.state == StateHovering {
		c.setState(StateIdle)
	}
}

// DragModeOn makes the next stroke samples follow the cursor instead of
// accumulating.
func (c *Context) DragModeOn() {
	c.brush.DragMode = true
}

// DragModeOff restores accumulating strokes.
func (c *Context) DragModeOff() {
	c.brush.DragMode = false
}

// RadiusAdjustOn turns horizontal drags into radius changes. The brush
// stays where it is until the modifier is released.
func (c *Context) RadiusAdjustOn() {
	if c.adjusting {
		return
	}
	c.adjusting = true
	c.anchorX, c.anchorY = c.brush.CursorX, c.brush.CursorY
	c.hasLastX = false
	c.setState(StateAdjustingRadius)
}

// RadiusAdjustOff ends radius adjustment.
func (c *Context) RadiusAdjustOff() {
	if !c.adjusting {
		return
	}
	c.adjusting = false
	c.hasLastX = false
	switch {
	case c.cmd != nil:
		c.setState(StateStroking)
	case c.brush.Draw:
		c.setState(StateHovering)
	default:
		c.setState(StateIdle)
	}
}

func (c *Context) adjustRadius(x float32) {
	if !c.hasLastX {
		c.lastX, c.hasLastX = x, true
		return
	}
	coi := float32(1)
	if c.opts.Camera != nil {
		coi = c.opts.Camera.CenterOfInterest()
	}
	r := c.brush.Radius + (x-c.lastX)*coi*radiusRate
	c.brush.Radius = max(r, minRadius)
	c.lastX = x
}

// finish finalizes the active stroke, applying the release sample first
// when asked and the brush is on the surface.
func (c *Context) finish(applyRelease bool) {
	if c.cmd == nil {
		return
	}
	c.brush.Action = scatter.PhaseRelease
	if applyRelease && c.brush.Draw {
		c.apply(scatter.PhaseRelease)
	}
	journal := c.cmd.Finalize()
	c.log.Debug("stroke done", zap.String("journal", journal))
	c.cmd = nil

	if c.adjusting {
		return
	}
	if c.brush.Draw {
		c.setState(StateHovering)
	} else {
		c.setState(StateIdle)
	}
}

func (c *Context) apply(phase scatter.Phase) {
	if err := c.cmd.Apply(phase); err != nil {
		if errors.Is(err, stroke.ErrNotImplemented) && c.warned {
			c.log.Debug("apply", zap.Stringer("phase", phase), zap.Error(err))
		} else {
			c.log.Warn("apply", zap.Stringer("phase", phase), zap.Error(err))
			c.warned = true
		}
	}
	if c.opts.OnStroke != nil {
		c.opts.OnStroke(phase, *c.brush)
	}
}

// track hit tests under the cursor, or under the anchor while adjusting
// the radius, and moves the brush.
func (c *Context) track() bool {
	if c.surface == nil {
		c.brush.Lose()
		return false
	}
	x, y := c.brush.CursorX, c.brush.CursorY
	if c.adjusting {
		x, y = c.anchorX, c.anchorY
	}
	hit, ok := c.surface.HitTest(x, y)
	if !ok {
		c.brush.Lose()
		return false
	}
	c.brush.Track(hit)
	return true
}

func (c *Context) cursor(x, y float32) {
	c.brush.CursorX, c.brush.CursorY = x, y
}

func (c *Context) refreshSettings() {
	c.settings = c.node.Settings()
	if c.settings.Mode.NeedsIndex() {
		c.node.BuildIndex()
	}
}

func (c *Context) setState(s State) {
	if s == c.state {
		return
	}
	c.log.Debug("state", zap.Stringer("from", c.state), zap.Stringer("to", s))
	c.state = s
}

func (c *Context) message(msg string) {
	if c.opts.Message != nil {
		c.opts.Message(msg)
	}
}
