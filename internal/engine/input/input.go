// Package input turns SDL2 device events into the discrete events the
// scatter tool consumes.
package input

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

// Event types for the tool
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventPressed
	EventReleased
	EventDragged
	EventMoved
	EventPointerLeft
	EventDragModeOn
	EventDragModeOff
	EventRadiusAdjustOn
	EventRadiusAdjustOff
	EventZoom // Y holds the wheel delta
)

var eventNames = [...]string{
	EventNone:            "none",
	EventQuit:            "quit",
	EventPressed:         "pressed",
	EventReleased:        "released",
	EventDragged:         "dragged",
	EventMoved:           "moved",
	EventPointerLeft:     "pointer_left",
	EventDragModeOn:      "drag_mode_on",
	EventDragModeOff:     "drag_mode_off",
	EventRadiusAdjustOn:  "radius_adjust_on",
	EventRadiusAdjustOff: "radius_adjust_off",
	EventZoom:            "zoom",
}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventNames) {
		return fmt.Sprintf("EventType(%d)", int(t))
	}
	return eventNames[t]
}

// ParseEventType converts an event name into an EventType.
func ParseEventType(s string) (EventType, error) {
	for i, name := range eventNames {
		if name == s {
			return EventType(i), nil
		}
	}
	return EventNone, fmt.Errorf("unknown event %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *EventType) UnmarshalText(text []byte) error {
	v, err := ParseEventType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Event is one tool input event. X and Y are screen pixels for pointer
// events and zero otherwise.
type Event struct {
	Type EventType `yaml:"event"`
	X    float32   `yaml:"x"`
	Y    float32   `yaml:"y"`
}

// Modifier keys.
const (
	DragModeKey     = sdl.Scancode(sdl.SCANCODE_LSHIFT)
	DragModeKeyAlt  = sdl.Scancode(sdl.SCANCODE_RSHIFT)
	RadiusAdjustKey = sdl.Scancode(sdl.SCANCODE_B)
)

// Input translates SDL events, tracking the button and modifier state
// needed to tell drags from moves.
type Input struct {
	events []Event

	buttonDown bool
	dragHeld   int // shift keys currently down
	radiusHeld bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to tool events.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.events = i.Translate(event, i.events)
		if n := len(i.events); n > 0 && i.events[n-1].Type == EventQuit {
			return true
		}
	}
	return false
}

// Translate appends the tool events produced by one SDL event to out.
func (i *Input) Translate(event sdl.Event, out []Event) []Event {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		out = append(out, Event{Type: EventQuit})

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_LEAVE {
			out = append(out, Event{Type: EventPointerLeft})
		}

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			break
		}
		down := e.Type == sdl.KEYDOWN
		switch e.Keysym.Scancode {
		case DragModeKey, DragModeKeyAlt:
			// Either shift toggles drag mode; only the first press and the
			// last release produce events.
			if down {
				i.dragHeld++
				if i.dragHeld == 1 {
					out = append(out, Event{Type: EventDragModeOn})
				}
			} else if i.dragHeld > 0 {
				i.dragHeld--
				if i.dragHeld == 0 {
					out = append(out, Event{Type: EventDragModeOff})
				}
			}
		case RadiusAdjustKey:
			if down != i.radiusHeld {
				i.radiusHeld = down
				if down {
					out = append(out, Event{Type: EventRadiusAdjustOn})
				} else {
					out = append(out, Event{Type: EventRadiusAdjustOff})
				}
			}
		}

	case *sdl.MouseMotionEvent:
		t := EventMoved
		if i.buttonDown {
			t = EventDragged
		}
		out = append(out, Event{Type: t, X: float32(e.X), Y: float32(e.Y)})

	case *sdl.MouseWheelEvent:
		if e.Y != 0 {
			out = append(out, Event{Type: EventZoom, Y: float32(e.Y)})
		}

	case *sdl.MouseButtonEvent:
		if e.Button != sdl.BUTTON_LEFT {
			break
		}
		if e.Type == sdl.MOUSEBUTTONDOWN && !i.buttonDown {
			i.buttonDown = true
			out = append(out, Event{Type: EventPressed, X: float32(e.X), Y: float32(e.Y)})
		} else if e.Type == sdl.MOUSEBUTTONUP && i.buttonDown {
			i.buttonDown = false
			out = append(out, Event{Type: EventReleased, X: float32(e.X), Y: float32(e.Y)})
		}
	}
	return out
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}
