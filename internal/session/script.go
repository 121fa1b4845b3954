package session

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scatterbrush/internal/engine/input"
	"github.com/Faultbox/scatterbrush/internal/scatter"
)

// Step is one line of a replay script. Exactly one of the input event,
// Action, Mode or Stroke is expected.
type Step struct {
	input.Event `yaml:",inline"`

	Action string      `yaml:"action,omitempty"` // "undo" or "redo"
	Mode   string      `yaml:"mode,omitempty"`
	Stroke *StrokeStep `yaml:"stroke,omitempty"`
}

// StrokeStep expands into a press, Steps evenly spaced drags and a release.
type StrokeStep struct {
	From  [2]float32 `yaml:"from"`
	To    [2]float32 `yaml:"to"`
	Steps int        `yaml:"steps"`
}

// Events returns the input events the stroke expands to.
func (s StrokeStep) Events() []input.Event {
	n := max(s.Steps, 1)
	out := make([]input.Event, 0, n+2)
	out = append(out, input.Event{Type: input.EventPressed, X: s.From[0], Y: s.From[1]})
	for i := 1; i <= n; i++ {
		t := float32(i) / float32(n)
		out = append(out, input.Event{
			Type: input.EventDragged,
			X:    s.From[0] + (s.To[0]-s.From[0])*t,
			Y:    s.From[1] + (s.To[1]-s.From[1])*t,
		})
	}
	return append(out, input.Event{Type: input.EventReleased, X: s.To[0], Y: s.To[1]})
}

// ParseScript reads a YAML list of steps.
func ParseScript(r io.Reader) ([]Step, error) {
	var steps []Step
	if err := yaml.NewDecoder(r).Decode(&steps); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	return steps, nil
}

// LoadScript reads a replay script from a file.
func LoadScript(path string) ([]Step, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseScript(f)
}

// Replay feeds every step through the tool in order.
func (s *Session) Replay(steps []Step) error {
	for i, step := range steps {
		if err := s.step(step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	s.log.Info("replay done", zap.Int("steps", len(steps)), zap.Int("points", s.store.Len()))
	return nil
}

func (s *Session) step(step Step) error {
	switch {
	case step.Action != "":
		switch step.Action {
		case "undo":
			return s.Undo()
		case "redo":
			return s.Redo()
		default:
			return fmt.Errorf("unknown action %q", step.Action)
		}
	case step.Mode != "":
		mode, err := scatter.ParseMode(step.Mode)
		if err != nil {
			return err
		}
		s.SetMode(mode)
	case step.Stroke != nil:
		for _, ev := range step.Stroke.Events() {
			s.handle(ev)
		}
	default:
		s.handle(step.Event)
	}
	return nil
}

// handle routes camera events to the camera and everything else to the tool.
func (s *Session) handle(ev input.Event) {
	if ev.Type == input.EventZoom {
		s.camera.HandleZoom(ev.Y)
		return
	}
	s.tool.Handle(ev)
}
