package scatter

import (
	"fmt"

	"github.com/Faultbox/scatterbrush/pkg/math"
)

// Mode selects what a stroke does to the instances under the brush.
type Mode int

const (
	ModePlace Mode = iota
	ModeSpray
	ModeScale
	ModeAlign
	ModeMove
	ModeID
)

var modeNames = [...]string{
	ModePlace: "place",
	ModeSpray: "spray",
	ModeScale: "scale",
	ModeAlign: "align",
	ModeMove:  "move",
	ModeID:    "id",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// NeedsIndex reports whether the mode queries existing instances through
// the spatial index.
func (m Mode) NeedsIndex() bool {
	switch m {
	case ModeScale, ModeAlign, ModeMove, ModeID:
		return true
	}
	return false
}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(modeNames) {
		return nil, fmt.Errorf("invalid mode %d", int(m))
	}
	return []byte(modeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// AlignTo selects the direction instances are oriented towards.
type AlignTo int

const (
	AlignNormal AlignTo = iota
	AlignWorld
	AlignObject
	AlignStroke
)

var alignNames = [...]string{
	AlignNormal: "surface_normal",
	AlignWorld:  "world_up",
	AlignObject: "object_local",
	AlignStroke: "stroke_direction",
}

func (a AlignTo) String() string {
	if a < 0 || int(a) >= len(alignNames) {
		return fmt.Sprintf("AlignTo(%d)", int(a))
	}
	return alignNames[a]
}

// ParseAlignTo converts an alignment name into an AlignTo.
func ParseAlignTo(s string) (AlignTo, error) {
	for i, name := range alignNames {
		if name == s {
			return AlignTo(i), nil
		}
	}
	return 0, fmt.Errorf("unknown alignment %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a AlignTo) MarshalText() ([]byte, error) {
	if a < 0 || int(a) >= len(alignNames) {
		return nil, fmt.Errorf("invalid alignment %d", int(a))
	}
	return []byte(alignNames[a]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AlignTo) UnmarshalText(text []byte) error {
	v, err := ParseAlignTo(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Settings is the persisted per-node configuration of the brush.
// Ranges are not validated; min > max yields degenerate samples.
type Settings struct {
	Mode         Mode      `yaml:"mode"`
	MinDistance  float32   `yaml:"min_distance"`
	NumSamples   int       `yaml:"num_samples"`
	MinRot       math.Vec3 `yaml:"min_rot"` // degrees
	MaxRot       math.Vec3 `yaml:"max_rot"`
	MinScale     math.Vec3 `yaml:"min_scale"`
	MaxScale     math.Vec3 `yaml:"max_scale"`
	UniformScale bool      `yaml:"uniform_scale"`
	MinOffset    float32   `yaml:"min_offset"`
	MaxOffset    float32   `yaml:"max_offset"`
	MinID        int       `yaml:"min_id"`
	MaxID        int       `yaml:"max_id"`
	AlignTo      AlignTo   `yaml:"align_to"`
	Strength     float32   `yaml:"strength"` // 0..1
}

// DefaultSettings returns the settings a fresh node starts with.
func DefaultSettings() Settings {
	return Settings{
		Mode:         ModePlace,
		MinDistance:  0.5,
		NumSamples:   10,
		MinRot:       math.Vec3{},
		MaxRot:       math.Vec3{X: 0, Y: 360, Z: 0},
		MinScale:     math.Vec3{X: 0.8, Y: 0.8, Z: 0.8},
		MaxScale:     math.Vec3{X: 1.2, Y: 1.2, Z: 1.2},
		UniformScale: true,
		MinOffset:    0,
		MaxOffset:    0,
		MinID:        0,
		MaxID:        0,
		AlignTo:      AlignNormal,
		Strength:     1,
	}
}
