package session

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scatterbrush/internal/config"
	"github.com/Faultbox/scatterbrush/internal/engine/input"
	"github.com/Faultbox/scatterbrush/internal/scatter"
	"github.com/Faultbox/scatterbrush/internal/store"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Brush.Seed = 1
	return cfg
}

const script = `
- {event: moved, x: 640, y: 360}
- {event: pressed, x: 640, y: 360}
- {event: released, x: 640, y: 360}
- stroke: {from: [200, 360], to: [1000, 360], steps: 4}
- action: undo
- action: undo
- action: redo
- mode: spray
- {event: pressed, x: 640, y: 360}
- {event: released, x: 640, y: 360}
`

func TestParseScript(t *testing.T) {
	steps, err := ParseScript(strings.NewReader(script))
	require.NoError(t, err)
	require.Len(t, steps, 10)

	assert.Equal(t, input.Event{Type: input.EventPressed, X: 640, Y: 360}, steps[1].Event)
	require.NotNil(t, steps[3].Stroke)
	assert.Equal(t, 4, steps[3].Stroke.Steps)
	assert.Equal(t, "undo", steps[4].Action)
	assert.Equal(t, "spray", steps[7].Mode)

	_, err = ParseScript(strings.NewReader("- {event: clicked}"))
	assert.Error(t, err)

	steps, err = ParseScript(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestStrokeStepEvents(t *testing.T) {
	evs := StrokeStep{From: [2]float32{0, 10}, To: [2]float32{100, 10}, Steps: 4}.Events()
	require.Len(t, evs, 6)
	assert.Equal(t, input.EventPressed, evs[0].Type)
	assert.Equal(t, input.Event{Type: input.EventDragged, X: 25, Y: 10}, evs[1])
	assert.Equal(t, input.Event{Type: input.EventDragged, X: 100, Y: 10}, evs[4])
	assert.Equal(t, input.EventReleased, evs[5].Type)
}

func TestReplay(t *testing.T) {
	s, err := New(testConfig())
	require.NoError(t, err)
	defer s.Close()

	steps, err := ParseScript(strings.NewReader(script))
	require.NoError(t, err)

	// Click in the middle of the viewport lands on the orbit center.
	require.NoError(t, s.Replay(steps[:3]))
	require.Equal(t, 1, s.Store().Len())
	inst, _ := s.Store().Read(0)
	assert.True(t, inst.Position.ApproxEqual(math.Vec3{}, 1e-3), "got %v", inst.Position)

	require.NoError(t, s.Replay(steps[3:4]))
	assert.Equal(t, 6, s.Store().Len())

	require.NoError(t, s.Replay(steps[4:6]))
	assert.Equal(t, 0, s.Store().Len())

	require.NoError(t, s.Replay(steps[6:7]))
	assert.Equal(t, 1, s.Store().Len())

	require.NoError(t, s.Replay(steps[7:]))
	assert.Equal(t, scatter.ModeSpray, s.Store().Settings().Mode)
	assert.Equal(t, 11, s.Store().Len())
	assert.Equal(t, 2, s.History().Idx+1)
}

func TestReplayIsDeterministic(t *testing.T) {
	run := func() []scatter.Instance {
		cfg := testConfig()
		cfg.Settings.Mode = scatter.ModeSpray
		s, err := New(cfg)
		require.NoError(t, err)
		steps, err := ParseScript(strings.NewReader(script))
		require.NoError(t, err)
		require.NoError(t, s.Replay(steps[:4]))
		return s.Store().All()
	}
	assert.Equal(t, run(), run())
}

func TestReplayErrors(t *testing.T) {
	s, err := New(testConfig())
	require.NoError(t, err)

	assert.Error(t, s.Replay([]Step{{Action: "rewind"}}))
	assert.Error(t, s.Replay([]Step{{Mode: "paint"}}))
	assert.NoError(t, s.Replay([]Step{{Action: "undo"}, {Action: "redo"}}), "empty history is not an error")
}

func TestHandleNamesFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Surface.Name = "terrain1"
	cfg.Brush.Node = "grass"

	s, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "terrain1", s.Tool().Brush().Target)
	assert.Equal(t, "grass", s.Tool().Brush().Node)
	assert.Equal(t, "grass", s.Store().Name())
}

func TestZoomStepChangesRadiusRate(t *testing.T) {
	s, err := New(testConfig())
	require.NoError(t, err)

	before := s.camera.CenterOfInterest()
	require.NoError(t, s.Replay([]Step{{Event: input.Event{Type: input.EventZoom, Y: 2}}}))
	assert.Less(t, s.camera.CenterOfInterest(), before)
}

func TestSaveAndResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "scatter.yaml")

	s, err := New(testConfig())
	require.NoError(t, err)
	steps, err := ParseScript(strings.NewReader(script))
	require.NoError(t, err)
	require.NoError(t, s.Replay(steps[:4]))
	require.NoError(t, s.Save(path))

	cfg := testConfig()
	cfg.Replay.Snapshot = path
	resumed, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, s.Store().All(), resumed.Store().All())
	assert.Equal(t, "scatter", resumed.Tool().Brush().Node)

	loaded, err := store.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, s.Store().Len(), loaded.Len())
}

func TestHeightfieldSession(t *testing.T) {
	cfg := testConfig()
	cfg.Surface.Kind = "heightfield"
	cfg.Surface.Cells = 32
	cfg.Camera.Distance = 0
	cfg.Settings.Mode = scatter.ModeSpray
	cfg.Settings.NumSamples = 12
	cfg.Settings.MaxOffset = 0

	s, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Replay([]Step{
		{Event: input.Event{Type: input.EventPressed, X: 640, Y: 360}},
		{Event: input.Event{Type: input.EventReleased, X: 640, Y: 360}},
	}))
	require.Equal(t, 12, s.Store().Len())

	for _, inst := range s.Store().All() {
		closest, _ := s.surface.ClosestPointAndNormal(inst.Position)
		assert.True(t, closest.ApproxEqual(inst.Position, 1e-3), "%v projects to %v", inst.Position, closest)
	}
}

func TestUnknownSurface(t *testing.T) {
	cfg := testConfig()
	cfg.Surface.Kind = "sphere"
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrUnknownSurface)
}

func TestBrushRing(t *testing.T) {
	b := scatter.NewBrush(2)
	b.Track(scatter.Hit{Position: math.Vec3{X: 1, Y: 1}, Normal: math.Up, Tangent: math.Vec3{X: 1}})

	ring := brushRing(b, 16)
	require.Len(t, ring, 17)
	for _, p := range ring {
		assert.InDelta(t, 2, p.Distance(b.Position), 1e-4)
		assert.InDelta(t, 1, p.Y, 1e-5)
	}
	assert.True(t, ring[0].ApproxEqual(ring[16], 1e-4))
}
