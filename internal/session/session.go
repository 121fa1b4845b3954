// Package session wires a scatter brush to its surface, store and undo
// history, and drives it from a replay script or a live SDL window.
package session

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/config"
	"github.com/Faultbox/scatterbrush/internal/engine/camera"
	"github.com/Faultbox/scatterbrush/internal/engine/surface"
	"github.com/Faultbox/scatterbrush/internal/logger"
	"github.com/Faultbox/scatterbrush/internal/scatter"
	"github.com/Faultbox/scatterbrush/internal/store"
	"github.com/Faultbox/scatterbrush/internal/tool"
	"github.com/Faultbox/scatterbrush/internal/undo"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

// ErrUnknownSurface is returned for an unsupported surface kind.
var ErrUnknownSurface = errors.New("unknown surface kind")

// Session is one painting session.
type Session struct {
	cfg     *config.Config
	log     *zap.Logger
	camera  *camera.OrbitCamera
	view    surface.Viewport
	surface scatter.Surface
	store   *store.Store
	history *undo.History
	tool    *tool.Context
	seed    uint64
}

// New builds a session from the configuration.
func New(cfg *config.Config) (*Session, error) {
	s := &Session{
		cfg:     cfg,
		log:     logger.Named("session"),
		camera:  camera.NewOrbitCamera(),
		history: undo.New(cfg.Replay.HistoryLimit),
	}

	deg := math32.Pi / 180
	s.camera.Distance = cfg.Camera.Distance
	s.camera.RotationX = cfg.Camera.Pitch * deg
	s.camera.RotationY = cfg.Camera.Yaw * deg
	s.camera.FovY = cfg.Camera.FovY * deg
	s.view = surface.Viewport{
		Camera: s.camera,
		Width:  float32(cfg.Camera.Width),
		Height: float32(cfg.Camera.Height),
	}

	var err error
	if s.surface, err = s.buildSurface(cfg.Surface); err != nil {
		return nil, err
	}

	if cfg.Replay.Snapshot != "" {
		if s.store, err = store.LoadFile(cfg.Replay.Snapshot); err != nil {
			return nil, fmt.Errorf("loading snapshot: %w", err)
		}
	} else {
		s.store = store.New(cfg.Settings)
	}
	if s.store.Name() == "" {
		s.store.SetName(cfg.Brush.Node)
	}

	s.seed = cfg.Brush.Seed
	if s.seed == 0 {
		s.seed = rand.Uint64()
	}
	s.tool = tool.New(tool.Options{
		Camera:  s.camera,
		History: s.history,
		Rand:    rand.New(rand.NewPCG(s.seed, s.seed)),
		Radius:  cfg.Brush.Radius,
		Message: func(msg string) { s.log.Warn(msg) },
	})
	if err := s.tool.Setup(s.surface, s.store); err != nil {
		return nil, fmt.Errorf("tool setup: %w", err)
	}
	s.tool.Brush().DragMode = cfg.Brush.DragMode
	s.tool.Brush().AlignMode = cfg.Brush.AlignMode

	s.log.Info("session ready",
		zap.String("surface", cfg.Surface.Kind),
		zap.String("node", s.store.Name()),
		zap.Stringer("mode", s.store.Settings().Mode),
		zap.Int("points", s.store.Len()),
		zap.Uint64("seed", s.seed),
	)
	return s, nil
}

func (s *Session) buildSurface(sc config.SurfaceConfig) (scatter.Surface, error) {
	switch sc.Kind {
	case "", "plane":
		s.camera.SetCenter(0, sc.Height, 0)
		p := surface.NewPlane(sc.Height, sc.Extent, s.view)
		p.SetName(sc.Name)
		return p, nil
	case "heightfield":
		half := float32(sc.Cells) * sc.CellSize / 2
		hf := surface.NewHeightfield(-half, -half, sc.CellSize, sc.Cells, sc.Cells, func(x, z float32) float32 {
			return sc.Height + sc.Amplitude*math32.Sin(x*sc.Frequency)*math32.Cos(z*sc.Frequency)
		}, s.view)
		hf.SetName(sc.Name)
		b := hf.Bounds()
		if s.cfg.Camera.Distance <= 0 {
			s.camera.FitToBounds(b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
		} else {
			s.camera.SetCenter(0, (b.Min.Y+b.Max.Y)/2, 0)
		}
		return hf, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSurface, sc.Kind)
	}
}

// Store returns the instance store.
func (s *Session) Store() *store.Store {
	return s.store
}

// Tool returns the brush tool.
func (s *Session) Tool() *tool.Context {
	return s.tool
}

// History returns the undo history.
func (s *Session) History() *undo.History {
	return s.history
}

// Seed returns the random seed strokes are drawn with.
func (s *Session) Seed() uint64 {
	return s.seed
}

// Undo reverses the last stroke. An empty history is not an error.
func (s *Session) Undo() error {
	journal, err := s.history.Undo()
	if errors.Is(err, undo.ErrNothingToUndo) {
		s.log.Warn("nothing to undo")
		return nil
	}
	if err != nil {
		return err
	}
	s.log.Info("undo", zap.String("journal", journal))
	return nil
}

// Redo reapplies the last undone stroke. An empty redo list is not an error.
func (s *Session) Redo() error {
	journal, err := s.history.Redo()
	if errors.Is(err, undo.ErrNothingToRedo) {
		s.log.Warn("nothing to redo")
		return nil
	}
	if err != nil {
		return err
	}
	s.log.Info("redo", zap.String("journal", journal))
	return nil
}

// SetMode switches the node to another mode. The next stroke uses it.
func (s *Session) SetMode(mode scatter.Mode) {
	settings := s.store.Settings()
	settings.Mode = mode
	s.store.SetSettings(settings)
	s.log.Debug("mode changed", zap.Stringer("mode", mode))
}

// Save writes the store snapshot.
func (s *Session) Save(path string) error {
	if err := s.store.SaveFile(path); err != nil {
		return err
	}
	s.log.Info("snapshot saved", zap.String("path", path), zap.Int("points", s.store.Len()))
	return nil
}

// Close cancels any stroke still in progress.
func (s *Session) Close() {
	s.tool.Teardown()
}

// brushRing returns world points on the brush circle in its tangent plane.
func brushRing(b *scatter.Brush, segments int) []math.Vec3 {
	t := b.Tangent
	if t.IsZero() {
		t = surface.Tangent(b.Normal)
	}
	bt := b.Normal.Cross(t)
	pts := make([]math.Vec3, segments+1)
	for i := range pts {
		sn, cs := math32.Sincos(2 * math32.Pi * float32(i) / float32(segments))
		pts[i] = b.Position.Add(t.Scale(cs * b.Radius)).Add(bt.Scale(sn * b.Radius))
	}
	return pts
}
