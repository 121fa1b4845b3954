package session

import (
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/engine/input"
	"github.com/Faultbox/scatterbrush/internal/engine/picking"
	"github.com/Faultbox/scatterbrush/internal/engine/window"
	"github.com/Faultbox/scatterbrush/internal/tool"
	"github.com/Faultbox/scatterbrush/pkg/math"
)

var (
	background = window.Color{R: 24, G: 26, B: 30, A: 255}
	pointColor = window.Color{R: 120, G: 200, B: 110, A: 255}
	brushColor = window.Color{R: 240, G: 240, B: 240, A: 255}
)

// RunInteractive opens a window and paints with the mouse until it is
// closed. Shift toggles drag mode, B adjusts the radius, the wheel zooms.
func (s *Session) RunInteractive() error {
	win, err := window.New(window.Config{
		Title:  "scatterpaint",
		Width:  s.cfg.Camera.Width,
		Height: s.cfg.Camera.Height,
		VSync:  true,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	in := input.New()
	frames := 0
	for {
		if in.Update() {
			break
		}
		for _, ev := range in.Events() {
			s.handle(ev)
		}
		s.draw(win)
		frames++
	}

	s.log.Info("window closed", zap.Int("frames", frames), zap.Int("points", s.store.Len()))
	return nil
}

func (s *Session) draw(win *window.Window) {
	w, h := s.view.Width, s.view.Height
	viewProj := s.camera.ProjectionMatrix(w / h).Mul(s.camera.ViewMatrix())

	win.Clear(background)
	for _, p := range s.store.All() {
		if x, y, ok := picking.WorldToScreen(p.Position, viewProj, w, h); ok {
			win.DrawDot(x, y, 1, pointColor)
		}
	}

	b := s.tool.Brush()
	if b.Draw {
		switch s.tool.CursorStyle() {
		case tool.CursorDot:
			if x, y, ok := picking.WorldToScreen(b.Position, viewProj, w, h); ok {
				win.DrawDot(x, y, 3, brushColor)
			}
		case tool.CursorCircle:
			win.DrawPolyline(project(brushRing(b, 48), viewProj, w, h), brushColor)
		}
	}
	win.Present()
}

func project(world []math.Vec3, viewProj math.Mat4, w, h float32) []window.Point {
	pts := make([]window.Point, 0, len(world))
	for _, p := range world {
		if x, y, ok := picking.WorldToScreen(p, viewProj, w, h); ok {
			pts = append(pts, window.Point{X: x, Y: y})
		}
	}
	return pts
}
