// Package window handles the SDL2 window and the 2D renderer used for the
// brush preview.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/logger"
)

func init() {
	// SDL video calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title  string
	Width  int
	Height int
	VSync  bool
}

// Color is an RGBA draw color.
type Color struct {
	R, G, B, A uint8
}

// Window wraps an SDL2 window and its renderer.
type Window struct {
	config   Config
	sdl      *sdl.Window
	renderer *sdl.Renderer
}

// New creates a new window with an accelerated renderer.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config: cfg,
	}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	var err error
	w.sdl, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if cfg.VSync {
		flags |= sdl.RENDERER_PRESENTVSYNC
	}
	w.renderer, err = sdl.CreateRenderer(w.sdl, -1, flags)
	if err != nil {
		w.sdl.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateRenderer failed: %w", err)
	}

	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("vsync", cfg.VSync),
	)
	return w, nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	logger.Info("closing window")

	if w.renderer != nil {
		w.renderer.Destroy()
	}
	if w.sdl != nil {
		w.sdl.Destroy()
	}
	sdl.Quit()
}

// Clear fills the frame with c.
func (w *Window) Clear(c Color) {
	w.renderer.SetDrawColor(c.R, c.G, c.B, c.A)
	w.renderer.Clear()
}

// Present shows the frame.
func (w *Window) Present() {
	w.renderer.Present()
}

// DrawDot draws a filled square of the given half size centered on (x, y).
func (w *Window) DrawDot(x, y float32, half int32, c Color) {
	w.renderer.SetDrawColor(c.R, c.G, c.B, c.A)
	w.renderer.FillRect(&sdl.Rect{X: int32(x) - half, Y: int32(y) - half, W: 2*half + 1, H: 2*half + 1})
}

// Point is a screen position in pixels.
type Point struct {
	X, Y float32
}

// DrawPolyline connects the points with lines.
func (w *Window) DrawPolyline(points []Point, c Color) {
	if len(points) < 2 {
		return
	}
	pts := make([]sdl.Point, len(points))
	for i, p := range points {
		pts[i] = sdl.Point{X: int32(p.X), Y: int32(p.Y)}
	}
	w.renderer.SetDrawColor(c.R, c.G, c.B, c.A)
	w.renderer.DrawLines(pts)
}

// GetSize returns the current window size.
func (w *Window) GetSize() (int, int) {
	width, height := w.sdl.GetSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdl.SetTitle(title)
}
