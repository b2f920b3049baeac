package app

import (
	"fmt"
	"time"

	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-water/internal/config"
	"github.com/Faultbox/midgard-water/internal/engine/camera"
	"github.com/Faultbox/midgard-water/internal/engine/debug"
	"github.com/Faultbox/midgard-water/internal/engine/input"
	"github.com/Faultbox/midgard-water/internal/engine/renderer"
	"github.com/Faultbox/midgard-water/internal/engine/scene"
	"github.com/Faultbox/midgard-water/internal/engine/water"
	"github.com/Faultbox/midgard-water/internal/engine/window"
	"github.com/Faultbox/midgard-water/internal/logger"
)

const windowTitle = "Midgard Water"

// Viewer displays a water tile in an SDL2 window.
type Viewer struct {
	cfg      *config.Config
	running  bool
	paused   bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera

	water   *water.Water
	surface *scene.WaterRenderer

	bounds      *scene.BoundsRenderer
	showBounds  bool
	screenshots *debug.ScreenshotCapture
	wantShot    bool

	// pendingTexture receives paths picked in the file dialog; GL loads
	// must happen on the main thread.
	pendingTexture chan string
}

// NewViewer creates the window, GL state and the water tile.
func NewViewer(cfg *config.Config) (*Viewer, error) {
	w, err := NewWater(cfg)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		cfg:            cfg,
		water:          w,
		input:          input.New(),
		camera:         camera.NewOrbitCamera(),
		pendingTexture: make(chan string, 1),
		showBounds:     cfg.Window.ShowBounds,
		screenshots:    debug.NewScreenshotCapture(cfg.Window.ScreenshotDir, "water"),
	}

	wc := cfg.Window
	v.window, err = window.New(window.Config{
		Title:      windowTitle,
		Width:      wc.Width,
		Height:     wc.Height,
		Fullscreen: wc.Fullscreen,
		VSync:      wc.VSync,
		Samples:    wc.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window just created.
	v.renderer, err = renderer.New(renderer.Config{
		Width:      wc.Width,
		Height:     wc.Height,
		ClearColor: [3]float32{0.1, 0.1, 0.15},
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.surface, err = scene.NewWaterRenderer()
	if err != nil {
		v.Close()
		return nil, err
	}
	v.surface.SetWireframe(wc.Wireframe)

	if path := w.TextureMap(); path != "" {
		v.loadTexture(path)
	}

	b := w.Bounds()
	v.bounds, err = scene.NewBoundsRenderer(b.Min, b.Max)
	if err != nil {
		v.Close()
		return nil, err
	}
	frameTile(v.camera, w)

	logger.Info("viewer initialized",
		zap.Int("resolution", w.Resolution()),
		zap.Int("indices", w.NumIndices()),
	)
	return v, nil
}

// frameTile points c at the lattice as rendered. The nominal Bounds box is
// offset from the mesh, so it is not used for framing.
func frameTile(c *camera.OrbitCamera, w *water.Water) {
	m := w.MeshBounds()
	c.FitToBounds(m.Min, m.Max)
}

// Run drives the frame loop until the window is closed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dtMs := float32(now.Sub(lastTime).Seconds() * 1000)
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		select {
		case path := <-v.pendingTexture:
			v.loadTexture(path)
		default:
		}

		if err := v.update(v.cfg.Simulation.ClampDelta(dtMs)); err != nil {
			return fmt.Errorf("update error: %w", err)
		}
		v.render()
		if v.wantShot {
			v.wantShot = false
			v.saveScreenshot()
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dtMs))
			v.window.SetTitle(statusTitle(frameCount, v.water.Stats(), v.paused))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

func (v *Viewer) handleEvents() {
	for _, e := range v.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			v.renderer.Resize(e.Width, e.Height)
		case input.EventMouseMove:
			if v.input.Dragging() {
				v.camera.HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
			}
		case input.EventMouseWheel:
			v.camera.HandleZoom(float32(e.DeltaY))
		case input.EventKeyDown:
			v.handleKey(e.Key)
		}
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_W:
		v.surface.SetWireframe(!v.surface.Wireframe())
	case sdl.SCANCODE_P:
		v.paused = !v.paused
		logger.Info("simulation paused", zap.Bool("paused", v.paused))
	case sdl.SCANCODE_B:
		v.showBounds = !v.showBounds
	case sdl.SCANCODE_F12:
		v.wantShot = true
	case sdl.SCANCODE_T:
		v.openTextureDialog()
	case sdl.SCANCODE_SPACE:
		mid := v.water.Resolution() / 2
		if err := v.water.Disturb(mid, mid, v.cfg.Water.SpikeHeight); err != nil {
			logger.Warn("disturb failed", zap.Error(err))
		}
	}
}

// openTextureDialog shows a native file picker without blocking the frame loop.
func (v *Viewer) openTextureDialog() {
	go func() {
		path, err := dialog.File().
			Filter("Images", "png", "jpg", "jpeg", "bmp", "tif", "tiff").
			Filter("All Files", "*").
			Title("Open Water Texture").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				logger.Warn("texture dialog failed", zap.Error(err))
			}
			return
		}
		select {
		case v.pendingTexture <- path:
		default:
		}
	}()
}

func (v *Viewer) loadTexture(path string) {
	if err := v.surface.LoadTextureMap(path); err != nil {
		logger.Warn("water texture unavailable, using flat color",
			zap.String("path", path), zap.Error(err))
		return
	}
	v.water.SetTextureMap(path)
	logger.Info("water texture loaded", zap.String("path", path))
}

// statusTitle formats the window title shown once per second.
func statusTitle(fps int, s water.SurfaceStats, paused bool) string {
	title := fmt.Sprintf("%s | %d fps | height %.2f..%.2f | energy %.3g",
		windowTitle, fps, s.MinHeight, s.MaxHeight, s.Energy)
	if paused {
		title += " | paused"
	}
	return title
}

// update advances the tile and pushes the new surface to the GPU.
// A paused viewer still scrolls the texture.
func (v *Viewer) update(dtMs float32) error {
	if v.paused {
		v.water.Animate(dtMs)
	} else {
		v.water.Update(dtMs)
	}
	if v.cfg.Simulation.CheckFinite {
		if err := v.water.CheckFinite(); err != nil {
			return err
		}
	}
	return v.water.Publish(v.surface)
}

func (v *Viewer) render() {
	v.renderer.Begin()

	viewProj := v.camera.ViewProjection(v.renderer.Aspect())
	frustum := camera.NewFrustum(viewProj)
	v.surface.Render(viewProj, v.water.RenderState(), frustum)
	if v.showBounds {
		v.bounds.Render(viewProj)
	}

	v.renderer.End()
}

func (v *Viewer) saveScreenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.screenshots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close releases GPU resources and the window.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.bounds != nil {
		v.bounds.Destroy()
	}
	if v.surface != nil {
		v.surface.Destroy()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
