package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/spiral-galaxy/audio"
	"github.com/lixenwraith/spiral-galaxy/config"
	"github.com/lixenwraith/spiral-galaxy/control"
	"github.com/lixenwraith/spiral-galaxy/galaxy"
	"github.com/lixenwraith/spiral-galaxy/render"
	"github.com/lixenwraith/spiral-galaxy/status"
	"github.com/lixenwraith/spiral-galaxy/vmath"
)

// Camera control steps
const (
	orbitStep  = 0.08 // radians per key press
	zoomIn     = 0.9
	zoomOut    = 1 / zoomIn
	maxFrameDt = 0.1 // seconds; longer stalls do not jump the rotation
	noticeTime = 3 * time.Second
)

// viewer owns the terminal loop: input, camera, rotation and drawing
type viewer struct {
	screen tcell.Screen
	scene  *render.Scene
	ctrl   *control.Controller
	stats  *status.Stats
	sound  *audio.SoundManager
	log    *slog.Logger
	cfg    *config.Config

	cam    *render.Camera
	fb     *render.Framebuffer
	raster render.Rasterizer

	selected int
	paused   bool
	showHelp bool
	elapsed  float64 // rotation clock in seconds

	notice      string
	noticeUntil time.Time
	lastFrame   time.Time
}

func newViewer(screen tcell.Screen, scene *render.Scene, ctrl *control.Controller,
	sound *audio.SoundManager, cfg *config.Config, log *slog.Logger) *viewer {
	v := &viewer{
		screen: screen,
		scene:  scene,
		ctrl:   ctrl,
		stats:  ctrl.Stats(),
		sound:  sound,
		log:    log,
		cfg:    cfg,
		cam:    render.NewCamera(render.DefaultEye, cfg.Viewer.FPS),
		fb:     render.NewFramebuffer(0, 0),
		raster: render.Rasterizer{Exposure: float32(cfg.Viewer.Exposure)},
	}
	v.resize()
	return v
}

func (v *viewer) resize() {
	cols, rows := v.screen.Size()
	v.fb.Resize(render.PixelSize(cols, rows))
}

// rotation is the galaxy's yaw at the current clock
func (v *viewer) rotation() float64 {
	return -v.elapsed * v.cfg.Viewer.RotationSpeed
}

// setNotice shows msg on the status line for a few seconds
func (v *viewer) setNotice(msg string) {
	v.notice = msg
	v.noticeUntil = time.Now().Add(noticeTime)
}

// handleEvent applies one terminal event; returns false to quit
func (v *viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.resize()
		v.screen.Sync()
	case *tcell.EventKey:
		return v.handleKey(ev)
	}
	return true
}

func (v *viewer) handleKey(ev *tcell.EventKey) bool {
	coarse := ev.Modifiers()&tcell.ModShift != 0

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab, tcell.KeyDown:
		v.selected = (v.selected + 1) % len(fields)
	case tcell.KeyBacktab, tcell.KeyUp:
		v.selected = (v.selected + len(fields) - 1) % len(fields)
	case tcell.KeyRight:
		v.nudge(1, coarse)
	case tcell.KeyLeft:
		v.nudge(-1, coarse)
	case tcell.KeyRune:
		return v.handleRune(ev.Rune())
	}
	return true
}

func (v *viewer) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case ']':
		v.nudge(1, false)
	case '[':
		v.nudge(-1, false)
	case '}':
		v.nudge(1, true)
	case '{':
		v.nudge(-1, true)
	case 'h':
		v.cam.Orbit(-orbitStep, 0)
	case 'l':
		v.cam.Orbit(orbitStep, 0)
	case 'k':
		v.cam.Orbit(0, orbitStep)
	case 'j':
		v.cam.Orbit(0, -orbitStep)
	case '+', '=':
		v.cam.Zoom(zoomIn)
	case '-', '_':
		v.cam.Zoom(zoomOut)
	case 'c':
		v.cam.LookFrom(render.DefaultEye)
	case ' ':
		v.paused = !v.paused
	case 'g':
		v.ctrl.Regenerate()
	case '0':
		if err := v.ctrl.Load(galaxy.DefaultParams()); err != nil {
			v.reject(err)
		} else {
			v.setNotice("reset to defaults")
		}
	case 'S':
		v.savePreset()
	case '?':
		v.showHelp = !v.showHelp
	}
	return true
}

// nudge steps the selected field through the controller
func (v *viewer) nudge(dir int, coarse bool) {
	f := fields[v.selected]
	err := v.ctrl.Apply(func(p galaxy.Params) (galaxy.Params, error) {
		return f.nudge(p, dir, coarse)
	})
	if err != nil {
		v.reject(err)
	}
}

func (v *viewer) reject(err error) {
	v.sound.PlayRejected()
	v.setNotice(err.Error())
}

func (v *viewer) savePreset() {
	path := v.cfg.Preset
	if path == "" {
		path = defaultPresetPath
	}
	if err := config.SavePreset(path, v.ctrl.Params(), v.cfg.Viewer); err != nil {
		v.log.Error("save preset failed", "path", path, "error", err)
		v.setNotice(err.Error())
		return
	}
	v.log.Info("preset saved", "path", path)
	v.setNotice("saved " + path)
}

// onResult runs on the controller goroutine after each regeneration attempt
func (v *viewer) onResult(res control.Result) {
	switch {
	case res.Err == nil:
		v.sound.PlayGenerated(res.Params.Branches)
	case errors.Is(res.Err, galaxy.ErrResource):
		v.sound.PlayRefused()
	}
}

// frame advances the clocks and draws one frame at now
func (v *viewer) frame(now time.Time) {
	dt := 0.0
	if !v.lastFrame.IsZero() {
		dt = min(now.Sub(v.lastFrame).Seconds(), maxFrameDt)
		if dt > 0 {
			fps := v.stats.FPS.Load()
			if fps == 0 {
				fps = 1 / dt
			}
			v.stats.FPS.Set(vmath.Lerp(fps, 1/dt, 0.1))
		}
	}
	v.lastFrame = now
	if !v.paused {
		v.elapsed += dt
	}
	v.cam.Update()

	// An empty scene means a regeneration is between dispose and attach;
	// the previous frame stays on screen
	drawn := v.scene.View(func(c *galaxy.Cloud, hints galaxy.RenderHints) {
		v.fb.Clear()
		v.raster.Draw(v.fb, c, hints, v.cam, v.rotation())
	})
	if drawn {
		render.Present(v.screen, v.fb, 0)
	}
	v.drawHUD(now)
	v.screen.Show()
}

// run is the main loop; returns when the user quits, input closes or ctx ends
func (v *viewer) run(ctx context.Context) {
	period := time.Second / time.Duration(v.cfg.Viewer.FPS)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	events := startInputReader(v.screen)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok || !v.handleEvent(ev) {
				return
			}
		case now := <-ticker.C:
			v.frame(now)
		}
	}
}

// startInputReader forwards screen events; the channel closes after Fini
func startInputReader(screen tcell.Screen) <-chan tcell.Event {
	ch := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(ch)
				return
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}()
	return ch
}

// formatDegrees renders radians as whole degrees for the HUD
func formatDegrees(rad float64) string {
	return fmt.Sprintf("%4.0f°", rad*180/math.Pi)
}
