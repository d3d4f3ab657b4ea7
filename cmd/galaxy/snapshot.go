package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/lixenwraith/spiral-galaxy/config"
	"github.com/lixenwraith/spiral-galaxy/galaxy"
	"github.com/lixenwraith/spiral-galaxy/render"
)

// snapshot renders one frame of cfg's galaxy to a PNG without a terminal
// The galaxy is shown at rotation -at*speed, as the viewer would after at seconds
func snapshot(cfg *config.Config, src galaxy.Source, path string, width, height int, at time.Duration, log *slog.Logger) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("snapshot size %dx%d must be positive", width, height)
	}

	scene := render.NewScene()
	gen := galaxy.NewGenerator(scene, src,
		galaxy.WithBufferLimit(cfg.Viewer.BufferLimit),
		galaxy.WithLogger(log),
	)
	defer gen.Close()

	start := time.Now()
	if err := gen.Regenerate(cfg.Galaxy); err != nil {
		return err
	}

	fb := render.NewFramebuffer(width, height)
	cam := render.NewCamera(render.DefaultEye, cfg.Viewer.FPS)
	raster := render.Rasterizer{Exposure: float32(cfg.Viewer.Exposure)}
	rotation := -at.Seconds() * cfg.Viewer.RotationSpeed

	drawn := 0
	scene.View(func(c *galaxy.Cloud, hints galaxy.RenderHints) {
		drawn = raster.Draw(fb, c, hints, cam, rotation)
	})

	if err := fb.SavePNG(path); err != nil {
		return err
	}
	log.Info("snapshot written",
		"path", path,
		"width", width,
		"height", height,
		"points", cfg.Galaxy.Count,
		"visible", drawn,
		"elapsed", time.Since(start),
	)
	return nil
}
