package main

import (
	"fmt"
	"time"

	"github.com/lixenwraith/spiral-galaxy/galaxy"
	"github.com/lixenwraith/spiral-galaxy/render"
)

var (
	hudText     = render.RGB{R: 200, G: 200, B: 210}
	hudDim      = render.RGB{R: 100, G: 100, B: 110}
	hudSelected = render.RGB{R: 255, G: 200, B: 50}
	hudWarn     = render.RGB{R: 255, G: 90, B: 70}
)

var helpLines = []string{
	"tab/up/down  select field     left/right [ ]  adjust   shift { }  coarse",
	"h j k l      orbit camera     + -             zoom     c          recenter",
	"space        pause rotation   g               resample 0          reset",
	"S            save preset      ?               help     q esc      quit",
}

// drawHUD overlays the parameter panel and status lines
func (v *viewer) drawHUD(now time.Time) {
	cols, rows := v.screen.Size()
	if cols < 20 || rows < 4 {
		return
	}

	p := v.ctrl.Params()
	for i, f := range fields {
		fg := render.Scale(hudText, 0.7)
		marker := "  "
		if i == v.selected {
			fg, marker = hudSelected, "> "
		}
		line := fmt.Sprintf("%s%-16s", marker, f.name)
		render.DrawText(v.screen, 1, i, line, fg)

		valueFg := fg
		if f.isColor() {
			valueFg = colorRGB(colorOf(p, f.name))
		}
		render.DrawText(v.screen, 1+len(line), i, f.value(p), valueFg)
	}

	snap := v.stats.Snapshot()
	// State markers lead so narrow terminals keep them
	stat := ""
	if v.paused {
		stat += "[PAUSED] "
	}
	if gen, ok := v.ctrl.Generated(); !ok || gen != p {
		stat += "regenerating "
	}
	stat += fmt.Sprintf("points %d  gen %.1fms  fps %.1f  regen %d  rejected %d  refused %d  az%s el%s",
		snap.Points, snap.GenerationMillis, snap.FPS, snap.Regenerations, snap.Rejected,
		snap.ResourceFailures, formatDegrees(v.cam.Azimuth()), formatDegrees(v.cam.Elevation()))
	render.DrawText(v.screen, 1, rows-2, stat, hudText)

	switch {
	case now.Before(v.noticeUntil):
		render.DrawText(v.screen, 1, rows-1, v.notice, hudWarn)
	case snap.LastError != "":
		render.DrawText(v.screen, 1, rows-1, "last error: "+snap.LastError, render.Lerp(hudWarn, hudDim, 0.5))
	default:
		render.DrawText(v.screen, 1, rows-1, "? help  q quit", hudDim)
	}

	if v.showHelp {
		top := rows - 3 - len(helpLines)
		for i, line := range helpLines {
			render.DrawText(v.screen, 1, top+i, line, hudText)
		}
	}
}

func colorOf(p galaxy.Params, name string) galaxy.Color {
	if name == galaxy.FieldOutsideColor {
		return p.OutsideColor
	}
	return p.InsideColor
}

func colorRGB(c galaxy.Color) render.RGB {
	return render.FromUnit(float32(c.R), float32(c.G), float32(c.B))
}
