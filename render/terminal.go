package render

import (
	"github.com/gdamore/tcell/v2"
)

// HalfBlock draws the upper pixel as foreground and the lower as background
const HalfBlock = '▀'

// PixelSize returns the framebuffer size that fills cols x rows cells
func PixelSize(cols, rows int) (width, height int) {
	return max(cols, 0), max(rows, 0) * 2
}

// Present writes fb to screen starting at cell row top, two pixel rows per cell
// The caller calls screen.Show
func Present(screen tcell.Screen, fb *Framebuffer, top int) {
	cols, rows := fb.Width(), fb.Height()/2
	for row := 0; row < rows; row++ {
		for x := 0; x < cols; x++ {
			upper := fb.RGBAt(x, row*2)
			lower := fb.RGBAt(x, row*2+1)
			style := tcell.StyleDefault.Foreground(toTcell(upper)).Background(toTcell(lower))
			screen.SetContent(x, top+row, HalfBlock, nil, style)
		}
	}
}

// DrawText writes s at (x, y) with fg over the existing background color
func DrawText(screen tcell.Screen, x, y int, s string, fg RGB) {
	for _, r := range s {
		_, _, style, _ := screen.GetContent(x, y)
		_, bg, _ := style.Decompose()
		screen.SetContent(x, y, r, nil, tcell.StyleDefault.Foreground(toTcell(fg)).Background(bg))
		x++
	}
}

func toTcell(c RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
