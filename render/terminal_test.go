package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestPixelSize(t *testing.T) {
	tests := []struct {
		cols, rows int
		w, h       int
	}{
		{80, 24, 80, 48},
		{1, 1, 1, 2},
		{-4, -1, 0, 0},
	}
	for _, tt := range tests {
		w, h := PixelSize(tt.cols, tt.rows)
		if w != tt.w || h != tt.h {
			t.Errorf("PixelSize(%d, %d) = %d, %d, want %d, %d", tt.cols, tt.rows, w, h, tt.w, tt.h)
		}
	}
}

func TestPresentHalfBlocks(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	screen.SetSize(8, 4)
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	defer screen.Fini()

	fb := NewFramebuffer(PixelSize(8, 3))
	fb.Add(2, 2, 1, 0, 0, 1) // upper half of cell row 1
	fb.Add(2, 3, 0, 0, 1, 1) // lower half of cell row 1

	Present(screen, fb, 1)
	screen.Show()

	mainc, _, style, _ := screen.GetContent(2, 2)
	if mainc != HalfBlock {
		t.Fatalf("Expected half block, got %q", mainc)
	}
	fg, bg, _ := style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("Expected red foreground, got %v", fg)
	}
	if bg != tcell.NewRGBColor(0, 0, 255) {
		t.Errorf("Expected blue background, got %v", bg)
	}

	// Row 0 is above the image and stays untouched
	if mainc, _, _, _ := screen.GetContent(2, 0); mainc == HalfBlock {
		t.Error("Present wrote above its top row")
	}
}

func TestDrawTextKeepsBackground(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	screen.SetSize(8, 2)
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	defer screen.Fini()

	fb := NewFramebuffer(PixelSize(8, 2))
	fb.Add(1, 1, 0, 1, 0, 1)
	Present(screen, fb, 0)
	DrawText(screen, 0, 0, "hi", RGB{255, 255, 255})

	mainc, _, style, _ := screen.GetContent(1, 0)
	if mainc != 'i' {
		t.Fatalf("Expected 'i', got %q", mainc)
	}
	fg, bg, _ := style.Decompose()
	if fg != tcell.NewRGBColor(255, 255, 255) {
		t.Errorf("Expected white text, got %v", fg)
	}
	if bg != tcell.NewRGBColor(0, 255, 0) {
		t.Errorf("Expected green background carried over, got %v", bg)
	}
}
