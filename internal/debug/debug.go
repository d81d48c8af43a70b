package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 18
	padding    = 12
	top        = 52 // below the escape button
	lineHeight = fontSize + 4
	// updateInterval: only refresh the text every N frames to reduce allocations.
	updateInterval = 30
)

// Debug holds the on-screen diagnostics. All overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowState    bool
	// State, when set, describes the view (state, zoom, drag speed) for the state overlay.
	State func() string

	font       rl.Font
	frameCount uint32
	lines      []string
	mem        runtime.MemStats
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// SetShowFPS sets whether the FPS counter is drawn (top-right, green).
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
}

// SetFont sets the font used for the overlay. Zero texture ID = use raylib default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

func (d *Debug) refresh() {
	d.lines = d.lines[:0]
	if d.ShowFPS {
		d.lines = append(d.lines, fmt.Sprintf("FPS: %d", rl.GetFPS()))
	}
	if d.ShowMemAlloc {
		runtime.ReadMemStats(&d.mem)
		d.lines = append(d.lines, fmt.Sprintf("Mem: %.2f MiB", float64(d.mem.Alloc)/(1024*1024)))
	}
	if d.ShowState && d.State != nil {
		d.lines = append(d.lines, d.State())
	}
}

// Draw renders the enabled overlays right-aligned at the top of the screen. Call last in the
// draw loop. Text is only recomputed every updateInterval frames, or when the set of overlays
// changes.
func (d *Debug) Draw() {
	want := 0
	for _, on := range []bool{d.ShowFPS, d.ShowMemAlloc, d.ShowState && d.State != nil} {
		if on {
			want++
		}
	}
	d.frameCount++
	if d.frameCount%updateInterval == 0 || len(d.lines) != want {
		d.refresh()
	}

	screenW := float32(rl.GetScreenWidth())
	y := float32(top)
	for _, text := range d.lines {
		if d.font.Texture.ID != 0 {
			pos := rl.NewVector2(screenW-rl.MeasureTextEx(d.font, text, fontSize, 1).X-padding, y)
			rl.DrawTextEx(d.font, text, pos, fontSize, 1, rl.Green)
		} else {
			x := int32(screenW) - rl.MeasureText(text, fontSize) - padding
			rl.DrawText(text, x, int32(y), fontSize, rl.Green)
		}
		y += lineHeight
	}
}
