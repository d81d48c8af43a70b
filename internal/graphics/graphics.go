package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Options describes the window.
type Options struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	// Quit, when set, is checked every frame; the loop ends once it returns true.
	Quit func() bool
	// Close, when set, runs after the loop while the window still exists, to release GPU resources.
	Close func()
}

// Run opens the window and runs the main loop. Each frame it calls update (input and app logic),
// then clears the screen and calls draw. ESC is handled by the app, not used to quit; the loop
// ends when the window is closed or Quit reports true.
func Run(opts Options, update, draw func()) {
	flags := uint32(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	if opts.Fullscreen {
		flags |= rl.FlagFullscreenMode
	}
	rl.SetConfigFlags(flags)
	w, h := opts.Width, opts.Height
	if opts.Fullscreen || w == 0 || h == 0 {
		w, h = rl.GetMonitorWidth(0), rl.GetMonitorHeight(0)
	}
	rl.InitWindow(int32(w), int32(h), opts.Title)
	defer rl.CloseWindow()
	if opts.Close != nil {
		defer opts.Close()
	}

	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() {
		if opts.Quit != nil && opts.Quit() {
			return
		}
		update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		draw()
		rl.EndDrawing()
	}
}
