package terminal

import (
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// LineEdit is a single-line text input fed from raylib's keyboard queue. The console and the
// search box each own one.
type LineEdit struct {
	buf string
}

func (e *LineEdit) Text() string { return e.buf }

// Clear empties the line.
func (e *LineEdit) Clear() { e.buf = "" }

// Insert appends s, dropping line breaks from pasted text.
func (e *LineEdit) Insert(s string) {
	for _, r := range s {
		if r == '\n' || r == '\r' {
			continue
		}
		e.buf += string(r)
	}
}

// Backspace removes the last rune.
func (e *LineEdit) Backspace() {
	if e.buf == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(e.buf)
	e.buf = e.buf[:len(e.buf)-size]
}

// Poll consumes this frame's typing, paste, backspace and enter. On enter with a non-empty line
// it returns the line and clears the input.
func (e *LineEdit) Poll() (line string, submitted bool) {
	// Paste: Ctrl+V (Windows/Linux) or Cmd+V (macOS)
	if rl.IsKeyPressed(rl.KeyV) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)) {
		e.Insert(rl.GetClipboardText())
		drainChars()
	} else {
		for {
			c := rl.GetCharPressed()
			if c == 0 {
				break
			}
			e.buf += string(rune(c))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace) {
		e.Backspace()
	}
	if (rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter)) && e.buf != "" {
		line = e.buf
		e.buf = ""
		return line, true
	}
	return "", false
}

// drainChars discards queued characters, e.g. the key that opened the console.
func drainChars() {
	for rl.GetCharPressed() != 0 {
	}
}
