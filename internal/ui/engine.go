package ui

import (
	"os"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"weather-globe/internal/ui/css"
)

const (
	defaultFontSize = 18
	lineSpacing     = 6
)

// Engine holds the current stylesheet and nodes, and draws them with raylib.
// Draw order is node order (first node drawn first, then on top the next).
// Resolved styles are cached per class/id pair and only recomputed when the stylesheet changes.
// If font is loaded (LoadFont), text is drawn with that font; otherwise raylib's default (pixel) font is used.
type Engine struct {
	sheet     *css.Stylesheet
	nodes     []*Node
	styles    map[string]ComputedStyle
	font      rl.Font
	fontSize  int32
	textColor rl.Color
	hasColor  bool
}

// New creates an empty UI engine (no stylesheet, no nodes).
func New() *Engine {
	return &Engine{styles: make(map[string]ComputedStyle), fontSize: defaultFontSize}
}

// LoadCSS loads and parses a CSS file from path. Replaces the current stylesheet.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sheet, err := css.Parse(string(data))
	if err != nil {
		return err
	}
	e.SetStylesheet(sheet)
	return nil
}

// SetStylesheet sets the stylesheet directly (e.g. from embedded or merged CSS).
func (e *Engine) SetStylesheet(sheet *css.Stylesheet) {
	e.sheet = sheet
	e.styles = make(map[string]ComputedStyle)
}

// LoadFont loads a TTF font from path for text rendering. If loading fails, the engine keeps using the default font.
// Call after the window/OpenGL context exists.
func (e *Engine) LoadFont(path string) error {
	f := rl.LoadFontEx(path, 64, nil)
	if f.Texture.ID == 0 {
		return os.ErrNotExist
	}
	rl.SetTextureFilter(f.Texture, rl.FilterBilinear)
	if e.font.Texture.ID != 0 {
		rl.UnloadFont(e.font)
	}
	e.font = f
	return nil
}

// Font returns the loaded font (zero value when using the default font).
func (e *Engine) Font() rl.Font {
	return e.font
}

// SetFontSize sets the size used for text without a font-size rule.
func (e *Engine) SetFontSize(size int32) {
	if size > 0 {
		e.fontSize = size
	}
}

// SetTextColor overrides the colour of label text. Styles with keep-color are not affected.
func (e *Engine) SetTextColor(c rl.Color) {
	e.textColor = c
	e.hasColor = true
}

// LineHeight is the vertical advance of one line at the engine font size.
func (e *Engine) LineHeight() float32 {
	return float32(e.fontSize + lineSpacing)
}

// SetNodes replaces all nodes.
func (e *Engine) SetNodes(nodes []*Node) {
	e.nodes = nodes
}

// resolveProps returns merged properties for a node (class and id matched; last wins).
func (e *Engine) resolveProps(n *Node) map[string]string {
	merged := make(map[string]string)
	if e.sheet == nil {
		return merged
	}
	for _, rule := range e.sheet.Rules {
		sel := rule.Selector
		matches := false
		switch sel[0] {
		case '.':
			matches = n.Class != "" && n.Class == sel[1:]
		case '#':
			matches = n.ID != "" && n.ID == sel[1:]
		}
		if matches {
			for k, v := range rule.Props {
				merged[k] = v
			}
		}
	}
	return merged
}

func (e *Engine) style(n *Node) ComputedStyle {
	key := n.Class + "#" + n.ID
	if st, ok := e.styles[key]; ok {
		return st
	}
	st := ResolveProps(e.resolveProps(n))
	e.styles[key] = st
	return st
}

func (e *Engine) sizeOf(st ComputedStyle) float32 {
	if st.FontSize > 0 {
		return float32(st.FontSize)
	}
	return float32(e.fontSize)
}

func (e *Engine) measure(text string, size float32) rl.Vector2 {
	var out rl.Vector2
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		var w float32
		if e.font.Texture.ID != 0 {
			w = rl.MeasureTextEx(e.font, line, size, 1).X
		} else {
			w = float32(rl.MeasureText(line, int32(size)))
		}
		out.X = max(out.X, w)
	}
	out.Y = float32(len(lines)) * (size + lineSpacing)
	return out
}

// layout sets n.Bounds from its style, its parent and the screen size.
func (e *Engine) layout(n *Node, st ComputedStyle, screenW, screenH float32) {
	pad := float32(st.Padding)
	n.pad = pad
	size := e.sizeOf(st)

	w := float32(st.Width)
	if w == 0 && n.Parent != nil && n.Type == "panel" {
		w = n.Parent.Bounds.Width - 2*n.Parent.pad
	}
	if w == 0 {
		w = e.measure(n.Text, size).X + 2*pad
	}
	h := n.Height
	if h == 0 {
		h = float32(st.Height)
	}
	if h == 0 && n.Text != "" {
		h = e.measure(n.Text, size).Y + 2*pad - lineSpacing
	}

	var x, y float32
	switch {
	case n.Parent != nil:
		x = n.Parent.Bounds.X + n.Parent.pad + float32(st.Left)
		y = n.Parent.Bounds.Y + n.Parent.pad + float32(st.Top)
	default:
		x, y = float32(st.Left), float32(st.Top)
		if st.Right >= 0 {
			x = screenW - w - float32(st.Right)
		} else if st.LeftPct >= 0 {
			x = (screenW - w) * float32(st.LeftPct) / 100
		}
		if st.Bottom >= 0 {
			y = screenH - h - float32(st.Bottom)
		} else if st.TopPct >= 0 {
			y = (screenH - h) * float32(st.TopPct) / 100
		}
	}
	n.Bounds = rl.NewRectangle(x+n.Offset.X, y+n.Offset.Y, w, h)
}

// Draw lays out and draws all visible nodes: background, border, image, then text.
func (e *Engine) Draw() {
	screenW := float32(rl.GetScreenWidth())
	screenH := float32(rl.GetScreenHeight())
	for _, n := range e.nodes {
		if n.hidden() {
			continue
		}
		st := e.style(n)
		e.layout(n, st, screenW, screenH)
		b := n.Bounds

		if st.Background.A > 0 {
			rl.DrawRectangleRec(b, rl.Fade(st.Background, n.Alpha*float32(st.Background.A)/255))
		}
		if st.HasBorder && b.Width > 0 && b.Height > 0 {
			rl.DrawRectangleLinesEx(b, 1, rl.Fade(st.Border, n.Alpha))
		}
		if n.Image.ID != 0 {
			drawImage(n.Image, b, n.pad, n.Alpha)
		}
		if n.Text == "" {
			continue
		}
		color := st.Color
		if e.hasColor && !st.KeepColor {
			color = e.textColor
		}
		color = rl.Fade(color, n.Alpha)
		size := e.sizeOf(st)
		for i, line := range strings.Split(n.Text, "\n") {
			pos := rl.NewVector2(b.X+n.pad, b.Y+n.pad+float32(i)*(size+lineSpacing))
			if e.font.Texture.ID != 0 {
				rl.DrawTextEx(e.font, line, pos, size, 1, color)
			} else {
				rl.DrawText(line, int32(pos.X), int32(pos.Y), int32(size), color)
			}
		}
	}
}

// drawImage fits tex inside b (minus padding), keeping its aspect ratio, aligned top-left.
func drawImage(tex rl.Texture2D, b rl.Rectangle, pad, alpha float32) {
	src := rl.NewRectangle(0, 0, float32(tex.Width), float32(tex.Height))
	availW, availH := b.Width-2*pad, b.Height-2*pad
	if availW <= 0 || availH <= 0 || tex.Width == 0 || tex.Height == 0 {
		return
	}
	scale := min(availW/src.Width, availH/src.Height)
	dst := rl.NewRectangle(b.X+pad, b.Y+pad, src.Width*scale, src.Height*scale)
	rl.DrawTexturePro(tex, src, dst, rl.NewVector2(0, 0), 0, rl.Fade(rl.White, alpha))
}

// HitTest returns the topmost visible node with an Action under (x, y), or nil. Bounds come from
// the last Draw.
func (e *Engine) HitTest(x, y float32) *Node {
	for i := len(e.nodes) - 1; i >= 0; i-- {
		n := e.nodes[i]
		if n.Action == "" || n.hidden() {
			continue
		}
		if n.Contains(x, y) {
			return n
		}
	}
	return nil
}

// Covers reports whether (x, y) is over any visible panel, so clicks there do not reach the globe.
func (e *Engine) Covers(x, y float32) bool {
	for _, n := range e.nodes {
		if n.hidden() || n.Parent != nil {
			continue
		}
		if n.Contains(x, y) {
			return true
		}
	}
	return false
}
