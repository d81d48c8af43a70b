package ui

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"weather-globe/internal/ui/css"
)

// ComputedStyle holds resolved values used for drawing (raylib types where applicable).
// LeftPct/TopPct: 0–100 for percentage positioning; -1 means use Left/Top as pixels.
// Right/Bottom, when >= 0, anchor the node to the right or bottom screen edge instead.
// Padding is the offset (in pixels) from the node's left/top when drawing text and children.
type ComputedStyle struct {
	Background rl.Color
	Color      rl.Color
	Border     rl.Color
	HasBorder  bool
	Width      int32
	Height     int32
	Left       int32
	Top        int32
	Right      int32
	Bottom     int32
	LeftPct    int32
	TopPct     int32
	Padding    int32
	FontSize   int32 // 0 = engine font size
	// KeepColor opts the node out of the user's text colour setting (buttons, accents).
	KeepColor bool
}

// DefaultComputedStyle returns a minimal style (transparent background, white text, no border, zero size).
func DefaultComputedStyle() ComputedStyle {
	return ComputedStyle{
		Background: rl.NewColor(0, 0, 0, 0),
		Color:      rl.White,
		Border:     rl.Black,
		Right:      -1,
		Bottom:     -1,
		LeftPct:    -1,
		TopPct:     -1,
		Padding:    4,
	}
}

func toColor(c css.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// ResolveProps builds a ComputedStyle from a merged property map (e.g. from matching rules).
func ResolveProps(props map[string]string) ComputedStyle {
	out := DefaultComputedStyle()
	for k, v := range props {
		v = strings.TrimSpace(v)
		switch k {
		case "background", "background-color":
			if c, ok := css.ParseColor(v); ok {
				out.Background = toColor(c)
			}
		case "color":
			if c, ok := css.ParseColor(v); ok {
				out.Color = toColor(c)
			}
		case "border", "border-color":
			if c, ok := css.ParseColor(v); ok {
				out.Border = toColor(c)
				out.HasBorder = true
			}
		case "width":
			if n, ok := css.ParsePx(v); ok {
				out.Width = n
			}
		case "height":
			if n, ok := css.ParsePx(v); ok {
				out.Height = n
			}
		case "left", "x":
			if pct, ok := css.ParsePct(v); ok {
				out.LeftPct = pct
			} else if n, ok := css.ParsePx(v); ok {
				out.Left = n
			}
		case "top", "y":
			if pct, ok := css.ParsePct(v); ok {
				out.TopPct = pct
			} else if n, ok := css.ParsePx(v); ok {
				out.Top = n
			}
		case "right":
			if n, ok := css.ParsePx(v); ok {
				out.Right = n
			}
		case "bottom":
			if n, ok := css.ParsePx(v); ok {
				out.Bottom = n
			}
		case "padding":
			if n, ok := css.ParsePx(v); ok && n >= 0 {
				out.Padding = n
			}
		case "font-size":
			if n, ok := css.ParsePx(v); ok && n > 0 {
				out.FontSize = n
			}
		case "keep-color":
			out.KeepColor = v == "true"
		}
	}
	return out
}
