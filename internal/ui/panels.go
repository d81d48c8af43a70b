package ui

import (
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"weather-globe/internal/panel"
)

// Actions reported by HitTest. Actions with an argument are written "name:arg".
const (
	ActionSearch     = "search"
	ActionEscape     = "escape"
	ActionFavourites = "favourites"
	ActionFavAdd     = "fav-add"
	ActionFavSearch  = "fav-search"
	ActionFavRemove  = "fav-remove"
	ActionPopupClose = "popup-close"
	ActionTheme      = "theme"
	ActionLogout     = "logout"
)

// HowToUse is the help text shown in the overview.
const HowToUse = "How to use\n" +
	"Click a country to see its weather.\n" +
	"Hold Alt and drag to turn the globe.\n" +
	"Scroll to zoom. Press ` for the console."

const flagHeight = 48

// ParseAction splits "fav-remove:2" into ("fav-remove", "2").
func ParseAction(action string) (name, arg string) {
	name, arg, _ = strings.Cut(action, ":")
	return name, arg
}

// ThemeOption is one entry of the theme switcher.
type ThemeOption struct {
	Name  string
	Label string
}

// PopupView is the popup as drawn this frame.
type PopupView struct {
	Text    string
	Alpha   float32
	Visible bool
}

// View is everything the panels show. It is rebuilt every frame from app state.
type View struct {
	Visibility panel.Visibility
	Details    panel.Details
	Flag       rl.Texture2D

	SearchText   string
	SearchActive bool

	Favourites        panel.FavouritesList
	FavouritesLoading bool

	Popup PopupView

	Themes []ThemeOption
	Theme  string
}

// Build returns the nodes for v in draw order. rowHeight is the vertical step between stacked
// labels, usually Engine.LineHeight plus label padding.
func Build(v View, rowHeight float32) []*Node {
	var nodes []*Node
	nodes = append(nodes, themeBar(v, rowHeight)...)

	if v.Visibility.HowToUse {
		nodes = append(nodes, NewNode("label", "howto", "", HowToUse))
	}
	if v.Visibility.Search {
		text := "Search: " + v.SearchText
		if v.SearchActive {
			text += "|"
		}
		n := Button("search-box", text, ActionSearch)
		if v.SearchActive {
			n.ID = "search-active"
		}
		nodes = append(nodes, n)
	}
	if v.Visibility.Escape {
		nodes = append(nodes, Button("escape-button", "ESC", ActionEscape))
	}
	if v.Visibility.Details {
		nodes = append(nodes, details(v, rowHeight)...)
	}
	if v.Visibility.FavouritesEnabled {
		nodes = append(nodes, favourites(v, rowHeight)...)
	}
	if v.Popup.Visible {
		box := NewNode("label", "popup", "", v.Popup.Text)
		box.Alpha = v.Popup.Alpha
		closeBtn := Button("popup-close", "x", ActionPopupClose)
		closeBtn.Parent = box
		closeBtn.Alpha = v.Popup.Alpha
		nodes = append(nodes, box, closeBtn)
	}
	return nodes
}

func themeBar(v View, row float32) []*Node {
	bar := NewNode("panel", "theme-bar", "", "")
	nodes := []*Node{bar}
	y := float32(0)
	for _, t := range v.Themes {
		class := "theme-button"
		if t.Name == v.Theme {
			class = "theme-button-active"
		}
		b := Button(class, t.Label, ActionTheme+":"+t.Name)
		b.Parent = bar
		b.Offset.Y = y
		y += row
		nodes = append(nodes, b)
	}
	logout := Button("logout-button", "Logout", ActionLogout)
	logout.Parent = bar
	logout.Offset.Y = y
	y += row
	bar.Height = y
	return append(nodes, logout)
}

func details(v View, row float32) []*Node {
	d := v.Details
	box := NewNode("panel", "details", "", "")
	nodes := []*Node{box}
	y := float32(0)
	add := func(n *Node, h float32) {
		n.Parent = box
		n.Offset.Y = y
		y += h
		nodes = append(nodes, n)
	}

	add(NewNode("label", "details-title", "", d.Title), row)
	if d.Message != "" {
		msg := wrap(d.Message, 36)
		add(NewNode("label", "details-message", "", msg), row*float32(strings.Count(msg, "\n")+1))
	}
	if d.ShowFlag && v.Flag.ID != 0 {
		img := NewNode("image", "details-flag", "", "")
		img.Image = v.Flag
		img.Height = flagHeight
		add(img, flagHeight)
	}
	if d.ShowDetails {
		for _, f := range d.Fields {
			add(NewNode("label", "details-field", "", f.String()), row)
		}
	}
	if d.ShowFavourite {
		add(Button("fav-add", "+ Add to favourites", ActionFavAdd), row)
	}
	box.Height = y + 8
	return nodes
}

func favourites(v View, row float32) []*Node {
	label := "Favourites"
	if v.Favourites.Open {
		label = "Close favourites"
	}
	nodes := []*Node{Button("fav-button", label, ActionFavourites)}
	if !v.Favourites.Open {
		return nodes
	}

	list := NewNode("panel", "fav-list", "", "")
	nodes = append(nodes, list)
	y := float32(0)
	add := func(n *Node) {
		n.Parent = list
		n.Offset.Y = y
		nodes = append(nodes, n)
	}
	switch {
	case v.FavouritesLoading:
		add(NewNode("label", "fav-message", "", "Loading..."))
		y += row
	case v.Favourites.Message != "":
		add(NewNode("label", "fav-message", "", v.Favourites.Message))
		y += row
	}
	for i, f := range v.Favourites.Items {
		n := strconv.Itoa(i + 1)
		add(Button("fav-item", f.Label(), ActionFavSearch+":"+n))
		add(Button("fav-remove", "x", ActionFavRemove+":"+n))
		y += row
	}
	list.Height = y + 8
	return nodes
}

// wrap breaks text at spaces so no line is longer than width runes.
func wrap(text string, width int) string {
	var b strings.Builder
	n := 0
	for i, word := range strings.Fields(text) {
		l := len([]rune(word))
		if i > 0 {
			if n+1+l > width {
				b.WriteByte('\n')
				n = 0
			} else {
				b.WriteByte(' ')
				n++
			}
		}
		b.WriteString(word)
		n += l
	}
	return b.String()
}
