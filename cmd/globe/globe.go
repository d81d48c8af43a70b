package main

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"weather-globe/internal/app"
	"weather-globe/internal/debug"
	"weather-globe/internal/interaction"
	"weather-globe/internal/logger"
	"weather-globe/internal/panel"
	"weather-globe/internal/scene"
	"weather-globe/internal/terminal"
	"weather-globe/internal/ui"
)

// rowPadding is added to the UI line height when stacking labels.
const rowPadding = 6

// applied is the part of the settings last pushed to the renderers.
type applied struct {
	theme     string
	fontSize  int
	textColor []int
	showFPS   bool
}

// globe is the per-frame glue between raylib input/drawing and the app.
type globe struct {
	app   *app.App
	term  *terminal.Terminal
	scene *scene.Scene
	ui    *ui.Engine
	debug *debug.Debug
	log   *logger.Logger

	fontPath  string
	started   bool
	settings  applied
	search    terminal.LineEdit
	searching bool
	pressed   bool // left button went down over the globe

	flagPath string
	flagTex  rl.Texture2D
}

// start loads GPU-side resources once the window exists.
func (g *globe) start() {
	g.started = true
	cfg := g.app.Config()
	if cfg.Stylesheet != "" {
		if err := g.ui.LoadCSS(cfg.Stylesheet); err != nil {
			g.log.Warn().Err(err).Str("file", cfg.Stylesheet).Msg("error loading stylesheet")
		}
	}
	if g.fontPath != "" {
		if err := g.ui.LoadFont(g.fontPath); err != nil {
			g.log.Warn().Err(err).Str("font", g.fontPath).Msg("error loading font")
		} else {
			g.term.SetFont(g.ui.Font())
			g.debug.SetFont(g.ui.Font())
		}
	}
}

func (g *globe) update() {
	if !g.started {
		g.start()
	}
	dt := time.Duration(rl.GetFrameTime() * float32(time.Second))
	g.term.Update()
	g.app.Update(dt)
	g.applySettings()
	g.syncFlagTexture()

	m := g.app.Machine()
	if m.State() != interaction.Focused {
		g.searching = false
		g.search.Clear()
	}
	g.scene.Sync(m.Pose())
	if !g.term.IsOpen() {
		g.keyboard(m)
	}
	g.mouse(m)
}

func (g *globe) keyboard(m *interaction.Machine) {
	if g.searching {
		if line, ok := g.search.Poll(); ok {
			g.searching = false
			g.app.Search(line)
		}
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		if g.searching {
			g.searching = false
			g.search.Clear()
			return
		}
		m.Escape()
	}
}

func altDown() bool {
	return rl.IsKeyDown(rl.KeyLeftAlt) || rl.IsKeyDown(rl.KeyRightAlt)
}

func (g *globe) mouse(m *interaction.Machine) {
	pos := rl.GetMousePosition()
	x, y := float64(pos.X), float64(pos.Y)

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		g.pressed = false
		if n := g.ui.HitTest(pos.X, pos.Y); n != nil {
			g.action(n.Action)
			return
		}
		g.searching = false
		if !g.ui.Covers(pos.X, pos.Y) {
			g.pressed = true
			m.PointerDown(x, y, altDown())
		}
	}
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		m.PointerMove(x, y)
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		m.PointerUp()
		if g.pressed {
			g.pressed = false
			m.Click(g.scene.Pick(pos, m.Pose()), altDown())
		}
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !g.ui.Covers(pos.X, pos.Y) {
		m.Wheel(-float64(wheel))
	}
}

// action runs a clicked UI element.
func (g *globe) action(action string) {
	name, arg := ui.ParseAction(action)
	switch name {
	case ui.ActionSearch:
		g.searching = true
	case ui.ActionEscape:
		g.app.Machine().Escape()
	case ui.ActionFavourites:
		g.app.Favourites().Toggle()
	case ui.ActionFavAdd:
		g.app.AddFavourite()
	case ui.ActionFavSearch, ui.ActionFavRemove:
		f, ok := g.favourite(arg)
		if !ok {
			return
		}
		if name == ui.ActionFavSearch {
			g.app.Favourites().Search(f)
		} else {
			g.app.Favourites().Remove(f)
		}
	case ui.ActionPopupClose:
		g.app.Popup().Close()
	case ui.ActionTheme:
		if err := g.app.SetTheme(arg); err != nil {
			g.log.Warn().Err(err).Str("theme", arg).Msg("error switching theme")
		}
	case ui.ActionLogout:
		g.app.Logout()
	}
}

func (g *globe) favourite(arg string) (panel.Favourite, bool) {
	n, err := strconv.Atoi(arg)
	items := g.app.Favourites().List().Items
	if err != nil || n < 1 || n > len(items) {
		return panel.Favourite{}, false
	}
	return items[n-1], true
}

// applySettings pushes changed settings to the scene, UI and overlay.
func (g *globe) applySettings() {
	cfg := g.app.Config()
	if cfg.Theme != g.settings.theme {
		g.settings.theme = cfg.Theme
		g.scene.SetTheme(g.app.Theme())
	}
	if cfg.FontSize != g.settings.fontSize {
		g.settings.fontSize = cfg.FontSize
		g.ui.SetFontSize(int32(cfg.FontSize))
	}
	if !slices.Equal(cfg.TextColor, g.settings.textColor) {
		g.settings.textColor = slices.Clone(cfg.TextColor)
		g.ui.SetTextColor(toColor(cfg.TextColor))
	}
	if cfg.ShowFPS != g.settings.showFPS {
		g.settings.showFPS = cfg.ShowFPS
		g.debug.SetShowFPS(cfg.ShowFPS)
	}
}

// syncFlagTexture keeps the flag texture in step with the file the app resolved.
func (g *globe) syncFlagTexture() {
	path := g.app.FlagPath()
	if path == g.flagPath {
		return
	}
	g.flagPath = path
	if rl.IsTextureValid(g.flagTex) {
		rl.UnloadTexture(g.flagTex)
		g.flagTex = rl.Texture2D{}
	}
	if path == "" {
		return
	}
	g.flagTex = rl.LoadTexture(path)
	if !rl.IsTextureValid(g.flagTex) {
		g.log.Warn().Str("path", path).Msg("error loading flag texture")
	}
}

func (g *globe) view() ui.View {
	m := g.app.Machine()
	p := g.app.Popup()
	fav := g.app.Favourites()
	v := ui.View{
		Visibility:        m.Visibility(),
		Details:           m.Details(),
		Flag:              g.flagTex,
		SearchText:        g.search.Text(),
		SearchActive:      g.searching,
		Favourites:        fav.List(),
		FavouritesLoading: fav.Loading(),
		Popup: ui.PopupView{
			Text:    p.Text(),
			Alpha:   float32(p.Opacity()),
			Visible: p.Visible(),
		},
		Theme: g.app.Config().Theme,
	}
	for _, t := range g.app.Themes().Themes {
		v.Themes = append(v.Themes, ui.ThemeOption{Name: t.Name, Label: t.Label})
	}
	return v
}

func (g *globe) draw() {
	m := g.app.Machine()
	g.scene.Draw(m.Pose(), g.app.Markers().Attached())
	g.ui.SetNodes(ui.Build(g.view(), g.ui.LineHeight()+rowPadding))
	g.ui.Draw()
	g.term.Draw()
	g.debug.Draw()
}

// describe is the state overlay text.
func (g *globe) describe() string {
	m := g.app.Machine()
	return fmt.Sprintf("%s zoom %.2f drag %.5f", m.State(), m.Zoom(), m.DragSpeed())
}

func (g *globe) close() {
	g.scene.Close()
	if rl.IsTextureValid(g.flagTex) {
		rl.UnloadTexture(g.flagTex)
	}
}
