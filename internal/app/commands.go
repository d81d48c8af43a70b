package app

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"weather-globe/internal/commands"
	"weather-globe/internal/panel"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// RegisterCommands adds the console commands:
//
//	cmd theme --name earth
//	cmd color --r 255 --g 200 --b 0
//	cmd fontsize --size 20
//	cmd fps
//	cmd search New York
//	cmd fav [open|close|add|search N|remove N]
//	cmd popup --close
//	cmd logout
//	cmd help
func (a *App) RegisterCommands(reg *commands.Registry) {
	themeFS := newFlagSet("theme")
	themeName := themeFS.String("name", "", "theme ("+strings.Join(a.themes.Names(), ", ")+")")
	reg.Register("theme", themeFS, func() error {
		if *themeName == "" {
			a.log.Info().Msgf("theme %s; available: %s", a.cfg.Theme, strings.Join(a.themes.Names(), ", "))
			return nil
		}
		return a.SetTheme(*themeName)
	})

	colorFS := newFlagSet("color")
	r := colorFS.Int("r", -1, "red 0-255")
	g := colorFS.Int("g", -1, "green 0-255")
	b := colorFS.Int("b", -1, "blue 0-255")
	reg.Register("color", colorFS, func() error {
		cur := a.cfg.TextColor
		pick := func(v, old int) int {
			if v < 0 {
				return old
			}
			return v
		}
		return a.SetTextColor(pick(*r, cur[0]), pick(*g, cur[1]), pick(*b, cur[2]))
	})

	fontFS := newFlagSet("fontsize")
	size := fontFS.Int("size", 0, "font size in pixels")
	reg.Register("fontsize", fontFS, func() error {
		if *size == 0 {
			return fmt.Errorf("fontsize: --size is required")
		}
		return a.SetFontSize(*size)
	})

	reg.Register("fps", newFlagSet("fps"), func() error {
		return a.SetShowFPS(!a.cfg.ShowFPS)
	})

	searchFS := newFlagSet("search")
	reg.Register("search", searchFS, func() error {
		a.Search(strings.Join(searchFS.Args(), " "))
		return nil
	})

	favFS := newFlagSet("fav")
	reg.Register("fav", favFS, func() error {
		return a.favCommand(favFS.Args())
	})

	popupFS := newFlagSet("popup")
	closePopup := popupFS.Bool("close", false, "close the popup")
	reg.Register("popup", popupFS, func() error {
		if *closePopup {
			a.popup.Close()
			return nil
		}
		if msg := strings.Join(popupFS.Args(), " "); msg != "" {
			a.popup.Show(msg)
		}
		return nil
	})

	reg.Register("logout", newFlagSet("logout"), func() error {
		a.Logout()
		return nil
	})

	reg.Register("help", newFlagSet("help"), func() error {
		a.log.Info().Msgf("commands: %s", strings.Join(reg.Names(), ", "))
		return nil
	})
}

func (a *App) favCommand(args []string) error {
	if len(args) == 0 {
		a.fav.Toggle()
		return nil
	}
	switch args[0] {
	case "open":
		a.fav.Open()
	case "close":
		a.fav.Close()
	case "add":
		a.AddFavourite()
	case "search", "remove":
		f, err := a.favAt(args[1:])
		if err != nil {
			return err
		}
		if args[0] == "search" {
			a.fav.Search(f)
		} else {
			a.fav.Remove(f)
		}
	default:
		return fmt.Errorf("fav: unknown action %q", args[0])
	}
	return nil
}

// favAt picks a favourite by its 1-based position in the open list.
func (a *App) favAt(args []string) (panel.Favourite, error) {
	if len(args) != 1 {
		return panel.Favourite{}, fmt.Errorf("fav: expected one list number")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return panel.Favourite{}, fmt.Errorf("fav: %w", err)
	}
	items := a.fav.List().Items
	if n < 1 || n > len(items) {
		return panel.Favourite{}, fmt.Errorf("fav: no favourite #%d", n)
	}
	return items[n-1], nil
}
