package app

import (
	"weather-globe/internal/config"
	"weather-globe/internal/theme"
)

// Config returns the live settings. Treat it as read-only; change settings through the setters.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Themes lists the selectable globe themes.
func (a *App) Themes() theme.Set {
	return a.themes
}

// Theme returns the selected theme.
func (a *App) Theme() theme.Theme {
	t, err := a.themes.Get(a.cfg.Theme)
	if err != nil {
		return a.themes.Themes[0]
	}
	return t
}

// SetTheme switches the globe texture.
func (a *App) SetTheme(name string) error {
	t, err := a.themes.Get(name)
	if err != nil {
		return err
	}
	return a.updateConfig(func(c *config.Config) { c.Theme = t.Name })
}

// SetTextColor changes the panel text colour. Components are 0-255.
func (a *App) SetTextColor(r, g, b int) error {
	return a.updateConfig(func(c *config.Config) { c.TextColor = []int{r, g, b} })
}

// SetFontSize changes the panel font size.
func (a *App) SetFontSize(size int) error {
	return a.updateConfig(func(c *config.Config) { c.FontSize = size })
}

// SetShowFPS toggles the debug overlay.
func (a *App) SetShowFPS(show bool) error {
	return a.updateConfig(func(c *config.Config) { c.ShowFPS = show })
}

// updateConfig applies mutate to a copy of the settings, validates and saves it, and only then
// makes it live. On error the live settings are unchanged.
func (a *App) updateConfig(mutate func(*config.Config)) error {
	next, err := config.Clone(a.cfg)
	if err != nil {
		return err
	}
	mutate(next)
	if err := next.Validate(); err != nil {
		return err
	}
	if a.cfgDir != "" {
		if err := config.Save(a.cfgDir, next); err != nil {
			return err
		}
	}
	a.cfg = next
	a.log.Info().Str("theme", next.Theme).Ints("textColor", next.TextColor).Int("fontSize", next.FontSize).Msg("settings saved")
	return nil
}
