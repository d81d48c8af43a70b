package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	zlog "github.com/rs/zerolog/log"

	"weather-globe/internal/app"
	"weather-globe/internal/backend"
	"weather-globe/internal/commands"
	"weather-globe/internal/config"
	"weather-globe/internal/debug"
	"weather-globe/internal/flags"
	"weather-globe/internal/fonts"
	"weather-globe/internal/graphics"
	"weather-globe/internal/logger"
	"weather-globe/internal/scene"
	"weather-globe/internal/terminal"
	"weather-globe/internal/theme"
	"weather-globe/internal/ui"
)

const fontTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(config.DefaultDir)
	if err != nil {
		zlog.Fatal().Err(err).Msg("error loading config")
	}

	log, err := logger.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		zlog.Fatal().Err(err).Msg("error opening log file")
	}
	defer log.Close()

	themes, err := theme.Load(cfg.ThemesFile)
	if err != nil {
		log.Warn().Err(err).Str("file", cfg.ThemesFile).Msg("using built-in themes")
		themes = theme.Default()
	}

	api, err := backend.New(backend.Options{
		BaseURL:  cfg.BackendURL,
		Username: cfg.Username,
		Timeout:  cfg.HTTPTimeout,
		Logger:   log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("error creating backend client")
	}

	a, err := app.New(app.Options{
		Config:    cfg,
		ConfigDir: config.DefaultDir,
		Themes:    themes,
		Backend:   api,
		Flags: flags.New(flags.Options{
			Dir:     cfg.FlagCacheDir,
			Width:   cfg.FlagSize,
			Timeout: cfg.HTTPTimeout,
			Logger:  log.Logger,
		}),
		Logger: log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("error starting app")
	}
	defer a.Close()

	fontPath := ""
	if cfg.Font != "" {
		ctx, cancel := context.WithTimeout(context.Background(), fontTimeout)
		fontPath, err = fonts.New("", log.Logger).Resolve(ctx, cfg.Font)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("font", cfg.Font).Msg("using the default font")
		}
	}

	reg := commands.NewRegistry()
	a.RegisterCommands(reg)
	term := terminal.New(log, reg)
	term.OnSearch = a.Search

	g := &globe{
		app:      a,
		term:     term,
		scene:    scene.New(scene.Options{Stars: cfg.Stars, Logger: log.Logger}),
		ui:       ui.New(),
		debug:    debug.New(),
		log:      log,
		fontPath: fontPath,
	}
	g.debug.State = g.describe
	registerDebug(reg, g.debug)

	title := "Weather Globe"
	if cfg.Username != "" {
		title += " - " + cfg.Username
	}
	log.Info().Str("backend", cfg.BackendURL).Str("theme", cfg.Theme).Msg("starting")
	graphics.Run(graphics.Options{
		Title:      title,
		Width:      cfg.WindowWidth,
		Height:     cfg.WindowHeight,
		Fullscreen: cfg.Fullscreen,
		Quit:       a.ShouldQuit,
		Close:      g.close,
	}, g.update, g.draw)
}

// registerDebug adds "cmd debug [--state] [--mem]", toggling the diagnostic overlays.
func registerDebug(reg *commands.Registry, d *debug.Debug) {
	fs := flag.NewFlagSet("debug", flag.ContinueOnError)
	state := fs.Bool("state", false, "toggle the view state overlay")
	mem := fs.Bool("mem", false, "toggle the memory overlay")
	reg.Register("debug", fs, func() error {
		if !*state && !*mem {
			return fmt.Errorf("debug: pass --state or --mem")
		}
		if *state {
			d.ShowState = !d.ShowState
		}
		if *mem {
			d.ShowMemAlloc = !d.ShowMemAlloc
		}
		return nil
	})
}

// toColor converts a validated [r, g, b] setting.
func toColor(c []int) rl.Color {
	return rl.NewColor(uint8(c[0]), uint8(c[1]), uint8(c[2]), 255)
}
