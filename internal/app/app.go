// Package app wires the globe's pieces together: the interaction machine, markers, tweens, the
// backend client, the favourites tab, the popup and the user's settings. Everything here runs on
// the render thread; network calls go through the dispatch queue and come back on Update.
package app

import (
	"context"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"weather-globe/internal/backend"
	"weather-globe/internal/config"
	"weather-globe/internal/dispatch"
	"weather-globe/internal/favourites"
	"weather-globe/internal/geo"
	"weather-globe/internal/interaction"
	"weather-globe/internal/marker"
	"weather-globe/internal/theme"
	"weather-globe/internal/tween"
)

// searchTTL bounds how long a city name keeps resolving to the same coordinates without a request.
const searchTTL = time.Hour

// Backend is the weather backend as used by the app.
type Backend interface {
	favourites.Backend
	Weather(ctx context.Context, at geo.LatLon) (backend.WeatherRecord, error)
	Logout(ctx context.Context) (string, error)
}

// FlagSource resolves a flag image URL to a local file. *flags.Fetcher satisfies it.
type FlagSource interface {
	Path(ctx context.Context, url string) (string, error)
}

// Options configures New. Config, Backend and Themes are required.
type Options struct {
	Config    *config.Config
	ConfigDir string // settings are saved here; "" keeps them in memory
	Themes    theme.Set
	Backend   Backend
	Flags     FlagSource
	Logger    zerolog.Logger
	OpenURL   func(url string) error
	Now       func() time.Time
}

// App is the running globe.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg    *config.Config
	cfgDir string
	themes theme.Set

	api     Backend
	flags   FlagSource
	log     zerolog.Logger
	openURL func(string) error
	now     func() time.Time

	q        *dispatch.Queue
	sched    *tween.Scheduler
	markers  *marker.Manager
	machine  *interaction.Machine
	fav      *favourites.Controller
	popup    *Popup
	searches *cache.Cache

	cron       *gocron.Scheduler
	refreshJob *gocron.Job

	flagURL  string
	flagPath string
	quit     bool
}

// New builds the app in Overview with the intro animation queued.
func New(opts Options) (*App, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OpenURL == nil {
		opts.OpenURL = openBrowser
	}
	if len(opts.Themes.Themes) == 0 {
		opts.Themes = theme.Default()
	}
	cfg, err := config.Clone(opts.Config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      cfg,
		cfgDir:   opts.ConfigDir,
		themes:   opts.Themes,
		api:      opts.Backend,
		flags:    opts.Flags,
		log:      opts.Logger.With().Str("component", "app").Logger(),
		openURL:  opts.OpenURL,
		now:      opts.Now,
		q:        dispatch.New(),
		sched:    tween.New(),
		searches: cache.New(searchTTL, 2*searchTTL),
		cron:     gocron.NewScheduler(time.UTC),
	}
	if _, err := a.themes.Get(cfg.Theme); err != nil {
		a.log.Warn().Err(err).Msg("falling back to the first theme")
		cfg.Theme = a.themes.Themes[0].Name
	}

	a.markers = marker.NewManager(a.sched)
	a.machine = interaction.New(geo.NewPose(), a.sched, a.markers, a)
	a.machine.SetClock(a.now)
	a.machine.OnTransition = a.onTransition
	a.popup = newPopup(a.sched, cfg.PopupTimeout, a.now)
	a.fav = favourites.New(ctx, a.api, a.q, a.machine, a.popup, opts.Logger)

	a.cron.StartAsync()
	a.machine.Intro()
	return a, nil
}

// Close stops the refresh scheduler and cancels requests in flight.
func (a *App) Close() {
	a.cron.Stop()
	a.cancel()
}

func (a *App) Machine() *interaction.Machine {
	return a.machine
}

func (a *App) Markers() *marker.Manager {
	return a.markers
}

func (a *App) Favourites() *favourites.Controller {
	return a.fav
}

func (a *App) Popup() *Popup {
	return a.popup
}

func (a *App) Queue() *dispatch.Queue {
	return a.q
}

// FlagPath is the local file of the flag shown in the details panel, "" while loading or absent.
func (a *App) FlagPath() string {
	return a.flagPath
}

// ShouldQuit reports whether the user logged out.
func (a *App) ShouldQuit() bool {
	return a.quit
}

// Update runs one frame of app logic: completions posted by background work, then tweens, then
// the popup timer. Call before handling input.
func (a *App) Update(dt time.Duration) {
	a.q.Drain()
	a.sched.Update(dt)
	a.popup.tick()
	a.syncFlag()
}

// LookupWeather implements interaction.WeatherSource.
func (a *App) LookupWeather(seq uint64, at geo.LatLon) {
	a.log.Debug().Uint64("seq", seq).Float64("lat", at.Lat).Float64("lon", at.Lon).Msg("weather lookup")
	dispatch.Run(a.q, func() (backend.WeatherRecord, error) {
		return a.api.Weather(a.ctx, at)
	}, func(rec backend.WeatherRecord, err error) {
		if err != nil {
			a.log.Error().Err(err).Msg("error fetching weather data")
		}
		if !a.machine.WeatherArrived(seq, rec, err) {
			a.log.Debug().Uint64("seq", seq).Msg("stale weather response dropped")
		}
	})
}

// Search looks a city up by name and focuses the globe on it. Blank input is ignored; failures
// are logged and change nothing.
func (a *App) Search(text string) {
	name := strings.TrimSpace(text)
	if name == "" {
		return
	}
	key := strings.ToLower(name)
	if at, ok := a.searches.Get(key); ok {
		a.machine.SearchSelect(at.(geo.LatLon), name)
		return
	}
	dispatch.Run(a.q, func() (backend.Coordinates, error) {
		return a.api.SearchCity(a.ctx, name)
	}, func(c backend.Coordinates, err error) {
		if err != nil {
			a.log.Error().Err(err).Str("city", name).Msg("error fetching city details")
			return
		}
		at := geo.LatLon{Lat: c.Lat, Lon: c.Lon}
		a.searches.SetDefault(key, at)
		a.machine.SearchSelect(at, name)
	})
}

// AddFavourite saves the city currently shown in the details panel.
func (a *App) AddFavourite() {
	a.fav.Add(a.machine.CurrentCity())
}

// Logout ends the session and opens the page the backend redirects to.
func (a *App) Logout() {
	dispatch.Run(a.q, func() (string, error) {
		return a.api.Logout(a.ctx)
	}, func(next string, err error) {
		if err != nil {
			a.log.Error().Err(err).Msg("error logging out")
			return
		}
		a.log.Info().Str("url", next).Msg("logged out")
		if err := a.openURL(next); err != nil {
			a.log.Error().Err(err).Msg("error opening browser")
		}
		a.quit = true
	})
}

func (a *App) onTransition(from, to interaction.ViewState) {
	a.log.Debug().Stringer("from", from).Stringer("to", to).Msg("view state")
	switch to {
	case interaction.Focused:
		a.fav.SetEnabled(false)
		a.startRefresh()
	case interaction.Overview:
		a.fav.SetEnabled(true)
		a.stopRefresh()
	}
}

// RefreshScheduled reports whether the periodic weather refresh is running.
func (a *App) RefreshScheduled() bool {
	return a.refreshJob != nil
}

func (a *App) startRefresh() {
	if a.refreshJob != nil || a.cfg.RefreshInterval <= 0 {
		return
	}
	job, err := a.cron.Every(a.cfg.RefreshInterval).WaitForSchedule().Do(func() {
		a.q.Post(a.refresh)
	})
	if err != nil {
		a.log.Error().Err(err).Dur("interval", a.cfg.RefreshInterval).Msg("error scheduling weather refresh")
		return
	}
	a.refreshJob = job
}

func (a *App) stopRefresh() {
	if a.refreshJob == nil {
		return
	}
	a.cron.RemoveByReference(a.refreshJob)
	a.refreshJob = nil
}

func (a *App) refresh() {
	if a.machine.Refresh() {
		a.log.Debug().Msg("refreshing weather")
	}
}

// syncFlag fetches the flag for the details panel whenever the panel's flag changes.
func (a *App) syncFlag() {
	d := a.machine.Details()
	url := ""
	if d.ShowFlag && a.machine.State() == interaction.Focused {
		url = d.FlagURL
	}
	if url == a.flagURL {
		return
	}
	a.flagURL = url
	a.flagPath = ""
	if url == "" || a.flags == nil {
		return
	}
	dispatch.Run(a.q, func() (string, error) {
		return a.flags.Path(a.ctx, url)
	}, func(path string, err error) {
		if err != nil {
			a.log.Warn().Err(err).Str("url", url).Msg("error fetching flag")
			return
		}
		if a.flagURL == url {
			a.flagPath = path
		}
	})
}
