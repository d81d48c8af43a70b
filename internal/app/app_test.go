package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-globe/internal/backend"
	"weather-globe/internal/commands"
	"weather-globe/internal/config"
	"weather-globe/internal/geo"
	"weather-globe/internal/interaction"
	"weather-globe/internal/panel"
	"weather-globe/internal/theme"
)

type fakeBackend struct {
	mu          sync.Mutex
	weather     backend.WeatherRecord
	weatherErr  error
	weatherHits int
	coords      map[string]backend.Coordinates
	searches    []string
	added       []string
	logoutURL   string
	logoutErr   error
}

func (f *fakeBackend) Weather(context.Context, geo.LatLon) (backend.WeatherRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.weatherHits++
	return f.weather, f.weatherErr
}

func (f *fakeBackend) SearchCity(_ context.Context, name string) (backend.Coordinates, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, name)
	c, ok := f.coords[name]
	if !ok {
		return backend.Coordinates{}, backend.ErrNoData
	}
	return c, nil
}

func (f *fakeBackend) Favourites(context.Context) (string, error) {
	return "Paris:FR,Tokyo:JP", nil
}

func (f *fakeBackend) AddFavourite(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, key)
	return true, nil
}

func (f *fakeBackend) RemoveFavourite(context.Context, string) (bool, error) {
	return true, nil
}

func (f *fakeBackend) Logout(context.Context) (string, error) {
	return f.logoutURL, f.logoutErr
}

func (f *fakeBackend) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

type fakeFlags struct{}

func (f *fakeFlags) Path(_ context.Context, url string) (string, error) {
	return "/tmp/flags/" + filepath.Base(filepath.Dir(filepath.Dir(url))) + ".png", nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

var paris = backend.WeatherRecord{
	TemperatureK: 300,
	Description:  "clear sky",
	CountryName:  "France",
	CountryCode:  "FR",
	CityName:     "Paris",
	Lat:          48.85,
	Lon:          2.35,
}

func testConfig() *config.Config {
	return &config.Config{
		BackendURL:      "http://localhost:5000",
		HTTPTimeout:     time.Second,
		RefreshInterval: 10 * time.Minute,
		PopupTimeout:    4 * time.Second,
		FlagSize:        64,
		LogLevel:        "info",
		Theme:           "earth",
		TextColor:       []int{255, 255, 255},
		FontSize:        18,
	}
}

func newTestApp(t *testing.T, api *fakeBackend, mutate func(*Options)) (*App, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	opts := Options{
		Config:  testConfig(),
		Themes:  theme.Default(),
		Backend: api,
		Flags:   &fakeFlags{},
		Logger:  zerolog.Nop(),
		OpenURL: func(string) error { return nil },
		Now:     clk.now,
	}
	if mutate != nil {
		mutate(&opts)
	}
	a, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, clk
}

func settle(t *testing.T, a *App) {
	t.Helper()
	require.True(t, a.Queue().Settle(time.Second))
	a.Update(0)
	require.True(t, a.Queue().Settle(time.Second))
}

func click(a *App, lat, lon float64) {
	p := geo.LatLonToWorld(lat, lon)
	a.Machine().Click(&p, false)
}

func TestSelect_ShowsWeatherAndFlag(t *testing.T) {
	a, _ := newTestApp(t, &fakeBackend{weather: paris}, nil)

	click(a, 48.85, 2.35)
	assert.Equal(t, interaction.Focused, a.Machine().State())
	assert.Equal(t, panel.LoadingTitle, a.Machine().Details().Title)

	settle(t, a)
	d := a.Machine().Details()
	assert.Equal(t, "France", d.Title)
	assert.Equal(t, "Paris:FR", a.Machine().CurrentCity())
	assert.Equal(t, "/tmp/flags/FR.png", a.FlagPath())
}

func TestSelect_FailureShowsNotFound(t *testing.T) {
	a, _ := newTestApp(t, &fakeBackend{weatherErr: errors.New("down")}, nil)
	click(a, 10, 10)
	settle(t, a)
	assert.Equal(t, panel.NotFoundTitle, a.Machine().Details().Title)
	assert.Empty(t, a.FlagPath())
}

func TestDeselect_DropsResponseInFlight(t *testing.T) {
	a, _ := newTestApp(t, &fakeBackend{weather: paris}, nil)
	click(a, 48.85, 2.35)
	a.Machine().Escape()
	settle(t, a)
	assert.Equal(t, interaction.Overview, a.Machine().State())
	assert.Equal(t, panel.LoadingTitle, a.Machine().Details().Title)
	assert.Empty(t, a.FlagPath())
}

func TestTransitions_ToggleFavouritesAndRefresh(t *testing.T) {
	a, _ := newTestApp(t, &fakeBackend{weather: paris}, nil)
	a.Favourites().Open()
	settle(t, a)
	require.True(t, a.Favourites().List().Open)
	assert.False(t, a.RefreshScheduled())

	click(a, 48.85, 2.35)
	assert.False(t, a.Favourites().Enabled())
	assert.False(t, a.Favourites().List().Open)
	assert.True(t, a.RefreshScheduled())

	a.Machine().Escape()
	assert.True(t, a.Favourites().Enabled())
	assert.False(t, a.RefreshScheduled())
}

func TestRefresh_DisabledWithZeroInterval(t *testing.T) {
	a, _ := newTestApp(t, &fakeBackend{weather: paris}, func(o *Options) {
		o.Config.RefreshInterval = 0
	})
	click(a, 48.85, 2.35)
	assert.False(t, a.RefreshScheduled())
}

func TestRefresh_RefetchesSelection(t *testing.T) {
	api := &fakeBackend{weather: paris}
	a, _ := newTestApp(t, api, nil)
	click(a, 48.85, 2.35)
	settle(t, a)

	a.refresh()
	settle(t, a)
	assert.Equal(t, 2, api.weatherHits)
	assert.Equal(t, "France", a.Machine().Details().Title)
}

func TestSearch(t *testing.T) {
	api := &fakeBackend{weather: paris, coords: map[string]backend.Coordinates{"Paris": {Lat: 48.85, Lon: 2.35}}}
	a, _ := newTestApp(t, api, nil)

	a.Search("   ")
	settle(t, a)
	assert.Equal(t, 0, api.searchCount())
	assert.Equal(t, interaction.Overview, a.Machine().State())

	a.Search(" Paris ")
	settle(t, a)
	assert.Equal(t, interaction.Focused, a.Machine().State())
	at, ok := a.Machine().Selected()
	require.True(t, ok)
	assert.Equal(t, geo.LatLon{Lat: 48.85, Lon: 2.35}, at)

	a.Search("paris")
	settle(t, a)
	assert.Equal(t, 1, api.searchCount(), "second search is served from the cache")
	assert.Equal(t, interaction.Focused, a.Machine().State())
}

func TestSearch_FailureLeavesState(t *testing.T) {
	api := &fakeBackend{}
	a, _ := newTestApp(t, api, nil)
	a.Search("Atlantis")
	settle(t, a)
	assert.Equal(t, interaction.Overview, a.Machine().State())
	assert.Equal(t, 1, api.searchCount())
}

func TestAddFavourite_UsesCurrentCity(t *testing.T) {
	api := &fakeBackend{weather: paris}
	a, _ := newTestApp(t, api, nil)
	click(a, 48.85, 2.35)
	settle(t, a)

	a.AddFavourite()
	settle(t, a)
	assert.Equal(t, []string{"Paris:FR"}, api.added)
	assert.Equal(t, panel.AddedMessage("Paris"), a.Popup().Text())
}

func TestPopup_AutoCloseAndFade(t *testing.T) {
	a, clk := newTestApp(t, &fakeBackend{}, nil)
	p := a.Popup()
	p.Show("hello")
	assert.True(t, p.Visible())
	assert.Equal(t, 1.0, p.Opacity())

	clk.t = clk.t.Add(3 * time.Second)
	a.Update(0)
	assert.Equal(t, 1.0, p.Opacity())

	clk.t = clk.t.Add(time.Second)
	a.Update(0)
	a.Update(250 * time.Millisecond)
	assert.True(t, p.Visible())
	assert.InDelta(t, 0.5, p.Opacity(), 1e-9)

	a.Update(250 * time.Millisecond)
	assert.False(t, p.Visible())
	assert.Equal(t, 0.0, p.Opacity())
	assert.Empty(t, p.Text())
}

func TestPopup_ShowCancelsFade(t *testing.T) {
	a, _ := newTestApp(t, &fakeBackend{}, nil)
	p := a.Popup()
	p.Show("one")
	p.Close()
	a.Update(250 * time.Millisecond)
	p.Show("two")
	a.Update(time.Second)
	assert.True(t, p.Visible())
	assert.Equal(t, "two", p.Text())
	assert.Equal(t, 1.0, p.Opacity())
}

func TestLogout(t *testing.T) {
	var opened []string
	a, _ := newTestApp(t, &fakeBackend{logoutURL: "http://localhost:5000/login"}, func(o *Options) {
		o.OpenURL = func(u string) error {
			opened = append(opened, u)
			return nil
		}
	})
	a.Logout()
	settle(t, a)
	assert.Equal(t, []string{"http://localhost:5000/login"}, opened)
	assert.True(t, a.ShouldQuit())

	b, _ := newTestApp(t, &fakeBackend{logoutErr: backend.ErrNotRedirected}, nil)
	b.Logout()
	settle(t, b)
	assert.False(t, b.ShouldQuit())
}

func TestSettings_SavedAndValidated(t *testing.T) {
	dir := t.TempDir()
	a, _ := newTestApp(t, &fakeBackend{}, func(o *Options) { o.ConfigDir = dir })

	require.NoError(t, a.SetTheme("Bathymetry"))
	assert.Equal(t, "bathymetry", a.Theme().Name)
	_, err := os.Stat(filepath.Join(dir, config.FileName))
	require.NoError(t, err)

	assert.ErrorIs(t, a.SetTheme("mars"), theme.ErrUnknown)
	assert.Error(t, a.SetTextColor(0, 0, 999))
	assert.Equal(t, []int{255, 255, 255}, a.Config().TextColor)
	assert.Error(t, a.SetFontSize(1))
	assert.Equal(t, 18, a.Config().FontSize)
}

func TestNew_UnknownThemeFallsBack(t *testing.T) {
	a, _ := newTestApp(t, &fakeBackend{}, func(o *Options) { o.Config.Theme = "mars" })
	assert.Equal(t, "earth", a.Theme().Name)
}

func TestCommands(t *testing.T) {
	a, _ := newTestApp(t, &fakeBackend{}, nil)
	reg := commands.NewRegistry()
	a.RegisterCommands(reg)

	run := func(line string) error {
		args, ok := commands.Parse(line)
		require.True(t, ok)
		return reg.Execute(args)
	}

	require.NoError(t, run("cmd theme --name topography"))
	assert.Equal(t, "topography", a.Config().Theme)

	require.NoError(t, run("cmd color --r 10"))
	assert.Equal(t, []int{10, 255, 255}, a.Config().TextColor)
	require.NoError(t, run("cmd color --b 0"))
	assert.Equal(t, []int{10, 255, 0}, a.Config().TextColor)

	require.NoError(t, run("cmd fontsize --size 24"))
	assert.Equal(t, 24, a.Config().FontSize)
	assert.Error(t, run("cmd fontsize"))

	require.NoError(t, run("cmd fps"))
	assert.True(t, a.Config().ShowFPS)

	require.NoError(t, run("cmd popup hello there"))
	assert.Equal(t, "hello there", a.Popup().Text())
	require.NoError(t, run("cmd popup --close"))
	a.Update(PopupFade)
	assert.False(t, a.Popup().Visible())

	require.NoError(t, run("cmd fav open"))
	settle(t, a)
	require.Len(t, a.Favourites().List().Items, 2)
	assert.Error(t, run("cmd fav remove 3"))
	assert.Error(t, run("cmd fav search x"))
	assert.Error(t, run("cmd fav dance"))
	require.NoError(t, run("cmd fav remove 1"))
	settle(t, a)
	require.Len(t, a.Favourites().List().Items, 1)
	assert.Equal(t, "Tokyo", a.Favourites().List().Items[0].City)

	assert.Equal(t, []string{"color", "fav", "fontsize", "fps", "help", "logout", "popup", "search", "theme"}, reg.Names())
}
