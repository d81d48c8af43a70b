package favourites

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"weather-globe/internal/backend"
	"weather-globe/internal/dispatch"
	"weather-globe/internal/geo"
	"weather-globe/internal/panel"
)

// Backend is the part of the backend client the favourites tab needs.
type Backend interface {
	Favourites(ctx context.Context) (string, error)
	SearchCity(ctx context.Context, name string) (backend.Coordinates, error)
	AddFavourite(ctx context.Context, cityKey string) (bool, error)
	RemoveFavourite(ctx context.Context, cityKey string) (bool, error)
}

// Selector focuses the globe on searched coordinates.
type Selector interface {
	SearchSelect(at geo.LatLon, entry string)
}

// Notifier shows a transient message.
type Notifier interface {
	Show(text string)
}

// Controller runs the favourites tab: listing, searching, removing and adding favourite cities.
// All methods must be called from the goroutine that drains q; backend calls run in the
// background and their results are applied on that goroutine.
type Controller struct {
	ctx     context.Context
	api     Backend
	q       *dispatch.Queue
	sel     Selector
	notify  Notifier
	log     zerolog.Logger
	list    panel.FavouritesList
	enabled bool
	loading bool
}

// New returns a controller with the tab closed and enabled.
func New(ctx context.Context, api Backend, q *dispatch.Queue, sel Selector, notify Notifier, log zerolog.Logger) *Controller {
	return &Controller{
		ctx:     ctx,
		api:     api,
		q:       q,
		sel:     sel,
		notify:  notify,
		log:     log.With().Str("component", "favourites").Logger(),
		enabled: true,
	}
}

// List returns the tab's display state.
func (c *Controller) List() panel.FavouritesList {
	return c.list
}

// Enabled reports whether the tab can be opened.
func (c *Controller) Enabled() bool {
	return c.enabled
}

// Loading reports whether a favourites fetch is in flight.
func (c *Controller) Loading() bool {
	return c.loading
}

// SetEnabled enables or disables the favourites button. Disabling closes the tab.
func (c *Controller) SetEnabled(enabled bool) {
	c.enabled = enabled
	if !enabled {
		c.Close()
	}
}

// Toggle opens the tab and fetches the list, or closes it if open.
func (c *Controller) Toggle() {
	if c.list.Open {
		c.Close()
		return
	}
	c.Open()
}

// Open shows the tab and fetches the user's favourites. Does nothing while disabled.
func (c *Controller) Open() {
	if !c.enabled {
		return
	}
	c.list = panel.FavouritesList{Open: true}
	c.loading = true
	dispatch.Run(c.q, func() (string, error) {
		return c.api.Favourites(c.ctx)
	}, func(raw string, err error) {
		c.loading = false
		if !c.list.Open {
			return
		}
		if err != nil {
			c.log.Error().Err(err).Msg("error fetching favourites")
			c.list = panel.FavouritesList{Open: true, Message: panel.NoFavourites}
			return
		}
		c.list = panel.NewFavouritesList(raw)
	})
}

// Close hides the tab.
func (c *Controller) Close() {
	c.list.Open = false
}

// Search looks the favourite up and focuses the globe on it.
func (c *Controller) Search(f panel.Favourite) {
	query := f.Query()
	dispatch.Run(c.q, func() (backend.Coordinates, error) {
		return c.api.SearchCity(c.ctx, query)
	}, func(at backend.Coordinates, err error) {
		if err != nil {
			c.log.Error().Err(err).Str("city", query).Msg("error fetching city details")
			return
		}
		c.sel.SearchSelect(geo.LatLon{Lat: at.Lat, Lon: at.Lon}, query)
		c.Close()
	})
}

// Remove deletes the favourite. The entry leaves the list only when the backend confirms.
func (c *Controller) Remove(f panel.Favourite) {
	key := f.Key()
	dispatch.Run(c.q, func() (bool, error) {
		return c.api.RemoveFavourite(c.ctx, key)
	}, func(removed bool, err error) {
		if err != nil {
			c.log.Error().Err(err).Str("city", key).Msg("error removing favourite")
			return
		}
		if !removed {
			c.log.Error().Str("city", key).Msg("error removing favourite")
			return
		}
		c.list.Remove(key)
		c.notify.Show(panel.RemovedMessage(f.City))
	})
}

// Add saves cityKey ("City:CC"), normally the current selection's key.
func (c *Controller) Add(cityKey string) {
	if strings.TrimSpace(cityKey) == "" {
		c.notify.Show(panel.BlankAddMessage)
		return
	}
	city, _, _ := strings.Cut(cityKey, ":")
	dispatch.Run(c.q, func() (bool, error) {
		return c.api.AddFavourite(c.ctx, cityKey)
	}, func(ok bool, err error) {
		if err != nil {
			c.log.Error().Err(err).Str("city", cityKey).Msg("error adding to favourites")
			return
		}
		if ok {
			c.notify.Show(panel.AddedMessage(city))
			return
		}
		c.notify.Show(panel.AddFailedMessage(city))
	})
}
