package favourites

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-globe/internal/backend"
	"weather-globe/internal/dispatch"
	"weather-globe/internal/geo"
	"weather-globe/internal/panel"
)

type fakeBackend struct {
	mu        sync.Mutex
	raw       string
	rawErr    error
	coords    map[string]backend.Coordinates
	addOK     bool
	removeOK  bool
	removeErr error
	added     []string
	removed   []string
	favCalls  int
}

func (f *fakeBackend) Favourites(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favCalls++
	return f.raw, f.rawErr
}

func (f *fakeBackend) SearchCity(_ context.Context, name string) (backend.Coordinates, error) {
	c, ok := f.coords[name]
	if !ok {
		return backend.Coordinates{}, backend.ErrNoData
	}
	return c, nil
}

func (f *fakeBackend) AddFavourite(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, key)
	return f.addOK, nil
}

func (f *fakeBackend) RemoveFavourite(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, key)
	return f.removeOK, f.removeErr
}

type selection struct {
	at    geo.LatLon
	entry string
}

type fakeSelector struct{ got []selection }

func (s *fakeSelector) SearchSelect(at geo.LatLon, entry string) {
	s.got = append(s.got, selection{at, entry})
}

type fakeNotifier struct{ msgs []string }

func (n *fakeNotifier) Show(text string) { n.msgs = append(n.msgs, text) }

func setup(api *fakeBackend) (*Controller, *dispatch.Queue, *fakeSelector, *fakeNotifier) {
	q := dispatch.New()
	sel := &fakeSelector{}
	n := &fakeNotifier{}
	return New(context.Background(), api, q, sel, n, zerolog.Nop()), q, sel, n
}

func TestOpen_ListsFavourites(t *testing.T) {
	c, q, _, _ := setup(&fakeBackend{raw: "Paris:FR,Tokyo:JP"})
	c.Toggle()
	assert.True(t, c.List().Open)
	assert.True(t, c.Loading())

	require.True(t, q.Settle(time.Second))
	assert.False(t, c.Loading())
	l := c.List()
	require.Len(t, l.Items, 2)
	assert.Equal(t, "Paris", l.Items[0].Label())
	assert.Empty(t, l.Message)
}

func TestOpen_EmptyAndErrors(t *testing.T) {
	c, q, _, _ := setup(&fakeBackend{})
	c.Open()
	require.True(t, q.Settle(time.Second))
	assert.Equal(t, panel.NoFavourites, c.List().Message)

	c, q, _, _ = setup(&fakeBackend{rawErr: errors.New("down")})
	c.Open()
	require.True(t, q.Settle(time.Second))
	assert.Equal(t, panel.NoFavourites, c.List().Message)
	assert.True(t, c.List().Open)
}

func TestToggle_CloseDoesNotFetch(t *testing.T) {
	api := &fakeBackend{raw: "Paris:FR"}
	c, q, _, _ := setup(api)
	c.Toggle()
	require.True(t, q.Settle(time.Second))
	c.Toggle()
	require.True(t, q.Settle(time.Second))

	assert.False(t, c.List().Open)
	assert.Equal(t, 1, api.favCalls)
}

func TestDisabled(t *testing.T) {
	api := &fakeBackend{raw: "Paris:FR"}
	c, q, _, _ := setup(api)
	c.Toggle()
	c.SetEnabled(false)
	require.True(t, q.Settle(time.Second))
	assert.False(t, c.List().Open, "a fetch finishing after close leaves the tab closed")

	c.Toggle()
	assert.False(t, c.List().Open)
	assert.Equal(t, 1, api.favCalls)
}

func TestSearch(t *testing.T) {
	api := &fakeBackend{coords: map[string]backend.Coordinates{"Tokyo, JP": {Lat: 35.68, Lon: 139.69}}}
	c, q, sel, _ := setup(api)
	c.Open()
	require.True(t, q.Settle(time.Second))

	c.Search(panel.Favourite{City: "Tokyo", CountryCode: "JP"})
	require.True(t, q.Settle(time.Second))
	require.Len(t, sel.got, 1)
	assert.Equal(t, geo.LatLon{Lat: 35.68, Lon: 139.69}, sel.got[0].at)
	assert.Equal(t, "Tokyo, JP", sel.got[0].entry)
	assert.False(t, c.List().Open)
}

func TestSearch_FailureLeavesStateAlone(t *testing.T) {
	c, q, sel, _ := setup(&fakeBackend{})
	c.Search(panel.Favourite{City: "Atlantis"})
	require.True(t, q.Settle(time.Second))
	assert.Empty(t, sel.got)
}

func TestRemove(t *testing.T) {
	api := &fakeBackend{raw: "Paris:FR,Tokyo:JP", removeOK: true}
	c, q, _, n := setup(api)
	c.Open()
	require.True(t, q.Settle(time.Second))

	c.Remove(c.List().Items[0])
	require.True(t, q.Settle(time.Second))
	assert.Equal(t, []string{"Paris:FR"}, api.removed)
	require.Len(t, c.List().Items, 1)
	assert.Equal(t, "Tokyo", c.List().Items[0].City)
	assert.Equal(t, []string{"Paris has been successfully removed from your favourites"}, n.msgs)
}

func TestRemove_FailureKeepsEntry(t *testing.T) {
	for _, api := range []*fakeBackend{
		{raw: "Paris:FR", removeOK: false},
		{raw: "Paris:FR", removeErr: errors.New("boom")},
	} {
		c, q, _, n := setup(api)
		c.Open()
		require.True(t, q.Settle(time.Second))
		c.Remove(c.List().Items[0])
		require.True(t, q.Settle(time.Second))
		assert.Len(t, c.List().Items, 1)
		assert.Empty(t, n.msgs)
	}
}

func TestAdd(t *testing.T) {
	api := &fakeBackend{addOK: true}
	c, q, _, n := setup(api)
	c.Add("Paris:FR")
	require.True(t, q.Settle(time.Second))
	assert.Equal(t, []string{"Paris:FR"}, api.added)
	assert.Equal(t, []string{panel.AddedMessage("Paris")}, n.msgs)

	api.addOK = false
	c.Add("Paris:FR")
	require.True(t, q.Settle(time.Second))
	assert.Equal(t, panel.AddFailedMessage("Paris"), n.msgs[1])
}

func TestAdd_Blank(t *testing.T) {
	api := &fakeBackend{}
	c, q, _, n := setup(api)
	c.Add("  ")
	require.True(t, q.Settle(time.Second))
	assert.Empty(t, api.added)
	assert.Equal(t, []string{panel.BlankAddMessage}, n.msgs)
}
