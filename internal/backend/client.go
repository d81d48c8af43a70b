package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/net/publicsuffix"

	"weather-globe/internal/geo"
)

const requestIDHeader = "X-Request-ID"

// Options configures a Client.
type Options struct {
	BaseURL  string
	Username string
	Timeout  time.Duration
	Logger   zerolog.Logger
}

// Client talks to the weather/favourites backend. Calls are single attempts: failures are
// returned to the caller and never retried. A circuit breaker stops hammering a backend that
// keeps failing.
type Client struct {
	baseURL  string
	username string
	http     *http.Client
	circuit  *gobreaker.CircuitBreaker
	log      zerolog.Logger
}

// New creates a Client. The session cookie set at login is kept in a cookie jar so logout and the
// favourites endpoints see the same session.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("backend: base url is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("backend: cookie jar: %w", err)
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "backend",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		OnStateChange: func(name string, from, to gobreaker.State) {
			opts.Logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit state changed")
		},
	})
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		username: opts.Username,
		http:     &http.Client{Timeout: opts.Timeout, Jar: jar},
		circuit:  cb,
		log:      opts.Logger,
	}, nil
}

// do executes one request through the circuit breaker. On success the caller owns resp.Body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	reqID := uuid.NewString()

	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, method, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set(requestIDHeader, reqID)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			drain(resp)
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		c.log.Debug().Str("request_id", reqID).Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		drain(resp)
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	c.log.Debug().Str("request_id", reqID).Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("request done")
	return resp, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func (c *Client) getJSON(ctx context.Context, method, path string, query url.Values, out any) error {
	resp, err := c.do(ctx, method, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Weather fetches the weather at a location. A record with an empty CountryName is a valid
// answer meaning "no country here".
func (c *Client) Weather(ctx context.Context, at geo.LatLon) (WeatherRecord, error) {
	q := url.Values{}
	q.Set("lat", formatCoord(at.Lat))
	q.Set("lon", formatCoord(at.Lon))

	var payload struct {
		Name        string  `json:"name"`
		CountryName string  `json:"countryName"`
		CountryCode string  `json:"countryCode"`
		Timezone    int     `json:"timezone"`
		Visibility  float64 `json:"visibility"`
		Coord       struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
			Pressure float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	}
	if err := c.getJSON(ctx, http.MethodGet, "/get_weather", q, &payload); err != nil {
		return WeatherRecord{}, fmt.Errorf("weather: %w", err)
	}

	rec := WeatherRecord{
		TemperatureK:          payload.Main.Temp,
		CountryName:           payload.CountryName,
		CountryCode:           payload.CountryCode,
		CityName:              payload.Name,
		Lat:                   payload.Coord.Lat,
		Lon:                   payload.Coord.Lon,
		TimezoneOffsetSeconds: payload.Timezone,
		Visibility:            payload.Visibility,
		WindSpeed:             payload.Wind.Speed,
		Humidity:              payload.Main.Humidity,
		Pressure:              payload.Main.Pressure,
	}
	if len(payload.Weather) > 0 {
		rec.Description = payload.Weather[0].Description
	}
	return rec, nil
}

// SearchCity resolves a city name ("Paris" or "Paris, FR") to coordinates. ErrNoData is returned
// when the backend answers without both coordinates.
func (c *Client) SearchCity(ctx context.Context, name string) (Coordinates, error) {
	q := url.Values{}
	q.Set("city_name", name)

	var payload struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := c.getJSON(ctx, http.MethodGet, "/search_city", q, &payload); err != nil {
		return Coordinates{}, fmt.Errorf("search %q: %w", name, err)
	}
	if payload.Latitude == nil || payload.Longitude == nil {
		return Coordinates{}, fmt.Errorf("search %q: %w", name, ErrNoData)
	}
	return Coordinates{Lat: *payload.Latitude, Lon: *payload.Longitude}, nil
}

// Favourites returns the raw favourites string for the configured user: a comma-joined list of
// "city:CC" pairs. A missing or non-string first element yields "".
func (c *Client) Favourites(ctx context.Context) (string, error) {
	q := url.Values{}
	q.Set("username", c.username)

	var payload []json.RawMessage
	if err := c.getJSON(ctx, http.MethodGet, "/get_user_favourites", q, &payload); err != nil {
		return "", fmt.Errorf("favourites: %w", err)
	}
	if len(payload) == 0 {
		return "", nil
	}
	var first string
	if err := json.Unmarshal(payload[0], &first); err != nil {
		return "", nil
	}
	return first, nil
}

// AddFavourite stores cityKey ("City:CC") for the configured user and reports the backend's
// success flag.
func (c *Client) AddFavourite(ctx context.Context, cityKey string) (bool, error) {
	q := url.Values{}
	q.Set("username", c.username)
	q.Set("city_name", cityKey)

	var payload struct {
		Success bool `json:"success"`
	}
	if err := c.getJSON(ctx, http.MethodPost, "/add_to_favourites", q, &payload); err != nil {
		return false, fmt.Errorf("add favourite %q: %w", cityKey, err)
	}
	return payload.Success, nil
}

// RemoveFavourite deletes cityKey ("City:CC") for the configured user. The backend answers with a
// bare JSON boolean.
func (c *Client) RemoveFavourite(ctx context.Context, cityKey string) (bool, error) {
	q := url.Values{}
	q.Set("username", c.username)
	q.Set("city_name", cityKey)

	var removed bool
	if err := c.getJSON(ctx, http.MethodGet, "/remove_favourites", q, &removed); err != nil {
		return false, fmt.Errorf("remove favourite %q: %w", cityKey, err)
	}
	return removed, nil
}

// Logout ends the session. The backend redirects to its login page; the final URL after following
// redirects is returned. ErrNotRedirected is returned when no redirect happened.
func (c *Client) Logout(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/logout", nil)
	if err != nil {
		return "", fmt.Errorf("logout: %w", err)
	}
	defer drain(resp)

	final := resp.Request.URL.String()
	if final == c.baseURL+"/logout" {
		return "", ErrNotRedirected
	}
	return final, nil
}
