package backend

import "errors"

var (
	// ErrNoData is returned when the backend answers but the payload lacks what was asked for,
	// e.g. a city search without coordinates.
	ErrNoData = errors.New("no data")
	// ErrUnexpectedStatus wraps any non-2xx status that is not a server error.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrCircuitOpen is returned without touching the network while the breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")
	// ErrNotRedirected is returned by Logout when the backend did not redirect.
	ErrNotRedirected = errors.New("logout was not redirected")

	errServerError = errors.New("server error")
)

// WeatherRecord is the weather payload for one location, as displayed in the details panel.
// CountryName is empty when the location is not close enough to any country; CityName is empty
// when no city lies within the search radius.
type WeatherRecord struct {
	TemperatureK          float64
	Description           string
	CountryName           string
	CountryCode           string
	CityName              string
	Lat                   float64
	Lon                   float64
	TimezoneOffsetSeconds int
	Visibility            float64
	WindSpeed             float64
	Humidity              float64
	Pressure              float64
}

// Found reports whether the record resolved to a country.
func (r WeatherRecord) Found() bool {
	return r.CountryName != ""
}

// Coordinates is the result of a city search.
type Coordinates struct {
	Lat float64
	Lon float64
}
