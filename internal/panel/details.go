// Package panel computes what the on-screen panels show. Everything here is a pure function of
// its inputs; the ui package turns the results into nodes.
package panel

import (
	"fmt"
	"strconv"
	"time"

	"weather-globe/internal/backend"
)

const (
	FlagURLTemplate = "https://flagsapi.com/%s/flat/64.png"

	NotFoundTitle   = "Not found"
	LoadingTitle    = "Loading Data..."
	LoadingMessage  = "Hang tight while we work on fetching your data"
	NoCityMessage   = "No city found within the given radius"
	InvalidLocation = "The location you clicked is not a valid country, or close enough to a nearby country. Try clicking elsewhere to locate country data."

	kelvinOffset = 273.15
	clockLayout  = "3:04:05 PM"
)

// Field is one labelled line of the details block, e.g. TEMPERATURE: 26.85 C.
type Field struct {
	Label string
	Value string
	Unit  string
}

// Details is the display state of the details panel.
type Details struct {
	Title   string
	Message string

	FlagURL  string
	ShowFlag bool

	Fields      []Field
	ShowDetails bool

	// CityKey is "City:CC" when a city was resolved; empty otherwise. ShowFavourite follows it.
	CityKey       string
	ShowFavourite bool
}

// Loading is shown while a weather lookup is in flight.
func Loading() Details {
	return Details{Title: LoadingTitle, Message: LoadingMessage}
}

// Failed is shown when the lookup errored or the location is not near any country.
func Failed() Details {
	return Details{Title: NotFoundTitle, Message: InvalidLocation}
}

// FormatCelsius converts Kelvin to Celsius with two decimals.
func FormatCelsius(kelvin float64) string {
	return strconv.FormatFloat(kelvin-kelvinOffset, 'f', 2, 64)
}

// LocalTime returns the wall clock at a UTC offset given in seconds.
func LocalTime(now time.Time, offsetSeconds int) time.Time {
	return now.UTC().Add(time.Duration(offsetSeconds) * time.Second)
}

// FlagURL returns the flag image URL for an ISO country code.
func FlagURL(countryCode string) string {
	return fmt.Sprintf(FlagURLTemplate, countryCode)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BuildDetails renders a weather record. entry is the name the user searched for; when set it
// replaces the record's city name in the favourite key. now is the current time.
func BuildDetails(rec backend.WeatherRecord, entry string, now time.Time) Details {
	if !rec.Found() {
		return Failed()
	}

	d := Details{
		Title:       rec.CountryName,
		FlagURL:     FlagURL(rec.CountryCode),
		ShowFlag:    true,
		ShowDetails: true,
		Message:     NoCityMessage,
	}
	if rec.CityName != "" {
		d.Message = "You are currently viewing details with regards to " + rec.CityName
		name := rec.CityName
		if entry != "" {
			name = entry
		}
		d.CityKey = name + ":" + rec.CountryCode
		d.ShowFavourite = true
	}

	d.Fields = []Field{
		{Label: "TEMPERATURE", Value: FormatCelsius(rec.TemperatureK), Unit: "C"},
		{Label: "WEATHER", Value: rec.Description},
		{Label: "LOCAL TIME", Value: LocalTime(now, rec.TimezoneOffsetSeconds).Format(clockLayout)},
		{Label: "LONGITUDE", Value: num(rec.Lon)},
		{Label: "LATITUDE", Value: num(rec.Lat)},
		{Label: "VISIBILITY", Value: num(rec.Visibility), Unit: "meters"},
		{Label: "WIND SPEED", Value: num(rec.WindSpeed), Unit: "m/s"},
		{Label: "HUMIDITY", Value: num(rec.Humidity), Unit: "%"},
		{Label: "PRESSURE", Value: num(rec.Pressure), Unit: "hPa"},
	}
	return d
}

// String renders the field as it appears on screen.
func (f Field) String() string {
	s := f.Label + ": " + f.Value
	switch f.Unit {
	case "":
	case "%":
		s += f.Unit
	default:
		s += " " + f.Unit
	}
	return s
}
