package panel

import "strings"

const (
	NoFavourites = "No favourites found"
	maxLabelLen  = 13
)

// Favourite is one saved city.
type Favourite struct {
	City        string
	CountryCode string
}

// Key is the stored form, "City:CC".
func (f Favourite) Key() string {
	if f.CountryCode == "" {
		return f.City
	}
	return f.City + ":" + f.CountryCode
}

// Query is the form sent to city search, "City, CC".
func (f Favourite) Query() string {
	if f.CountryCode == "" {
		return f.City
	}
	return f.City + ", " + f.CountryCode
}

// Label is the list text: the city name, cut to 13 characters plus "..." when longer.
func (f Favourite) Label() string {
	r := []rune(f.City)
	if len(r) > maxLabelLen {
		return string(r[:maxLabelLen]) + "..."
	}
	return f.City
}

// ParseFavourites splits the stored favourites string ("Paris:FR,Tokyo:JP") into entries.
// Empty items are skipped; an item without a colon is kept with no country code.
func ParseFavourites(raw string) []Favourite {
	var out []Favourite
	for _, item := range strings.Split(raw, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		city, cc, _ := strings.Cut(item, ":")
		out = append(out, Favourite{City: city, CountryCode: cc})
	}
	return out
}

// EntryName returns the city part of a search entry: "Paris, FR" gives "Paris".
func EntryName(entry string) string {
	name, _, _ := strings.Cut(entry, ", ")
	return name
}

// FavouritesList is the display state of the favourites tab.
type FavouritesList struct {
	Open    bool
	Items   []Favourite
	Message string
}

// NewFavouritesList builds the list state from the stored string.
func NewFavouritesList(raw string) FavouritesList {
	items := ParseFavourites(raw)
	l := FavouritesList{Open: true, Items: items}
	if len(items) == 0 {
		l.Message = NoFavourites
	}
	return l
}

// Remove drops the entry with the given key. It reports whether anything was removed.
func (l *FavouritesList) Remove(key string) bool {
	for i, f := range l.Items {
		if f.Key() == key {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			if len(l.Items) == 0 {
				l.Message = NoFavourites
			}
			return true
		}
	}
	return false
}

// Popup messages for favourites actions.
func RemovedMessage(city string) string {
	return city + " has been successfully removed from your favourites"
}

func AddedMessage(city string) string {
	return city + " has been successfully added to your favourites"
}

func AddFailedMessage(city string) string {
	return "Failed to add " + city + " to favorites. Please try again."
}

const BlankAddMessage = "Please enter a city name before adding to favorites."
