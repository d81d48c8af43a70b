package panel

// Visibility is which panels are on screen. It depends on nothing but whether the globe is
// focused, so two views in the same state always agree.
type Visibility struct {
	Details           bool
	Search            bool
	Escape            bool
	HowToUse          bool
	FavouritesEnabled bool
}

// VisibilityFor returns the panel set for the focused or overview view.
func VisibilityFor(focused bool) Visibility {
	return Visibility{
		Details:           focused,
		Search:            focused,
		Escape:            focused,
		HowToUse:          !focused,
		FavouritesEnabled: !focused,
	}
}
