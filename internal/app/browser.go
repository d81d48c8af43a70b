package app

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
)

func init() {
	// xdg-open and friends print to the terminal the app was started from.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// openBrowser opens url with the desktop's default handler.
func openBrowser(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}
