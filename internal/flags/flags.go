// Package flags downloads country flag images, scales them to a fixed width and keeps them in an
// on-disk cache so the renderer can load them as textures.
package flags

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; rv:109.0) Gecko/20100101 Firefox/115.0"

// ErrNotImage is returned when the server answers with something other than an image.
var ErrNotImage = errors.New("flags: response is not an image")

// Options configures a Fetcher.
type Options struct {
	Dir     string
	Width   int
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Fetcher resolves flag URLs to local PNG files.
type Fetcher struct {
	client *http.Client
	dir    string
	width  int
	paths  *cache.Cache
	log    zerolog.Logger
}

// New returns a Fetcher that stores files under opts.Dir.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Width <= 0 {
		opts.Width = 64
	}
	return &Fetcher{
		client: &http.Client{Timeout: opts.Timeout},
		dir:    opts.Dir,
		width:  opts.Width,
		paths:  cache.New(cache.NoExpiration, 0),
		log:    opts.Logger.With().Str("component", "flags").Logger(),
	}
}

// Path returns the local file for rawURL, downloading and scaling it on first use.
// Files already on disk from an earlier run are reused without a request.
func (f *Fetcher) Path(ctx context.Context, rawURL string) (string, error) {
	if p, ok := f.paths.Get(rawURL); ok {
		return p.(string), nil
	}
	dest := filepath.Join(f.dir, fileName(rawURL))
	if _, err := os.Stat(dest); err == nil {
		f.paths.Set(rawURL, dest, cache.NoExpiration)
		return dest, nil
	}

	img, err := f.fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if b := img.Bounds(); b.Dx() != f.width && b.Dx() > 0 {
		h := b.Dy() * f.width / b.Dx()
		if h < 1 {
			h = 1
		}
		img = transform.Resize(img, f.width, h, transform.Linear)
	}
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return "", fmt.Errorf("flags: %w", err)
	}
	if err := imgio.Save(dest, img, imgio.PNGEncoder()); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("flags: %w", err)
	}
	f.log.Debug().Str("url", rawURL).Str("path", dest).Msg("flag cached")
	f.paths.Set(rawURL, dest, cache.NoExpiration)
	return dest, nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flags: HTTP %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !isImageType(ct) {
		return nil, ErrNotImage
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return img, nil
}

func isImageType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	// some CDNs serve images as octet-stream; the decoder decides
	return strings.HasPrefix(ct, "image/") || ct == "application/octet-stream"
}

var safeNameRe = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// fileName maps a flag URL such as https://flagsapi.com/FR/flat/64.png to "FR_flat_64.png".
func fileName(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	p = strings.TrimSuffix(p, filepath.Ext(p))
	p = strings.Trim(p, "/")
	name := safeNameRe.ReplaceAllString(strings.ReplaceAll(p, "/", "_"), "_")
	if name == "" {
		name = "flag"
	}
	if len(name) > 96 {
		name = name[:96]
	}
	return name + ".png"
}
