// Package fonts finds the UI font on disk and, when it is missing, fetches it from the
// google/fonts repository into the local font directory.
package fonts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Extensions we consider as font files.
var Exts = []string{".ttf", ".otf"}

const (
	defaultAPIBase   = "https://api.github.com/repos/google/fonts/contents/ofl"
	defaultRawPrefix = "https://raw.githubusercontent.com/google/fonts/"
	defaultDir       = "assets/fonts"
)

// ErrNotFound is returned when no font file matches a family.
var ErrNotFound = errors.New("font not found")

type githubFile struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// Resolver maps a family name such as "Poppins" to a font file path.
type Resolver struct {
	Dir       string // local font root, default assets/fonts
	APIBase   string // directory listing endpoint for google/fonts ofl
	RawPrefix string // only download URLs under this prefix are fetched
	client    *http.Client
	log       zerolog.Logger
}

// New returns a resolver rooted at dir ("" means assets/fonts).
func New(dir string, log zerolog.Logger) *Resolver {
	if dir == "" {
		dir = defaultDir
	}
	return &Resolver{
		Dir:       dir,
		APIBase:   defaultAPIBase,
		RawPrefix: defaultRawPrefix,
		client:    &http.Client{Timeout: 15 * time.Second},
		log:       log.With().Str("component", "fonts").Logger(),
	}
}

// Resolve returns a local file for family, downloading it first if no local file matches.
func (r *Resolver) Resolve(ctx context.Context, family string) (string, error) {
	if p, err := r.Find(family); err == nil {
		return p, nil
	}
	p, err := r.download(ctx, family)
	if err != nil {
		return "", err
	}
	r.log.Info().Str("family", family).Str("path", p).Msg("font downloaded")
	return p, nil
}

// Find searches Dir for a font file whose path matches family. When several match, one with
// "Regular" in its name wins.
func (r *Resolver) Find(family string) (string, error) {
	norm := normalizeForMatch(family)
	if norm == "" {
		return "", ErrNotFound
	}
	list, err := scanDir(r.Dir)
	if err != nil {
		return "", err
	}
	var match string
	for _, rel := range list {
		if !strings.Contains(normalizeForMatch(rel), norm) {
			continue
		}
		if strings.Contains(strings.ToLower(rel), "regular") {
			return filepath.Join(r.Dir, rel), nil
		}
		if match == "" {
			match = filepath.Join(r.Dir, rel)
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, family)
	}
	return match, nil
}

// scanDir returns paths relative to dir of all font files under it. A missing dir is empty.
func scanDir(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() || !isFontFile(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

func isFontFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalizeForMatch lowercases and removes spaces, dashes, and underscores for fuzzy matching.
func normalizeForMatch(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

// folders converts a display name to the folder names used in google/fonts ofl,
// e.g. "Open Sans" -> ["opensans", "open-sans"].
func folders(family string) []string {
	lower := strings.ToLower(strings.TrimSpace(family))
	if lower == "" {
		return nil
	}
	noSpaces := strings.ReplaceAll(lower, " ", "")
	withHyphens := strings.ReplaceAll(lower, " ", "-")
	out := []string{noSpaces}
	if withHyphens != noSpaces {
		out = append(out, withHyphens)
	}
	return out
}

func (r *Resolver) download(ctx context.Context, family string) (string, error) {
	candidates := folders(family)
	if len(candidates) == 0 {
		return "", fmt.Errorf("invalid font name")
	}
	var lastErr error
	for _, folder := range candidates {
		u, name, err := r.downloadURL(ctx, folder)
		if err != nil {
			lastErr = err
			continue
		}
		return r.save(ctx, u, filepath.Join(r.Dir, folder, name))
	}
	return "", lastErr
}

// downloadURL lists the family folder and picks a non-italic font file.
func (r *Resolver) downloadURL(ctx context.Context, folder string) (string, string, error) {
	u := r.APIBase + "/" + url.PathEscape(folder)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	resp, err := r.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("google fonts: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", "", fmt.Errorf("%w: %q on Google Fonts", ErrNotFound, folder)
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("google fonts: HTTP %d", resp.StatusCode)
	}
	var files []githubFile
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return "", "", fmt.Errorf("google fonts: %w", err)
	}
	var fallback *githubFile
	for i, f := range files {
		if f.Type != "file" || f.DownloadURL == "" || !isFontFile(f.Name) {
			continue
		}
		if !strings.HasPrefix(f.DownloadURL, r.RawPrefix) {
			continue
		}
		if strings.Contains(strings.ToLower(f.Name), "italic") {
			if fallback == nil {
				fallback = &files[i]
			}
			continue
		}
		return f.DownloadURL, f.Name, nil
	}
	if fallback != nil {
		return fallback.DownloadURL, fallback.Name, nil
	}
	return "", "", fmt.Errorf("%w: no .ttf/.otf file for %q", ErrNotFound, folder)
}

func (r *Resolver) save(ctx context.Context, u, dest string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("google fonts: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google fonts: HTTP %d", resp.StatusCode)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", err
	}
	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		_ = os.Remove(dest)
		return "", fmt.Errorf("google fonts: %w", err)
	}
	return dest, out.Close()
}
