package flags

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func flagServer(t *testing.T, body []byte, contentType string, hits *int32) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.URL.Path == "/missing/flat/64.png" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPath_DownloadsAndScales(t *testing.T) {
	var hits int32
	srv := flagServer(t, pngBytes(t, 128, 64), "image/png", &hits)
	dir := t.TempDir()
	f := New(Options{Dir: dir, Width: 64, Logger: zerolog.Nop()})

	p, err := f.Path(context.Background(), srv.URL+"/FR/flat/64.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "FR_flat_64.png"), p)

	img, err := imgio.Open(p)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())

	again, err := f.Path(context.Background(), srv.URL+"/FR/flat/64.png")
	require.NoError(t, err)
	assert.Equal(t, p, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestPath_ReusesFilesOnDisk(t *testing.T) {
	var hits int32
	srv := flagServer(t, pngBytes(t, 64, 32), "image/png", &hits)
	dir := t.TempDir()

	_, err := New(Options{Dir: dir, Logger: zerolog.Nop()}).Path(context.Background(), srv.URL+"/JP/flat/64.png")
	require.NoError(t, err)

	p, err := New(Options{Dir: dir, Logger: zerolog.Nop()}).Path(context.Background(), srv.URL+"/JP/flat/64.png")
	require.NoError(t, err)
	_, err = os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestPath_Errors(t *testing.T) {
	var hits int32
	srv := flagServer(t, []byte("<html></html>"), "text/html", &hits)
	f := New(Options{Dir: t.TempDir(), Logger: zerolog.Nop()})

	_, err := f.Path(context.Background(), srv.URL+"/FR/flat/64.png")
	assert.True(t, errors.Is(err, ErrNotImage))

	_, err = f.Path(context.Background(), srv.URL+"/missing/flat/64.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestFileName(t *testing.T) {
	cases := map[string]string{
		"https://flagsapi.com/FR/flat/64.png":  "FR_flat_64.png",
		"https://flagsapi.com/GB/shiny/32.png": "GB_shiny_32.png",
		"https://example.com/":                 "flag.png",
		"https://example.com/a b/c?x=1":        "a_b_c.png",
	}
	for in, want := range cases {
		assert.Equal(t, want, fileName(in), in)
	}
}
