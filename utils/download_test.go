package utils

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestUtils_ShouldDownloadImage(t *testing.T) {
	data := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	f, err := DownloadImage(context.Background(), srv.URL+"/sample.png")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	defer f.Close()

	got, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestUtils_ShouldRejectNonImageDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("just some text"))
	}))
	defer srv.Close()

	_, err := DownloadImage(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestUtils_ShouldFailOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := DownloadImage(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestUtils_ShouldStopStalledDownload(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := DownloadImage(ctx, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestUtils_ShouldBeValidUrl(t *testing.T) {
	assert.True(t, IsValidURL("https://github.com/esimov/carver/"))
	assert.False(t, IsValidURL("testdata/sample.jpg"))
	assert.False(t, IsValidURL("-"))
}

func TestUtils_ShouldDetectValidFileType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t), 0644))

	ftype, err := DetectContentType(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(ftype, "image"), "content type expected to be of type image, got: %v", ftype)
}
