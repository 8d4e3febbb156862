package uploadsvc

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	svc, err := New(dir)
	require.NoError(t, err)

	body := []byte("fake image bytes")
	url, err := svc.SaveImage("slip.JPG", int64(len(body)), bytes.NewReader(body))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/"))
	require.True(t, strings.HasSuffix(url, ".jpg"))

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	require.Equal(t, body, stored)
}

func TestSaveImage_BadExtension(t *testing.T) {
	svc, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = svc.SaveImage("slip.pdf", 10, bytes.NewReader([]byte("x")))
	require.ErrorIs(t, err, ErrBadType)
}

func TestSaveImage_DeclaredSizeTooLarge(t *testing.T) {
	svc, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = svc.SaveImage("slip.jpg", MaxImageSize+1, bytes.NewReader(nil))
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestSaveImage_ActualBytesTooLarge(t *testing.T) {
	dir := t.TempDir()
	svc, err := New(dir)
	require.NoError(t, err)

	// Declared size lies; the byte cap still holds.
	big := bytes.NewReader(make([]byte, MaxImageSize+10))
	_, err = svc.SaveImage("slip.jpg", 100, big)
	require.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "oversized file must not be left behind")
}

func TestIngestURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png bytes"))
	}))
	defer ts.Close()

	svc, err := New(t.TempDir())
	require.NoError(t, err)

	url, err := svc.IngestURL(context.Background(), ts.URL+"/covers/clean-code")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(url, ".png"))
}

func TestIngestURL_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	svc, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = svc.IngestURL(context.Background(), ts.URL+"/covers/missing.jpg")
	require.Error(t, err)
}
