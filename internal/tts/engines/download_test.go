package engines

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloader_FetchAll(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("content of " + r.URL.Path))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "models")
	files := []RemoteFile{
		{URL: srv.URL + "/a.onnx", Name: "a.onnx"},
		{URL: srv.URL + "/a.onnx.json", Name: "a.onnx.json"},
	}
	d := NewDownloader(5*time.Second, 10*time.Millisecond)

	cached, err := d.FetchAll(context.Background(), dir, files)
	require.NoError(t, err)
	assert.False(t, cached)

	data, err := os.ReadFile(filepath.Join(dir, "a.onnx"))
	require.NoError(t, err)
	assert.Equal(t, "content of /a.onnx", string(data))
	assert.FileExists(t, filepath.Join(dir, downloadMarkerFilename))

	cached, err = d.FetchAll(context.Background(), dir, files)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, int32(2), hits.Load())

	// no temp files left behind
	assert.ElementsMatch(t, []string{"a.onnx", "a.onnx.json", downloadMarkerFilename}, dirEntries(t, dir))
}

func TestDownloader_RetriesTransientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(5*time.Second, 5*time.Millisecond)
	_, err := d.FetchAll(context.Background(), dir, []RemoteFile{{URL: srv.URL + "/m.pt", Name: "m.pt"}})
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())
}

func TestDownloader_NotFoundIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(5*time.Second, 5*time.Millisecond)
	_, err := d.FetchAll(context.Background(), dir, []RemoteFile{{URL: srv.URL + "/missing.pt", Name: "missing.pt"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), hits.Load())
	assert.NoFileExists(t, filepath.Join(dir, "missing.pt"))
	assert.Empty(t, dirEntries(t, dir))
}

func TestDownloader_MarkerMismatchRefetches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("v"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(5*time.Second, 5*time.Millisecond)
	_, err := d.FetchAll(context.Background(), dir, []RemoteFile{{URL: srv.URL + "/v1/m.pt", Name: "m.pt"}})
	require.NoError(t, err)

	cached, err := d.FetchAll(context.Background(), dir, []RemoteFile{{URL: srv.URL + "/v2/m.pt", Name: "m.pt"}})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, int32(2), hits.Load())
}
