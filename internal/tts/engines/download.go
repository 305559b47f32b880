package engines

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/anca-ferro/tts/internal/tts"
)

const (
	defaultDownloadRetries    = 3
	defaultDownloadRetryDelay = 2 * time.Second
	downloadMarkerFilename    = ".tts-downloaded"
)

// RemoteFile is a file fetched into a model directory.
type RemoteFile struct {
	URL  string
	Name string
}

// Downloader fetches model files over HTTP. Attempts on one file are
// paced by a limiter, one per retryDelay.
type Downloader struct {
	client     *http.Client
	retryDelay time.Duration
	retries    int
}

// NewDownloader creates a downloader whose requests time out after
// timeout. Retries are spaced by retryDelay (2s when non-positive).
func NewDownloader(timeout, retryDelay time.Duration) *Downloader {
	if retryDelay <= 0 {
		retryDelay = defaultDownloadRetryDelay
	}
	return &Downloader{
		client:     &http.Client{Timeout: timeout},
		retryDelay: retryDelay,
		retries:    defaultDownloadRetries,
	}
}

// FetchAll downloads files into dir. A marker file records what was
// fetched; when it matches and every file is present nothing is
// downloaded. It reports whether the files were already in place.
func (d *Downloader) FetchAll(ctx context.Context, dir string, files []RemoteFile) (bool, error) {
	markerPath := filepath.Join(dir, downloadMarkerFilename)
	want := markerContent(files)

	if d.upToDate(dir, markerPath, want, files) {
		log.Debug("Model files already downloaded", "dir", dir)
		return true, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}

	for _, f := range files {
		if err := d.fetchWithRetry(ctx, f.URL, filepath.Join(dir, f.Name)); err != nil {
			return false, err
		}
	}

	if err := os.WriteFile(markerPath, []byte(want), 0o644); err != nil {
		log.Warn("Failed to write download marker", "path", markerPath, "error", err)
	}
	return false, nil
}

func (d *Downloader) upToDate(dir, markerPath, want string, files []RemoteFile) bool {
	got, err := os.ReadFile(markerPath)
	if err != nil || string(got) != want {
		return false
	}
	for _, f := range files {
		if _, err := os.Stat(filepath.Join(dir, f.Name)); err != nil {
			return false
		}
	}
	return true
}

// markerContent lists every file and its source, one per line.
func markerContent(files []RemoteFile) string {
	var b strings.Builder
	for _, f := range files {
		fmt.Fprintf(&b, "%s %s\n", f.Name, f.URL)
	}
	return b.String()
}

func (d *Downloader) fetchWithRetry(ctx context.Context, url, dest string) error {
	limiter := rate.NewLimiter(rate.Every(d.retryDelay), 1)

	var lastErr error
	for attempt := 0; attempt < d.retries; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("download cancelled: %w", err)
		}
		if attempt > 0 {
			log.Info("Retrying download", "url", url, "attempt", attempt+1, "last_error", lastErr)
		} else {
			log.Info("Downloading model file", "url", url, "path", dest)
		}

		lastErr = d.fetch(ctx, url, dest)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, errPermanent) || ctx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("download %s: %w", url, lastErr)
}

var errPermanent = errors.New("permanent download failure")

// fetch writes url into a temp file beside dest and renames it into place,
// so an interrupted download never leaves a truncated model behind.
func (d *Downloader) fetch(ctx context.Context, url, dest string) error {
	return tts.WithTempFile(filepath.Dir(dest), ".download-*", func(tmp string) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("%w: %w", errPermanent, err)
		}
		resp, err := d.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %s", errPermanent, resp.Status)
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("unexpected status %s", resp.Status)
		}

		f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, resp.Body); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		return os.Rename(tmp, dest)
	})
}
