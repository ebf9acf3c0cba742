// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch obtains transport files from a remote source by
// canonical file number. The download site publishes each file as a
// zip archive named "<number>ssp.zip"; fetchers download, extract, and
// place the transport file in the local cache directory so the next
// request is a cache hit.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/meshintel/meps-engine/internal/httputil"
)

// DefaultBaseURL is the public download endpoint for the survey's
// public-use files.
const DefaultBaseURL = "https://meps.ahrq.gov/mepsweb/data_files/pufs"

// Fetcher obtains the transport file for a canonical file number and
// returns its local path. Implementations are idempotent: fetching an
// identifier whose file is already in place returns the existing path
// without touching the network.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (string, error)
}

// HTTPFetcher downloads "<id>ssp.zip" from the public download site and
// extracts the transport member.
type HTTPFetcher struct {
	// Client performs the requests. Required.
	Client *http.Client

	// BaseURL overrides DefaultBaseURL, mainly for tests and mirrors.
	BaseURL string

	// Dir is where extracted transport files land.
	Dir string

	// UserAgent is sent with every request.
	UserAgent string

	// MaxRetries bounds 429 retries; 0 means the httputil default.
	MaxRetries int
}

// URL returns the archive URL for id. Identifiers are lowercased; the
// site's filenames are lowercase.
func (f *HTTPFetcher) URL(id string) string {
	base := f.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return base + "/" + strings.ToLower(id) + "ssp.zip"
}

// Fetch downloads and extracts the transport file for id, returning
// its path under Dir. An already-extracted file is returned as-is.
func (f *HTTPFetcher) Fetch(ctx context.Context, id string) (string, error) {
	dest := filepath.Join(f.Dir, strings.ToLower(id)+".ssp")
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", f.Dir, err)
	}

	url := f.URL(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := httputil.DoWithRetry(f.Client, req, f.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	archive, err := spool(resp.Body, f.Dir, ".fetch-*.zip")
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", id, err)
	}
	defer os.Remove(archive)

	if err := extractTransport(archive, dest); err != nil {
		return "", fmt.Errorf("extracting %s: %w", id, err)
	}
	return dest, nil
}

// spool copies r to a temp file in dir and returns its path.
func spool(r io.Reader, dir, pattern string) (string, error) {
	tmp, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}
	return tmpPath, nil
}

// extractTransport pulls the transport member out of the downloaded
// archive and renames it into place. Archives hold a single ".ssp"
// member; if none carries the extension the first file entry is taken.
func extractTransport(archive, dest string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer zr.Close()

	var member *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(f.Name), ".ssp") {
			member = f
			break
		}
		if member == nil {
			member = f
		}
	}
	if member == nil {
		return fmt.Errorf("archive has no file entries")
	}

	rc, err := member.Open()
	if err != nil {
		return fmt.Errorf("opening archive member %s: %w", member.Name, err)
	}
	defer rc.Close()

	tmpPath, err := spool(rc, filepath.Dir(dest), ".extract-*.ssp")
	if err != nil {
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
