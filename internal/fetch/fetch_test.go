// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/zip"
)

const transportContent = "fake transport bytes"

// zipArchive builds an in-memory zip with a single named member.
func zipArchive(t *testing.T, member, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(member)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newArchiveServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	archive := zipArchive(t, "h171.ssp", transportContent)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.URL.Path != "/h171ssp.zip" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Write(archive)
	}))
}

func TestHTTPFetcherDownloadsAndExtracts(t *testing.T) {
	var calls int32
	ts := newArchiveServer(t, &calls)
	defer ts.Close()

	dir := t.TempDir()
	f := &HTTPFetcher{Client: ts.Client(), BaseURL: ts.URL, Dir: dir, UserAgent: "meps-engine/test"}

	path, err := f.Fetch(context.Background(), "h171")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if path != filepath.Join(dir, "h171.ssp") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != transportContent {
		t.Errorf("extracted content = %q, want %q", data, transportContent)
	}

	// No spooled temp files may survive.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("cache dir has %d entries, want 1: %v", len(entries), entries)
	}
}

func TestHTTPFetcherUppercaseIdentifier(t *testing.T) {
	var calls int32
	ts := newArchiveServer(t, &calls)
	defer ts.Close()

	f := &HTTPFetcher{Client: ts.Client(), BaseURL: ts.URL, Dir: t.TempDir()}
	if _, err := f.Fetch(context.Background(), "H171"); err != nil {
		t.Fatalf("Fetch with uppercase identifier: %v", err)
	}
}

func TestHTTPFetcherIdempotent(t *testing.T) {
	var calls int32
	ts := newArchiveServer(t, &calls)
	defer ts.Close()

	f := &HTTPFetcher{Client: ts.Client(), BaseURL: ts.URL, Dir: t.TempDir()}

	first, err := f.Fetch(context.Background(), "h171")
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.Fetch(context.Background(), "h171")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("paths differ: %q vs %q", first, second)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("server hit %d times, want 1 (second fetch must reuse the file)", n)
	}
}

func TestHTTPFetcherNotFound(t *testing.T) {
	var calls int32
	ts := newArchiveServer(t, &calls)
	defer ts.Close()

	f := &HTTPFetcher{Client: ts.Client(), BaseURL: ts.URL, Dir: t.TempDir()}
	if _, err := f.Fetch(context.Background(), "h999"); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestHTTPFetcherBadArchive(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("this is not a zip"))
	}))
	defer ts.Close()

	dir := t.TempDir()
	f := &HTTPFetcher{Client: ts.Client(), BaseURL: ts.URL, Dir: dir}
	if _, err := f.Fetch(context.Background(), "h171"); err == nil {
		t.Fatal("expected error for corrupt archive")
	}

	// Neither the destination nor temp debris may be left behind.
	if _, err := os.Stat(filepath.Join(dir, "h171.ssp")); err == nil {
		t.Error("destination file should not exist after a failed extract")
	}
}

func TestHTTPFetcherURL(t *testing.T) {
	f := &HTTPFetcher{Dir: "."}
	want := DefaultBaseURL + "/h171ssp.zip"
	if got := f.URL("H171"); got != want {
		t.Errorf("URL(H171) = %q, want %q", got, want)
	}
}

func TestExtractTransportPrefersSSPMember(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range []struct{ name, content string }{
		{"readme.txt", "documentation"},
		{"h171.ssp", transportContent},
	} {
		w, err := zw.Create(m.name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(m.content))
	}
	zw.Close()

	dir := t.TempDir()
	archive := filepath.Join(dir, "a.zip")
	if err := os.WriteFile(archive, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(dir, "h171.ssp")
	if err := extractTransport(archive, dest); err != nil {
		t.Fatalf("extractTransport: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != transportContent {
		t.Errorf("extracted %q, want the .ssp member", data)
	}
}
