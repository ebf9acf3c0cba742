// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieve is the engine's caller-facing surface: it resolves a
// dataset request to a canonical file number, picks the local or remote
// source, and returns one decoded table regardless of which path
// supplied the bytes.
package retrieve

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/meshintel/meps-engine/internal/fetch"
	"github.com/meshintel/meps-engine/internal/request"
	"github.com/meshintel/meps-engine/internal/source"
	"github.com/meshintel/meps-engine/internal/table"
	"github.com/meshintel/meps-engine/internal/xport"
)

// Error kinds surfaced by Read, matched with errors.Is. The underlying
// cause is always wrapped alongside.
var (
	// ErrInvalidRequest mirrors the request package's validation error.
	ErrInvalidRequest = request.ErrInvalid

	// ErrLocalRead reports a file the selector confirmed present that
	// then failed to open or decode. Never converted to a remote fetch.
	ErrLocalRead = errors.New("local read failed")

	// ErrRemoteFetch reports a failed remote fetch. No retry happens at
	// this layer; the fetcher owns its own 429 backoff.
	ErrRemoteFetch = errors.New("remote fetch failed")

	// ErrDecode reports fetched bytes that did not parse as a transport
	// file.
	ErrDecode = errors.New("decode failed")
)

// Options configures a single Read call.
type Options struct {
	// Dir is the local cache directory ("." when empty).
	Dir string

	// PreferRemote skips the local probe entirely.
	PreferRemote bool

	// Fetcher supplies the remote branch. Required unless every lookup
	// is a local hit.
	Fetcher fetch.Fetcher

	// Notify receives the selector's informational and warning notices.
	// May be nil.
	Notify source.NotifyFunc
}

// Outcome describes which branch produced the table. Observational
// only; it never differs in shape between branches.
type Outcome struct {
	// Identifier is the resolved canonical file number.
	Identifier string

	// Local is true for a cache hit.
	Local bool

	// Path is the transport file the table was decoded from.
	Path string
}

// Read resolves req, selects a source, and decodes the transport file
// into a table. Each call is independent: no state is carried between
// calls, and exactly one attempt is made on whichever branch was
// chosen.
func Read(ctx context.Context, req request.Request, opts Options) (*table.Table, Outcome, error) {
	id, err := req.Resolve(opts.PreferRemote)
	if err != nil {
		return nil, Outcome{}, err
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	loc := source.Select(id, dir, opts.PreferRemote, opts.Notify)
	if loc.Local {
		path := filepath.Join(loc.Dir, loc.File)
		tbl, err := xport.DecodeFile(path)
		if err != nil {
			// The selector saw the file; failing now is fatal, with no
			// remote fallback.
			return nil, Outcome{}, fmt.Errorf("%w: %s: %w", ErrLocalRead, path, err)
		}
		return tbl, Outcome{Identifier: id, Local: true, Path: path}, nil
	}

	if opts.Fetcher == nil {
		return nil, Outcome{}, fmt.Errorf("%w: no fetcher configured for %s", ErrRemoteFetch, id)
	}
	path, err := opts.Fetcher.Fetch(ctx, id)
	if err != nil {
		return nil, Outcome{}, fmt.Errorf("%w: %s: %w", ErrRemoteFetch, id, err)
	}
	tbl, err := xport.DecodeFile(path)
	if err != nil {
		return nil, Outcome{}, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return tbl, Outcome{Identifier: id, Path: path}, nil
}
