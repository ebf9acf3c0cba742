// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source decides where a dataset's bytes come from: an existing
// file in the local cache directory, or a remote fetch. The decision is
// made once per request and reported through structured notices.
package source

import (
	"fmt"
	"os"
	"strings"
)

// Extension is the transport-file suffix appended to bare identifiers
// when probing the local directory.
const Extension = ".ssp"

// Location is the selected source for one request: exactly one of the
// local or remote branches, fixed at selection time.
type Location struct {
	// Local is true for a cache hit.
	Local bool

	// Dir and File name the cached transport file when Local is true.
	Dir  string
	File string

	// Identifier is the canonical file number, used as the remote fetch
	// key when Local is false.
	Identifier string
}

// CandidateFilename normalizes an identifier to the filename probed in
// the local directory: the transport extension is appended unless the
// identifier already carries it in any case.
func CandidateFilename(id string) string {
	if strings.HasSuffix(strings.ToLower(id), Extension) {
		return id
	}
	return id + Extension
}

// Select chooses the source location for id. With preferRemote set it
// returns the remote branch without touching the filesystem and without
// emitting notices. Otherwise it lists localDir and matches the
// candidate filename against the entries, case-insensitively and
// exactly. A hit emits an informational notice; a miss emits a warning
// and falls back to the remote branch. An unreadable or missing
// localDir is treated identically to a miss, never as a failure.
func Select(id, localDir string, preferRemote bool, notify NotifyFunc) Location {
	if preferRemote {
		return Location{Identifier: id}
	}

	candidate := CandidateFilename(id)
	if entry, ok := matchEntry(localDir, candidate); ok {
		notify.emit(Notice{
			Kind:       NoticeInfo,
			Message:    fmt.Sprintf("loading %s from %s", entry, localDir),
			Identifier: id,
		})
		return Location{Local: true, Dir: localDir, File: entry, Identifier: id}
	}

	notify.emit(Notice{
		Kind:       NoticeWarning,
		Message:    fmt.Sprintf("%s not found in %s, retrieving from remote source", candidate, localDir),
		Identifier: id,
	})
	return Location{Identifier: id}
}

// matchEntry looks for a regular entry in dir equal to name under case
// folding and returns the entry's actual spelling, so a hit can be
// opened on case-sensitive filesystems. Listing errors count as "not
// present".
func matchEntry(dir, name string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	folded := strings.ToLower(name)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(entry.Name()) == folded {
			return entry.Name(), true
		}
	}
	return "", false
}
