// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package request models a dataset request: either an explicit
// public-use-file number, or a (year, file type) pair resolved through
// the names table. Requests are built through validating constructors
// so an empty request is rejected before any I/O happens.
package request

import (
	"errors"
	"fmt"

	"github.com/meshintel/meps-engine/internal/names"
)

// ErrInvalid reports a request with neither an identifier nor a
// complete (year, file type) pair.
var ErrInvalid = errors.New("invalid dataset request")

// Request names a dataset. The zero value is invalid; use ByIdentifier
// or ByYearType. Immutable after construction.
type Request struct {
	identifier string
	year       int
	fileType   names.FileType
}

// ByIdentifier builds a request for an explicit file number such as
// "h171". The identifier is kept verbatim; case and extension
// normalization happen at selection time.
func ByIdentifier(id string) (Request, error) {
	if id == "" {
		return Request{}, fmt.Errorf("%w: empty identifier", ErrInvalid)
	}
	return Request{identifier: id}, nil
}

// ByYearType builds a request for a (data year, file type) pair.
func ByYearType(year int, fileType names.FileType) (Request, error) {
	if year == 0 || fileType == "" {
		return Request{}, fmt.Errorf("%w: year and file type are both required", ErrInvalid)
	}
	return Request{year: year, fileType: fileType}, nil
}

// Identifier returns the explicit identifier, or "" for a year/type
// request.
func (r Request) Identifier() string { return r.identifier }

// YearType returns the (year, file type) pair, zero-valued for an
// explicit-identifier request.
func (r Request) YearType() (int, names.FileType) { return r.year, r.fileType }

// Resolve turns the request into a canonical file number. An explicit
// identifier wins and is returned unchanged; otherwise the names table
// is consulted with the remote preference. A zero-value Request fails
// with ErrInvalid before any lookup.
func (r Request) Resolve(remotePreferred bool) (string, error) {
	if r.identifier != "" {
		return r.identifier, nil
	}
	if r.year == 0 || r.fileType == "" {
		return "", fmt.Errorf("%w: supply an identifier or a (year, file type) pair", ErrInvalid)
	}
	id, err := names.Lookup(r.year, r.fileType, remotePreferred)
	if err != nil {
		return "", fmt.Errorf("resolving (%d, %s): %w", r.year, r.fileType, err)
	}
	return id, nil
}
