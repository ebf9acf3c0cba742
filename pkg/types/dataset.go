// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DatasetSource identifies where a dataset's bytes came from.
type DatasetSource string

const (
	SourceLocal DatasetSource = "local"
	SourceWeb   DatasetSource = "web"
	SourceS3    DatasetSource = "s3"
)

// DatasetRecord holds metadata for a dataset that passed through the
// engine. It is written as a YAML sidecar next to fetched files and
// upserted into the cache catalog.
type DatasetRecord struct {
	// ID is the canonical public-use-file number (e.g. "h171").
	ID string `json:"id" yaml:"id"`

	// Year is the data year, when the dataset was requested by
	// (year, type) rather than by explicit identifier.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// FileType is the textual file type (e.g. "FYC"), when known.
	FileType string `json:"file_type,omitempty" yaml:"file_type,omitempty"`

	// Path is the local filesystem path to the transport file.
	Path string `json:"path" yaml:"path"`

	// Source records which branch produced the bytes.
	Source DatasetSource `json:"source" yaml:"source"`

	// SourceURL is the remote URL or S3 key the file was fetched from.
	// Empty for local cache hits.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// FetchedAt is when the bytes were obtained.
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`

	// Rows and Columns describe the decoded table.
	Rows    int `json:"rows" yaml:"rows"`
	Columns int `json:"columns" yaml:"columns"`

	// SizeBytes is the on-disk size of the transport file, when known.
	SizeBytes int64 `json:"size_bytes,omitempty" yaml:"size_bytes,omitempty"`
}
