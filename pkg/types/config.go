package types

import (
	"fmt"
	"strings"
	"time"
)

// HTTPConfig holds shared HTTP settings for components that talk to the
// download site.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "meps-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RetrievalConfig holds settings for dataset retrieval.
type RetrievalConfig struct {
	HTTPConfig `yaml:",inline"`

	// CacheDir is the local directory probed for cached transport files
	// and written to by the fetcher (default: current directory).
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// BaseURL is the public-use-file download endpoint. Declared here so
	// tests and mirror deployments can point elsewhere.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// PreferRemote skips the local cache probe and always fetches.
	PreferRemote bool `json:"prefer_remote" yaml:"prefer_remote"`

	// S3Bucket, when set, selects the S3 mirror fetcher instead of the
	// public download site.
	S3Bucket string `json:"s3_bucket,omitempty" yaml:"s3_bucket,omitempty"`

	// S3Prefix is an optional key prefix inside the mirror bucket.
	S3Prefix string `json:"s3_prefix,omitempty" yaml:"s3_prefix,omitempty"`
}

// CatalogConfig holds settings for the local cache catalog.
type CatalogConfig struct {
	// Dir is the directory containing catalog.db and metadata sidecars.
	// Usually the same as RetrievalConfig.CacheDir.
	Dir string `json:"dir" yaml:"dir"`

	// Disabled turns off catalog recording entirely.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// ExportFormat selects the tabular export format.
type ExportFormat string

const (
	ExportJSONL   ExportFormat = "jsonl"
	ExportCSV     ExportFormat = "csv"
	ExportParquet ExportFormat = "parquet"
)

// ParseExportFormat converts a user-supplied format name to an
// ExportFormat, accepting any letter case.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(s)); f {
	case ExportJSONL, ExportCSV, ExportParquet:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (valid: jsonl, csv, parquet)", s)
	}
}

// ExportConfig holds settings for table export.
type ExportConfig struct {
	// Format selects the output format: jsonl, csv, or parquet.
	Format ExportFormat `json:"format" yaml:"format"`

	// Compress gzips the output. Ignored for parquet, which carries its
	// own internal compression.
	Compress bool `json:"compress" yaml:"compress"`
}

// EngineConfig groups all configuration for the CLI.
type EngineConfig struct {
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Catalog   CatalogConfig   `json:"catalog" yaml:"catalog"`
	Export    ExportConfig    `json:"export" yaml:"export"`
}
