// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3API is the subset of the S3 client used by the mirror fetcher,
// kept narrow so tests can substitute a mock.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher retrieves transport files from an S3-compatible mirror
// bucket. Organizations that bulk-mirror the public-use files keep the
// extracted ".ssp" objects under a common prefix; no zip handling is
// involved.
type S3Fetcher struct {
	// Client must be pre-configured with credentials, region, and
	// endpoint (aws-sdk-go-v2/config).
	Client S3API

	// Bucket is the mirror bucket name. Required.
	Bucket string

	// Prefix is an optional key prefix inside the bucket.
	Prefix string

	// Dir is where fetched transport files land.
	Dir string
}

// Key returns the object key for id.
func (f *S3Fetcher) Key(id string) string {
	return path.Join(f.Prefix, strings.ToLower(id)+".ssp")
}

// Fetch downloads the transport object for id into Dir, returning its
// local path. An already-present file is returned without a request.
func (f *S3Fetcher) Fetch(ctx context.Context, id string) (string, error) {
	dest := filepath.Join(f.Dir, strings.ToLower(id)+".ssp")
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", f.Dir, err)
	}

	key := f.Key(id)
	out, err := f.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound") {
			return "", fmt.Errorf("s3://%s/%s does not exist: %w", f.Bucket, key, err)
		}
		return "", fmt.Errorf("fetching s3://%s/%s: %w", f.Bucket, key, err)
	}
	defer out.Body.Close()

	tmpPath, err := spool(out.Body, f.Dir, ".s3-fetch-*.ssp")
	if err != nil {
		return "", err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return dest, nil
}
