// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockS3 serves objects from an in-memory map and records requested keys.
type mockS3 struct {
	objects map[string]string
	keys    []string
}

func (m *mockS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := *params.Key
	m.keys = append(m.keys, key)
	content, ok := m.objects[key]
	if !ok {
		return nil, &noSuchKeyError{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(content))}, nil
}

// noSuchKeyError mimics the smithy API error the SDK returns for a
// missing object.
type noSuchKeyError struct{}

func (e *noSuchKeyError) Error() string        { return "NoSuchKey: The specified key does not exist." }
func (e *noSuchKeyError) ErrorCode() string    { return "NoSuchKey" }
func (e *noSuchKeyError) ErrorMessage() string { return "The specified key does not exist." }
func (e *noSuchKeyError) ErrorFault() smithy.ErrorFault {
	return smithy.FaultClient
}

var _ smithy.APIError = (*noSuchKeyError)(nil)

func TestS3FetcherFetch(t *testing.T) {
	mock := &mockS3{objects: map[string]string{"mirror/h171.ssp": transportContent}}
	dir := t.TempDir()
	f := &S3Fetcher{Client: mock, Bucket: "puf-mirror", Prefix: "mirror", Dir: dir}

	path, err := f.Fetch(context.Background(), "H171")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "h171.ssp"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, transportContent, string(data))
	assert.Equal(t, []string{"mirror/h171.ssp"}, mock.keys)
}

func TestS3FetcherIdempotent(t *testing.T) {
	mock := &mockS3{objects: map[string]string{"h171.ssp": transportContent}}
	f := &S3Fetcher{Client: mock, Bucket: "puf-mirror", Dir: t.TempDir()}

	_, err := f.Fetch(context.Background(), "h171")
	require.NoError(t, err)
	_, err = f.Fetch(context.Background(), "h171")
	require.NoError(t, err)

	assert.Len(t, mock.keys, 1, "second fetch must not hit S3")
}

func TestS3FetcherMissingObject(t *testing.T) {
	mock := &mockS3{objects: map[string]string{}}
	f := &S3Fetcher{Client: mock, Bucket: "puf-mirror", Dir: t.TempDir()}

	_, err := f.Fetch(context.Background(), "h999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestS3FetcherKey(t *testing.T) {
	f := &S3Fetcher{Prefix: "meps/pufs"}
	assert.Equal(t, "meps/pufs/h171.ssp", f.Key("H171"))

	bare := &S3Fetcher{}
	assert.Equal(t, "h171.ssp", bare.Key("h171"))
}
